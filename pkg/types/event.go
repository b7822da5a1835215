package types

import (
	"regexp"
	"strings"
)

// EventCategory classifies one log line. The set is closed; unclassified is
// the audit bucket for lines no semantic rule matched.
type EventCategory string

const (
	CategoryError           EventCategory = "error"
	CategoryWarning         EventCategory = "warning"
	CategorySecurityFinding EventCategory = "security_finding"
	CategoryAPICall         EventCategory = "api_call"
	CategoryFileOperation   EventCategory = "file_operation"
	CategoryMetadataLoad    EventCategory = "metadata_load"
	CategoryStepTransition  EventCategory = "step_transition"
	CategoryUnclassified    EventCategory = "unclassified"
)

// AllCategories returns every category in classification priority order,
// unclassified last.
func AllCategories() []EventCategory {
	return []EventCategory{
		CategoryError,
		CategoryWarning,
		CategorySecurityFinding,
		CategoryAPICall,
		CategoryFileOperation,
		CategoryMetadataLoad,
		CategoryStepTransition,
		CategoryUnclassified,
	}
}

// String returns the enum literal.
func (c EventCategory) String() string {
	return string(c)
}

// Severity grades a security finding. Unknown ranks below low so findings
// with unparseable severity never trip threshold rules on their own.
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the ordering value used for threshold comparison.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// AtLeast reports whether s meets or exceeds min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// String returns the enum literal.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity is lenient: anything unrecognized is unknown.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return SeverityLow
	case "medium", "moderate":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	}
	return SeverityUnknown
}

var severityWordRe = regexp.MustCompile(`(?i)\b(critical|high|medium|low)\b`)

// DetectSeverity scans free text for severity words and returns the
// highest one mentioned. Word boundaries keep substrings like "overflow"
// from reading as "low".
func DetectSeverity(text string) Severity {
	best := SeverityUnknown
	for _, match := range severityWordRe.FindAllString(text, -1) {
		if s := ParseSeverity(match); s.Rank() > best.Rank() {
			best = s
		}
	}
	return best
}

// LogEvent is one classified, line-numbered unit of information from a
// run's log. Extracted fields are best-effort and present only when the
// category's extractor found them.
type LogEvent struct {
	Line     int           `json:"line"`
	Category EventCategory `json:"category"`
	Text     string        `json:"text"`
	Path     string        `json:"path,omitempty"`
	Status   int           `json:"status,omitempty"`
	CWE      string        `json:"cwe,omitempty"`
	Severity Severity      `json:"severity,omitempty"`
	Step     string        `json:"step,omitempty"`
}

// CategoryCounts tallies events per category. Counts are always derived
// from an event sequence, never stored as independent state.
type CategoryCounts struct {
	Errors           int `json:"errors"`
	Warnings         int `json:"warnings"`
	SecurityFindings int `json:"security_findings"`
	APICalls         int `json:"api_calls"`
	FileOperations   int `json:"file_operations"`
	MetadataLoads    int `json:"metadata_loads"`
	StepTransitions  int `json:"step_transitions"`
	Unclassified     int `json:"unclassified"`
}

// Add increments the counter for cat.
func (c *CategoryCounts) Add(cat EventCategory) {
	switch cat {
	case CategoryError:
		c.Errors++
	case CategoryWarning:
		c.Warnings++
	case CategorySecurityFinding:
		c.SecurityFindings++
	case CategoryAPICall:
		c.APICalls++
	case CategoryFileOperation:
		c.FileOperations++
	case CategoryMetadataLoad:
		c.MetadataLoads++
	case CategoryStepTransition:
		c.StepTransitions++
	case CategoryUnclassified:
		c.Unclassified++
	}
}

// Merge adds every counter from other into c.
func (c *CategoryCounts) Merge(other CategoryCounts) {
	c.Errors += other.Errors
	c.Warnings += other.Warnings
	c.SecurityFindings += other.SecurityFindings
	c.APICalls += other.APICalls
	c.FileOperations += other.FileOperations
	c.MetadataLoads += other.MetadataLoads
	c.StepTransitions += other.StepTransitions
	c.Unclassified += other.Unclassified
}

// Of returns the counter for cat.
func (c CategoryCounts) Of(cat EventCategory) int {
	switch cat {
	case CategoryError:
		return c.Errors
	case CategoryWarning:
		return c.Warnings
	case CategorySecurityFinding:
		return c.SecurityFindings
	case CategoryAPICall:
		return c.APICalls
	case CategoryFileOperation:
		return c.FileOperations
	case CategoryMetadataLoad:
		return c.MetadataLoads
	case CategoryStepTransition:
		return c.StepTransitions
	case CategoryUnclassified:
		return c.Unclassified
	}
	return 0
}

// Total sums every counter, unclassified included.
func (c CategoryCounts) Total() int {
	return c.Errors + c.Warnings + c.SecurityFindings + c.APICalls +
		c.FileOperations + c.MetadataLoads + c.StepTransitions + c.Unclassified
}
