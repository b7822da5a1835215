package types

import (
	"errors"
	"time"
)

// TimelineEntry is one run's position in the cross-run timeline, carrying
// enough of the run's outcome to render the entry without chasing the
// full result.
type TimelineEntry struct {
	Timestamp time.Time    `json:"timestamp"`
	RunID     string       `json:"run_id"`
	RunNumber int          `json:"run_number,omitempty"`
	Workflow  WorkflowType `json:"workflow"`
	Branch    string       `json:"branch"`
	Commit    string       `json:"commit"`
	Errors    int          `json:"errors"`
	Warnings  int          `json:"warnings"`
	Findings  int          `json:"findings"`
}

// ShortCommit returns the commit truncated to seven characters for display.
func (t *TimelineEntry) ShortCommit() string {
	if len(t.Commit) > 7 {
		return t.Commit[:7]
	}
	return t.Commit
}

// Rollup aggregates counters across every run of one workflow type.
// Findings is the total security-issue count for the type, classified
// events plus auxiliary findings.
type Rollup struct {
	Workflow WorkflowType   `json:"workflow"`
	Runs     int            `json:"runs"`
	Counts   CategoryCounts `json:"counts"`
	Findings int            `json:"findings"`
	Latest   time.Time      `json:"latest"`
}

// IntegrationFinding records one correlated security-scan/compliance run
// pair together with a severity-derived note about what the pair showed.
type IntegrationFinding struct {
	Day              string `json:"day"`
	SecurityRun      string `json:"security_run"`
	ComplianceRun    string `json:"compliance_run"`
	SecurityIssues   int    `json:"security_issues"`
	ComplianceErrors int    `json:"compliance_errors"`
	Note             string `json:"note"`
}

// ComparativeReport is the frozen outcome of cross-run aggregation. The
// result collection shares the timeline's order; skipped runs are listed
// but excluded from every derived structure. Constructed once from a
// finalized result set and never partially updated.
type ComparativeReport struct {
	ID              string               `json:"id"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Results         []AnalysisResult     `json:"results"`
	Skipped         []string             `json:"skipped,omitempty"`
	Timeline        []TimelineEntry      `json:"timeline"`
	Rollups         []Rollup             `json:"rollups"`
	Integrations    []IntegrationFinding `json:"integrations,omitempty"`
	Recommendations []string             `json:"recommendations"`
	Caveats         []string             `json:"caveats,omitempty"`
}

// TotalCounts sums category counters across every included run.
func (r *ComparativeReport) TotalCounts() CategoryCounts {
	var c CategoryCounts
	for i := range r.Results {
		c.Merge(r.Results[i].Counts())
	}
	return c
}

// TotalSecurityIssues sums classified security events and auxiliary
// findings across every included run.
func (r *ComparativeReport) TotalSecurityIssues() int {
	total := 0
	for i := range r.Results {
		total += r.Results[i].SecurityIssueCount()
	}
	return total
}

// RollupFor returns the rollup for a workflow type, or nil when no included
// run has that type.
func (r *ComparativeReport) RollupFor(w WorkflowType) *Rollup {
	for i := range r.Rollups {
		if r.Rollups[i].Workflow == w {
			return &r.Rollups[i]
		}
	}
	return nil
}

// Window returns the earliest and latest run timestamps in the timeline.
func (r *ComparativeReport) Window() (time.Time, time.Time) {
	if len(r.Timeline) == 0 {
		return time.Time{}, time.Time{}
	}
	return r.Timeline[0].Timestamp, r.Timeline[len(r.Timeline)-1].Timestamp
}

// Validate checks the construction invariants: a non-empty ordered result
// set and a timeline with non-decreasing timestamps.
func (r *ComparativeReport) Validate() error {
	if len(r.Results) == 0 {
		return errors.New("comparative report requires at least one run")
	}
	if len(r.Timeline) != len(r.Results) {
		return errors.New("timeline must cover every included run")
	}
	for i := 1; i < len(r.Timeline); i++ {
		if r.Timeline[i].Timestamp.Before(r.Timeline[i-1].Timestamp) {
			return errors.New("timeline timestamps must be non-decreasing")
		}
	}
	return nil
}
