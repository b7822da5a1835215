package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yairfalse/sampo/pkg/types"
)

// Rule pairs a category with its match predicate and an optional field
// extractor. Rules are evaluated in slice order and the first match wins,
// so priority lives in the data, not in control flow.
//
// Predicates are classification heuristics over log text, nothing more.
// They are not input sanitization and must never be used to validate the
// substrings they match.
type Rule struct {
	Category types.EventCategory
	Match    func(raw, lower string) bool
	Extract  func(raw, lower string, ev *types.LogEvent)
}

// Classifier maps single log lines to events using an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New returns a classifier with the default rule table:
// error > warning > security_finding > api_call > file_operation >
// metadata_load > step_transition.
func New() *Classifier {
	return &Classifier{rules: defaultRules()}
}

// NewWithRules returns a classifier over a caller-supplied table. Useful
// for extending the taxonomy without touching the evaluation loop.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps one raw line to at most one event, without a line number.
// ok is false when no rule matched; callers record such lines as
// unclassified so nothing is discarded. Pure and deterministic: no I/O, no
// shared state. The workflow hint lets one classifier serve streams from
// every pipeline; the default rule set applies to all of them.
func (c *Classifier) Classify(line string, workflow types.WorkflowType) (types.LogEvent, bool) {
	raw := strings.TrimSpace(line)
	lower := strings.ToLower(raw)

	for i := range c.rules {
		r := &c.rules[i]
		if r.Match(raw, lower) {
			ev := types.LogEvent{Category: r.Category, Text: raw}
			if r.Extract != nil {
				r.Extract(raw, lower, &ev)
			}
			return ev, true
		}
	}
	return types.LogEvent{}, false
}

var (
	cweRe    = regexp.MustCompile(`(?i)\bCWE-\d+\b`)
	statusRe = regexp.MustCompile(`(?i)status\D{0,10}(\d{3})\b`)
)

// Archival verbs that mark a file operation when the line also carries a
// path-shaped token.
var fileOpVerbs = []string{"archived", "mkdir", "cp ", "mv ", "moved"}

// Companies House endpoint markers for compliance API traffic.
var apiHosts = []string{
	"api.company-information.service.gov.uk",
	"api-sandbox",
}

func defaultRules() []Rule {
	return []Rule{
		{
			Category: types.CategoryError,
			Match: func(raw, lower string) bool {
				return strings.Contains(raw, "❌") ||
					strings.Contains(lower, "error") ||
					strings.Contains(lower, "failed")
			},
		},
		{
			Category: types.CategoryWarning,
			Match: func(raw, lower string) bool {
				return strings.Contains(raw, "⚠") || strings.Contains(lower, "warning")
			},
		},
		{
			Category: types.CategorySecurityFinding,
			Match: func(raw, lower string) bool {
				return cweRe.MatchString(raw) ||
					strings.Contains(lower, "vulnerability") ||
					strings.Contains(lower, "finding")
			},
			Extract: extractSecurity,
		},
		{
			Category: types.CategoryAPICall,
			Match: func(raw, lower string) bool {
				for _, host := range apiHosts {
					if strings.Contains(lower, host) {
						return true
					}
				}
				return false
			},
			Extract: extractStatus,
		},
		{
			Category: types.CategoryFileOperation,
			Match:    matchFileOperation,
			Extract:  extractPath,
		},
		{
			Category: types.CategoryMetadataLoad,
			Match: func(raw, lower string) bool {
				if strings.Contains(lower, "config/metadata.yml") {
					return true
				}
				return strings.Contains(lower, "metadata") && strings.Contains(lower, "load")
			},
		},
		{
			Category: types.CategoryStepTransition,
			Match: func(raw, lower string) bool {
				return strings.Contains(raw, "##[") || strings.HasPrefix(lower, "name:")
			},
		},
	}
}

func matchFileOperation(raw, lower string) bool {
	if !containsVerb(lower) {
		return false
	}
	for _, tok := range strings.Fields(raw) {
		if strings.Contains(tok, "/") {
			return true
		}
	}
	return false
}

func containsVerb(lower string) bool {
	for _, v := range fileOpVerbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// extractPath pulls the first path-shaped token at or after the archival
// verb. Extraction is best-effort: failure leaves the field empty without
// failing classification.
func extractPath(raw, lower string, ev *types.LogEvent) {
	start := len(raw)
	for _, v := range fileOpVerbs {
		if i := strings.Index(lower, v); i >= 0 && i < start {
			start = i
		}
	}
	if start >= len(raw) {
		start = 0
	}
	for _, tok := range strings.Fields(raw[start:]) {
		if strings.Contains(tok, "/") {
			ev.Path = strings.Trim(tok, "`\"'(),.;:!?")
			return
		}
	}
}

func extractStatus(raw, lower string, ev *types.LogEvent) {
	m := statusRe.FindStringSubmatch(raw)
	if m == nil {
		return
	}
	if code, err := strconv.Atoi(m[1]); err == nil {
		ev.Status = code
	}
}

func extractSecurity(raw, lower string, ev *types.LogEvent) {
	if m := cweRe.FindString(raw); m != "" {
		ev.CWE = strings.ToUpper(m)
	}
	if s := types.DetectSeverity(lower); s != types.SeverityUnknown {
		ev.Severity = s
	}
}
