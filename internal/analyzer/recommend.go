package analyzer

import (
	"github.com/yairfalse/sampo/pkg/types"
)

// Recommendation texts. The comparative report carries these verbatim.
const (
	AdviceComplianceFailures = "Investigate compliance failures"
	AdviceSecurityFindings   = "Review security findings"
	AdviceSkippedRuns        = "Recover metadata for skipped runs"
	AdviceScanCoverage       = "Add security scan coverage"
	AdviceNoAction           = "No action required"
)

// recommendationRule pairs a condition with the advice it emits.
type recommendationRule struct {
	Advice string
	Match  func(*types.ComparativeReport) bool
}

// recommend evaluates the rule table in order against the report being
// built. Rules are independent; every matching rule emits once. The
// no-action advice appears only when nothing else matched.
func (g *Aggregator) recommend(report *types.ComparativeReport) []string {
	rules := []recommendationRule{
		{Advice: AdviceComplianceFailures, Match: hasComplianceFailures},
		{Advice: AdviceSecurityFindings, Match: g.hasActionableFindings},
		{Advice: AdviceSkippedRuns, Match: hasSkippedRuns},
		{Advice: AdviceScanCoverage, Match: missingScanCoverage},
	}

	var recommendations []string
	for _, rule := range rules {
		if rule.Match(report) {
			recommendations = append(recommendations, rule.Advice)
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, AdviceNoAction)
	}
	return recommendations
}

// hasComplianceFailures fires when any compliance-type rollup recorded at
// least one error.
func hasComplianceFailures(report *types.ComparativeReport) bool {
	for i := range report.Rollups {
		rollup := &report.Rollups[i]
		if rollup.Workflow.IsCompliance() && rollup.Counts.Errors >= 1 {
			return true
		}
	}
	return false
}

// hasActionableFindings fires when security issues exist and any recorded
// severity reaches the configured minimum.
func (g *Aggregator) hasActionableFindings(report *types.ComparativeReport) bool {
	if report.TotalSecurityIssues() < 1 {
		return false
	}
	for i := range report.Results {
		if report.Results[i].MaxFindingSeverity().AtLeast(g.minSeverity) {
			return true
		}
	}
	return false
}

func hasSkippedRuns(report *types.ComparativeReport) bool {
	return len(report.Skipped) > 0
}

// missingScanCoverage fires when no security scan ran at all.
func missingScanCoverage(report *types.ComparativeReport) bool {
	return report.RollupFor(types.WorkflowSecurityScan) == nil
}
