package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/internal/logger"
	"github.com/yairfalse/sampo/pkg/types"
)

// Aggregator correlates finalized per-run results into one comparative
// report. The semantic payload is a pure function of (results, skipped,
// minimum severity, policy); only the envelope fields draw from the id
// and clock sources.
type Aggregator struct {
	minSeverity types.Severity
	policy      CorrelationPolicy
	logger      logger.Logger
	now         func() time.Time
	newID       func() string
}

// NewAggregator creates an aggregator with the default same-day policy
// and medium severity threshold.
func NewAggregator(log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewSimple()
	}
	return &Aggregator{
		minSeverity: types.SeverityMedium,
		policy:      SameDayPolicy{},
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// WithMinSeverity sets the severity threshold for the security
// recommendation rule.
func (g *Aggregator) WithMinSeverity(s types.Severity) *Aggregator {
	g.minSeverity = s
	return g
}

// WithPolicy swaps the correlation policy.
func (g *Aggregator) WithPolicy(p CorrelationPolicy) *Aggregator {
	g.policy = p
	return g
}

// WithEnvelope pins the envelope sources. Tests use this to make reports
// comparable byte for byte.
func (g *Aggregator) WithEnvelope(now func() time.Time, newID func() string) *Aggregator {
	g.now = now
	g.newID = newID
	return g
}

// Aggregate builds the comparative report. It fails only when results is
// empty; skipped runs and per-run caveats are annotations, never errors.
// Everything derived is ordered deterministically, so the outcome does
// not depend on input order.
func (g *Aggregator) Aggregate(results []types.AnalysisResult, skipped []string) (*types.ComparativeReport, error) {
	if len(results) == 0 {
		return nil, sampoerrors.New(sampoerrors.ErrorTypeData, sampoerrors.StageAggregate, "No analyzable workflow runs found").
			WithCause("Aggregation requires at least one analyzed run").
			WithSolutions("Check the artifacts directory with: sampo runs").
			WithHelp("sampo compare --help")
	}

	sorted := sortResults(results)

	report := &types.ComparativeReport{
		ID:           g.newID(),
		GeneratedAt:  g.now(),
		Results:      sorted,
		Skipped:      sortedCopy(skipped),
		Timeline:     buildTimeline(sorted),
		Rollups:      buildRollups(sorted),
		Integrations: g.correlate(sorted),
		Caveats:      collectCaveats(sorted),
	}
	report.Recommendations = g.recommend(report)

	g.logger.WithFields(map[string]interface{}{
		"runs":         len(report.Results),
		"skipped":      len(report.Skipped),
		"integrations": len(report.Integrations),
	}).Debug("aggregated comparative report")

	return report, nil
}

// sortResults orders results by timestamp ascending with run id as the
// tie break, without mutating the caller's slice.
func sortResults(results []types.AnalysisResult) []types.AnalysisResult {
	sorted := make([]types.AnalysisResult, len(results))
	copy(sorted, results)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Metadata.Timestamp, sorted[j].Metadata.Timestamp
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return sorted[i].Metadata.RunID < sorted[j].Metadata.RunID
	})

	return sorted
}

func sortedCopy(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}

// buildTimeline projects the ordered results onto timeline entries.
func buildTimeline(sorted []types.AnalysisResult) []types.TimelineEntry {
	timeline := make([]types.TimelineEntry, 0, len(sorted))
	for i := range sorted {
		result := &sorted[i]
		counts := result.Counts()
		timeline = append(timeline, types.TimelineEntry{
			Timestamp: result.Metadata.Timestamp,
			RunID:     result.Metadata.RunID,
			RunNumber: result.Metadata.RunNumber,
			Workflow:  result.Metadata.Workflow,
			Branch:    result.Metadata.Branch,
			Commit:    result.Metadata.Commit,
			Errors:    counts.Errors,
			Warnings:  counts.Warnings,
			Findings:  result.SecurityIssueCount(),
		})
	}
	return timeline
}

// buildRollups partitions results by workflow type and sums their
// counters. The list is sorted by workflow type for stable output.
func buildRollups(sorted []types.AnalysisResult) []types.Rollup {
	byType := make(map[types.WorkflowType]*types.Rollup)

	for i := range sorted {
		result := &sorted[i]
		workflow := result.Metadata.Workflow

		rollup, ok := byType[workflow]
		if !ok {
			rollup = &types.Rollup{Workflow: workflow}
			byType[workflow] = rollup
		}

		rollup.Runs++
		rollup.Counts.Merge(result.Counts())
		rollup.Findings += result.SecurityIssueCount()
		if result.Metadata.Timestamp.After(rollup.Latest) {
			rollup.Latest = result.Metadata.Timestamp
		}
	}

	rollups := make([]types.Rollup, 0, len(byType))
	for _, rollup := range byType {
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].Workflow < rollups[j].Workflow
	})

	return rollups
}

// correlate pairs security runs with compliance runs under the policy.
// Pairs are generated in timeline order, security runs outermost.
func (g *Aggregator) correlate(sorted []types.AnalysisResult) []types.IntegrationFinding {
	var findings []types.IntegrationFinding

	for i := range sorted {
		security := &sorted[i]
		if security.Metadata.Workflow != types.WorkflowSecurityScan {
			continue
		}

		for j := range sorted {
			compliance := &sorted[j]
			if !compliance.Metadata.Workflow.IsCompliance() {
				continue
			}
			if !g.policy.Correlated(security.Metadata, compliance.Metadata) {
				continue
			}

			issues := security.SecurityIssueCount()
			failures := compliance.Counts().Errors
			findings = append(findings, types.IntegrationFinding{
				Day:              security.Metadata.Timestamp.UTC().Format("2006-01-02"),
				SecurityRun:      security.Metadata.RunID,
				ComplianceRun:    compliance.Metadata.RunID,
				SecurityIssues:   issues,
				ComplianceErrors: failures,
				Note:             integrationNote(issues, failures),
			})
		}
	}

	return findings
}

// integrationNote summarizes what a correlated pair showed.
func integrationNote(securityIssues, complianceErrors int) string {
	switch {
	case securityIssues > 0 && complianceErrors > 0:
		return "security findings and compliance failures landed on the same day"
	case securityIssues > 0:
		return "security findings present while compliance ran clean"
	case complianceErrors > 0:
		return "compliance failures while the security scan ran clean"
	default:
		return "both pipelines ran clean"
	}
}

// collectCaveats rolls per-run caveats up to the report, prefixed by run
// id so the report stays readable on its own.
func collectCaveats(sorted []types.AnalysisResult) []string {
	var caveats []string
	for i := range sorted {
		for _, caveat := range sorted[i].Caveats {
			caveats = append(caveats, fmt.Sprintf("run %s: %s", sorted[i].Metadata.RunID, caveat))
		}
	}
	return caveats
}
