package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/sampo/internal/analyzer"
	"github.com/yairfalse/sampo/internal/artifact"
	"github.com/yairfalse/sampo/internal/output"
	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

// writeRun lays out one run directory the way the CI download step does.
func writeRun(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for file, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
	}
}

func fixtureArtifacts(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeRun(t, root, "codeql-100", map[string]string{
		"workflow-metadata.json": `{
			"workflow": "CodeQL Analysis",
			"run_id": "100",
			"run_number": 12,
			"timestamp": "2025-11-10T09:00:00Z",
			"ref_name": "main",
			"sha": "a1b2c3d4e5f678901234567890abcdef12345678"
		}`,
		"run.log": strings.Join([]string{
			"##[group]Initialize CodeQL",
			"Scanning repository",
			"Potential vulnerability CWE-79 detected (high)",
			"##[group]Finalize",
			"Analysis complete",
		}, "\n"),
		"codeql-summary.txt": strings.Join([]string{
			"CodeQL Scan Summary",
			"=== Findings ===",
			"- Reflected cross-site scripting, high severity",
		}, "\n"),
	})

	writeRun(t, root, "compliance-live-200", map[string]string{
		"workflow-metadata.json": `{
			"workflow": "Compliance Check (Companies House - Live)",
			"run_id": "200",
			"run_number": 34,
			"timestamp": "2025-11-10T15:00:00Z",
			"ref_name": "main",
			"sha": "a1b2c3d4e5f678901234567890abcdef12345678"
		}`,
		"run.log": strings.Join([]string{
			"[2025-11-10 15:00:03] Loading metadata from config/metadata.yml",
			"GET https://api.company-information.service.gov.uk/company/00000006 status 200",
			"Response archived at data/responses/response_live_20251110_1500.json",
			"❌ Ledger push failed: remote rejected",
		}, "\n"),
		"response_live_20251110_1500.json": `{
			"company_name": "Example Ltd",
			"company_number": "00000006",
			"company_status": "active",
			"type": "ltd",
			"date_of_creation": "1990-05-01"
		}`,
		"repository-structure.txt": strings.Join([]string{
			"* main",
			"Commit: a1b2c3d",
			"Total files: 42",
		}, "\n"),
	})

	// a run with unreadable metadata: must be skipped, not fatal
	writeRun(t, root, "broken-300", map[string]string{
		"workflow-metadata.json": "{not json",
		"run.log":                "hello",
	})

	return root
}

func TestArtifactsToComparativeReport(t *testing.T) {
	root := fixtureArtifacts(t)

	reader := artifact.NewReader(nil)
	runs, skipped, err := reader.LoadAll(root)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"broken-300"}, skipped)

	results, err := analyzer.NewAnalyzer(nil).AnalyzeAll(context.Background(), runs, 2)
	require.NoError(t, err)

	aggregator := analyzer.NewAggregator(nil).WithEnvelope(
		func() time.Time { return time.Date(2025, 11, 12, 8, 0, 0, 0, time.UTC) },
		func() string { return "report-itest" },
	)
	comparative, err := aggregator.Aggregate(results, skipped)
	require.NoError(t, err)
	require.NoError(t, comparative.Validate())

	// timeline: security scan at 09:00 before compliance at 15:00
	require.Len(t, comparative.Timeline, 2)
	assert.Equal(t, "100", comparative.Timeline[0].RunID)
	assert.Equal(t, types.WorkflowSecurityScan, comparative.Timeline[0].Workflow)
	assert.Equal(t, "200", comparative.Timeline[1].RunID)
	assert.Equal(t, types.WorkflowComplianceLive, comparative.Timeline[1].Workflow)

	// same UTC day: one correlated pair
	require.Len(t, comparative.Integrations, 1)
	assert.Equal(t, "100", comparative.Integrations[0].SecurityRun)
	assert.Equal(t, "200", comparative.Integrations[0].ComplianceRun)

	// compliance errors plus a high finding: both recommendations fire
	assert.Contains(t, comparative.Recommendations, analyzer.AdviceComplianceFailures)
	assert.Contains(t, comparative.Recommendations, analyzer.AdviceSecurityFindings)
	assert.Contains(t, comparative.Recommendations, analyzer.AdviceSkippedRuns)

	sections := report.NewAssembler().AssembleComparative(comparative)
	require.Len(t, sections, 9)

	renderer, err := output.NewRenderer("markdown")
	require.NoError(t, err)
	document, err := renderer.RenderComparative(comparative, sections)
	require.NoError(t, err)

	text := string(document)
	assert.Contains(t, text, "## Execution Timeline")
	assert.Contains(t, text, "Example Ltd")
	assert.Contains(t, text, "broken-300")
	assert.Contains(t, text, "Reflected cross-site scripting")
}

func TestSingleRunPath(t *testing.T) {
	root := fixtureArtifacts(t)

	run, err := artifact.NewReader(nil).LoadRun(filepath.Join(root, "compliance-live-200"))
	require.NoError(t, err)

	result := analyzer.NewAnalyzer(nil).AnalyzeRun(run)
	require.NoError(t, result.Validate())

	counts := result.Counts()
	assert.Equal(t, 1, counts.Errors)
	assert.Equal(t, 1, counts.APICalls)
	assert.Equal(t, 1, counts.FileOperations)
	assert.Equal(t, 4, result.TotalLines())

	// metadata falls through to the structure snapshot for file totals
	require.NotNil(t, result.Structure)
	assert.Equal(t, 42, result.Structure.TotalFiles)

	sections := report.NewAssembler().AssembleRun(result)
	renderer, err := output.NewRenderer("markdown")
	require.NoError(t, err)
	document, err := renderer.RenderRun(result, sections)
	require.NoError(t, err)

	text := string(document)
	assert.Contains(t, text, "# Workflow Run Analysis: 200")
	assert.Contains(t, text, "path=data/responses/response_live_20251110_1500.json")
}

func TestEmptyDirectoryFailsComparativePath(t *testing.T) {
	_, err := analyzer.NewAggregator(nil).Aggregate(nil, nil)
	require.Error(t, err)
}
