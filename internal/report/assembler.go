package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yairfalse/sampo/pkg/types"
)

// maxEventsPerCategory caps the single-run event listings. Everything
// beyond the cap collapses into one overflow line.
const maxEventsPerCategory = 10

// Assembler maps frozen analysis values onto ordered section lists.
// Assembly carries no envelope (titles, timestamps, footers belong to the
// renderer), so assembling the same value twice yields identical sections.
type Assembler struct {
	policyNote string
}

// NewAssembler returns an assembler describing the default same-day
// correlation policy.
func NewAssembler() *Assembler {
	return &Assembler{
		policyNote: "Security and compliance runs are correlated when they execute on the same UTC calendar day.",
	}
}

// WithPolicyNote replaces the correlation statement shown in the
// integration section. Callers swapping the aggregation policy keep the
// report honest through this.
func (a *Assembler) WithPolicyNote(note string) *Assembler {
	a.policyNote = note
	return a
}

// AssembleComparative produces the nine comparative sections in contract
// order.
func (a *Assembler) AssembleComparative(report *types.ComparativeReport) []Section {
	return []Section{
		executiveSummary(report),
		workflowBreakdown(report),
		executionTimeline(report),
		securityAnalysis(report),
		complianceAnalysis(report),
		repositoryContext(report),
		a.integrationAnalysis(report),
		crossWorkflowInsights(report),
		recommendations(report),
	}
}

// AssembleRun produces the single-run sections: repository context, the
// count summary, one listing per non-empty category in classification
// priority order, then the auxiliary sections when they have content.
func (a *Assembler) AssembleRun(result *types.AnalysisResult) []Section {
	sections := []Section{
		runContext(result),
		eventCounts(result),
	}

	counts := result.Counts()
	for _, cat := range types.AllCategories() {
		if counts.Of(cat) == 0 {
			continue
		}
		sections = append(sections, categoryListing(result, cat))
	}

	if len(result.Findings) > 0 {
		sections = append(sections, artifactFindings(result))
	}
	if len(result.Compliance) > 0 {
		sections = append(sections, complianceChecks(result))
	}
	if len(result.Caveats) > 0 {
		sections = append(sections, Section{Title: TitleCaveats, Lines: append([]string(nil), result.Caveats...)})
	}

	return sections
}

func executiveSummary(report *types.ComparativeReport) Section {
	counts := report.TotalCounts()
	start, end := report.Window()

	lines := []string{
		fmt.Sprintf("Analyzed %d workflow runs across %d workflow types.", len(report.Results), len(report.Rollups)),
		fmt.Sprintf("Window: %s to %s (UTC).", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04")),
		fmt.Sprintf("Totals: %d errors, %d warnings, %d security issues.",
			counts.Errors, counts.Warnings, report.TotalSecurityIssues()),
	}

	for _, rollup := range report.Rollups {
		lines = append(lines, fmt.Sprintf("- %s: %d run(s)", workflowName(rollup.Workflow), rollup.Runs))
	}

	if len(report.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped %d run(s) with unreadable metadata: %s.",
			len(report.Skipped), strings.Join(report.Skipped, ", ")))
	}
	for _, caveat := range report.Caveats {
		lines = append(lines, "Caveat: "+caveat)
	}

	return Section{Title: TitleExecutiveSummary, Lines: lines}
}

func workflowBreakdown(report *types.ComparativeReport) Section {
	lines := []string{
		"| Workflow | Runs | Latest Run | Errors | Warnings | Findings |",
		"|----------|------|------------|--------|----------|----------|",
	}
	for _, rollup := range report.Rollups {
		lines = append(lines, fmt.Sprintf("| %s | %d | %s | %d | %d | %d |",
			workflowName(rollup.Workflow),
			rollup.Runs,
			rollup.Latest.Format("2006-01-02 15:04"),
			rollup.Counts.Errors,
			rollup.Counts.Warnings,
			rollup.Findings))
	}
	return Section{Title: TitleWorkflowBreakdown, Lines: lines}
}

func executionTimeline(report *types.ComparativeReport) Section {
	lines := []string{
		"| Timestamp | Workflow | Run | Branch | Commit | Errors |",
		"|-----------|----------|-----|--------|--------|--------|",
	}
	for i := range report.Timeline {
		entry := &report.Timeline[i]
		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %d |",
			entry.Timestamp.Format("2006-01-02 15:04"),
			workflowName(entry.Workflow),
			runLabel(entry.RunID, entry.RunNumber),
			entry.Branch,
			entry.ShortCommit(),
			entry.Errors))
	}
	return Section{Title: TitleExecutionTimeline, Lines: lines}
}

func securityAnalysis(report *types.ComparativeReport) Section {
	lines := []string{
		fmt.Sprintf("Total security issues: %d.", report.TotalSecurityIssues()),
	}

	sawScan := false
	for i := range report.Results {
		result := &report.Results[i]
		if result.Metadata.Workflow != types.WorkflowSecurityScan {
			continue
		}
		sawScan = true

		lines = append(lines, fmt.Sprintf("Run %s (%s):",
			result.Metadata.RunID, result.Metadata.Timestamp.Format("2006-01-02 15:04")))

		issues := 0
		for _, finding := range result.Findings {
			issues++
			lines = append(lines, "- "+findingLine(finding))
		}
		for _, ev := range result.EventsByCategory(types.CategorySecurityFinding) {
			issues++
			lines = append(lines, "- "+eventLine(ev))
		}
		if issues == 0 {
			lines = append(lines, "- no security findings recorded")
		}
	}

	if !sawScan {
		lines = append(lines, "No security scan runs were included.")
	}

	return Section{Title: TitleSecurityAnalysis, Lines: lines}
}

func complianceAnalysis(report *types.ComparativeReport) Section {
	var checks []types.ComplianceCheck
	var detail []string

	for i := range report.Results {
		result := &report.Results[i]
		if !result.Metadata.Workflow.IsCompliance() {
			continue
		}
		checks = append(checks, result.Compliance...)
		detail = append(detail, fmt.Sprintf("Run %s (%s): %d errors, %d API calls.",
			result.Metadata.RunID,
			workflowName(result.Metadata.Workflow),
			result.Counts().Errors,
			result.Counts().APICalls))
	}

	if len(checks) == 0 && len(detail) == 0 {
		return Section{Title: TitleComplianceAnalysis, Lines: []string{"No compliance runs were included."}}
	}

	var lines []string
	if len(checks) > 0 {
		lines = append(lines,
			"| Variant | Company | Status | File |",
			"|---------|---------|--------|------|")
		for _, check := range checks {
			lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s |",
				check.Variant, orUnknown(check.CompanyName), orUnknown(check.Status), check.File))
		}
		for _, check := range checks {
			lines = append(lines, fmt.Sprintf("- %s: number %s, type %s, incorporated %s",
				orUnknown(check.CompanyName),
				orUnknown(check.CompanyNum),
				orUnknown(check.CompanyType),
				orUnknown(check.Incorporated)))
		}
	}
	lines = append(lines, detail...)

	return Section{Title: TitleComplianceAnalysis, Lines: lines}
}

func repositoryContext(report *types.ComparativeReport) Section {
	lines := []string{
		"| Run | Branch | Commit |",
		"|-----|--------|--------|",
	}
	for i := range report.Timeline {
		entry := &report.Timeline[i]
		lines = append(lines, fmt.Sprintf("| %s | %s | %s |",
			runLabel(entry.RunID, entry.RunNumber), entry.Branch, entry.ShortCommit()))
	}

	for i := range report.Results {
		result := &report.Results[i]
		if result.Structure != nil && result.Structure.TotalFiles > 0 {
			lines = append(lines, fmt.Sprintf("Run %s snapshot tracked %d files.",
				result.Metadata.RunID, result.Structure.TotalFiles))
		}
	}

	return Section{Title: TitleRepositoryContext, Lines: lines}
}

func (a *Assembler) integrationAnalysis(report *types.ComparativeReport) Section {
	lines := []string{a.policyNote}

	if len(report.Integrations) == 0 {
		lines = append(lines, "No correlated security/compliance run pairs were found.")
		return Section{Title: TitleIntegrationAnalysis, Lines: lines}
	}

	for _, finding := range report.Integrations {
		lines = append(lines, fmt.Sprintf("%s: security run %s ↔ compliance run %s (%d security issues, %d compliance errors): %s",
			finding.Day,
			finding.SecurityRun,
			finding.ComplianceRun,
			finding.SecurityIssues,
			finding.ComplianceErrors,
			finding.Note))
	}

	return Section{Title: TitleIntegrationAnalysis, Lines: lines}
}

func crossWorkflowInsights(report *types.ComparativeReport) Section {
	var lines []string

	total := len(report.Results)
	for _, rollup := range report.Rollups {
		share := float64(rollup.Runs) / float64(total) * 100
		lines = append(lines, fmt.Sprintf("%s: %d run(s), %.0f%% of executions", workflowName(rollup.Workflow), rollup.Runs, share))
	}

	branches := make(map[string]int)
	for i := range report.Timeline {
		branches[report.Timeline[i].Branch]++
	}
	names := make([]string, 0, len(branches))
	for name := range branches {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("Branch %s: %d run(s)", name, branches[name]))
	}

	if report.RollupFor(types.WorkflowSecurityScan) == nil {
		lines = append(lines, "Coverage gap: no security scan runs in this window.")
	}

	return Section{Title: TitleCrossWorkflowInsights, Lines: lines}
}

func recommendations(report *types.ComparativeReport) Section {
	lines := make([]string, 0, len(report.Recommendations))
	for i, rec := range report.Recommendations {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, rec))
	}
	return Section{Title: TitleRecommendations, Lines: lines}
}

func runContext(result *types.AnalysisResult) Section {
	lines := []string{
		"Branch: " + result.Metadata.Branch,
		"Commit: " + result.Metadata.Commit,
	}
	if result.Structure != nil && result.Structure.TotalFiles > 0 {
		lines = append(lines, fmt.Sprintf("Tracked files: %d", result.Structure.TotalFiles))
	}
	return Section{Title: TitleRepositoryContext, Lines: lines}
}

func eventCounts(result *types.AnalysisResult) Section {
	counts := result.Counts()

	lines := make([]string, 0, 9)
	for _, cat := range types.AllCategories() {
		lines = append(lines, fmt.Sprintf("%s: %d", categoryName(cat), counts.Of(cat)))
	}
	lines = append(lines, fmt.Sprintf("Total lines: %d", result.TotalLines()))

	return Section{Title: TitleEventCounts, Lines: lines}
}

func categoryListing(result *types.AnalysisResult, cat types.EventCategory) Section {
	events := result.EventsByCategory(cat)

	shown := events
	if len(shown) > maxEventsPerCategory {
		shown = shown[:maxEventsPerCategory]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, ev := range shown {
		lines = append(lines, eventLine(ev))
	}
	if overflow := len(events) - len(shown); overflow > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", overflow))
	}

	return Section{Title: categoryName(cat), Lines: lines}
}

func artifactFindings(result *types.AnalysisResult) Section {
	lines := make([]string, 0, len(result.Findings))
	for _, finding := range result.Findings {
		lines = append(lines, "- "+findingLine(finding))
	}
	return Section{Title: TitleArtifactFindings, Lines: lines}
}

func complianceChecks(result *types.AnalysisResult) Section {
	lines := make([]string, 0, len(result.Compliance))
	for _, check := range result.Compliance {
		lines = append(lines, fmt.Sprintf("- %s check (%s): %s is %s",
			check.Variant, check.File, orUnknown(check.CompanyName), orUnknown(check.Status)))
	}
	return Section{Title: TitleComplianceChecks, Lines: lines}
}

// eventLine renders one event as "line N: category [fields]: text".
func eventLine(ev types.LogEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "line %d: %s", ev.Line, ev.Category)

	var fields []string
	if ev.Path != "" {
		fields = append(fields, "path="+ev.Path)
	}
	if ev.Status != 0 {
		fields = append(fields, fmt.Sprintf("status=%d", ev.Status))
	}
	if ev.CWE != "" {
		fields = append(fields, "cwe="+ev.CWE)
	}
	if ev.Severity != "" && ev.Severity != types.SeverityUnknown {
		fields = append(fields, "severity="+ev.Severity.String())
	}
	if len(fields) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(fields, " "))
	}

	sb.WriteString(": ")
	sb.WriteString(ev.Text)
	return sb.String()
}

func findingLine(finding types.SecurityFinding) string {
	var sb strings.Builder
	if finding.RuleID != "" {
		sb.WriteString(finding.RuleID)
		sb.WriteString(": ")
	}
	sb.WriteString(finding.Message)
	if finding.Severity != types.SeverityUnknown {
		fmt.Fprintf(&sb, " (%s)", finding.Severity)
	}
	if finding.Location != "" {
		fmt.Fprintf(&sb, " at %s", finding.Location)
	}
	fmt.Fprintf(&sb, " [%s]", finding.Source)
	return sb.String()
}

func runLabel(runID string, runNumber int) string {
	if runNumber > 0 {
		return fmt.Sprintf("%s (#%d)", runID, runNumber)
	}
	return runID
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return types.Unknown
	}
	return value
}

// workflowName maps a workflow type to its display name.
func workflowName(w types.WorkflowType) string {
	switch w {
	case types.WorkflowSecurityScan:
		return "Security Scan"
	case types.WorkflowComplianceLive:
		return "Compliance (Live)"
	case types.WorkflowComplianceSandbox:
		return "Compliance (Sandbox)"
	case types.WorkflowComplianceWeekly:
		return "Compliance (Weekly)"
	}
	return string(w)
}

// categoryName maps a category to its section heading.
func categoryName(cat types.EventCategory) string {
	switch cat {
	case types.CategoryError:
		return "Errors"
	case types.CategoryWarning:
		return "Warnings"
	case types.CategorySecurityFinding:
		return "Security Findings"
	case types.CategoryAPICall:
		return "API Calls"
	case types.CategoryFileOperation:
		return "File Operations"
	case types.CategoryMetadataLoad:
		return "Metadata Loads"
	case types.CategoryStepTransition:
		return "Step Transitions"
	case types.CategoryUnclassified:
		return "Unclassified"
	}
	return string(cat)
}
