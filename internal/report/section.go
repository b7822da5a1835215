package report

// Section is one titled block of report content. Lines hold the
// structured content in final order; how a line turns into markdown,
// terminal text, or anything else is the renderer's concern.
type Section struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Titles of the comparative report sections, in contract order.
const (
	TitleExecutiveSummary      = "Executive Summary"
	TitleWorkflowBreakdown     = "Workflow Breakdown"
	TitleExecutionTimeline     = "Execution Timeline"
	TitleSecurityAnalysis      = "Security Analysis"
	TitleComplianceAnalysis    = "Compliance Analysis"
	TitleRepositoryContext     = "Repository Context"
	TitleIntegrationAnalysis   = "Integration Analysis"
	TitleCrossWorkflowInsights = "Cross-Workflow Insights"
	TitleRecommendations       = "Recommendations"
)

// Titles of the single-run sections surrounding the per-category
// listings.
const (
	TitleEventCounts      = "Event Counts"
	TitleArtifactFindings = "Artifact Findings"
	TitleComplianceChecks = "Compliance Checks"
	TitleCaveats          = "Caveats"
)
