package visualization

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/yairfalse/sampo/pkg/types"
)

func init() {
	// Plain output keeps the assertions about rendered runes simple.
	color.NoColor = true
}

func testEntries() []types.TimelineEntry {
	day := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	return []types.TimelineEntry{
		{Timestamp: day.Add(9 * time.Hour), RunID: "100", Workflow: types.WorkflowSecurityScan, Branch: "main", Findings: 2},
		{Timestamp: day.Add(15 * time.Hour), RunID: "200", Workflow: types.WorkflowComplianceLive, Branch: "main", Errors: 1},
		{Timestamp: day.Add(48 * time.Hour), RunID: "300", Workflow: types.WorkflowComplianceWeekly, Branch: "main"},
	}
}

func TestRenderEmptyTimeline(t *testing.T) {
	graph := NewTimelineGraph(80)
	assert.Equal(t, "No runs to display", graph.Render())
}

func TestRenderContainsMarkersAndSummary(t *testing.T) {
	output := CreateRunTimeline(testEntries(), 80)

	assert.Contains(t, output, "Workflow Run Timeline")
	// findings ◉, errors ●, clean ○
	assert.Contains(t, output, "◉")
	assert.Contains(t, output, "●")
	assert.Contains(t, output, "○")

	assert.Contains(t, output, "run 100")
	assert.Contains(t, output, "2 findings")
	assert.Contains(t, output, "1 errors")
	assert.Contains(t, output, "clean")
}

func TestRenderSortsEntriesByTimestamp(t *testing.T) {
	entries := testEntries()
	// reverse the input; the graph must re-sort
	entries[0], entries[2] = entries[2], entries[0]

	output := CreateRunTimeline(entries, 80)

	first := strings.Index(output, "run 100")
	last := strings.Index(output, "run 300")
	assert.Greater(t, first, -1)
	assert.Greater(t, last, first, "runs should list oldest first")
}

func TestRenderSingleInstant(t *testing.T) {
	day := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	entries := []types.TimelineEntry{
		{Timestamp: day, RunID: "100", Workflow: types.WorkflowSecurityScan, Branch: "main"},
		{Timestamp: day, RunID: "200", Workflow: types.WorkflowComplianceLive, Branch: "main"},
	}

	output := CreateRunTimeline(entries, 80)
	assert.Contains(t, output, "run 100")
	assert.Contains(t, output, "run 200")
}

func TestDefaultWidth(t *testing.T) {
	graph := NewTimelineGraph(0)
	assert.Equal(t, 80, graph.width)
}

func TestRenderNarrowTerminal(t *testing.T) {
	// widths below the margin allowance must still render a line
	for _, width := range []int{1, 5, 10} {
		output := CreateRunTimeline(testEntries(), width)
		assert.Contains(t, output, "─", "width %d", width)
		assert.Contains(t, output, "Runs:", "width %d", width)
	}
}
