package visualization

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yairfalse/sampo/pkg/types"
)

// TimelineGraph renders workflow runs on a terminal-width timeline.
// Marker shape encodes the run's outcome: clean ○, warnings •, errors ●,
// security findings ◉.
type TimelineGraph struct {
	width     int
	entries   []types.TimelineEntry
	startTime time.Time
	endTime   time.Time
}

// minTimelineWidth is the narrowest line worth drawing. Terminals
// narrower than this wrap the graph rather than truncate it.
const minTimelineWidth = 10

// NewTimelineGraph creates a timeline graph for the given terminal width.
func NewTimelineGraph(width int) *TimelineGraph {
	if width <= 0 {
		width = 80 // default terminal width
	}
	return &TimelineGraph{width: width}
}

// SetEntries sets the runs to visualize. Entries are re-sorted by
// timestamp so callers can pass them in any order.
func (tg *TimelineGraph) SetEntries(entries []types.TimelineEntry) {
	tg.entries = make([]types.TimelineEntry, len(entries))
	copy(tg.entries, entries)

	if len(tg.entries) > 0 {
		sort.Slice(tg.entries, func(i, j int) bool {
			return tg.entries[i].Timestamp.Before(tg.entries[j].Timestamp)
		})
		tg.startTime = tg.entries[0].Timestamp
		tg.endTime = tg.entries[len(tg.entries)-1].Timestamp
	}
}

// Render generates the timeline graph with per-run summary lines.
func (tg *TimelineGraph) Render() string {
	if len(tg.entries) == 0 {
		return "No runs to display"
	}

	var output strings.Builder

	duration := tg.endTime.Sub(tg.startTime)
	if duration == 0 {
		// all runs at the same instant: pad to a day so positions spread
		duration = time.Hour * 24
		tg.startTime = tg.startTime.Add(-duration / 2)
		tg.endTime = tg.endTime.Add(duration / 2)
	}

	headerColor := color.New(color.FgWhite, color.Bold)
	dateColor := color.New(color.FgCyan)
	output.WriteString(headerColor.Sprint("Workflow Run Timeline "))
	output.WriteString(fmt.Sprintf("(%s to %s)\n",
		dateColor.Sprint(tg.startTime.Format("Jan 2")),
		dateColor.Sprint(tg.endTime.Format("Jan 2"))))

	timelineWidth := tg.width - 10 // leave space for margins
	if timelineWidth < minTimelineWidth {
		// very narrow terminals still get a usable line
		timelineWidth = minTimelineWidth
	}
	output.WriteString(tg.renderTimelineLine(timelineWidth) + "\n")
	output.WriteString(tg.renderDateLabels(timelineWidth) + "\n")

	output.WriteString("\n")
	output.WriteString(headerColor.Sprint("Runs:") + "\n")
	output.WriteString(tg.renderRunSummary())

	return output.String()
}

// renderTimelineLine creates the ────•──────● line.
func (tg *TimelineGraph) renderTimelineLine(width int) string {
	line := make([]rune, width)
	for i := range line {
		line[i] = '─'
	}

	for i := range tg.entries {
		pos := tg.calculatePosition(tg.entries[i].Timestamp, width)
		if pos >= 0 && pos < width {
			line[pos] = runMarker(&tg.entries[i])
		}
	}

	return string(line)
}

// renderDateLabels places day labels under the line, skipping any that
// would overlap an already-placed one.
func (tg *TimelineGraph) renderDateLabels(width int) string {
	labels := make([]rune, width)
	for i := range labels {
		labels[i] = ' '
	}

	positions := []int{0, width - 1}

	dayPositions := make(map[string]int)
	for i := range tg.entries {
		day := tg.entries[i].Timestamp.Format("Jan2")
		pos := tg.calculatePosition(tg.entries[i].Timestamp, width)
		if pos < 0 || pos >= width {
			continue
		}
		if existing, ok := dayPositions[day]; !ok || pos < existing {
			dayPositions[day] = pos
		}
	}
	for _, pos := range dayPositions {
		if pos > 5 && pos < width-5 {
			positions = append(positions, pos)
		}
	}

	placed := make(map[int]bool)
	for _, pos := range positions {
		label := tg.calculateTimestamp(pos, width).Format("Jan2")

		start := pos - len(label)/2
		if start < 0 {
			start = 0
		}
		if start+len(label) > width {
			start = width - len(label)
		}

		overlap := false
		for i := start; i < start+len(label)+1 && i < width; i++ {
			if placed[i] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}

		for i, ch := range label {
			if start+i < width {
				labels[start+i] = ch
				placed[start+i] = true
			}
		}
	}

	return string(labels)
}

// renderRunSummary lists one line per run below the graph.
func (tg *TimelineGraph) renderRunSummary() string {
	var output strings.Builder

	dateColor := color.New(color.FgWhite, color.Bold)
	workflowColors := map[types.WorkflowType]*color.Color{
		types.WorkflowSecurityScan:      color.New(color.FgMagenta),
		types.WorkflowComplianceLive:    color.New(color.FgCyan),
		types.WorkflowComplianceSandbox: color.New(color.FgBlue),
		types.WorkflowComplianceWeekly:  color.New(color.FgGreen),
	}

	for i := range tg.entries {
		entry := &tg.entries[i]

		workflowColor := workflowColors[entry.Workflow]
		if workflowColor == nil {
			workflowColor = color.New(color.FgWhite)
		}

		output.WriteString(fmt.Sprintf("%s %s run %s ",
			coloredMarker(entry),
			dateColor.Sprintf("%s:", entry.Timestamp.Format("Jan 2 15:04")),
			entry.RunID))
		output.WriteString(fmt.Sprintf("(%s, %s) ", workflowColor.Sprint(entry.Workflow), entry.Branch))
		output.WriteString(runStateText(entry) + "\n")
	}

	return output.String()
}

// runMarker picks the marker rune for a run, worst state first.
func runMarker(entry *types.TimelineEntry) rune {
	switch {
	case entry.Findings > 0:
		return '◉'
	case entry.Errors > 0:
		return '●'
	case entry.Warnings > 0:
		return '•'
	default:
		return '○'
	}
}

func coloredMarker(entry *types.TimelineEntry) string {
	marker := string(runMarker(entry))
	switch {
	case entry.Findings > 0:
		return color.New(color.FgMagenta, color.Bold).Sprint(marker)
	case entry.Errors > 0:
		return color.New(color.FgRed, color.Bold).Sprint(marker)
	case entry.Warnings > 0:
		return color.New(color.FgYellow).Sprint(marker)
	default:
		return color.New(color.FgGreen).Sprint(marker)
	}
}

func runStateText(entry *types.TimelineEntry) string {
	var parts []string
	if entry.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", entry.Errors))
	}
	if entry.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", entry.Warnings))
	}
	if entry.Findings > 0 {
		parts = append(parts, fmt.Sprintf("%d findings", entry.Findings))
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, ", ")
}

// calculatePosition maps a timestamp onto the timeline width.
func (tg *TimelineGraph) calculatePosition(timestamp time.Time, width int) int {
	if timestamp.Before(tg.startTime) || timestamp.After(tg.endTime) {
		return -1
	}

	elapsed := timestamp.Sub(tg.startTime)
	total := tg.endTime.Sub(tg.startTime)

	position := float64(elapsed) / float64(total) * float64(width-1)
	return int(math.Round(position))
}

// calculateTimestamp maps a timeline position back to a timestamp.
func (tg *TimelineGraph) calculateTimestamp(position, width int) time.Time {
	ratio := float64(position) / float64(width-1)
	duration := tg.endTime.Sub(tg.startTime)
	offset := time.Duration(float64(duration) * ratio)
	return tg.startTime.Add(offset)
}

// CreateRunTimeline renders a timeline for the given entries and width.
func CreateRunTimeline(entries []types.TimelineEntry, width int) string {
	graph := NewTimelineGraph(width)
	graph.SetEntries(entries)
	return graph.Render()
}
