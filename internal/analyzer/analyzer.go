package analyzer

import (
	"strings"

	"github.com/yairfalse/sampo/internal/artifact"
	"github.com/yairfalse/sampo/internal/classifier"
	"github.com/yairfalse/sampo/internal/logger"
	"github.com/yairfalse/sampo/pkg/types"
)

// Analyzer turns one run's log lines into a frozen analysis result.
type Analyzer struct {
	classifier *classifier.Classifier
	logger     logger.Logger
}

// NewAnalyzer creates an analyzer with the default classification rules
func NewAnalyzer(log logger.Logger) *Analyzer {
	if log == nil {
		log = logger.NewSimple()
	}
	return &Analyzer{
		classifier: classifier.New(),
		logger:     log,
	}
}

// Analyze classifies every line exactly once, in order, assigning line
// numbers 1..N. Lines no rule matches are retained as unclassified, so
// the per-category counts always add up to the input length. Each
// step_transition updates the step context carried by subsequent events.
// The full scan always completes; a bad line cannot stop it.
func (a *Analyzer) Analyze(meta types.RunMetadata, lines []string) *types.AnalysisResult {
	if meta.Branch == "" {
		meta.Branch = types.Unknown
	}
	if meta.Commit == "" {
		meta.Commit = types.Unknown
	}

	events := make([]types.LogEvent, 0, len(lines))
	step := ""

	for i, line := range lines {
		ev, ok := a.classifier.Classify(line, meta.Workflow)
		if !ok {
			ev = types.LogEvent{
				Category: types.CategoryUnclassified,
				Text:     strings.TrimSpace(line),
			}
		}
		ev.Line = i + 1

		if ev.Category == types.CategoryStepTransition {
			step = stepName(ev.Text)
		}
		ev.Step = step

		events = append(events, ev)
	}

	result := &types.AnalysisResult{
		Metadata: meta,
		Events:   events,
	}

	counts := result.Counts()
	a.logger.WithFields(map[string]interface{}{
		"run":      meta.RunID,
		"workflow": meta.Workflow.String(),
		"lines":    len(lines),
		"errors":   counts.Errors,
		"warnings": counts.Warnings,
	}).Debug("analyzed run log")

	return result
}

// AnalyzeRun analyzes a loaded run and attaches everything its auxiliary
// artifacts contributed: recovered findings, compliance checks, the
// repository snapshot, and reader caveats.
func (a *Analyzer) AnalyzeRun(run *artifact.Run) *types.AnalysisResult {
	result := a.Analyze(run.Metadata, run.Lines)

	result.Findings = append(result.Findings, run.Findings...)
	result.Compliance = append(result.Compliance, run.Compliance...)
	result.Structure = run.Structure
	result.Caveats = append(result.Caveats, run.Caveats...)

	return result
}

// stepName reduces a step transition line to a readable step label.
func stepName(text string) string {
	if idx := strings.Index(text, "]"); strings.HasPrefix(text, "##[") && idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	if rest, found := strings.CutPrefix(text, "name:"); found {
		return strings.TrimSpace(rest)
	}
	if rest, found := strings.CutPrefix(text, "Name:"); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(text)
}
