package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/sampo/internal/report"
	"github.com/yairfalse/sampo/pkg/types"
)

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Metadata: types.RunMetadata{
			RunID:     "42",
			Workflow:  types.WorkflowComplianceLive,
			Timestamp: time.Date(2025, 11, 10, 10, 12, 0, 0, time.UTC),
			Branch:    "main",
			Commit:    "a1b2c3d",
		},
		Events: []types.LogEvent{
			{Line: 1, Category: types.CategoryMetadataLoad, Text: "Loading metadata from config/metadata.yml"},
			{Line: 2, Category: types.CategoryError, Text: "❌ No API key detected"},
		},
	}
}

func TestNewFormatterKnownFormats(t *testing.T) {
	for _, format := range []string{"markdown", "md", "json", "yaml", "yml"} {
		_, err := NewFormatter(format)
		assert.NoError(t, err, "format %s", format)
	}

	_, err := NewFormatter("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestMarkdownRunDocument(t *testing.T) {
	result := sampleResult()
	sections := report.NewAssembler().AssembleRun(result)

	renderer, err := NewRenderer("markdown")
	require.NoError(t, err)

	document, err := renderer.RenderRun(result, sections)
	require.NoError(t, err)

	text := string(document)
	assert.Contains(t, text, "# Workflow Run Analysis: 42")
	assert.Contains(t, text, "## Event Counts")
	assert.Contains(t, text, "line 2: error: ❌ No API key detected")
	assert.True(t, strings.HasSuffix(text, "*Generated by sampo*\n"))
}

func TestJSONRunDocumentCarriesDerivedCounts(t *testing.T) {
	result := sampleResult()
	renderer, err := NewRenderer("json")
	require.NoError(t, err)

	document, err := renderer.RenderRun(result, nil)
	require.NoError(t, err)

	var decoded struct {
		Counts     types.CategoryCounts `json:"counts"`
		TotalLines int                  `json:"total_lines"`
	}
	require.NoError(t, json.Unmarshal(document, &decoded))
	assert.Equal(t, 1, decoded.Counts.Errors)
	assert.Equal(t, 2, decoded.TotalLines)
}

func TestDeliverWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	require.NoError(t, Deliver([]byte("# report\n"), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report\n", string(data))
}

func TestDeliverUnwritablePath(t *testing.T) {
	err := Deliver([]byte("x"), filepath.Join(t.TempDir(), "missing", "report.md"))
	require.Error(t, err)
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("❌ failed ", 20)

	short := truncate(long, 20)
	assert.True(t, utf8.ValidString(short), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(short, "..."))
	assert.Equal(t, 20, len([]rune(short)))

	assert.Equal(t, "⚠️ short", truncate("⚠️ short", 20))
}
