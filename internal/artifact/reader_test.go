package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/pkg/types"
)

const sampleMetadata = `{
	"workflow": "Compliance Check (Companies House - Live)",
	"run_id": 19200000001,
	"run_number": 42,
	"timestamp": "2025-11-10T10:12:03Z",
	"ref_name": "main",
	"sha": "a1b2c3d4e5f67890aaaabbbbccccddddeeeeffff"
}`

const sampleStructure = `Branches:
  develop
* feature/filing-alerts

Commit: 0123456789abcdef

Total files: 128

./config/metadata.yml
./scripts/check_compliance.sh
`

const sampleLog = `[2025-11-10 10:12:03] Loading metadata from config/metadata.yml
🔍 Querying Companies House API for company 00000006
HTTP status: 200
🗂️ Response archived at data/responses/response_live_20251110_1012.json
✅ Ledger updated
`

func writeRun(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for file, content := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", file, err)
		}
	}
	return dir
}

func TestLoadRunFullDirectory(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "19200000001", map[string]string{
		"workflow-metadata.json":      sampleMetadata,
		"compliance_check.log":        sampleLog,
		"repository-structure.txt":    sampleStructure,
		"response_live_20251110.json": `{"company_name":"EXAMPLE TRADING LIMITED","company_number":"00000006","company_status":"active","type":"ltd","date_of_creation":"1990-05-14"}`,
	})

	run, err := NewReader(nil).LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}

	if run.Metadata.RunID != "19200000001" {
		t.Errorf("run ID = %q, want 19200000001", run.Metadata.RunID)
	}
	if run.Metadata.RunNumber != 42 {
		t.Errorf("run number = %d, want 42", run.Metadata.RunNumber)
	}
	if run.Metadata.Workflow != types.WorkflowComplianceLive {
		t.Errorf("workflow = %s, want compliance_live", run.Metadata.Workflow)
	}
	want := time.Date(2025, 11, 10, 10, 12, 3, 0, time.UTC)
	if !run.Metadata.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", run.Metadata.Timestamp, want)
	}
	if run.Metadata.Branch != "main" {
		t.Errorf("branch = %q, want main (from ref_name)", run.Metadata.Branch)
	}
	if run.Metadata.ShortCommit() != "a1b2c3d" {
		t.Errorf("short commit = %q, want a1b2c3d", run.Metadata.ShortCommit())
	}

	if len(run.Lines) != 5 {
		t.Errorf("lines = %d, want 5", len(run.Lines))
	}
	if run.Structure == nil || run.Structure.Branch != "feature/filing-alerts" {
		t.Errorf("structure branch not extracted: %+v", run.Structure)
	}
	if len(run.Compliance) != 1 || run.Compliance[0].Variant != "live" {
		t.Errorf("compliance = %+v, want one live check", run.Compliance)
	}
	if len(run.Caveats) != 0 {
		t.Errorf("unexpected caveats: %v", run.Caveats)
	}
}

func TestLoadRunMetadataFallbacks(t *testing.T) {
	root := t.TempDir()

	// Branch and commit absent from metadata, present in structure
	dir := writeRun(t, root, "fallback", map[string]string{
		"workflow-metadata.json":   `{"workflow": "security_scan", "run_id": "777", "timestamp": "2025-11-09T08:00:00Z"}`,
		"repository-structure.txt": sampleStructure,
		"scan.log":                 "ok\n",
	})

	run, err := NewReader(nil).LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if run.Metadata.Branch != "feature/filing-alerts" {
		t.Errorf("branch = %q, want structure fallback", run.Metadata.Branch)
	}
	if run.Metadata.Commit != "0123456789abcdef" {
		t.Errorf("commit = %q, want structure fallback", run.Metadata.Commit)
	}

	// Nothing to fall back on: unknown sentinels
	bare := writeRun(t, root, "bare", map[string]string{
		"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "778", "timestamp": "2025-11-09T09:00:00Z"}`,
		"scan.log":               "ok\n",
	})

	run, err = NewReader(nil).LoadRun(bare)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if run.Metadata.Branch != types.Unknown || run.Metadata.Commit != types.Unknown {
		t.Errorf("branch/commit = %q/%q, want unknown sentinels", run.Metadata.Branch, run.Metadata.Commit)
	}
}

func TestLoadRunRefFallback(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "ref", map[string]string{
		"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "779", "timestamp": "2025-11-09T10:00:00Z", "ref": "refs/heads/develop"}`,
	})

	run, err := NewReader(nil).LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if run.Metadata.Branch != "develop" {
		t.Errorf("branch = %q, want develop (ref with prefix stripped)", run.Metadata.Branch)
	}
}

func TestLoadRunSkipConditions(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "missing metadata file",
			files: map[string]string{"some.log": "hello\n"},
		},
		{
			name:  "unparseable metadata",
			files: map[string]string{"workflow-metadata.json": "{not json"},
		},
		{
			name:  "unmappable workflow",
			files: map[string]string{"workflow-metadata.json": `{"workflow": "nightly_deploy", "run_id": "1", "timestamp": "2025-11-09T08:00:00Z"}`},
		},
		{
			name:  "unparseable timestamp",
			files: map[string]string{"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "1", "timestamp": "yesterday"}`},
		},
		{
			name:  "missing timestamp",
			files: map[string]string{"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "1"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := writeRun(t, root, "run", tt.files)

			if _, err := NewReader(nil).LoadRun(dir); err == nil {
				t.Error("expected LoadRun to fail")
			}
		})
	}
}

func TestLoadRunWithoutLogFile(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "nolog", map[string]string{
		"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "5", "timestamp": "2025-11-09T08:00:00Z"}`,
	})

	run, err := NewReader(nil).LoadRun(dir)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if len(run.Lines) != 0 {
		t.Errorf("lines = %d, want 0", len(run.Lines))
	}
	if len(run.Caveats) != 1 {
		t.Fatalf("caveats = %v, want the missing-log note", run.Caveats)
	}
}

func TestLoadRunMalformedAuxiliaries(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "broken-aux", map[string]string{
		"workflow-metadata.json":      `{"workflow": "compliance_live", "run_id": "6", "timestamp": "2025-11-09T08:00:00Z"}`,
		"check.log":                   "✅ Ledger updated\n",
		"results.sarif":               "{broken",
		"response_live_20251109.json": "also broken",
	})

	run, err := NewReader(nil).LoadRun(dir)
	if err != nil {
		t.Fatalf("malformed auxiliaries must not fail the run: %v", err)
	}
	if len(run.Findings) != 0 {
		t.Errorf("findings = %v, want none recovered", run.Findings)
	}
	if len(run.Compliance) != 0 {
		t.Errorf("compliance = %v, want none recovered", run.Compliance)
	}
	if len(run.Caveats) != 2 {
		t.Errorf("caveats = %v, want one per malformed artifact", run.Caveats)
	}
}

func TestListRunsSorted(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"300", "100", "200"} {
		writeRun(t, root, name, nil)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := NewReader(nil).ListRuns(root)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"100", "200", "300"}) {
		t.Errorf("names = %v, want sorted directories only", names)
	}
}

func TestLoadAll(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "19200000001", map[string]string{
		"workflow-metadata.json": sampleMetadata,
		"check.log":              sampleLog,
	})
	writeRun(t, root, "19200000002", map[string]string{
		"workflow-metadata.json": `{"workflow": "security_scan", "run_id": "19200000002", "timestamp": "2025-11-11T03:00:00Z"}`,
		"scan.log":               "clean\n",
	})
	writeRun(t, root, "19200000003", map[string]string{
		"workflow-metadata.json": "{broken",
	})

	runs, skipped, err := NewReader(nil).LoadAll(root)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("runs = %d, want 2", len(runs))
	}
	if !reflect.DeepEqual(skipped, []string{"19200000003"}) {
		t.Errorf("skipped = %v, want the broken run only", skipped)
	}
}

func TestLoadAllUnreadableRoot(t *testing.T) {
	_, _, err := NewReader(nil).LoadAll(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for unreadable root")
	}
	if code := sampoerrors.GetExitCode(err); code != 66 {
		t.Errorf("exit code = %d, want 66", code)
	}
}

func TestParseStructure(t *testing.T) {
	structure := ParseStructure(sampleStructure)

	if structure.Branch != "feature/filing-alerts" {
		t.Errorf("branch = %q", structure.Branch)
	}
	if structure.Commit != "0123456789abcdef" {
		t.Errorf("commit = %q", structure.Commit)
	}
	if structure.TotalFiles != 128 {
		t.Errorf("total files = %d", structure.TotalFiles)
	}
	if structure.Raw == "" {
		t.Error("raw snapshot not retained")
	}
}

func TestParseStructureEmpty(t *testing.T) {
	structure := ParseStructure("just a tree dump\n./main.py\n")

	if structure.Branch != "" || structure.Commit != "" || structure.TotalFiles != 0 {
		t.Errorf("expected empty extraction, got %+v", structure)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "empty", content: "", want: nil},
		{name: "only newline", content: "\n", want: nil},
		{name: "trailing newline", content: "a\nb\n", want: []string{"a", "b"}},
		{name: "no trailing newline", content: "a\nb", want: []string{"a", "b"}},
		{name: "crlf", content: "a\r\nb\r\n", want: []string{"a", "b"}},
		{name: "blank interior line kept", content: "a\n\nb\n", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
