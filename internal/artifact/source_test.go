package artifact

import (
	"os"
	"path/filepath"
	"testing"

	sampoerrors "github.com/yairfalse/sampo/internal/errors"
	"github.com/yairfalse/sampo/pkg/types"
)

func TestFileLineSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.log")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := FileLineSource{Path: path}.Lines("any")
	if err != nil {
		t.Fatalf("Lines failed: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("lines = %v", lines)
	}
}

func TestFileLineSourceMissing(t *testing.T) {
	_, err := FileLineSource{Path: filepath.Join(t.TempDir(), "nope.log")}.Lines("any")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if code := sampoerrors.GetExitCode(err); code != 66 {
		t.Errorf("exit code = %d, want 66", code)
	}
}

func TestSampleRun(t *testing.T) {
	run := SampleRun()

	if err := run.Metadata.Validate(); err != nil {
		t.Fatalf("sample metadata invalid: %v", err)
	}
	if run.Metadata.Workflow != types.WorkflowComplianceLive {
		t.Errorf("workflow = %s", run.Metadata.Workflow)
	}
	if len(run.Lines) != 8 {
		t.Errorf("lines = %d, want 8", len(run.Lines))
	}
}

func TestSampleLineSourceReturnsCopy(t *testing.T) {
	first, _ := SampleLineSource{}.Lines("a")
	first[0] = "mutated"

	second, _ := SampleLineSource{}.Lines("b")
	if second[0] == "mutated" {
		t.Error("callers must not share the backing array")
	}
}

func TestLoadLogFileWithHint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.log")
	if err := os.WriteFile(path, []byte("✅ Ledger updated\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	run, err := LoadLogFile(path, types.WorkflowComplianceWeekly)
	if err != nil {
		t.Fatalf("LoadLogFile failed: %v", err)
	}

	if run.Metadata.RunID != "output" {
		t.Errorf("run ID = %q, want file stem", run.Metadata.RunID)
	}
	if run.Metadata.Workflow != types.WorkflowComplianceWeekly {
		t.Errorf("workflow = %s, want the hint", run.Metadata.Workflow)
	}
	if run.Metadata.Branch != types.Unknown || run.Metadata.Commit != types.Unknown {
		t.Errorf("branch/commit = %q/%q, want unknown sentinels", run.Metadata.Branch, run.Metadata.Commit)
	}
	if run.Metadata.Timestamp.IsZero() {
		t.Error("timestamp should come from file mtime")
	}
	if err := run.Metadata.Validate(); err != nil {
		t.Errorf("metadata should validate: %v", err)
	}
}

func TestLoadLogFileWorkflowFromName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compliance_sandbox_run.log")
	if err := os.WriteFile(path, []byte("ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	run, err := LoadLogFile(path, "")
	if err != nil {
		t.Fatalf("LoadLogFile failed: %v", err)
	}
	if run.Metadata.Workflow != types.WorkflowComplianceSandbox {
		t.Errorf("workflow = %s, want sandbox inferred from name", run.Metadata.Workflow)
	}
}

func TestLoadLogFileIndeterminateWorkflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.log")
	if err := os.WriteFile(path, []byte("ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadLogFile(path, "")
	if err == nil {
		t.Fatal("expected error without a determinable workflow")
	}
	if code := sampoerrors.GetExitCode(err); code != 64 {
		t.Errorf("exit code = %d, want 64", code)
	}
}
