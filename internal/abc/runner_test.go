package abc

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// fakeTool writes an executable shell script standing in for the ABC binary.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "abc")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

const scriptText = "read c.v\nstrash\nprint_level\nwrite_blif out.blif\n"

func TestRunSucceeded(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, `
echo "Level = 4"
echo "Level = 11"
printf '.model top\n.names a y\n1 1\n.names b z\n1 1\n.end\n' > out.blif
`)

	out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", 10*time.Second)

	if !out.Succeeded() {
		t.Fatalf("expected success, got %s", out)
	}
	if out.Cost != 2 {
		t.Errorf("cost = %d, want 2", out.Cost)
	}
	if out.Depth != 11 || !out.DepthFound {
		t.Errorf("depth = %d (found=%v), want 11 (true)", out.Depth, out.DepthFound)
	}
	if out.ArtifactPath != filepath.Join(workDir, "out.blif") {
		t.Errorf("unexpected artifact path: %s", out.ArtifactPath)
	}

	// The script must have been written into the workspace.
	data, err := os.ReadFile(filepath.Join(workDir, "run.abc"))
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if string(data) != scriptText {
		t.Errorf("script content mismatch")
	}
}

func TestRunDepthUnavailable(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, `printf '.names a y\n1 1\n' > out.blif`+"\n")

	out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", 10*time.Second)

	if !out.Succeeded() {
		t.Fatalf("expected success, got %s", out)
	}
	if out.Depth != 0 || out.DepthFound {
		t.Errorf("depth should be unavailable: depth=%d found=%v", out.Depth, out.DepthFound)
	}
}

func TestRunNonzeroExit(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, "echo boom >&2\nexit 3\n")

	out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", 10*time.Second)

	if out.Status != StatusFailed || out.Failure != FailNonzeroExit {
		t.Fatalf("expected nonzero-exit failure, got %s", out)
	}
	if out.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", out.ExitCode)
	}
}

func TestRunArtifactMissing(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, "exit 0\n")

	out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", 10*time.Second)

	if out.Status != StatusFailed || out.Failure != FailArtifactMissing {
		t.Fatalf("expected artifact-missing failure, got %s", out)
	}
}

func TestRunArtifactUncountable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty file", ": > out.blif\n"},
		{"no logic elements", `printf '.model top\n.end\n' > out.blif` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workDir := t.TempDir()
			tool := fakeTool(t, tt.body)

			out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", 10*time.Second)

			if out.Status != StatusFailed || out.Failure != FailArtifactUncountable {
				t.Fatalf("expected artifact-uncountable failure, got %s", out)
			}
		})
	}
}

func TestRunTimedOut(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, "sleep 5\nprintf '.names a y\\n' > out.blif\n")

	timeout := 150 * time.Millisecond
	start := time.Now()
	out := NewRunner(tool).Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", timeout)
	wall := time.Since(start)

	if !out.TimedOut() {
		t.Fatalf("expected timeout, got %s", out)
	}
	if out.Elapsed < timeout {
		t.Errorf("elapsed %s shorter than the timeout %s", out.Elapsed, timeout)
	}
	// The process must be terminated close to the timeout, not after the
	// sleep finishes.
	if wall > 4*time.Second {
		t.Errorf("run returned after %s; the tool was not terminated", wall)
	}
	// A killed tool must not have produced the artifact afterwards.
	if _, err := os.Stat(filepath.Join(workDir, "out.blif")); err == nil {
		t.Errorf("timed-out tool still wrote the artifact")
	}
}

func TestRunCanceledMidRun(t *testing.T) {
	workDir := t.TempDir()
	tool := fakeTool(t, "sleep 5\nprintf '.names a y\\n' > out.blif\n")

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(100*time.Millisecond, cancel)
	defer timer.Stop()

	start := time.Now()
	out := NewRunner(tool).Run(ctx, scriptText, workDir, "run.abc", "out.blif", 10*time.Second)
	wall := time.Since(start)

	// Cancellation is not a tool defect; it must not surface as a nonzero
	// exit or a timeout.
	if out.Status != StatusFailed || out.Failure != FailUnexpected {
		t.Fatalf("expected unexpected-error failure, got %s", out)
	}
	if wall > 4*time.Second {
		t.Errorf("run returned after %s; the tool was not terminated on cancel", wall)
	}
}

func TestRunUnexpectedError(t *testing.T) {
	workDir := t.TempDir()

	out := NewRunner(filepath.Join(workDir, "missing-tool")).
		Run(context.Background(), scriptText, workDir, "run.abc", "out.blif", time.Second)

	if out.Status != StatusFailed || out.Failure != FailUnexpected {
		t.Fatalf("expected unexpected-error failure, got %s", out)
	}
}

func TestRunUnwritableWorkDir(t *testing.T) {
	out := NewRunner("abc").Run(context.Background(), scriptText,
		filepath.Join(t.TempDir(), "does-not-exist"), "run.abc", "out.blif", time.Second)

	if out.Status != StatusFailed || out.Failure != FailUnexpected {
		t.Fatalf("expected unexpected-error failure, got %s", out)
	}
}

func TestOutcomeString(t *testing.T) {
	succeeded := Outcome{Status: StatusSucceeded, Cost: 12, Depth: 4, Elapsed: time.Second}
	if got := succeeded.String(); got == "" {
		t.Errorf("empty string for succeeded outcome")
	}
	failed := failure(FailNonzeroExit, "tool exited with code 1", time.Second)
	if got := failed.String(); got == "" {
		t.Errorf("empty string for failed outcome")
	}
}
