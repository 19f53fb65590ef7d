package abc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// killGrace is how long a timed-out process gets to die before Wait gives up
// on it. The monitor must not read metrics while the tool can still write.
const killGrace = 2 * time.Second

// Runner invokes the ABC tool as a child process scoped to a circuit
// workspace. The working directory is always passed explicitly to the spawn
// call; the runner never changes the process-wide working directory, so
// multiple workspaces can run concurrently.
type Runner struct {
	toolPath string
}

// NewRunner creates a runner for the tool binary at toolPath.
func NewRunner(toolPath string) *Runner {
	return &Runner{toolPath: toolPath}
}

// Run writes scriptText into workDir under scriptName, executes
// "<tool> -f <scriptName>" there with the given timeout, and classifies the
// result. outputName is the artifact the script is expected to write,
// relative to workDir.
//
// Classification order: timeout, nonzero exit, artifact missing, artifact
// empty or uncountable, success. Depth extraction never fails the run; a
// missing level diagnostic yields depth 0 with DepthFound false.
func (r *Runner) Run(ctx context.Context, scriptText, workDir, scriptName, outputName string, timeout time.Duration) Outcome {
	start := time.Now()

	scriptPath := filepath.Join(workDir, scriptName)
	if err := os.WriteFile(scriptPath, []byte(scriptText), 0o644); err != nil {
		return failure(FailUnexpected, fmt.Sprintf("failed to write script: %v", err), time.Since(start))
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.toolPath, "-f", scriptName)
	cmd.Dir = workDir
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return Outcome{
			Status:  StatusTimedOut,
			Detail:  fmt.Sprintf("execution exceeded %s", timeout),
			Elapsed: elapsed,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
		}
	}

	// A canceled parent context kills the tool with a nonzero status; that
	// is not a tool failure and must not be recorded as one.
	if runCtx.Err() == context.Canceled {
		out := failure(FailUnexpected, "execution canceled before completion", elapsed)
		out.Stdout = stdout.String()
		out.Stderr = stderr.String()
		return out
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			out := failure(FailNonzeroExit, fmt.Sprintf("tool exited with code %d", exitErr.ExitCode()), elapsed)
			out.ExitCode = exitErr.ExitCode()
			out.Stdout = stdout.String()
			out.Stderr = stderr.String()
			return out
		}
		return failure(FailUnexpected, fmt.Sprintf("failed to run tool: %v", runErr), elapsed)
	}

	artifactPath := filepath.Join(workDir, outputName)
	info, err := os.Stat(artifactPath)
	if err != nil {
		return failure(FailArtifactMissing, fmt.Sprintf("expected artifact %s was not produced", outputName), elapsed)
	}

	cost, err := CountCost(artifactPath)
	if err != nil {
		return failure(FailMetricExtraction, err.Error(), elapsed)
	}
	if cost == 0 || info.Size() == 0 {
		return failure(FailArtifactUncountable,
			fmt.Sprintf("artifact has %d logic elements and %d bytes", cost, info.Size()), elapsed)
	}

	depth, found := MaxLevel(stdout.String())

	return Outcome{
		Status:        StatusSucceeded,
		Cost:          cost,
		Depth:         depth,
		DepthFound:    found,
		ArtifactPath:  artifactPath,
		ArtifactBytes: info.Size(),
		Elapsed:       elapsed,
		Stdout:        stdout.String(),
		Stderr:        stderr.String(),
	}
}
