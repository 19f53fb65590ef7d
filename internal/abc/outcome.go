// Package abc runs the external ABC synthesis tool as a bounded child
// process and classifies each invocation into a closed outcome taxonomy with
// its extracted quality metrics.
package abc

import (
	"fmt"
	"time"
)

// Status is the top-level classification of one tool invocation.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusTimedOut  Status = "timed_out"
)

// FailureKind narrows a failed invocation.
type FailureKind string

const (
	// FailNonzeroExit: the tool exited with a nonzero status.
	FailNonzeroExit FailureKind = "tool_nonzero_exit"
	// FailArtifactMissing: the tool exited cleanly but never wrote the
	// expected output artifact.
	FailArtifactMissing FailureKind = "artifact_missing"
	// FailArtifactUncountable: the artifact exists but is empty or holds no
	// countable logic elements.
	FailArtifactUncountable FailureKind = "artifact_uncountable"
	// FailMetricExtraction: the artifact could not be read for metrics.
	FailMetricExtraction FailureKind = "metric_extraction_error"
	// FailUnexpected: process spawning or I/O failed in a way outside the
	// taxonomy above.
	FailUnexpected FailureKind = "unexpected_error"
)

// Outcome is the classified result of one tool invocation. It is produced
// fresh per run and owned by the caller.
type Outcome struct {
	Status  Status
	Failure FailureKind // set only when Status is StatusFailed
	Detail  string

	Cost          int    // count of generated logic elements (.names lines)
	Depth         int    // maximum reported level; 0 when none was printed
	DepthFound    bool   // whether any level line was present in the output
	ArtifactPath  string // path of the produced artifact
	ArtifactBytes int64  // size of the produced artifact

	Elapsed  time.Duration
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the invocation produced a countable artifact.
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// TimedOut reports whether the invocation exceeded its time bound.
func (o Outcome) TimedOut() bool {
	return o.Status == StatusTimedOut
}

// String summarizes the outcome for logs.
func (o Outcome) String() string {
	switch o.Status {
	case StatusSucceeded:
		return fmt.Sprintf("succeeded (cost=%d depth=%d elapsed=%s)", o.Cost, o.Depth, o.Elapsed.Round(time.Millisecond))
	case StatusTimedOut:
		return fmt.Sprintf("timed out after %s", o.Elapsed.Round(time.Millisecond))
	default:
		return fmt.Sprintf("failed (%s): %s", o.Failure, o.Detail)
	}
}

func failure(kind FailureKind, detail string, elapsed time.Duration) Outcome {
	return Outcome{
		Status:  StatusFailed,
		Failure: kind,
		Detail:  detail,
		Elapsed: elapsed,
	}
}
