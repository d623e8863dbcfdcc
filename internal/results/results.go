// internal/results/results.go
// Package results defines per-job benchmark outcomes and aggregates them into
// the deterministic report consumed by the writers.
package results

import (
	"github.com/mwiater/gemmbench/internal/matrix"
)

// Status separates rows that carry timings from rows that carry an error.
type Status string

const (
	StatusMeasured Status = "measured"
	StatusFailed   Status = "failed"
)

// ErrorKind classifies a per-job failure. Failed rows stay in the report with
// their kind so unsupported combinations are visible signals, not omissions.
type ErrorKind string

const (
	ErrorKindRecipe    ErrorKind = "RecipeApplicationError"
	ErrorKindCompile   ErrorKind = "CompilationError"
	ErrorKindTimeout   ErrorKind = "TimeoutError"
	ErrorKindExecution ErrorKind = "ExecutionError"
)

// Timing carries the reduced per-pass statistics of one measured job.
type Timing struct {
	MedianSeconds float64 `json:"medianSeconds"`
	MeanSeconds   float64 `json:"meanSeconds"`
	MinSeconds    float64 `json:"minSeconds"`
	MaxSeconds    float64 `json:"maxSeconds"`
	StddevSeconds float64 `json:"stddevSeconds"`
	Iterations    int     `json:"iterations"`
}

// JobResult is the immutable outcome of exactly one benchmark job.
type JobResult struct {
	Job           matrix.Job `json:"job"`
	Status        Status     `json:"status"`
	Timing        *Timing    `json:"timing,omitempty"`
	AccuracyDelta *float64   `json:"accuracyDelta,omitempty"`
	ErrorKind     ErrorKind  `json:"errorKind,omitempty"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
}

// Measured builds the success outcome for a job.
func Measured(job matrix.Job, timing Timing, accuracyDelta *float64) JobResult {
	return JobResult{
		Job:           job,
		Status:        StatusMeasured,
		Timing:        &timing,
		AccuracyDelta: accuracyDelta,
	}
}

// Failed builds the failure outcome for a job. The job's remaining matrix
// still runs; the row records why this combination produced no timing.
func Failed(job matrix.Job, kind ErrorKind, err error) JobResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return JobResult{
		Job:          job,
		Status:       StatusFailed,
		ErrorKind:    kind,
		ErrorMessage: msg,
	}
}

// Measured reports whether the row carries a timing.
func (r JobResult) Measured() bool {
	return r.Status == StatusMeasured && r.Timing != nil
}
