package batch

import "fmt"

// DirectoryOutcome records how one directory's run ended. Immutable once
// appended to the result. A directory interrupted by cancellation gets no
// outcome at all.
type DirectoryOutcome struct {
	InputDir  string
	OutputDir string
	Success   bool
	Code      int // exit code when !Success
}

// BatchResult aggregates one run's outcomes. Finalized once, at batch end.
type BatchResult struct {
	Outcomes  []DirectoryOutcome
	Cancelled bool
}

// Succeeded counts outcomes that completed with exit zero.
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed counts outcomes that ended in failure.
func (r *BatchResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Summary returns the human-readable completion line. Partial failures stay
// visible; a cancelled run is never reported as completed.
func (r *BatchResult) Summary() string {
	verdict := "Completed"
	if r.Cancelled {
		verdict = "Cancelled"
	}
	return fmt.Sprintf("%s: %d upscaled, %d failed", verdict, r.Succeeded(), r.Failed())
}
