package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/quillback/scalebind/internal/naming"
	"github.com/quillback/scalebind/internal/upscayl"
)

// State is the orchestrator life cycle. An orchestrator is single-use: it
// moves from StateIdle through StateRunning to exactly one terminal state.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ErrAlreadyStarted is returned by Run when the orchestrator has left
// StateIdle: a second run is rejected, not queued.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// Runner is the per-directory execution dependency of the orchestrator.
// *upscayl.Runner satisfies it; tests substitute a fake.
type Runner interface {
	RunOne(ctx context.Context, tpl upscayl.Template, inputDir, outputDir string,
		onLine func(string), stopped func() bool) upscayl.RunResult
	Executable() string
}

// Orchestrator drives one batch: it iterates the job's directories in
// order, runs the tool once per directory, and reports everything through
// the Events sink. Directory failures are recorded and the batch moves on;
// only RequestStop ends it early.
type Orchestrator struct {
	runner Runner
	events Events

	// DryRun logs each resolved command instead of launching the tool;
	// every directory is reported as done.
	DryRun bool

	state    atomic.Int32
	stopFlag atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates an orchestrator for one run. events must be non-nil.
func New(runner Runner, events Events) *Orchestrator {
	return &Orchestrator{runner: runner, events: events}
}

// State returns the current life cycle state. Safe from any goroutine.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// RequestStop asks a running batch to stop. It is idempotent, safe from any
// goroutine, and effective even before Run is entered. The stop is observed
// within one tool output line: the in-flight process is terminated, its
// directory records no outcome, and no further directory is started.
func (o *Orchestrator) RequestStop() {
	o.stopFlag.Store(true)
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()
}

// Run executes the job and blocks until the batch ends. It returns an error
// only when the run never starts (invalid job, unusable output base, or an
// orchestrator that already ran); everything after that is reported through
// events and the returned BatchResult.
func (o *Orchestrator) Run(ctx context.Context, job Job) (BatchResult, error) {
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return BatchResult{}, ErrAlreadyStarted
	}

	if err := job.Validate(); err != nil {
		o.state.Store(int32(StateFailed))
		return BatchResult{}, err
	}
	if err := os.MkdirAll(job.OutputBase, 0o755); err != nil {
		o.state.Store(int32(StateFailed))
		return BatchResult{}, fmt.Errorf("create output base: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()
	defer cancel()

	var result BatchResult
	resolver := naming.NewCollisionResolver()
	total := len(job.Directories)

	for i, dir := range job.Directories {
		if o.stopFlag.Load() || runCtx.Err() != nil {
			result.Cancelled = true
			break
		}

		o.events.Progress(i+1, total)

		outputDir := resolver.Resolve(dir, naming.OutputDir(job.OutputBase, dir))
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			o.events.LogLine(fmt.Sprintf("cannot create output directory %s: %v", outputDir, err))
			o.fail(&result, dir, outputDir, upscayl.CodeLaunchFailed)
			continue
		}

		cmdline := o.runner.Executable() + " " + strings.Join(job.Template.Resolve(dir, outputDir), " ")
		if o.DryRun {
			o.events.LogLine("[DRY] " + cmdline)
			o.done(&result, dir, outputDir)
			continue
		}

		o.events.LogLine(cmdline)
		res := o.runner.RunOne(runCtx, job.Template, dir, outputDir, o.events.LogLine, o.stopFlag.Load)
		switch res.Status {
		case upscayl.StatusCancelled:
			result.Cancelled = true
		case upscayl.StatusSuccess:
			o.done(&result, dir, outputDir)
		default:
			if res.Err != nil {
				o.events.LogLine(fmt.Sprintf("cannot launch tool: %v", res.Err))
			}
			o.fail(&result, dir, outputDir, res.Code)
		}
		if result.Cancelled {
			break
		}
	}

	if result.Cancelled {
		o.state.Store(int32(StateCancelled))
	} else {
		o.state.Store(int32(StateCompleted))
	}
	o.events.BatchDone(result)
	return result, nil
}

func (o *Orchestrator) done(result *BatchResult, inputDir, outputDir string) {
	result.Outcomes = append(result.Outcomes, DirectoryOutcome{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Success:   true,
	})
	o.events.DirectoryDone(inputDir, outputDir)
}

func (o *Orchestrator) fail(result *BatchResult, inputDir, outputDir string, code int) {
	result.Outcomes = append(result.Outcomes, DirectoryOutcome{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Code:      code,
	})
	o.events.DirectoryFailed(inputDir, code)
}
