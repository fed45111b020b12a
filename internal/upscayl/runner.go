package upscayl

import (
	"bufio"
	"context"
)

// CodeLaunchFailed is the sentinel exit code reported when the tool could
// not be started at all, or died without a real exit code.
const CodeLaunchFailed = -1

// Status classifies how one tool invocation ended.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusCancelled
)

// RunResult holds the outcome of a single tool invocation.
type RunResult struct {
	Status Status
	Code   int   // exit code; meaningful when Status is StatusFailure
	Err    error // launch error detail; nil unless the tool never started
}

// Runner invokes the external upscaling tool once per directory, streaming
// its merged output line by line.
type Runner struct {
	executable string
	launch     launchFunc
}

// NewRunner returns a Runner for the given executable.
func NewRunner(executable string) *Runner {
	return &Runner{executable: executable, launch: launchExec}
}

// Executable returns the tool path this runner launches.
func (r *Runner) Executable() string { return r.executable }

// RunOne resolves the template for one input/output directory pair, launches
// the tool, and delivers each output line to onLine in arrival order.
//
// stopped is polled once per produced line, before that line is delivered;
// when it reports true the process is terminated and the result is
// StatusCancelled. Lines already delivered are not retracted. Cancelling ctx
// also kills the process, which covers tools that go silent between lines.
//
// The output directory must exist before the call; the tool will not create it.
func (r *Runner) RunOne(
	ctx context.Context,
	tpl Template,
	inputDir, outputDir string,
	onLine func(string),
	stopped func() bool,
) RunResult {
	argv := tpl.Resolve(inputDir, outputDir)

	proc, err := r.launch(ctx, r.executable, argv)
	if err != nil {
		return RunResult{Status: StatusFailure, Code: CodeLaunchFailed, Err: err}
	}

	cancelled := false
	sc := bufio.NewScanner(proc.Output())
	for sc.Scan() {
		if stopped != nil && stopped() {
			cancelled = true
			proc.Terminate()
			break
		}
		if onLine != nil {
			onLine(sc.Text())
		}
	}

	code := proc.Wait()
	if cancelled || ctx.Err() != nil {
		return RunResult{Status: StatusCancelled}
	}
	if code == 0 {
		return RunResult{Status: StatusSuccess}
	}
	return RunResult{Status: StatusFailure, Code: code}
}
