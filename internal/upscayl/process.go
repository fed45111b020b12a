package upscayl

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// process is the narrow capability the runner needs from a launched tool,
// so tests can substitute a fake without invoking a real binary.
type process interface {
	// Output is the merged stdout+stderr stream, readable until Wait.
	Output() io.Reader
	// Wait blocks until the process exits and returns its exit code.
	Wait() int
	// Terminate force-kills the process. Safe to call more than once.
	Terminate()
}

// launchFunc starts the executable with args and returns a handle to the
// running process.
type launchFunc func(ctx context.Context, name string, args []string) (process, error)

// launchExec is the real launcher. Stderr is pointed at the stdout pipe so
// both streams arrive merged, in producer order, on one reader.
func launchExec(ctx context.Context, name string, args []string) (process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, out: stdout}, nil
}

type execProcess struct {
	cmd *exec.Cmd
	out io.Reader
}

func (p *execProcess) Output() io.Reader { return p.out }

func (p *execProcess) Wait() int {
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return CodeLaunchFailed
}

func (p *execProcess) Terminate() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}
