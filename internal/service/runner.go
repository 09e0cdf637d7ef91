package service

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

var DefaultCompilerArgs = []string{"make", "src/Main.elm", "--output=out.js"}

// waitDelay bounds how long Wait blocks on stderr after the child is killed,
// in case a grandchild still holds the pipe.
const waitDelay = 2 * time.Second

type RunStatus int

const (
	RunSucceeded RunStatus = iota
	RunFailed
	RunTimedOut
	RunCanceled
	RunLaunchFailed
)

func (s RunStatus) String() string {
	switch s {
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	case RunTimedOut:
		return "timed_out"
	case RunCanceled:
		return "canceled"
	case RunLaunchFailed:
		return "launch_failed"
	default:
		return fmt.Sprintf("RunStatus(%d)", int(s))
	}
}

type RunResult struct {
	Status    RunStatus
	ExitCode  int
	Stderr    string
	Truncated bool
	Err       error
	Duration  time.Duration
}

// Runner invokes the external compiler inside a staged project directory.
type Runner struct {
	Path           string
	Args           []string
	Timeout        time.Duration
	MaxStderrBytes int
}

func (r *Runner) Run(ctx context.Context, dir string) RunResult {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := r.Args
	if len(args) == 0 {
		args = DefaultCompilerArgs
	}

	stderr := newCappedBuffer(r.MaxStderrBytes)
	cmd := exec.CommandContext(runCtx, r.Path, args...)
	cmd.Dir = dir
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{
			Status:   RunLaunchFailed,
			ExitCode: -1,
			Err:      fmt.Errorf("start %s: %w", r.Path, err),
			Duration: time.Since(start),
		}
	}
	err := cmd.Wait()

	res := RunResult{
		ExitCode:  cmd.ProcessState.ExitCode(),
		Stderr:    stderr.String(),
		Truncated: stderr.Truncated(),
		Duration:  time.Since(start),
	}

	res.Status, res.Err = classifyExit(ctx, runCtx, err, r)
	return res
}

// classifyExit maps the Wait error to a status. A clean exit is success even
// when the deadline or a cancellation races with it.
func classifyExit(ctx, runCtx context.Context, waitErr error, r *Runner) (RunStatus, error) {
	if waitErr == nil {
		return RunSucceeded, nil
	}
	if ctx.Err() != nil {
		return RunCanceled, ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return RunTimedOut, fmt.Errorf("compiler exceeded %s deadline", r.Timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return RunFailed, nil
	}
	return RunLaunchFailed, fmt.Errorf("wait %s: %w", r.Path, waitErr)
}
