package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	domain "github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
)

// Runner executes analyzer binaries found on PATH.
type Runner struct {
	// Timeout per tool; zero means the tool runs until it exits.
	Timeout time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	return &Runner{Timeout: timeout}
}

func (r *Runner) Run(ctx context.Context, dir string, step domain.Step) domain.Result {
	return Exec(ctx, dir, step.Args, r.Timeout)
}

// Exec runs argv in dir and captures both streams separately. A non-zero exit
// is a normal result; only failing to start or wait for the process is an
// invocation error.
func Exec(ctx context.Context, dir string, argv []string, timeout time.Duration) domain.Result {
	if len(argv) == 0 {
		return domain.InvocationFailed(errors.New("empty command"))
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start).Milliseconds()

	exitCode := 0
	if err != nil {
		// ambil exit code
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			res := domain.InvocationFailed(fmt.Errorf("run %s: %w", argv[0], err))
			res.DurationMS = duration
			return res
		}
		exitCode = ee.ExitCode()
		if ctx.Err() != nil {
			// killed by timeout: report it, keep what was captured
			stderr.WriteString(fmt.Sprintf("\n%s: %v", argv[0], ctx.Err()))
		}
	}

	res := domain.Completed(argv, exitCode, stdout.String(), stderr.String())
	res.DurationMS = duration
	return res
}
