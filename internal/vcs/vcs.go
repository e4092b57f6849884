package vcs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"
)

// Runner executes a version-control command in a working directory and
// returns its stdout. Implementations must fail with *CommandError on
// nonzero exit and never swallow the error.
type Runner interface {
	Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) ([]byte, error)
}

// CommandError reports a child VCS process that exited nonzero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", shellquote.Join(e.Args...), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// ShellRunner implements Runner by spawning the command directly.
type ShellRunner struct {
	logger  *slog.Logger
	verbose bool
}

// NewShellRunner creates a runner. When verbose is set, every invocation is
// logged with its shell-quoted command line and wall-clock duration.
func NewShellRunner(logger *slog.Logger, verbose bool) *ShellRunner {
	return &ShellRunner{
		logger:  logger,
		verbose: verbose,
	}
}

// Run executes name with args in dir, feeding stdin when non-nil, and
// returns captured stdout.
func (r *ShellRunner) Run(ctx context.Context, dir string, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	if r.verbose {
		r.logger.Info("ran command",
			"cmd", shellquote.Join(append([]string{name}, args...)...),
			"dir", dir,
			"duration", time.Since(start).Round(time.Millisecond))
	}

	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			// Spawn failures (binary missing, context canceled) carry no
			// exit status; surface them directly.
			return nil, fmt.Errorf("failed to run %s: %w", name, err)
		}
		return nil, &CommandError{
			Args:     append([]string{name}, args...),
			ExitCode: exitCode,
			Stderr:   stderr.String(),
		}
	}

	return stdout.Bytes(), nil
}
