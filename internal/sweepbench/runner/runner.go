// Package runner launches the external benchmark process for one sweep
// point and captures what it prints.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nsqlite/sweepbench/internal/log"
)

// ErrSubprocess marks a runner that could not be started or exited
// with a non-zero status.
var ErrSubprocess = errors.New("runner failed")

// stderrTailBytes bounds the stderr excerpt attached to errors.
const stderrTailBytes = 4096

// Output is what a single runner invocation produced.
type Output struct {
	Stdout  string
	Stderr  string
	Elapsed time.Duration
}

// Runner executes one benchmark invocation with the given argument string
// and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, args string) (Output, error)
}

// Config describes the command used to run benchmarks.
type Config struct {
	// Command is the program followed by its leading arguments, split on
	// whitespace, e.g. "./gradlew bench".
	Command string
	// Dir is the working directory of the process, empty for the current one.
	Dir string
	// RawArgs passes the argument string as a plain argument instead of
	// wrapping it in gradle's --args="...".
	RawArgs bool
	// Env is appended to the inherited environment.
	Env []string
}

// ExecRunner runs the benchmark as a child process.
type ExecRunner struct {
	program string
	prefix  []string
	dir     string
	rawArgs bool
	env     []string
	logger  log.Logger
}

// NewExecRunner creates an ExecRunner from cfg.
func NewExecRunner(cfg Config, logger log.Logger) (*ExecRunner, error) {
	fields := strings.Fields(cfg.Command)
	if len(fields) == 0 {
		return nil, errors.New("runner command is empty")
	}

	return &ExecRunner{
		program: fields[0],
		prefix:  fields[1:],
		dir:     cfg.Dir,
		rawArgs: cfg.RawArgs,
		env:     cfg.Env,
		logger:  logger,
	}, nil
}

// CommandArgs returns the process arguments used for the given argument
// string, without the program name.
func (r *ExecRunner) CommandArgs(args string) []string {
	cmdArgs := make([]string, 0, len(r.prefix)+1)
	cmdArgs = append(cmdArgs, r.prefix...)
	if r.rawArgs {
		return append(cmdArgs, args)
	}
	return append(cmdArgs, `--args="`+args+`"`)
}

// Run starts the process, waits for it to exit and returns its output.
func (r *ExecRunner) Run(ctx context.Context, args string) (Output, error) {
	cmd := exec.CommandContext(ctx, r.program, r.CommandArgs(args)...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.DebugNs("runner", "starting runner", log.KV{
		"program": r.program,
		"args":    args,
	})

	start := time.Now()
	err := cmd.Run()
	out := Output{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: time.Since(start),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("%w: %s: %w", ErrSubprocess, r.program, ctxErr)
		}
		return out, fmt.Errorf(
			"%w: %s: %w\nstderr: %s",
			ErrSubprocess, r.program, err, tail(out.Stderr, stderrTailBytes),
		)
	}

	r.logger.DebugNs("runner", "runner finished", log.KV{
		"elapsed_ms": out.Elapsed.Milliseconds(),
	})

	return out, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
