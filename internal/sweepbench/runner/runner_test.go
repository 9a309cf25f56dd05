package runner

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsqlite/sweepbench/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestNewExecRunner(t *testing.T) {
	t.Run("EmptyCommand", func(t *testing.T) {
		_, err := NewExecRunner(Config{Command: "   "}, log.NewDiscardLogger())
		assert.Error(t, err)
	})

	t.Run("GradleArgs", func(t *testing.T) {
		r, err := NewExecRunner(Config{Command: "./gradlew bench"}, log.NewDiscardLogger())
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"bench", `--args="bench_type:universal;threads:1"`},
			r.CommandArgs("bench_type:universal;threads:1"),
		)
	})

	t.Run("RawArgs", func(t *testing.T) {
		r, err := NewExecRunner(Config{Command: "bench-runner", RawArgs: true}, log.NewDiscardLogger())
		require.NoError(t, err)
		assert.Equal(t, []string{"threads:2"}, r.CommandArgs("threads:2"))
	})
}

func TestExecRunnerRun(t *testing.T) {
	t.Run("CapturesStdout", func(t *testing.T) {
		requireProgram(t, "echo")
		r, err := NewExecRunner(Config{Command: "echo", RawArgs: true}, log.NewDiscardLogger())
		require.NoError(t, err)

		out, err := r.Run(context.Background(), "threads:1;create_file:true")
		require.NoError(t, err)
		assert.Equal(t, "threads:1;create_file:true\n", out.Stdout)
		assert.GreaterOrEqual(t, out.Elapsed.Nanoseconds(), int64(0))
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		requireProgram(t, "false")
		r, err := NewExecRunner(Config{Command: "false", RawArgs: true}, log.NewDiscardLogger())
		require.NoError(t, err)

		_, err = r.Run(context.Background(), "threads:1")
		assert.ErrorIs(t, err, ErrSubprocess)
	})

	t.Run("MissingProgram", func(t *testing.T) {
		r, err := NewExecRunner(Config{Command: "/nonexistent/sweep-runner"}, log.NewDiscardLogger())
		require.NoError(t, err)

		_, err = r.Run(context.Background(), "threads:1")
		assert.ErrorIs(t, err, ErrSubprocess)
	})

	t.Run("Canceled", func(t *testing.T) {
		requireProgram(t, "sleep")
		r, err := NewExecRunner(Config{Command: "sleep", RawArgs: true}, log.NewDiscardLogger())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = r.Run(ctx, "5")
		assert.ErrorIs(t, err, ErrSubprocess)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("WorkingDirectory", func(t *testing.T) {
		requireProgram(t, "sh")
		dir, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		r, err := NewExecRunner(Config{Command: "sh -c pwd", Dir: dir, RawArgs: true}, log.NewDiscardLogger())
		require.NoError(t, err)

		out, err := r.Run(context.Background(), "threads:1")
		require.NoError(t, err)
		assert.Equal(t, dir, strings.TrimSpace(out.Stdout))
	})
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail("short", 10))
	assert.Equal(t, "...6789", tail("0123456789", 4))
}
