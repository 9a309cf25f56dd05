package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nsqlite/sweepbench/internal/log"
	"github.com/nsqlite/sweepbench/internal/sweepbench/parse"
	"github.com/nsqlite/sweepbench/internal/sweepbench/runner"
	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
)

// RunResult is the throughput reported by a single runner invocation.
type RunResult struct {
	Variant  variant.Variant
	Threads  int
	Run      int
	OpsPerMs float64
	Elapsed  time.Duration
}

// AggregateResult is the mean throughput of all runs of a variant at a
// thread count.
type AggregateResult struct {
	Variant  variant.Variant
	Threads  int
	Runs     int
	OpsPerMs float64
}

// Recorder persists results as the sweep produces them.
type Recorder interface {
	RecordRun(ctx context.Context, res RunResult) error
	RecordAggregate(ctx context.Context, res AggregateResult) error
}

// Archive keeps the raw stdout of every invocation.
type Archive interface {
	Store(variantName string, threads, run int, stdout string) error
}

// Progress is notified once per finished invocation.
type Progress interface {
	Inc()
}

// DriverConfig holds the collaborators of a Driver. Recorder, Archive and
// Progress are optional.
type DriverConfig struct {
	Params   Params
	Runner   runner.Runner
	Parser   parse.Parser
	Logger   log.Logger
	Recorder Recorder
	Archive  Archive
	Progress Progress
}

// Driver runs a sweep. Invocations are strictly sequential so that only one
// benchmark process competes for the machine at a time.
type Driver struct {
	params   Params
	runner   runner.Runner
	parser   parse.Parser
	logger   log.Logger
	recorder Recorder
	archive  Archive
	progress Progress
}

// NewDriver validates the sweep parameters and returns a Driver. No runner
// is invoked when the parameters are invalid.
func NewDriver(cfg DriverConfig) (*Driver, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Runner == nil {
		return nil, errors.New("runner is required")
	}
	if cfg.Parser == nil {
		return nil, errors.New("parser is required")
	}

	return &Driver{
		params:   cfg.Params,
		runner:   cfg.Runner,
		parser:   cfg.Parser,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		archive:  cfg.Archive,
		progress: cfg.Progress,
	}, nil
}

// Run executes the whole sweep and returns one aggregate per variant and
// thread count, in sweep order. The first failure aborts the sweep.
func (d *Driver) Run(ctx context.Context) ([]AggregateResult, error) {
	if err := os.MkdirAll(d.params.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	results := make([]AggregateResult, 0, len(d.params.Variants)*d.params.MaxThreads)
	for _, v := range d.params.Variants {
		variantResults, err := d.runVariant(ctx, v)
		results = append(results, variantResults...)
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

func (d *Driver) runVariant(ctx context.Context, v variant.Variant) ([]AggregateResult, error) {
	path := d.params.BenchFilePath(v)
	bf, err := createBenchFile(path)
	if err != nil {
		return nil, err
	}

	d.logger.InfoNs("sweep", "starting variant", log.KV{
		"variant":     v.Value,
		"max_threads": d.params.MaxThreads,
		"file":        path,
	})

	var results []AggregateResult
	for _, point := range d.params.Points(v) {
		agg, err := d.runPoint(ctx, point)
		if err != nil {
			_ = bf.Close()
			return results, err
		}

		if err := bf.WriteResult(agg.Threads, agg.OpsPerMs); err != nil {
			_ = bf.Close()
			return results, fmt.Errorf("failed to write %s: %w", path, err)
		}
		if d.recorder != nil {
			if err := d.recorder.RecordAggregate(ctx, agg); err != nil {
				_ = bf.Close()
				return results, fmt.Errorf("failed to record aggregate: %w", err)
			}
		}
		results = append(results, agg)

		d.logger.InfoNs("sweep", "thread count finished", log.KV{
			"variant":    v.Value,
			"threads":    agg.Threads,
			"ops_per_ms": agg.OpsPerMs,
		})
	}

	if err := bf.Close(); err != nil {
		return results, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return results, nil
}

func (d *Driver) runPoint(ctx context.Context, point Point) (AggregateResult, error) {
	args := point.Args()
	runs := make([]float64, 0, d.params.RunsCount)

	for run := 1; run <= d.params.RunsCount; run++ {
		if err := ctx.Err(); err != nil {
			return AggregateResult{}, err
		}

		res, err := d.invoke(ctx, point, run, args)
		if err != nil {
			return AggregateResult{}, fmt.Errorf(
				"%s with %d threads, run %d: %w", point.Variant.Value, point.Threads, run, err,
			)
		}
		runs = append(runs, res.OpsPerMs)
	}

	return AggregateResult{
		Variant:  point.Variant,
		Threads:  point.Threads,
		Runs:     len(runs),
		OpsPerMs: Mean(runs),
	}, nil
}

func (d *Driver) invoke(ctx context.Context, point Point, run int, args string) (RunResult, error) {
	out, err := d.runner.Run(ctx, args)
	if err != nil {
		return RunResult{}, err
	}

	if d.archive != nil {
		if err := d.archive.Store(point.Variant.Value, point.Threads, run, out.Stdout); err != nil {
			return RunResult{}, fmt.Errorf("failed to archive output: %w", err)
		}
	}

	value, err := d.parser.Parse(out.Stdout)
	if err != nil {
		return RunResult{}, err
	}

	res := RunResult{
		Variant:  point.Variant,
		Threads:  point.Threads,
		Run:      run,
		OpsPerMs: value,
		Elapsed:  out.Elapsed,
	}

	if d.recorder != nil {
		if err := d.recorder.RecordRun(ctx, res); err != nil {
			return RunResult{}, fmt.Errorf("failed to record run: %w", err)
		}
	}
	if d.progress != nil {
		d.progress.Inc()
	}

	d.logger.DebugNs("sweep", "run finished", log.KV{
		"variant":    point.Variant.Value,
		"threads":    point.Threads,
		"run":        run,
		"ops_per_ms": value,
		"elapsed_ms": out.Elapsed.Milliseconds(),
	})

	return res, nil
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
