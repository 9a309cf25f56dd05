// Package sweep drives a benchmark runner across variants and thread counts
// and aggregates the throughput it reports.
package sweep

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
	"github.com/orsinium-labs/enum"
)

// ErrConfiguration marks sweep parameters rejected before any runner
// invocation.
var ErrConfiguration = errors.New("invalid sweep configuration")

// probEpsilon absorbs float rounding when the probabilities add up to 1.
const probEpsilon = 1e-9

// Workload is the operation mix each runner thread executes. Whatever
// probability mass is left goes to contains lookups.
type Workload struct {
	InsertProb float64 `yaml:"insert_prob"`
	DeleteProb float64 `yaml:"delete_prob"`
	CountProb  float64 `yaml:"count_prob"`
}

// Validate checks that every probability is in [0, 1] and that they sum to
// at most 1.
func (w Workload) Validate() error {
	probs := []struct {
		name  string
		value float64
	}{
		{"insert_prob", w.InsertProb},
		{"delete_prob", w.DeleteProb},
		{"count_prob", w.CountProb},
	}
	for _, p := range probs {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrConfiguration, p.name, p.value)
		}
	}

	if sum := w.InsertProb + w.DeleteProb + w.CountProb; sum > 1+probEpsilon {
		return fmt.Errorf(
			"%w: insert_prob + delete_prob + count_prob must be <= 1, got %v",
			ErrConfiguration, sum,
		)
	}
	return nil
}

// SizeKind names the sizing argument understood by the runner.
type SizeKind enum.Member[string]

var (
	SizeExpected = SizeKind{Value: "expected_size"}
	SizeInitial  = SizeKind{Value: "initial_size"}

	SizeKinds = enum.New(SizeExpected, SizeInitial)
)

// Sizing is how large the set is before the measured operations start.
type Sizing struct {
	Kind  SizeKind
	Value int
}

// KeyBounds is the half-open key interval [From, Until).
type KeyBounds struct {
	From  int `yaml:"keys_from"`
	Until int `yaml:"keys_until"`
}

// KeySpace selects the keys the runner draws from. Either Bounds or Range
// is set, or neither when the runner default applies.
type KeySpace struct {
	Bounds *KeyBounds `yaml:"bounds,omitempty"`
	Range  string     `yaml:"key_range,omitempty"`
}

// Params are the global parameters of one sweep.
type Params struct {
	Variants     []variant.Variant
	MaxThreads   int
	RunsCount    int
	Milliseconds int
	Workload     Workload
	Sizing       Sizing
	Keys         KeySpace
	OutDir       string
}

// Validate rejects parameters that cannot produce a valid sweep.
func (p Params) Validate() error {
	if len(p.Variants) == 0 {
		return fmt.Errorf("%w: at least one variant is required", ErrConfiguration)
	}
	if p.MaxThreads < 1 {
		return fmt.Errorf("%w: max_threads must be positive, got %d", ErrConfiguration, p.MaxThreads)
	}
	if p.RunsCount < 1 {
		return fmt.Errorf("%w: runs_count must be at least 1, got %d", ErrConfiguration, p.RunsCount)
	}
	if p.Milliseconds < 1 {
		return fmt.Errorf("%w: milliseconds must be positive, got %d", ErrConfiguration, p.Milliseconds)
	}
	if err := p.Workload.Validate(); err != nil {
		return err
	}
	if !SizeKinds.Contains(p.Sizing.Kind) {
		return fmt.Errorf("%w: sizing kind must be expected_size or initial_size", ErrConfiguration)
	}
	if p.Sizing.Value < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrConfiguration, p.Sizing.Kind.Value)
	}
	if p.Keys.Bounds != nil && p.Keys.Range != "" {
		return fmt.Errorf("%w: keys_from/keys_until and key_range are mutually exclusive", ErrConfiguration)
	}
	if b := p.Keys.Bounds; b != nil {
		if b.From >= b.Until {
			return fmt.Errorf("%w: keys_from must be less than keys_until", ErrConfiguration)
		}
		if p.Sizing.Kind == SizeExpected && b.Until-b.From < p.Sizing.Value {
			return fmt.Errorf("%w: key interval is smaller than expected_size", ErrConfiguration)
		}
	}
	if p.OutDir == "" {
		return fmt.Errorf("%w: out_dir is required", ErrConfiguration)
	}
	return nil
}

// Points returns the invocation parameters of every thread count of v,
// from 1 up to MaxThreads.
func (p Params) Points(v variant.Variant) []Point {
	points := make([]Point, 0, p.MaxThreads)
	for threads := 1; threads <= p.MaxThreads; threads++ {
		points = append(points, Point{
			Variant:      v,
			Threads:      threads,
			Milliseconds: p.Milliseconds,
			Workload:     p.Workload,
			Sizing:       p.Sizing,
			Keys:         p.Keys,
			OutDir:       p.OutDir,
			CreateFile:   threads == 1,
		})
	}
	return points
}

// TotalInvocations is the number of runner processes a sweep launches.
func (p Params) TotalInvocations() int {
	return len(p.Variants) * p.MaxThreads * p.RunsCount
}

// BenchFilePath returns the result file of v inside the output directory.
func (p Params) BenchFilePath(v variant.Variant) string {
	return filepath.Join(p.OutDir, v.Value+".bench")
}
