package sweep

import (
	"path/filepath"
	"testing"

	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
	"github.com/stretchr/testify/assert"
)

func validParams(outDir string) Params {
	return Params{
		Variants:     variant.Variants.Members(),
		MaxThreads:   2,
		RunsCount:    1,
		Milliseconds: 1000,
		Workload:     Workload{InsertProb: 0.1, DeleteProb: 0.1, CountProb: 0.05},
		Sizing:       Sizing{Kind: SizeExpected, Value: 1000},
		Keys:         KeySpace{Bounds: &KeyBounds{From: -1_000_000, Until: 1_000_000}},
		OutDir:       outDir,
	}
}

func TestWorkloadValidate(t *testing.T) {
	tests := []struct {
		name     string
		workload Workload
		wantErr  bool
	}{
		{name: "typical", workload: Workload{InsertProb: 0.1, DeleteProb: 0.1, CountProb: 0.5}},
		{name: "all zero", workload: Workload{}},
		{name: "sum exactly one", workload: Workload{InsertProb: 0.5, DeleteProb: 0.25, CountProb: 0.25}},
		{name: "rounding at one", workload: Workload{InsertProb: 0.1, DeleteProb: 0.2, CountProb: 0.7}},
		{name: "sum above one", workload: Workload{InsertProb: 0.5, DeleteProb: 0.5, CountProb: 0.1}, wantErr: true},
		{name: "negative", workload: Workload{InsertProb: -0.1}, wantErr: true},
		{name: "above one", workload: Workload{CountProb: 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.workload.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *Params) {}},
		{name: "key range", mutate: func(p *Params) {
			p.Keys = KeySpace{Range: "1000000"}
		}},
		{name: "no key space", mutate: func(p *Params) {
			p.Keys = KeySpace{}
		}},
		{name: "initial size", mutate: func(p *Params) {
			p.Sizing = Sizing{Kind: SizeInitial, Value: 10}
		}},
		{name: "no variants", mutate: func(p *Params) { p.Variants = nil }, wantErr: true},
		{name: "zero threads", mutate: func(p *Params) { p.MaxThreads = 0 }, wantErr: true},
		{name: "zero runs", mutate: func(p *Params) { p.RunsCount = 0 }, wantErr: true},
		{name: "zero duration", mutate: func(p *Params) { p.Milliseconds = 0 }, wantErr: true},
		{name: "probability sum", mutate: func(p *Params) {
			p.Workload = Workload{InsertProb: 0.6, DeleteProb: 0.6}
		}, wantErr: true},
		{name: "unknown size kind", mutate: func(p *Params) {
			p.Sizing = Sizing{Kind: SizeKind{Value: "size"}, Value: 1}
		}, wantErr: true},
		{name: "negative size", mutate: func(p *Params) { p.Sizing.Value = -1 }, wantErr: true},
		{name: "both key forms", mutate: func(p *Params) { p.Keys.Range = "10" }, wantErr: true},
		{name: "empty key interval", mutate: func(p *Params) {
			p.Keys.Bounds = &KeyBounds{From: 5, Until: 5}
		}, wantErr: true},
		{name: "interval smaller than expected size", mutate: func(p *Params) {
			p.Keys.Bounds = &KeyBounds{From: 0, Until: 10}
		}, wantErr: true},
		{name: "no out dir", mutate: func(p *Params) { p.OutDir = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams("out")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParamsPoints(t *testing.T) {
	p := validParams("out")
	p.MaxThreads = 3

	points := p.Points(variant.Universal)
	assert.Len(t, points, 3)
	for i, point := range points {
		assert.Equal(t, i+1, point.Threads)
		assert.Equal(t, variant.Universal, point.Variant)
		assert.Equal(t, point.Threads == 1, point.CreateFile)
	}
}

func TestParamsTotalsAndPaths(t *testing.T) {
	p := validParams("results")
	p.MaxThreads = 4
	p.RunsCount = 3
	assert.Equal(t, 4*4*3, p.TotalInvocations())
	assert.Equal(t, filepath.Join("results", "lock-free.bench"), p.BenchFilePath(variant.LockFree))
}

func TestPointArgs(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  string
	}{
		{
			name: "key bounds and expected size",
			point: Point{
				Variant:      variant.LockFree,
				Threads:      1,
				Milliseconds: 5000,
				Workload:     Workload{InsertProb: 0.1, DeleteProb: 0.1, CountProb: 0.05},
				Sizing:       Sizing{Kind: SizeExpected, Value: 10000},
				Keys:         KeySpace{Bounds: &KeyBounds{From: -1000000, Until: 1000000}},
				OutDir:       "bench-out",
				CreateFile:   true,
			},
			want: "bench_type:lock-free;threads:1;runs_count:1;keys_from:-1000000;keys_until:1000000;" +
				"expected_size:10000;out_dir:bench-out;insert_prob:0.1;delete_prob:0.1;count_prob:0.05;" +
				"create_file:true;milliseconds:5000",
		},
		{
			name: "key range and initial size",
			point: Point{
				Variant:      variant.Universal,
				Threads:      4,
				Milliseconds: 100,
				Workload:     Workload{InsertProb: 1},
				Sizing:       Sizing{Kind: SizeInitial, Value: 0},
				Keys:         KeySpace{Range: "100000"},
				OutDir:       "/tmp/out",
			},
			want: "bench_type:universal;threads:4;runs_count:1;key_range:100000;initial_size:0;" +
				"out_dir:/tmp/out;insert_prob:1.0;delete_prob:0.0;count_prob:0.0;" +
				"create_file:false;milliseconds:100",
		},
		{
			name: "no key space",
			point: Point{
				Variant:      variant.LockModifiable,
				Threads:      2,
				Milliseconds: 10,
				Sizing:       Sizing{Kind: SizeExpected, Value: 5},
				OutDir:       "o",
			},
			want: "bench_type:lock-modifiable;threads:2;runs_count:1;expected_size:5;out_dir:o;" +
				"insert_prob:0.0;delete_prob:0.0;count_prob:0.0;create_file:false;milliseconds:10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.point.Args())
		})
	}
}
