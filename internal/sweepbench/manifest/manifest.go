// Package manifest describes a sweep in a YAML file stored next to its
// results, so result files can be traced back to the parameters and host
// that produced them.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/nsqlite/sweepbench/internal/sweepbench/sweep"
	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
	"github.com/nsqlite/sweepbench/internal/version"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file inside the output directory.
const FileName = "sweep.yaml"

// Manifest is the YAML document written for every sweep.
type Manifest struct {
	SweepID string    `yaml:"sweep_id"`
	Started time.Time `yaml:"started"`
	Version string    `yaml:"version"`
	Host    Host      `yaml:"host"`
	Runner  Runner    `yaml:"runner"`
	Params  Params    `yaml:"params"`
}

// Host identifies the machine the sweep ran on.
type Host struct {
	Hostname string `yaml:"hostname,omitempty"`
	OS       string `yaml:"os"`
	Arch     string `yaml:"arch"`
	CPUs     int    `yaml:"cpus"`
}

// Runner describes how the benchmark process was launched and read.
type Runner struct {
	Command    string `yaml:"command"`
	Dir        string `yaml:"dir,omitempty"`
	RawArgs    bool   `yaml:"raw_args"`
	ParseMode  string `yaml:"parse_mode"`
	LineOffset int    `yaml:"line_offset"`
}

// Params mirrors sweep.Params with stable field names.
type Params struct {
	Variants     []string       `yaml:"variants"`
	MaxThreads   int            `yaml:"max_threads"`
	RunsCount    int            `yaml:"runs_count"`
	Milliseconds int            `yaml:"milliseconds"`
	Workload     sweep.Workload `yaml:"workload"`
	SizeKind     string         `yaml:"size_kind"`
	Size         int            `yaml:"size"`
	Keys         sweep.KeySpace `yaml:"keys"`
	OutDir       string         `yaml:"out_dir"`
}

// New builds the manifest of a sweep started now on this host.
func New(sweepID string, started time.Time, params sweep.Params, runner Runner) Manifest {
	hostname, _ := os.Hostname()

	return Manifest{
		SweepID: sweepID,
		Started: started.UTC().Truncate(time.Second),
		Version: version.Version,
		Host: Host{
			Hostname: hostname,
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			CPUs:     runtime.NumCPU(),
		},
		Runner: runner,
		Params: Params{
			Variants:     variant.Names(params.Variants),
			MaxThreads:   params.MaxThreads,
			RunsCount:    params.RunsCount,
			Milliseconds: params.Milliseconds,
			Workload:     params.Workload,
			SizeKind:     params.Sizing.Kind.Value,
			Size:         params.Sizing.Value,
			Keys:         params.Keys,
			OutDir:       params.OutDir,
		},
	}
}

// Marshal encodes the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Write stores the manifest as FileName inside dir.
func (m Manifest) Write(dir string) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}

// Load reads a manifest file.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return m, nil
}
