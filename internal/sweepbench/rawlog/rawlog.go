// Package rawlog keeps the stdout of every runner invocation, zstd
// compressed, next to the sweep results.
package rawlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// DirName is the subdirectory of the output directory holding raw logs.
const DirName = "raw"

// Archive writes compressed runner output into a directory.
type Archive struct {
	dir string
}

// New creates the raw log directory inside outDir.
func New(outDir string) (*Archive, error) {
	dir := filepath.Join(outDir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create raw output directory: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Path returns the file holding the output of one invocation.
func (a *Archive) Path(variantName string, threads, run int) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s-t%d-r%d.log.zst", variantName, threads, run))
}

// Store implements sweep.Archive. Existing files are overwritten.
func (a *Archive) Store(variantName string, threads, run int, stdout string) error {
	f, err := os.Create(a.Path(variantName, threads, run))
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return err
	}

	if _, err := io.WriteString(enc, stdout); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read returns the decompressed output of one invocation.
func (a *Archive) Read(variantName string, threads, run int) (string, error) {
	f, err := os.Open(a.Path(variantName, threads, run))
	if err != nil {
		return "", err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return "", err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
