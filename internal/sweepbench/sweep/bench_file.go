package sweep

import (
	"bufio"
	"fmt"
	"os"

	"github.com/nsqlite/sweepbench/internal/util/numutil"
)

// BenchLine formats one aggregate as written to a .bench file.
func BenchLine(threads int, opsPerMs float64) string {
	return fmt.Sprintf("%d threads, %s ops / millisecond\n", threads, numutil.FloatLiteral(opsPerMs))
}

// benchFile is the result file of one variant. It is truncated on open and
// every line is flushed as soon as it is written so a failed sweep keeps the
// thread counts it already finished.
type benchFile struct {
	file *os.File
	w    *bufio.Writer
}

func createBenchFile(path string) (*benchFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &benchFile{file: f, w: bufio.NewWriter(f)}, nil
}

func (b *benchFile) WriteResult(threads int, opsPerMs float64) error {
	if _, err := b.w.WriteString(BenchLine(threads, opsPerMs)); err != nil {
		return err
	}
	return b.w.Flush()
}

func (b *benchFile) Close() error {
	if err := b.w.Flush(); err != nil {
		_ = b.file.Close()
		return err
	}
	return b.file.Close()
}
