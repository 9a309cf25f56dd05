// Package benchbar provides a really simple progress bar for the sweep.
package benchbar

import (
	"github.com/schollz/progressbar/v3"
)

// Bar counts finished runner invocations. A hidden Bar does nothing.
type Bar struct {
	pb          *progressbar.ProgressBar
	description string
	maxItems    int
}

// NewBar creates a Bar with maxItems steps. When hidden is true nothing is
// rendered.
func NewBar(description string, maxItems int, hidden bool) *Bar {
	b := &Bar{
		description: description,
		maxItems:    maxItems,
	}
	if hidden {
		return b
	}

	b.pb = progressbar.Default(int64(maxItems), description)
	_ = b.pb.Set(0)

	return b
}

// Inc implements sweep.Progress.
func (b *Bar) Inc() {
	if b.pb == nil {
		return
	}
	_ = b.pb.Add(1)
}

func (b *Bar) Finish() {
	if b.pb == nil {
		return
	}
	_ = b.pb.Finish()
	_ = b.pb.Close()
}
