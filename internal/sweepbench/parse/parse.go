// Package parse extracts the throughput a runner prints on stdout.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/orsinium-labs/enum"
)

// ErrOutputParse marks runner output that does not carry a readable result.
var ErrOutputParse = errors.New("unreadable runner output")

// TagPrefix starts the line carrying the result in tagged output.
const TagPrefix = "RESULT:"

// DefaultOffset is the position of the result counted from the end of the
// output, as printed by the gradle bench task.
const DefaultOffset = 5

// Parser reads operations per millisecond out of runner stdout.
type Parser interface {
	Parse(stdout string) (float64, error)
}

// Mode selects how runner output is read.
type Mode enum.Member[string]

var (
	ModeAuto   = Mode{Value: "auto"}
	ModeTagged = Mode{Value: "tagged"}
	ModeOffset = Mode{Value: "offset"}

	Modes = enum.New(ModeAuto, ModeTagged, ModeOffset)
)

// ParseMode returns the Mode with the given name.
func ParseMode(name string) (Mode, error) {
	m := Modes.Parse(name)
	if m == nil {
		return Mode{}, fmt.Errorf(
			"invalid parse mode %q, valid values are: %s",
			name, strings.Join(Modes.Values(), ", "),
		)
	}
	return *m, nil
}

// New returns the Parser for mode. offset is only used by the offset and
// auto modes.
func New(mode Mode, offset int) (Parser, error) {
	if offset < 1 {
		return nil, fmt.Errorf("line offset must be at least 1, got %d", offset)
	}

	switch mode {
	case ModeTagged:
		return TaggedParser{}, nil
	case ModeOffset:
		return OffsetParser{Offset: offset}, nil
	case ModeAuto:
		return AutoParser{Offset: offset}, nil
	default:
		return nil, fmt.Errorf("invalid parse mode %q", mode.Value)
	}
}

// OffsetParser reads the line at a fixed position from the end of the
// output. The output is split on newlines, so a trailing newline counts as
// an empty last line.
type OffsetParser struct {
	Offset int
}

func (p OffsetParser) Parse(stdout string) (float64, error) {
	lines := strings.Split(stdout, "\n")
	idx := len(lines) - p.Offset
	if p.Offset < 1 || idx < 0 {
		return 0, fmt.Errorf(
			"%w: need at least %d lines, got %d", ErrOutputParse, p.Offset, len(lines),
		)
	}
	return parseValue(lines[idx])
}

// TaggedParser reads the last line starting with TagPrefix.
type TaggedParser struct{}

func (TaggedParser) Parse(stdout string) (float64, error) {
	line, ok := lastTagged(stdout)
	if !ok {
		return 0, fmt.Errorf("%w: no %q line found", ErrOutputParse, TagPrefix)
	}
	return parseValue(line)
}

// AutoParser prefers a tagged line and falls back to the fixed offset.
type AutoParser struct {
	Offset int
}

func (p AutoParser) Parse(stdout string) (float64, error) {
	if line, ok := lastTagged(stdout); ok {
		return parseValue(line)
	}
	return OffsetParser{Offset: p.Offset}.Parse(stdout)
}

func lastTagged(stdout string) (string, bool) {
	lines := strings.Split(stdout, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if value, ok := strings.CutPrefix(line, TagPrefix); ok {
			return value, true
		}
	}
	return "", false
}

func parseValue(text string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrOutputParse, text)
	}
	return value, nil
}
