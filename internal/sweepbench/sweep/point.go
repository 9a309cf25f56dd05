package sweep

import (
	"strconv"
	"strings"

	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
	"github.com/nsqlite/sweepbench/internal/util/numutil"
)

// Point holds the parameters of one runner invocation: a variant at a
// given thread count.
type Point struct {
	Variant      variant.Variant
	Threads      int
	Milliseconds int
	Workload     Workload
	Sizing       Sizing
	Keys         KeySpace
	OutDir       string
	CreateFile   bool
}

// Args renders the point as the runner argument string, semicolon
// separated key:value pairs.
//
// Each invocation performs a single run, the repeats are driven by the
// sweep, so runs_count is always 1.
func (p Point) Args() string {
	pairs := []string{
		pair("bench_type", p.Variant.Value),
		pair("threads", strconv.Itoa(p.Threads)),
		pair("runs_count", "1"),
	}

	switch {
	case p.Keys.Bounds != nil:
		pairs = append(pairs,
			pair("keys_from", strconv.Itoa(p.Keys.Bounds.From)),
			pair("keys_until", strconv.Itoa(p.Keys.Bounds.Until)),
		)
	case p.Keys.Range != "":
		pairs = append(pairs, pair("key_range", p.Keys.Range))
	}

	pairs = append(pairs,
		pair(p.Sizing.Kind.Value, strconv.Itoa(p.Sizing.Value)),
		pair("out_dir", p.OutDir),
		pair("insert_prob", numutil.FloatLiteral(p.Workload.InsertProb)),
		pair("delete_prob", numutil.FloatLiteral(p.Workload.DeleteProb)),
		pair("count_prob", numutil.FloatLiteral(p.Workload.CountProb)),
		pair("create_file", strconv.FormatBool(p.CreateFile)),
		pair("milliseconds", strconv.Itoa(p.Milliseconds)),
	)

	return strings.Join(pairs, ";")
}

func pair(key, value string) string {
	return key + ":" + value
}
