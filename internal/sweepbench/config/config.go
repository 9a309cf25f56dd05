package config

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/alexflint/go-arg"
	validator "github.com/go-playground/validator/v10"
	sblog "github.com/nsqlite/sweepbench/internal/log"
	"github.com/nsqlite/sweepbench/internal/sweepbench/parse"
	"github.com/nsqlite/sweepbench/internal/sweepbench/sweep"
	"github.com/nsqlite/sweepbench/internal/sweepbench/variant"
	"github.com/nsqlite/sweepbench/internal/version"
)

// Config represents the configuration for sweepbench.
type Config struct {
	MaxThreads    int      `arg:"--max_threads,required,env:SWEEPBENCH_MAX_THREADS" help:"Sweep thread counts from 1 up to this value" validate:"gt=0"`
	RunsCount     int      `arg:"--runs_count,required,env:SWEEPBENCH_RUNS_COUNT" help:"Runner invocations averaged per thread count" validate:"gt=0"`
	Milliseconds  int      `arg:"--milliseconds,required,env:SWEEPBENCH_MILLISECONDS" help:"Duration of each measured run in milliseconds" validate:"gt=0"`
	ExpectedSize  *int     `arg:"--expected_size,env:SWEEPBENCH_EXPECTED_SIZE" help:"Set size kept during the run (exclusive with --initial_size)" validate:"omitempty,gte=0"`
	InitialSize   *int     `arg:"--initial_size,env:SWEEPBENCH_INITIAL_SIZE" help:"Set size before the run starts (exclusive with --expected_size)" validate:"omitempty,gte=0"`
	DeleteProb    float64  `arg:"--delete_prob,required,env:SWEEPBENCH_DELETE_PROB" help:"Probability of a delete operation" validate:"gte=0,lte=1"`
	InsertProb    float64  `arg:"--insert_prob,required,env:SWEEPBENCH_INSERT_PROB" help:"Probability of an insert operation" validate:"gte=0,lte=1"`
	CountProb     float64  `arg:"--count_prob,required,env:SWEEPBENCH_COUNT_PROB" help:"Probability of a range count operation" validate:"gte=0,lte=1"`
	KeysFrom      *int     `arg:"--keys_from,env:SWEEPBENCH_KEYS_FROM" help:"First key of the key interval (inclusive)"`
	KeysUntil     *int     `arg:"--keys_until,env:SWEEPBENCH_KEYS_UNTIL" help:"End of the key interval (exclusive)"`
	KeyRange      string   `arg:"--key_range,env:SWEEPBENCH_KEY_RANGE" help:"Key range passed verbatim to the runner (exclusive with --keys_from/--keys_until)"`
	OutDir        string   `arg:"--out_dir,required,env:SWEEPBENCH_OUT_DIR" help:"Directory for the <variant>.bench result files" validate:"required"`
	Variants      []string `arg:"--variants,env:SWEEPBENCH_VARIANTS" help:"Variants to sweep (default: lock-persistent, lock-modifiable, universal, lock-free)"`
	Runner        string   `arg:"--runner,env:SWEEPBENCH_RUNNER" help:"Benchmark runner command" default:"./gradlew bench" validate:"required"`
	RunnerDir     string   `arg:"--runner_dir,env:SWEEPBENCH_RUNNER_DIR" help:"Working directory of the runner (default: current directory)"`
	RawArgs       bool     `arg:"--raw_args,env:SWEEPBENCH_RAW_ARGS" help:"Pass the argument string as is instead of --args=\"...\"" default:"false"`
	ParseMode     string   `arg:"--parse_mode,env:SWEEPBENCH_PARSE_MODE" help:"How to read the runner result (auto, tagged, offset)" default:"auto"`
	LineOffset    int      `arg:"--line_offset,env:SWEEPBENCH_LINE_OFFSET" help:"Line holding the result counted from the end of the runner output" default:"5" validate:"gte=1"`
	ResultsDB     string   `arg:"--results_db,env:SWEEPBENCH_RESULTS_DB" help:"Record every run in a SQLite file or an NSQLite server URL"`
	KeepRawOutput bool     `arg:"--keep_raw_output,env:SWEEPBENCH_KEEP_RAW_OUTPUT" help:"Store compressed runner output under <out_dir>/raw" default:"false"`
	LogLevel      string   `arg:"--log_level,env:SWEEPBENCH_LOG_LEVEL" help:"Log level (debug, info, warn, error)" default:"info"`
	Quiet         bool     `arg:"--quiet,env:SWEEPBENCH_QUIET" help:"Do not print the banner and progress bar" default:"false"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.SweepVersion())
}

func (Config) Description() string {
	return "Sweeps the count-set benchmark across variants and thread counts."
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sweepbench"},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// Parse is like MustParse but returns errors instead of exiting. args
// must not include the program name.
func Parse(args []string) (Config, error) {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{Program: "sweepbench"},
		&cfg,
	)
	if err != nil {
		return Config{}, err
	}
	if err := parser.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field and the cross-field rules, including the
// probability sum, before anything is run.
func (cfg Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", sweep.ErrConfiguration, err)
	}

	if _, err := cfg.Params(); err != nil {
		return err
	}

	if _, err := parse.ParseMode(cfg.ParseMode); err != nil {
		return err
	}

	if _, err := sblog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	return nil
}

// Params builds the validated sweep parameters.
func (cfg Config) Params() (sweep.Params, error) {
	variants, err := variant.ParseList(cfg.Variants)
	if err != nil {
		return sweep.Params{}, fmt.Errorf("%w: %w", sweep.ErrConfiguration, err)
	}

	sizing, err := cfg.sizing()
	if err != nil {
		return sweep.Params{}, err
	}

	keys, err := cfg.keySpace()
	if err != nil {
		return sweep.Params{}, err
	}

	params := sweep.Params{
		Variants:     variants,
		MaxThreads:   cfg.MaxThreads,
		RunsCount:    cfg.RunsCount,
		Milliseconds: cfg.Milliseconds,
		Workload: sweep.Workload{
			InsertProb: cfg.InsertProb,
			DeleteProb: cfg.DeleteProb,
			CountProb:  cfg.CountProb,
		},
		Sizing: sizing,
		Keys:   keys,
		OutDir: cfg.OutDir,
	}

	if err := params.Validate(); err != nil {
		return sweep.Params{}, err
	}
	return params, nil
}

// ParserMode returns the validated parse mode.
func (cfg Config) ParserMode() parse.Mode {
	mode, err := parse.ParseMode(cfg.ParseMode)
	if err != nil {
		return parse.ModeAuto
	}
	return mode
}

// SlogLevel returns the validated log level.
func (cfg Config) SlogLevel() slog.Level {
	level, err := sblog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// sizing validates that exactly one of expected_size and initial_size is set.
func (cfg Config) sizing() (sweep.Sizing, error) {
	switch {
	case cfg.ExpectedSize != nil && cfg.InitialSize != nil:
		return sweep.Sizing{}, fmt.Errorf(
			"%w: --expected_size and --initial_size are mutually exclusive", sweep.ErrConfiguration,
		)
	case cfg.ExpectedSize != nil:
		return sweep.Sizing{Kind: sweep.SizeExpected, Value: *cfg.ExpectedSize}, nil
	case cfg.InitialSize != nil:
		return sweep.Sizing{Kind: sweep.SizeInitial, Value: *cfg.InitialSize}, nil
	default:
		return sweep.Sizing{}, fmt.Errorf(
			"%w: one of --expected_size or --initial_size is required", sweep.ErrConfiguration,
		)
	}
}

// keySpace validates that either both key bounds or the key range are set.
func (cfg Config) keySpace() (sweep.KeySpace, error) {
	hasBounds := cfg.KeysFrom != nil || cfg.KeysUntil != nil

	switch {
	case hasBounds && cfg.KeyRange != "":
		return sweep.KeySpace{}, fmt.Errorf(
			"%w: --keys_from/--keys_until and --key_range are mutually exclusive", sweep.ErrConfiguration,
		)
	case hasBounds:
		if cfg.KeysFrom == nil || cfg.KeysUntil == nil {
			return sweep.KeySpace{}, fmt.Errorf(
				"%w: --keys_from and --keys_until must be given together", sweep.ErrConfiguration,
			)
		}
		return sweep.KeySpace{
			Bounds: &sweep.KeyBounds{From: *cfg.KeysFrom, Until: *cfg.KeysUntil},
		}, nil
	default:
		return sweep.KeySpace{Range: cfg.KeyRange}, nil
	}
}
