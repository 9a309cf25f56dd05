// Package sweepbench runs a benchmark sweep from the command line.
package sweepbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nsqlite/sweepbench/internal/log"
	"github.com/nsqlite/sweepbench/internal/sweepbench/benchbar"
	"github.com/nsqlite/sweepbench/internal/sweepbench/config"
	"github.com/nsqlite/sweepbench/internal/sweepbench/history"
	"github.com/nsqlite/sweepbench/internal/sweepbench/manifest"
	"github.com/nsqlite/sweepbench/internal/sweepbench/parse"
	"github.com/nsqlite/sweepbench/internal/sweepbench/rawlog"
	"github.com/nsqlite/sweepbench/internal/sweepbench/report"
	"github.com/nsqlite/sweepbench/internal/sweepbench/runner"
	"github.com/nsqlite/sweepbench/internal/sweepbench/styled"
	"github.com/nsqlite/sweepbench/internal/sweepbench/sweep"
	"github.com/nsqlite/sweepbench/internal/version"
)

// Run parses the command line and executes the sweep.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(os.Stderr, conf.SlogLevel())
	a := app{
		conf:   conf,
		logger: logger,
		stdout: os.Stdout,
		newRunner: func(conf config.Config) (runner.Runner, error) {
			return runner.NewExecRunner(runner.Config{
				Command: conf.Runner,
				Dir:     conf.RunnerDir,
				RawArgs: conf.RawArgs,
			}, logger)
		},
	}

	return a.run(ctx)
}

// app wires the sweep collaborators together.
type app struct {
	conf      config.Config
	logger    log.Logger
	stdout    io.Writer
	newRunner func(config.Config) (runner.Runner, error)
}

func (a app) run(ctx context.Context) error {
	params, err := a.conf.Params()
	if err != nil {
		return err
	}

	parser, err := parse.New(a.conf.ParserMode(), a.conf.LineOffset)
	if err != nil {
		return err
	}

	r, err := a.newRunner(a.conf)
	if err != nil {
		return err
	}

	if !a.conf.Quiet {
		fmt.Fprintln(a.stdout, version.SweepVersion())
	}

	sweepID := uuid.NewString()
	started := time.Now()

	m := manifest.New(sweepID, started, params, manifest.Runner{
		Command:    a.conf.Runner,
		Dir:        a.conf.RunnerDir,
		RawArgs:    a.conf.RawArgs,
		ParseMode:  a.conf.ParserMode().Value,
		LineOffset: a.conf.LineOffset,
	})
	if err := m.Write(params.OutDir); err != nil {
		return err
	}

	driverConf := sweep.DriverConfig{
		Params: params,
		Runner: r,
		Parser: parser,
		Logger: a.logger,
	}

	if a.conf.ResultsDB != "" {
		store, err := history.Open(ctx, a.conf.ResultsDB)
		if err != nil {
			return err
		}
		defer store.Close()

		manifestYAML, err := m.Marshal()
		if err != nil {
			return err
		}
		if err := store.BeginSweep(ctx, sweepID, started, params.OutDir, string(manifestYAML)); err != nil {
			return err
		}
		driverConf.Recorder = store

		a.logger.InfoNs("history", "recording results", log.KV{
			"driver":   store.Driver(),
			"sweep_id": sweepID,
		})
	}

	if a.conf.KeepRawOutput {
		archive, err := rawlog.New(params.OutDir)
		if err != nil {
			return err
		}
		driverConf.Archive = archive
	}

	bar := benchbar.NewBar("Sweeping", params.TotalInvocations(), a.conf.Quiet)
	driverConf.Progress = bar

	driver, err := sweep.NewDriver(driverConf)
	if err != nil {
		return err
	}

	a.logger.InfoNs("sweep", "starting sweep", log.KV{
		"sweep_id":    sweepID,
		"variants":    len(params.Variants),
		"max_threads": params.MaxThreads,
		"runs_count":  params.RunsCount,
		"invocations": params.TotalInvocations(),
		"out_dir":     params.OutDir,
	})

	results, err := driver.Run(ctx)
	bar.Finish()
	if err != nil {
		a.logger.ErrorNs("sweep", "sweep aborted", log.KV{
			"sweep_id": sweepID,
			"error":    err.Error(),
		})
		return err
	}

	if err := report.Summary(a.stdout, results); err != nil {
		return err
	}

	styled.SuccessColor().Fprintf(a.stdout, "Sweep %s finished in %s\n", sweepID, time.Since(started).Round(time.Millisecond))
	styled.DimmedColor().Fprintf(a.stdout, "Results written to %s\n", params.OutDir)

	return nil
}
