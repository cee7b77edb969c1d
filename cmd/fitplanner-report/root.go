package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/fitplanner/internal/advice"
	"github.com/claude/fitplanner/internal/config"
	"github.com/claude/fitplanner/internal/dataset"
	"github.com/claude/fitplanner/internal/logging"
	"github.com/claude/fitplanner/internal/planner"
	"github.com/claude/fitplanner/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type rootOptions struct {
	cfgFile   string
	dataset   string
	backend   string
	noJournal bool
	debug     bool
	jsonOut   bool

	svc     *planner.Service
	closers []io.Closer
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fitplanner-report",
		Short:         "Exercise dataset report and workout advice in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&o.cfgFile, "config", "", "config file (.yaml or .toml); defaults apply when empty")
	f.StringVar(&o.dataset, "dataset", "", "dataset CSV path (overrides config)")
	f.StringVar(&o.backend, "backend", "", "generator backend: ollama, openai or static (overrides config)")
	f.BoolVar(&o.noJournal, "no-journal", false, "do not record advice in the journal")
	f.BoolVar(&o.debug, "debug", false, "enable debug logging")
	f.BoolVar(&o.jsonOut, "json", false, "print JSON instead of tables")

	cmd.AddCommand(
		newSummaryCmd(o),
		newPreviewCmd(o),
		newBodyPartsCmd(o),
		newSampleCmd(o),
		newGoalsCmd(o),
		newAdviceCmd(o),
		newHistoryCmd(o),
	)
	return cmd
}

// service builds the planner from config on first use.
func (o *rootOptions) service(cmd *cobra.Command) (*planner.Service, error) {
	if o.svc != nil {
		return o.svc, nil
	}

	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("dataset") {
		cfg.Dataset.Path = o.dataset
	}
	if f.Changed("backend") {
		cfg.Generator.Backend = o.backend
	}
	if o.noJournal {
		cfg.Journal.Driver = storage.DriverNone
	}

	level := cfg.Log.Level
	if o.debug {
		level = "debug"
	}
	// Logs go to stderr so report output stays pipeable.
	log, logFile := logging.New(logging.Params{
		Level:  level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Stdout: cmd.ErrOrStderr(),
	})
	o.closers = append(o.closers, logFile)

	load, err := advice.NewLoader(advice.Backend{
		Kind:        cfg.Generator.Backend,
		Host:        cfg.Generator.Host,
		Model:       cfg.Generator.Model,
		APIKey:      cfg.Generator.APIKey,
		HTTPTimeout: cfg.Generator.HTTPTimeout,
	})
	if err != nil {
		return nil, err
	}

	journal, err := storage.Open(cmd.Context(), cfg.Journal.Driver, cfg.JournalDSN())
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	o.closers = append(o.closers, journal)

	o.svc = planner.New(planner.Deps{
		Dataset: dataset.NewSource(cfg.Dataset.Path, log),
		Advice: advice.NewAdapter(load, advice.Options{
			Model:   cfg.Generator.Model,
			Timeout: cfg.Generator.Timeout,
			Retries: cfg.Generator.Retries,
		}, log),
		Journal: journal,
		Log:     log.With(slog.String("component", "report")),
	})
	return o.svc, nil
}

// run calls fn with the planner and releases the journal and log file
// afterwards.
func (o *rootOptions) run(cmd *cobra.Command, fn func(svc *planner.Service) error) (err error) {
	defer func() { err = multierr.Append(err, o.close()) }()
	svc, err := o.service(cmd)
	if err != nil {
		return err
	}
	return fn(svc)
}

func (o *rootOptions) close() error {
	var err error
	for i := len(o.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, o.closers[i].Close())
	}
	o.closers = nil
	return err
}
