package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/tasks/app"
	"github.com/tailored-agentic-units/tasks/observability"
	"github.com/tailored-agentic-units/tasks/store"
)

// cli holds global flag values and the store opened for the running command.
type cli struct {
	configFile string
	name       string
	backend    string
	path       string
	eventLog   string
	verbose    bool

	root    *cobra.Command
	cfg     *app.Config
	logger  *slog.Logger
	store   *store.Store
	closeFn func() error
}

func newCLI() *cli {
	c := &cli{}

	c.root = &cobra.Command{
		Use:   "tasks",
		Short: "Manage a persistent task list",
		Long: `tasks reads and writes a task collection kept in a named storage slot.

Fields are given as key=value pairs. Values that parse as JSON keep their
type (done=true, n=3); anything else is a string (title=buy milk).`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	flags := c.root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Path to JSON or YAML config file")
	flags.StringVar(&c.name, "name", "", "Collection name (overrides config)")
	flags.StringVar(&c.backend, "backend", "", "Storage backend: memory, file, sqlite (overrides config)")
	flags.StringVar(&c.path, "path", "", "Storage path (overrides config)")
	flags.StringVar(&c.eventLog, "event-log", "", "Append store events as JSON lines to this file (overrides config)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging to stderr")

	c.root.AddCommand(
		c.listCmd(),
		c.findCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.removeCmd(),
		c.dropCmd(),
		c.collectionsCmd(),
		c.serveCmd(),
	)
	return c
}

// execute runs the command line and releases the store afterwards, whether
// or not the command failed.
func (c *cli) execute(ctx context.Context) error {
	err := c.root.ExecuteContext(ctx)
	return errors.Join(err, c.close())
}

func (c *cli) close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}

// setup resolves configuration (defaults, file, env, flags), builds the
// observers, and opens the store.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg := app.DefaultConfig()
	if c.configFile != "" {
		loaded, err := app.LoadConfig(c.configFile)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	if c.name != "" {
		cfg.Store.Name = c.name
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.path != "" {
		cfg.Storage.Path = c.path
	}
	if c.eventLog != "" {
		cfg.EventLog = c.eventLog
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver(observability.ObserverSlog, observability.NewSlogObserver(c.logger))

	var opts []store.Option
	var eventFile io.Closer
	if cfg.EventLog != "" {
		configured, err := observability.GetObserver(cfg.Store.Observer)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.EventLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		eventFile = f
		events := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, store.WithObserver(observability.NewMultiObserver(
			configured,
			observability.NewSlogObserver(events),
		)))
	}

	s, closeFn, err := app.Open(cmd.Context(), &cfg, nil, opts...)
	if err != nil {
		if eventFile != nil {
			_ = eventFile.Close()
		}
		return err
	}
	c.cfg = &cfg
	c.store = s
	c.closeFn = func() error {
		err := closeFn()
		if eventFile != nil {
			err = errors.Join(err, eventFile.Close())
		}
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCLI().execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
