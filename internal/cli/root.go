package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/wbs/internal/config"
	"github.com/alexanderramin/wbs/internal/repository"
	"github.com/alexanderramin/wbs/internal/store"
)

// Backend is an opened persistence backend.
type Backend struct {
	Repos repository.Repos
	Tx    repository.Transactor
	Close func() error
}

// App holds what the commands share. Open and IsInteractive are injected by
// main; the rest is filled in before a command runs.
type App struct {
	Open          func(ctx context.Context, cfg config.Config) (*Backend, error)
	IsInteractive func() bool

	Config  config.Config
	Backend *Backend
	Store   *store.Store
	Logger  *slog.Logger

	closers []func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "wbs" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	v := config.New()
	var configFile string

	root := &cobra.Command{
		Use:           "wbs",
		Short:         "Work breakdown and Gantt dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(v, configFile); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			dashboard := cmd.Parent() == nil && app.interactive()
			return app.setup(cmd.Context(), cfg, cmd.ErrOrStderr(), dashboard)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runDashboard(cmd.Context(), app)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.wbs/config.yaml)")
	if err := config.BindFlags(v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		newPhaseCmd(app),
		newCategoryCmd(app),
		newTaskCmd(app),
		newServeCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)
	return root
}

// setup opens the backend and builds the store. The dashboard draws on the
// terminal, so it logs to the log file instead of stderr.
func (a *App) setup(ctx context.Context, cfg config.Config, stderr io.Writer, dashboard bool) error {
	a.Config = cfg

	logOut := stderr
	if dashboard {
		w, closeLog, err := openLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		logOut = w
		a.closers = append(a.closers, closeLog)
	}
	a.Logger = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if a.Open == nil {
		return errors.New("no backend configured")
	}
	backend, err := a.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	a.Backend = backend
	if backend.Close != nil {
		a.closers = append(a.closers, backend.Close)
	}
	a.Store = store.New(backend.Repos, store.WithObserver(store.NewLogObserver(logOut, cfg.LogLevel)))
	if err := a.Store.FetchAll(ctx); err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	return nil
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}
