package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/wbs/internal/apiclient"
	"github.com/alexanderramin/wbs/internal/cli"
	"github.com/alexanderramin/wbs/internal/config"
	"github.com/alexanderramin/wbs/internal/db"
	"github.com/alexanderramin/wbs/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{Open: openBackend}

	// The dashboard needs a terminal on both ends.
	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// openBackend wires the repositories for the configured backend.
func openBackend(ctx context.Context, cfg config.Config) (*cli.Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &cli.Backend{
			Repos: repository.NewPostgresRepos(pool),
			Tx:    repository.NewPostgresTransactor(pool),
			Close: func() error { pool.Close(); return nil },
		}, nil

	case config.BackendHTTP:
		client := apiclient.New(cfg.APIURL, cfg.APITimeout)
		if err := client.Health(ctx); err != nil {
			return nil, fmt.Errorf("reaching %s: %w", cfg.APIURL, err)
		}
		repos := client.Repos()
		return &cli.Backend{Repos: repos, Tx: repository.DirectTransactor{Repos: repos}}, nil

	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return &cli.Backend{
			Repos: repository.NewSQLiteRepos(database),
			Tx:    repository.NewUnitOfWorkTransactor(db.NewSQLiteUnitOfWork(database)),
			Close: database.Close,
		}, nil
	}
}
