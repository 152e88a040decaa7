package main

import (
	"context"
	"fmt"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/Dan9191/aurora/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// app is the wiring shared by every command. It is built before a command
// runs and closed after it finishes.
type app struct {
	opts   *rootOptions
	cfg    *config.Config
	log    *logrus.Logger
	repo   *repository.Repository
	ledger *ledger.Ledger
	svc    *service.Service
}

func newRootCommand() *cobra.Command {
	a := &app{opts: &rootOptions{}}

	cmd := &cobra.Command{
		Use:           "aurora-admin",
		Short:         "Maintenance commands for the Aurora finance API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.Format != "text" && a.opts.Format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", a.opts.Format)
			}
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.opts.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().StringVar(&a.opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newMigrateCommand(a))
	cmd.AddCommand(newSeedCommand(a))
	cmd.AddCommand(newReconcileCommand(a))
	cmd.AddCommand(newAskCommand(a))
	return cmd
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return wrapExitError(exitCommandError, "failed to load config", err)
	}
	a.cfg = cfg

	a.log = logrus.New()
	a.log.SetLevel(logrus.WarnLevel)
	if a.opts.Verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}

	repo, err := repository.Open(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		return wrapExitError(exitCommandError, "failed to open database", err)
	}
	if err := repo.Ping(ctx); err != nil {
		repo.Close()
		return wrapExitError(exitCommandError, "failed to ping database", err)
	}
	a.repo = repo
	a.ledger = ledger.New(repo, a.log)
	a.svc = service.NewService(repo, a.ledger, fx.NewClient(cfg, a.log), nil, a.log, cfg)
	return nil
}

func (a *app) close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}
