package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/db"
	"github.com/zulandar/missionctl/internal/logging"
	"github.com/zulandar/missionctl/internal/notify"
	"github.com/zulandar/missionctl/internal/requirement"
	"github.com/zulandar/missionctl/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Mission Control server",
		Long:  "Serves the REST API, the SSE event stream, and the requirement scheduler until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, os.Stderr)

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	notifier, err := notify.FromConfig(cfg.Notify)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := requirement.NewScheduler(gormDB, log)
	if err := sched.Reload(); err != nil {
		return err
	}
	go sched.Run(ctx)

	return server.Start(ctx, server.StartOpts{
		DB:         gormDB,
		Port:       cfg.Server.Port,
		ReportsDir: cfg.Workspace.ReportsDir,
		Notifier:   notifier,
		Log:        log,
	})
}
