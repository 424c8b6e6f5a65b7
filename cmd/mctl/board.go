package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/board"
	"github.com/zulandar/missionctl/internal/client"
	"github.com/zulandar/missionctl/internal/config"
	"github.com/zulandar/missionctl/internal/logging"
	"github.com/zulandar/missionctl/internal/poll"
	"github.com/zulandar/missionctl/internal/task"
)

func newBoardCmd() *cobra.Command {
	var (
		configPath string
		serverURL  string
		filter     string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the Kanban board",
		Long:  "Prints the four-column board. With --server it asks a running Mission Control instance; otherwise it reads the local store. --watch keeps polling and re-rendering until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, configPath, serverURL, board.ReviewFilter(filter), watch)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&serverURL, "server", "", "base URL of a running server (e.g. http://localhost:8080)")
	cmd.Flags().StringVar(&filter, "review-filter", "all", "review sub-filter (all, approval_needed, blocked)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling and re-rendering")
	return cmd
}

func runBoard(cmd *cobra.Command, configPath, serverURL string, filter board.ReviewFilter, watch bool) error {
	cfg, repo, err := boardRepo(configPath, serverURL)
	if err != nil {
		return err
	}

	if watch {
		return runBoardWatch(cmd, cfg, repo, filter)
	}

	tasks, err := repo.ListTasks(cmd.Context())
	if err != nil {
		return err
	}
	return renderBoard(cmd.OutOrStdout(), board.BuildView(tasks, filter))
}

// boardRepo picks the task source: a remote server when --server is set,
// otherwise the local store.
func boardRepo(configPath, serverURL string) (*config.Config, task.Repository, error) {
	if serverURL != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		c, err := client.New(client.Opts{BaseURL: serverURL})
		if err != nil {
			return nil, nil, err
		}
		return cfg, c, nil
	}

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, task.NewStore(gormDB), nil
}

// runBoardWatch polls the repository on the configured interval and
// re-renders the board until interrupted.
func runBoardWatch(cmd *cobra.Command, cfg *config.Config, repo task.Repository, filter board.ReviewFilter) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := board.NewStore(repo)
	poller := poll.New(repo, store, cfg.Board.PollInterval, logging.New(cfg.LogLevel, cmd.ErrOrStderr()))
	go poller.Run(ctx)

	out := cmd.OutOrStdout()
	ticker := time.NewTicker(cfg.Board.PollInterval)
	defer ticker.Stop()

	render := func() error {
		fmt.Fprintf(out, "\n=== %s ===\n", time.Now().Local().Format("15:04:05"))
		return renderBoard(out, board.BuildView(store.Tasks(), filter))
	}

	// Give the poller's initial fetch a moment before the first render.
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(200 * time.Millisecond):
	}
	if err := render(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := render(); err != nil {
				return err
			}
		}
	}
}
