package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/models"
	"github.com/zulandar/missionctl/internal/task"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskMoveCmd())
	cmd.AddCommand(newTaskRmCmd())
	cmd.AddCommand(newTaskStepCmd())
	cmd.AddCommand(newTaskReviewCmd())
	cmd.AddCommand(newTaskResolveCmd())
	return cmd
}

// parseID converts a positional id argument.
func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("id %q is not a number", arg)
	}
	return uint(id), nil
}

func newTaskCreateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		status      string
		priority    string
		agentID     string
		due         string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := task.CreateOpts{
				Title:       title,
				Description: description,
				Status:      models.TaskStatus(status),
				Priority:    models.TaskPriority(priority),
				AgentID:     agentID,
				Tags:        tags,
			}
			if due != "" {
				ts, err := time.Parse(time.RFC3339, due)
				if err != nil {
					return fmt.Errorf("--due must be RFC 3339: %w", err)
				}
				opts.DueAt = &ts
			}
			return runTaskCreate(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&status, "status", "", "starting column (defaults to inbox)")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (critical, high, medium, low)")
	cmd.Flags().StringVar(&agentID, "agent", "", "owning agent id")
	cmd.Flags().StringVar(&due, "due", "", "due timestamp (RFC 3339)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func runTaskCreate(cmd *cobra.Command, configPath string, opts task.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	t, err := task.Create(gormDB, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %d (%s, %s)\n", t.ID, t.Status, t.Priority)
	return nil
}

func newTaskListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in board order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runTaskList(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	tasks, err := task.List(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRI\tAGENT\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Title, 40), t.Status, t.Priority, orDash(t.AgentID), formatTime(t.DueAt))
	}
	return w.Flush()
}

func newTaskShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its steps and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTaskShow(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runTaskShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	t, err := task.Get(gormDB, id)
	if err != nil {
		return err
	}
	steps, err := task.ListSteps(gormDB, id)
	if err != nil {
		return err
	}
	reviews, err := task.ListReviews(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Task #%d: %s\n", t.ID, t.Title)
	fmt.Fprintf(out, "Status: %s  Priority: %s  Agent: %s\n", t.Status, t.Priority, orDash(t.AgentID))
	if t.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(out, "Created: %s  Started: %s  Completed: %s  Due: %s\n",
		t.CreatedAt.Format(time.RFC3339), formatTime(t.StartedAt), formatTime(t.CompletedAt), formatTime(t.DueAt))
	if len(t.Tags) > 0 {
		fmt.Fprintf(out, "Tags: %v\n", []string(t.Tags))
	}
	if reason, ok := t.Metadata.ReviewReason(); ok {
		fmt.Fprintf(out, "Review reason: %s\n", reason)
	}

	if len(steps) > 0 {
		fmt.Fprintf(out, "\nSteps (%d):\n", len(steps))
		for _, s := range steps {
			fmt.Fprintf(out, "  [%s] %s\n", s.Status, s.Title)
		}
	}
	if len(reviews) > 0 {
		fmt.Fprintf(out, "\nReviews (%d):\n", len(reviews))
		for _, r := range reviews {
			fmt.Fprintf(out, "  #%d [%s] %s\n", r.ID, r.Status, r.Reason)
		}
	}
	return nil
}

func newTaskMoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Long:  "Moves a task to inbox, in_progress, review, or done, stamping started_at and completed_at as the column demands.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTaskMove(cmd, configPath, id, models.TaskStatus(args[1]))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func runTaskMove(cmd *cobra.Command, configPath string, id uint, target models.TaskStatus) error {
	if !target.Valid() {
		return fmt.Errorf("unknown status %q", target)
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	t, err := task.Get(gormDB, id)
	if err != nil {
		return err
	}

	fields := task.EntryActions(t, target, time.Now())
	if fields == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d is already in %s\n", id, target)
		return nil
	}
	if _, err := task.Patch(gormDB, id, fields); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved task %d: %s -> %s\n", id, t.Status, target)
	return nil
}

func newTaskRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task and its steps and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := task.Delete(gormDB, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func newTaskStepCmd() *cobra.Command {
	var (
		configPath string
		title      string
		note       string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "step <task-id>",
		Short: "Append a progress step to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			step, err := task.AppendStep(gormDB, id, task.StepOpts{
				Title:     title,
				AgentNote: note,
				Status:    models.StepStatus(status),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added step %d to task %d\n", step.ID, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&title, "title", "", "step title (required)")
	cmd.Flags().StringVar(&note, "note", "", "agent note")
	cmd.Flags().StringVar(&status, "status", "", "step status (defaults to pending)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskReviewCmd() *cobra.Command {
	var (
		configPath string
		reason     string
		confidence int
	)

	cmd := &cobra.Command{
		Use:   "review <task-id>",
		Short: "File a review request against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			opts := task.ReviewOpts{Reason: reason}
			if cmd.Flags().Changed("confidence") {
				opts.Confidence = &confidence
			}
			review, err := task.AppendReview(gormDB, id, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filed review %d against task %d\n", review.ID, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&reason, "reason", "", "why this needs a human (required)")
	cmd.Flags().IntVar(&confidence, "confidence", 0, "agent confidence 0-100")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newTaskResolveCmd() *cobra.Command {
	var (
		configPath string
		reject     bool
		comment    string
	)

	cmd := &cobra.Command{
		Use:   "resolve <review-id>",
		Short: "Approve or reject a pending review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			resolution := models.ReviewApproved
			if reject {
				resolution = models.ReviewRejected
			}
			review, err := task.ResolveReview(gormDB, id, resolution, comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review %d %s\n", review.ID, review.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&reject, "reject", false, "reject instead of approve")
	cmd.Flags().StringVar(&comment, "comment", "", "reviewer comment")
	return cmd
}
