package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/requirement"
)

func newRequirementCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requirement",
		Aliases: []string{"req"},
		Short:   "Recurring requirement commands",
	}

	cmd.AddCommand(newRequirementAddCmd())
	cmd.AddCommand(newRequirementListCmd())
	cmd.AddCommand(newRequirementEnableCmd(true))
	cmd.AddCommand(newRequirementEnableCmd(false))
	cmd.AddCommand(newRequirementRmCmd())
	return cmd
}

func newRequirementAddCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		cronJobID   string
		cronExpr    string
		agentID     string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring requirement",
		Long:  "Adds a requirement that materializes an inbox task on its cron schedule while the server runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			r, err := requirement.Create(gormDB, requirement.CreateOpts{
				Title:       title,
				Description: description,
				CronJobID:   cronJobID,
				CronExpr:    cronExpr,
				AgentID:     agentID,
				Tags:        tags,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created requirement %d\n", r.ID)
			if r.CronExpr != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Schedule: %s\n", r.CronExpr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().StringVar(&title, "title", "", "requirement title (required)")
	cmd.Flags().StringVar(&description, "description", "", "detailed description")
	cmd.Flags().StringVar(&cronJobID, "job-id", "", "unique cron job id")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (5 fields)")
	cmd.Flags().StringVar(&agentID, "agent", "", "agent assigned to materialized tasks")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag for materialized tasks (repeatable)")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newRequirementListCmd() *cobra.Command {
	var (
		configPath string
		activeOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(configPath)
			if err != nil {
				return err
			}
			var active *bool
			if activeOnly {
				v := true
				active = &v
			}
			reqs, err := requirement.List(gormDB, active)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(reqs) == 0 {
				fmt.Fprintln(out, "No requirements found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCRON\tAGENT\tACTIVE")
			for _, r := range reqs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n",
					r.ID, truncate(r.Title, 40), orDash(r.CronExpr), orDash(r.AgentID), r.IsActive)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active requirements")
	return cmd
}

func newRequirementEnableCmd(enable bool) *cobra.Command {
	use, short := "enable <id>", "Re-enable a requirement's schedule"
	if !enable {
		use, short = "disable <id>", "Disable a requirement without deleting it"
	}

	var configPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
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
			if err := requirement.SetActive(gormDB, id, enable); err != nil {
				return err
			}
			state := "enabled"
			if !enable {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requirement %d %s\n", id, state)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func newRequirementRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a requirement, keeping its tasks",
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
			if err := requirement.Delete(gormDB, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted requirement %d (tasks detached)\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}
