package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/workspace"
)

func newReportsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List agent-written report files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			reports, err := workspace.ScanReports(cfg.Workspace.ReportsDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintln(out, "No reports found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tNAME\tKIND\tSIZE\tMODIFIED")
			for _, r := range reports {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					orDash(r.Agent), r.Name, r.Kind, r.Size, r.ModTime.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}
