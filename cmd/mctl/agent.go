package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/missionctl/internal/collab"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Agent fleet commands",
		Long:  "Creates and deletes agents through the configured external CLI. Failures print as warnings; the board is never blocked on the fleet.",
	}

	cmd.AddCommand(newAgentMutateCmd(collab.MutationCreate))
	cmd.AddCommand(newAgentMutateCmd(collab.MutationDelete))
	cmd.AddCommand(newAgentRestartGatewayCmd())
	return cmd
}

// portFromConfig builds the CLI port from the loaded config.
func portFromConfig(configPath string) (collab.Port, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return collab.NewCLIPort(cfg.Agent.CLI, cfg.Agent.GatewayRestart), nil
}

func newAgentMutateCmd(kind collab.MutationKind) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <name> [-- extra args]", kind),
		Short: fmt.Sprintf("%s an agent via the external CLI", kind),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := portFromConfig(configPath)
			if err != nil {
				return err
			}
			res, err := port.ApplyAgentMutation(cmd.Context(), collab.AgentMutation{
				Kind:  kind,
				Agent: args[0],
				Args:  args[1:],
			})
			if err != nil {
				return err
			}
			printResult(cmd, res, fmt.Sprintf("Agent %s %sd", args[0], kind))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

func newAgentRestartGatewayCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "restart-gateway",
		Short: "Restart the agent gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := portFromConfig(configPath)
			if err != nil {
				return err
			}
			res, err := port.RestartGateway(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd, res, "Gateway restarted")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")
	return cmd
}

// printResult reports a port call. Non-zero exits are warnings, not errors.
func printResult(cmd *cobra.Command, res collab.Result, okMessage string) {
	out := cmd.OutOrStdout()
	if res.OK {
		fmt.Fprintln(out, okMessage)
	} else {
		fmt.Fprintln(out, "Warning: command failed")
	}
	if res.Output != "" {
		fmt.Fprintln(out, res.Output)
	}
}
