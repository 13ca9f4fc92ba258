package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newCommandsCommand(ctx *commandContext) *cobra.Command {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "Dispatch IR commands to controllers",
	}

	commandsCmd.AddCommand(newCommandsSendCommand(ctx))

	return commandsCmd
}

func newCommandsSendCommand(ctx *commandContext) *cobra.Command {
	var hostnames []string
	var ports []int
	var command string
	var channel string
	var delayMS int

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Queue a command on one or more controller ports",
		Example: `  venuectl commands send --host blaster-01 --port 1 --command power_on
  venuectl commands send --host blaster-01 --host blaster-02 --port 1 --port 2 \
      --command channel_set --channel 13.1 --delay 250`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command = strings.TrimSpace(command)
			if command == "" {
				return errors.New("--command is required")
			}
			if len(hostnames) == 0 {
				return errors.New("at least one --host is required")
			}
			if len(ports) == 0 {
				return errors.New("at least one --port is required")
			}
			if command == "channel_set" && strings.TrimSpace(channel) == "" {
				return errors.New("--channel is required for channel_set")
			}

			batch := buildBulkRequest(hostnames, ports, command, channel, delayMS)
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := apiClient.DispatchBulk(cmd.Context(), batch)
			if err != nil {
				return fmt.Errorf("dispatch commands: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Queued %d command(s) as batch %s\n", resp.Queued, resp.BatchID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&hostnames, "host", nil, "Target controller hostname (repeatable)")
	cmd.Flags().IntSliceVar(&ports, "port", nil, "Target port number (repeatable)")
	cmd.Flags().StringVar(&command, "command", "", "Command name, e.g. power_on, power_off, channel_set")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel number for channel_set")
	cmd.Flags().IntVar(&delayMS, "delay", 0, "Milliseconds between queued commands")
	return cmd
}

// buildBulkRequest expands the host x port cross product into one command
// per target port.
func buildBulkRequest(hostnames []string, ports []int, command, channel string, delayMS int) api.BulkCommandRequest {
	commands := make([]api.PortCommand, 0, len(hostnames)*len(ports))
	for _, hostname := range hostnames {
		for _, port := range ports {
			commands = append(commands, api.PortCommand{
				Hostname: strings.TrimSpace(hostname),
				Port:     port,
				Command:  command,
				Channel:  strings.TrimSpace(channel),
			})
		}
	}
	return api.BulkCommandRequest{Commands: commands, DelayMS: delayMS}
}
