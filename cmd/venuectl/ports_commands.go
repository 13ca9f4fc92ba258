package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newPortsCommand(ctx *commandContext) *cobra.Command {
	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "Inspect controller ports",
	}

	portsCmd.AddCommand(newPortsStatusCommand(ctx))

	return portsCmd
}

func newPortsStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <hostname>",
		Short: "Show live port status for a controller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := apiClient.PortStatus(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch port status: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			if len(status.Ports) == 0 {
				fmt.Fprintf(out, "No port data for %s\n", status.Hostname)
				return nil
			}
			rows := buildPortStatusRows(status.Ports)
			fmt.Fprintln(out, renderTable(
				[]string{"Port", "Power", "Channel", "Last Command", "At", "Pending"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildPortStatusRows(ports []api.PortStatus) [][]string {
	rows := make([][]string, 0, len(ports))
	for _, port := range ports {
		rows = append(rows, []string{
			strconv.Itoa(port.Port),
			port.Power,
			orDash(port.CurrentChannel),
			orDash(port.LastCommand),
			orDash(port.LastCommandAt),
			strconv.Itoa(port.PendingCount),
		})
	}
	return rows
}
