package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the backend command queue",
	}

	queueCmd.AddCommand(newQueueMetricsCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))

	return queueCmd
}

func newQueueMetricsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show queue depth and latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			metrics, err := apiClient.QueueMetrics(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch queue metrics: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, metrics)
			}
			rows := buildQueueMetricRows(metrics)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildQueueMetricRows(metrics *api.QueueMetrics) [][]string {
	return [][]string{
		{"Pending", strconv.Itoa(metrics.Pending)},
		{"In flight", strconv.Itoa(metrics.InFlight)},
		{"Completed", strconv.Itoa(metrics.Completed)},
		{"Failed", strconv.Itoa(metrics.Failed)},
		{"Avg latency", fmt.Sprintf("%.0f ms", metrics.AvgLatency)},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var statusFilter []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			commands, err := apiClient.QueueAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("list queue: %w", err)
			}
			commands = filterQueuedCommands(commands, statusFilter)
			if asJSON {
				return writeJSON(cmd, commands)
			}
			if len(commands) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			rows := buildQueueRows(commands)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Host", "Port", "Command", "Status", "Attempts", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Only show commands with these statuses")
	return cmd
}

func filterQueuedCommands(commands []api.QueuedCommand, statuses []string) []api.QueuedCommand {
	if len(statuses) == 0 {
		return commands
	}
	allowed := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		allowed[strings.ToLower(strings.TrimSpace(status))] = struct{}{}
	}
	filtered := commands[:0:0]
	for _, command := range commands {
		if _, ok := allowed[strings.ToLower(command.Status)]; ok {
			filtered = append(filtered, command)
		}
	}
	return filtered
}

func buildQueueRows(commands []api.QueuedCommand) [][]string {
	rows := make([][]string, 0, len(commands))
	for _, command := range commands {
		rows = append(rows, []string{
			command.ID,
			command.Hostname,
			strconv.Itoa(command.Port),
			command.Command,
			command.Status,
			strconv.Itoa(command.Attempts),
			orDash(command.Error),
		})
	}
	return rows
}
