package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
	"venuectl/internal/schedule"
)

func newSchedulesCommand(ctx *commandContext) *cobra.Command {
	schedulesCmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage backend-executed command schedules",
	}

	schedulesCmd.AddCommand(newSchedulesListCommand(ctx))
	schedulesCmd.AddCommand(newSchedulesCreateCommand(ctx))
	schedulesCmd.AddCommand(newSchedulesUpdateCommand(ctx))
	schedulesCmd.AddCommand(newSchedulesDeleteCommand(ctx))

	return schedulesCmd
}

func newSchedulesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			schedules, err := apiClient.ListSchedules(cmd.Context())
			if err != nil {
				return fmt.Errorf("list schedules: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, schedules)
			}
			if len(schedules) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schedules")
				return nil
			}
			rows := buildScheduleRows(schedules)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Cron", "Enabled", "Next Run", "Commands"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildScheduleRows(schedules []api.Schedule) [][]string {
	rows := make([][]string, 0, len(schedules))
	for _, sched := range schedules {
		rows = append(rows, []string{
			sched.ID,
			sched.Name,
			sched.CronExpr,
			yesNo(sched.Enabled),
			orDash(sched.NextRunAt),
			fmt.Sprintf("%d", len(sched.Commands)),
		})
	}
	return rows
}

func newSchedulesCreateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var cronExpr string
	var timezone string
	var disabled bool
	var commandsFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a schedule",
		Long: "Create a schedule. The cron expression is validated locally and " +
			"the next run times are shown before the schedule is sent to the backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return errors.New("--name is required")
			}
			if err := schedule.Validate(cronExpr); err != nil {
				return err
			}
			commands, err := loadScheduleCommands(commandsFile)
			if err != nil {
				return err
			}
			if len(commands) == 0 {
				return errors.New("--commands file must contain at least one command")
			}

			printRunPreview(cmd, cronExpr)

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			created, err := apiClient.CreateSchedule(cmd.Context(), api.Schedule{
				Name:     name,
				CronExpr: strings.TrimSpace(cronExpr),
				Enabled:  !disabled,
				Commands: commands,
				Timezone: timezone,
			})
			if err != nil {
				return fmt.Errorf("create schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created schedule %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Schedule name")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (5-field or @descriptor)")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for the schedule")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Create the schedule in a disabled state")
	cmd.Flags().StringVar(&commandsFile, "commands", "", "JSON file with the port commands to run")
	return cmd
}

func newSchedulesUpdateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var cronExpr string
	var enable bool
	var disable bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return errors.New("--enable and --disable are mutually exclusive")
			}

			var patch api.Schedule
			if cmd.Flags().Changed("name") {
				patch.Name = name
			}
			if cmd.Flags().Changed("cron") {
				if err := schedule.Validate(cronExpr); err != nil {
					return err
				}
				printRunPreview(cmd, cronExpr)
				patch.CronExpr = strings.TrimSpace(cronExpr)
			}
			patch.Enabled = !disable
			if !enable && !disable {
				// Leave enablement alone unless explicitly flagged; the
				// backend ignores zero-value fields on PATCH, but enabled
				// is a real boolean, so resend the current value.
				apiClient, err := ctx.apiClient()
				if err != nil {
					return err
				}
				schedules, err := apiClient.ListSchedules(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch schedule: %w", err)
				}
				for _, sched := range schedules {
					if sched.ID == args[0] {
						patch.Enabled = sched.Enabled
						break
					}
				}
			}

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			updated, err := apiClient.UpdateSchedule(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("update schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated schedule %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New schedule name")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "New cron expression")
	cmd.Flags().BoolVar(&enable, "enable", false, "Enable the schedule")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the schedule")
	return cmd
}

func newSchedulesDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This deletes schedule %s", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := apiClient.DeleteSchedule(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete schedule: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted schedule %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func loadScheduleCommands(path string) ([]api.PortCommand, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("--commands is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commands file: %w", err)
	}
	var commands []api.PortCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("parse commands file: %w", err)
	}
	return commands, nil
}

func printRunPreview(cmd *cobra.Command, cronExpr string) {
	runs, err := schedule.NextRuns(cronExpr, time.Now(), 3)
	if err != nil || len(runs) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Next runs:")
	for _, run := range runs {
		fmt.Fprintf(out, "  %s\n", run.Format(time.RFC1123))
	}
}
