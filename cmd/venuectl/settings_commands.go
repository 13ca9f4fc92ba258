package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change application settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show application settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			settings, err := apiClient.AppSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch settings: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, settings)
			}
			rows := buildSettingsRows(settings)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildSettingsRows(settings *api.AppSettings) [][]string {
	return [][]string{
		{"Venue name", orDash(settings.VenueName)},
		{"Timezone", orDash(settings.DefaultTimezone)},
		{"Command delay", fmt.Sprintf("%d ms", settings.CommandDelayMS)},
		{"Queue paused", yesNo(settings.QueuePaused)},
		{"Firmware channel", orDash(settings.FirmwareChannel)},
		{"Log retention", fmt.Sprintf("%d days", settings.RetentionDays)},
		{"Discovery", yesNo(settings.DiscoveryEnabled)},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var venueName string
	var timezone string
	var commandDelay int
	var pauseQueue string
	var firmwareChannel string
	var retentionDays int
	var discovery string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change application settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			settings, err := apiClient.AppSettings(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch settings: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("venue-name") {
				settings.VenueName = venueName
			}
			if flags.Changed("timezone") {
				settings.DefaultTimezone = timezone
			}
			if flags.Changed("command-delay") {
				settings.CommandDelayMS = commandDelay
			}
			if flags.Changed("queue-paused") {
				value, err := strconv.ParseBool(pauseQueue)
				if err != nil {
					return fmt.Errorf("--queue-paused wants true or false: %w", err)
				}
				settings.QueuePaused = value
			}
			if flags.Changed("firmware-channel") {
				settings.FirmwareChannel = firmwareChannel
			}
			if flags.Changed("retention-days") {
				settings.RetentionDays = retentionDays
			}
			if flags.Changed("discovery") {
				value, err := strconv.ParseBool(discovery)
				if err != nil {
					return fmt.Errorf("--discovery wants true or false: %w", err)
				}
				settings.DiscoveryEnabled = value
			}

			if _, err := apiClient.UpdateAppSettings(cmd.Context(), *settings); err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&venueName, "venue-name", "", "Venue display name")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Default IANA timezone")
	cmd.Flags().IntVar(&commandDelay, "command-delay", 0, "Default delay between queued commands in ms")
	cmd.Flags().StringVar(&pauseQueue, "queue-paused", "", "Pause or resume the command queue (true/false)")
	cmd.Flags().StringVar(&firmwareChannel, "firmware-channel", "", "Firmware release channel")
	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Log retention in days")
	cmd.Flags().StringVar(&discovery, "discovery", "", "Enable device discovery (true/false)")
	return cmd
}
