package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
	"venuectl/internal/client"
	"venuectl/internal/querycache"
)

const controllersCacheScope = "controllers"

func newControllersCommand(ctx *commandContext) *cobra.Command {
	controllersCmd := &cobra.Command{
		Use:   "controllers",
		Short: "Manage IR-blaster controllers",
	}

	controllersCmd.AddCommand(newControllersListCommand(ctx))
	controllersCmd.AddCommand(newControllersShowCommand(ctx))
	controllersCmd.AddCommand(newControllersSetCommand(ctx))
	controllersCmd.AddCommand(newControllersDeleteCommand(ctx))
	controllersCmd.AddCommand(newControllersChannelsCommand(ctx))

	return controllersCmd
}

func newControllersListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var allowCached bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed controllers",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			controllers, stale, err := fetchControllers(cmd.Context(), ctx, apiClient, allowCached)
			if err != nil {
				return fmt.Errorf("list controllers: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, controllers)
			}

			out := cmd.OutOrStdout()
			if stale != "" {
				fmt.Fprintln(out, stale)
			}
			if len(controllers) == 0 {
				fmt.Fprintln(out, "No managed controllers")
				return nil
			}
			rows := buildControllerRows(controllers)
			fmt.Fprintln(out, renderTable(
				[]string{"Hostname", "Name", "IP", "Model", "Firmware", "Status", "Ports", "Tags"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&allowCached, "cached", false, "Fall back to cached data when the backend is unreachable")
	return cmd
}

// fetchControllers fetches the live list and refreshes the cache. With
// allowCached it falls back to the last cached payload when the backend is
// unreachable; the returned notice is non-empty for stale data.
func fetchControllers(cmdCtx context.Context, ctx *commandContext, c *client.Client, allowCached bool) ([]api.Controller, string, error) {
	controllers, err := c.ListControllers(cmdCtx)
	if err == nil {
		if cache := ctx.cacheStore(); cache != nil {
			defer cache.Close()
			if payload, marshalErr := json.Marshal(controllers); marshalErr == nil {
				_ = cache.Put(cmdCtx, controllersCacheScope, payload)
			}
		}
		return controllers, "", nil
	}
	if !allowCached || !errors.Is(err, client.ErrUnavailable) {
		return nil, "", err
	}

	cache := ctx.cacheStore()
	if cache == nil {
		return nil, "", err
	}
	defer cache.Close()

	entry, cacheErr := cache.Get(cmdCtx, controllersCacheScope)
	if cacheErr != nil {
		if errors.Is(cacheErr, querycache.ErrMiss) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w (cache also failed: %v)", err, cacheErr)
	}
	var cached []api.Controller
	if unmarshalErr := json.Unmarshal(entry.Payload, &cached); unmarshalErr != nil {
		return nil, "", fmt.Errorf("%w (cache corrupt: %v)", err, unmarshalErr)
	}
	notice := fmt.Sprintf("Backend unreachable; showing cached data from %s ago", formatAge(entry.Age()))
	return cached, notice, nil
}

func buildControllerRows(controllers []api.Controller) [][]string {
	rows := make([][]string, 0, len(controllers))
	for _, controller := range controllers {
		rows = append(rows, []string{
			controller.Hostname,
			orDash(controller.DisplayName),
			orDash(controller.IPAddress),
			orDash(controller.Model),
			orDash(controller.Firmware),
			onlineLabel(controller.Online),
			strconv.Itoa(len(controller.Ports)),
			joinOrDash(controller.Tags),
		})
	}
	return rows
}

func newControllersShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <hostname>",
		Short: "Show one controller, ports included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			controller, err := apiClient.GetController(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("show controller: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Hostname:  %s\n", controller.Hostname)
			fmt.Fprintf(out, "Name:      %s\n", orDash(controller.DisplayName))
			fmt.Fprintf(out, "IP:        %s\n", orDash(controller.IPAddress))
			fmt.Fprintf(out, "Model:     %s\n", orDash(controller.Model))
			fmt.Fprintf(out, "Firmware:  %s\n", orDash(controller.Firmware))
			fmt.Fprintf(out, "Online:    %s\n", yesNo(controller.Online))
			fmt.Fprintf(out, "Tags:      %s\n", joinOrDash(controller.Tags))

			if len(controller.Ports) == 0 {
				fmt.Fprintln(out, "No configured ports")
				return nil
			}
			rows := buildPortRows(controller.Ports)
			fmt.Fprintln(out, renderTable(
				[]string{"Port", "Label", "Appliance", "Brand", "Default Ch", "Enabled"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func buildPortRows(ports []api.Port) [][]string {
	rows := make([][]string, 0, len(ports))
	for _, port := range ports {
		rows = append(rows, []string{
			strconv.Itoa(port.Number),
			orDash(port.Label),
			orDash(port.Appliance),
			orDash(port.Brand),
			orDash(port.DefaultChannel),
			yesNo(port.Enabled),
		})
	}
	return rows
}

func newControllersSetCommand(ctx *commandContext) *cobra.Command {
	var fromFile string
	var displayName string
	var tags []string

	cmd := &cobra.Command{
		Use:   "set <hostname>",
		Short: "Create or update a controller",
		Long: "Create or update a controller. Either pass a JSON document with " +
			"--file, or adjust individual fields with flags; flag edits are applied " +
			"on top of the current backend state.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			hostname := strings.TrimSpace(args[0])
			if hostname == "" {
				return errors.New("hostname is required")
			}

			var controller api.Controller
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read controller file: %w", err)
				}
				if err := json.Unmarshal(data, &controller); err != nil {
					return fmt.Errorf("parse controller file: %w", err)
				}
			} else {
				existing, err := apiClient.GetController(cmd.Context(), hostname)
				if err != nil && !errors.Is(err, client.ErrNotFound) {
					return fmt.Errorf("fetch controller: %w", err)
				}
				if existing != nil {
					controller = *existing
				}
			}
			controller.Hostname = hostname
			if cmd.Flags().Changed("name") {
				controller.DisplayName = displayName
			}
			if cmd.Flags().Changed("tag") {
				controller.Tags = tags
			}

			saved, err := apiClient.SaveController(cmd.Context(), controller)
			if err != nil {
				return fmt.Errorf("save controller: %w", err)
			}
			invalidateCache(cmd.Context(), ctx, controllersCacheScope)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved controller %s\n", saved.Hostname)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "JSON file holding the full controller document")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag to assign (repeatable, replaces existing tags)")
	return cmd
}

func newControllersDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <hostname>",
		Short: "Remove a controller from management",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This removes controller %s from management", args[0]))
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
			if err := apiClient.DeleteController(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete controller: %w", err)
			}
			invalidateCache(cmd.Context(), ctx, controllersCacheScope)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted controller %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newControllersChannelsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels ports can default to",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			channels, err := apiClient.AvailableChannels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, channels)
			}
			if len(channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No channels available")
				return nil
			}
			rows := make([][]string, 0, len(channels))
			for _, channel := range channels {
				rows = append(rows, []string{channel.Number, channel.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Number", "Name"}, rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

// invalidateCache drops cached entries for a scope after a mutation. Cache
// trouble is logged, never surfaced.
func invalidateCache(cmdCtx context.Context, ctx *commandContext, scope string) {
	cache := ctx.cacheStore()
	if cache == nil {
		return
	}
	defer cache.Close()
	_ = cache.Invalidate(cmdCtx, scope)
}
