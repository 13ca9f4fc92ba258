package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"venuectl/internal/tui"
	"venuectl/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var hostname string
	var interval int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard of controllers and the command queue",
		Long: "Live dashboard of controllers and the command queue. Pass --host to " +
			"also track one controller's port status. Without a terminal, a single " +
			"snapshot is printed instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			pollEvery := time.Duration(cfg.Watch.PortStatusInterval) * time.Second
			if cmd.Flags().Changed("interval") {
				pollEvery = time.Duration(interval) * time.Second
			}

			store := &watch.Store{}
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				store.SetPortHostname(hostname)
				watch.Refresh(cmd.Context(), store, apiClient, hostname, ctx.ensureLogger())
				snap := store.Snapshot()
				if snap.LastError != nil {
					return fmt.Errorf("poll backend: %w", snap.LastError)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderOnce(snap))
				return nil
			}

			watch.Start(cmd.Context(), store, apiClient, watch.Options{
				Interval: pollEvery,
				Hostname: hostname,
				Logger:   ctx.ensureLogger(),
			})
			return tui.Run(tui.Options{
				Context: cmd.Context(),
				Store:   store,
				Tick:    time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&hostname, "host", "", "Controller whose port status to track")
	cmd.Flags().IntVar(&interval, "interval", 0, "Poll interval in seconds (defaults from config)")
	return cmd
}
