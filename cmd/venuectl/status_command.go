package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"venuectl/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend reachability and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.authManager()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("venuectl status", colorize) {
				fmt.Fprintln(out, line)
			}

			results := []preflight.Result{
				preflight.CheckAPI(cmd.Context(), cfg.Backend.BaseURL),
				preflight.CheckSession(manager),
				preflight.CheckDirectoryAccess("State dir", cfg.Auth.StateDir),
			}

			failed := false
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed = true
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}
