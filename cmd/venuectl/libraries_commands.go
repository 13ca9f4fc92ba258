package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
	"venuectl/internal/brand"
)

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	librariesCmd := &cobra.Command{
		Use:   "libraries",
		Short: "Browse catalogued IR command libraries",
	}

	librariesCmd.AddCommand(newLibrariesListCommand(ctx))
	librariesCmd.AddCommand(newLibrariesShowCommand(ctx))

	return librariesCmd
}

func newLibrariesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List IR libraries by brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			libraries, err := apiClient.ListLibraries(cmd.Context())
			if err != nil {
				return fmt.Errorf("list libraries: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, libraries)
			}
			if len(libraries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No libraries")
				return nil
			}
			rows := buildLibraryRows(libraries)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Brand", "Slug", "Models", "Commands"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildLibraryRows(libraries []api.Library) [][]string {
	rows := make([][]string, 0, len(libraries))
	for _, library := range libraries {
		rows = append(rows, []string{
			brand.DisplayName(library.Brand),
			library.Brand,
			strconv.Itoa(len(library.Models)),
			strconv.Itoa(len(library.Commands)),
		})
	}
	return rows
}

func newLibrariesShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <brand>",
		Short: "Show one brand's library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			library, err := apiClient.GetLibrary(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("show library: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Brand:    %s\n", brand.DisplayName(library.Brand))
			fmt.Fprintf(out, "ID:       %s\n", library.ID)
			fmt.Fprintf(out, "Models:   %s\n", joinOrDash(library.Models))
			fmt.Fprintf(out, "Commands: %s\n", joinOrDash(library.Commands))
			return nil
		},
	}
}
