package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage controller grouping tags",
	}

	tagsCmd.AddCommand(newTagsListCommand(ctx))
	tagsCmd.AddCommand(newTagsCreateCommand(ctx))
	tagsCmd.AddCommand(newTagsUpdateCommand(ctx))
	tagsCmd.AddCommand(newTagsDeleteCommand(ctx))

	return tagsCmd
}

func newTagsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			tags, err := apiClient.ListTags(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tags: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, tags)
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tags")
				return nil
			}
			rows := make([][]string, 0, len(tags))
			for _, tag := range tags {
				rows = append(rows, []string{tag.ID, tag.Name, orDash(tag.Color), fmt.Sprintf("%d", len(tag.Hostnames))})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Color", "Controllers"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newTagsCreateCommand(ctx *commandContext) *cobra.Command {
	var color string
	var hostnames []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("tag name is required")
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			created, err := apiClient.CreateTag(cmd.Context(), api.Tag{
				Name:      name,
				Color:     color,
				Hostnames: cleanHostnames(hostnames),
			})
			if err != nil {
				return fmt.Errorf("create tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #ff8800")
	cmd.Flags().StringArrayVar(&hostnames, "host", nil, "Controller to include (repeatable)")
	return cmd
}

func newTagsUpdateCommand(ctx *commandContext) *cobra.Command {
	var name string
	var color string
	var hostnames []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch api.Tag
			if cmd.Flags().Changed("name") {
				patch.Name = name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = color
			}
			if cmd.Flags().Changed("host") {
				patch.Hostnames = cleanHostnames(hostnames)
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			updated, err := apiClient.UpdateTag(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("update tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated tag %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New tag name")
	cmd.Flags().StringVar(&color, "color", "", "New display color")
	cmd.Flags().StringArrayVar(&hostnames, "host", nil, "Controller to include (repeatable, replaces existing)")
	return cmd
}

func newTagsDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This deletes tag %s", args[0]))
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
			if err := apiClient.DeleteTag(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
