package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
	"venuectl/internal/preflight"
)

func newBackupsCommand(ctx *commandContext) *cobra.Command {
	backupsCmd := &cobra.Command{
		Use:   "backups",
		Short: "Manage backend database backups",
	}

	backupsCmd.AddCommand(newBackupsListCommand(ctx))
	backupsCmd.AddCommand(newBackupsStatusCommand(ctx))
	backupsCmd.AddCommand(newBackupsReportCommand(ctx))
	backupsCmd.AddCommand(newBackupsCreateCommand(ctx))
	backupsCmd.AddCommand(newBackupsDeleteCommand(ctx))
	backupsCmd.AddCommand(newBackupsRestoreCommand(ctx))
	backupsCmd.AddCommand(newBackupsDownloadCommand(ctx))
	backupsCmd.AddCommand(newBackupsUploadCommand(ctx))

	return backupsCmd
}

func newBackupsListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backup archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			backups, err := apiClient.ListBackups(cmd.Context())
			if err != nil {
				return fmt.Errorf("list backups: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, backups)
			}
			if len(backups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backups")
				return nil
			}
			rows := buildBackupRows(backups)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Filename", "Size", "Created", "Checksum"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildBackupRows(backups []api.Backup) [][]string {
	rows := make([][]string, 0, len(backups))
	for _, backup := range backups {
		rows = append(rows, []string{
			backup.Filename,
			formatBytesInt64(backup.SizeBytes),
			orDash(backup.CreatedAt),
			orDash(backup.Checksum),
		})
	}
	return rows
}

func newBackupsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup and restore activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := apiClient.BackupStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch backup status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "State:        %s\n", status.State)
			fmt.Fprintf(out, "Detail:       %s\n", orDash(status.Detail))
			fmt.Fprintf(out, "Started:      %s\n", orDash(status.StartedAt))
			fmt.Fprintf(out, "Last backup:  %s\n", orDash(status.LastBackup))
			fmt.Fprintf(out, "Last restore: %s\n", orDash(status.LastRestore))
			return nil
		},
	}
}

func newBackupsReportCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the current database contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			report, err := apiClient.DatabaseReport(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch database report: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, report)
			}
			rows := [][]string{
				{"Controllers", fmt.Sprintf("%d", report.Controllers)},
				{"Schedules", fmt.Sprintf("%d", report.Schedules)},
				{"Users", fmt.Sprintf("%d", report.Users)},
				{"Tags", fmt.Sprintf("%d", report.Tags)},
				{"Database size", formatBytesInt64(report.SizeBytes)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Entity", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newBackupsCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new backup archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			backup, err := apiClient.CreateBackup(cmd.Context())
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created backup %s (%s)\n", backup.Filename, formatBytesInt64(backup.SizeBytes))
			return nil
		},
	}
}

func newBackupsDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <filename>",
		Short: "Delete a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This permanently deletes backup %s", args[0]))
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
			if err := apiClient.DeleteBackup(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted backup %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newBackupsRestoreCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "restore <filename>",
		Short: "Restore the backend database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes,
				fmt.Sprintf("This replaces the live database with backup %s", args[0]))
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
			if err := apiClient.RestoreBackup(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("restore backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restore from %s started; watch 'venuectl backups status'\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newBackupsDownloadCommand(ctx *commandContext) *cobra.Command {
	var destination string

	cmd := &cobra.Command{
		Use:   "download <filename>",
		Short: "Download a backup archive to a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			target := strings.TrimSpace(destination)
			if target == "" {
				target = filename
			}

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			// Free-space preflight against the reported archive size.
			backups, err := apiClient.ListBackups(cmd.Context())
			if err != nil {
				return fmt.Errorf("inspect backup: %w", err)
			}
			var size int64
			found := false
			for _, backup := range backups {
				if backup.Filename == filename {
					size = backup.SizeBytes
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("backup %s not found", filename)
			}
			if result := preflight.CheckFreeSpace(target, uint64(size)); !result.Passed {
				return fmt.Errorf("insufficient space: %s", result.Detail)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil && filepath.Dir(target) != "." {
				return fmt.Errorf("create destination directory: %w", err)
			}
			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create destination file: %w", err)
			}
			defer file.Close()

			written, err := apiClient.DownloadBackup(cmd.Context(), filename, file)
			if err != nil {
				_ = os.Remove(target)
				return fmt.Errorf("download backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %s (%s) to %s\n", filename, formatBytesInt64(written), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "output", "o", "", "Destination path (defaults to the backup filename)")
	return cmd
}

func newBackupsUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a backup archive to the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("backup file %s does not exist", args[0])
				}
				return fmt.Errorf("inspect backup file: %w", err)
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			backup, err := apiClient.UploadBackup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("upload backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", backup.Filename)
			return nil
		},
	}
}
