package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"venuectl/internal/api"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage operator accounts",
	}

	usersCmd.AddCommand(newUsersListCommand(ctx))
	usersCmd.AddCommand(newUsersCreateCommand(ctx))
	usersCmd.AddCommand(newUsersUpdateCommand(ctx))
	usersCmd.AddCommand(newUsersDeleteCommand(ctx))

	return usersCmd
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List operator accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			users, err := apiClient.ListUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, users)
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users")
				return nil
			}
			rows := buildUserRows(users)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Username", "Email", "Roles", "Disabled"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func buildUserRows(users []api.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, user := range users {
		rows = append(rows, []string{
			user.ID,
			user.Username,
			orDash(user.Email),
			joinOrDash(user.Roles),
			yesNo(user.Disabled),
		})
	}
	return rows
}

func newUsersCreateCommand(ctx *commandContext) *cobra.Command {
	var email string
	var roles []string
	var password string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return errors.New("username is required")
			}
			secret, err := resolvePassword(cmd, password, fmt.Sprintf("Password for %s: ", username))
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			created, err := apiClient.CreateUser(cmd.Context(), api.User{
				Username: username,
				Email:    email,
				Roles:    roles,
			}, secret)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role to assign (repeatable)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (prompted when omitted)")
	return cmd
}

func newUsersUpdateCommand(ctx *commandContext) *cobra.Command {
	var email string
	var roles []string
	var disable bool
	var enable bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if enable && disable {
				return errors.New("--enable and --disable are mutually exclusive")
			}
			var patch api.User
			if cmd.Flags().Changed("email") {
				patch.Email = email
			}
			if cmd.Flags().Changed("role") {
				patch.Roles = roles
			}
			patch.Disabled = disable

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			updated, err := apiClient.UpdateUser(cmd.Context(), args[0], patch)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s\n", updated.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New contact email")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role to assign (repeatable, replaces existing)")
	cmd.Flags().BoolVar(&disable, "disable", false, "Disable the account")
	cmd.Flags().BoolVar(&enable, "enable", false, "Enable the account")
	return cmd
}

func newUsersDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This deletes user %s", args[0]))
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
			if err := apiClient.DeleteUser(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newRolesCommand(ctx *commandContext) *cobra.Command {
	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage permission roles",
	}

	rolesCmd.AddCommand(newRolesListCommand(ctx))
	rolesCmd.AddCommand(newRolesSetCommand(ctx))
	rolesCmd.AddCommand(newRolesDeleteCommand(ctx))

	return rolesCmd
}

func newRolesListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			roles, err := apiClient.ListRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("list roles: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, roles)
			}
			if len(roles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No roles")
				return nil
			}
			rows := make([][]string, 0, len(roles))
			for _, role := range roles {
				rows = append(rows, []string{role.Name, orDash(role.Description), joinOrDash(role.Permissions)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Description", "Permissions"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newRolesSetCommand(ctx *commandContext) *cobra.Command {
	var description string
	var permissions []string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or replace a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("role name is required")
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			saved, err := apiClient.SaveRole(cmd.Context(), api.Role{
				Name:        name,
				Description: description,
				Permissions: permissions,
			})
			if err != nil {
				return fmt.Errorf("save role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved role %s\n", saved.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Role description")
	cmd.Flags().StringArrayVar(&permissions, "permission", nil, "Permission to grant (repeatable)")
	return cmd
}

func newRolesDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirmDestructive(cmd, assumeYes, fmt.Sprintf("This deletes role %s", args[0]))
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
			if err := apiClient.DeleteRole(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted role %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
