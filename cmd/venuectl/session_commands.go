package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user := strings.TrimSpace(username)
			if user == "" {
				entered, err := promptLine(cmd, "Username: ")
				if err != nil {
					return err
				}
				user = strings.TrimSpace(entered)
			}
			if user == "" {
				return errors.New("username is required")
			}
			secret, err := resolvePassword(cmd, password, "Password: ")
			if err != nil {
				return err
			}

			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			pair, err := apiClient.Login(cmd.Context(), user, secret)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			manager, err := ctx.authManager()
			if err != nil {
				return err
			}
			if err := manager.SetSession(user, *pair); err != nil {
				return fmt.Errorf("store session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session and remove stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := apiClient.Logout(cmd.Context()); err != nil {
				// The backend session may already be gone; clearing local
				// state still matters.
				fmt.Fprintf(cmd.OutOrStdout(), "Backend logout failed (%v); clearing local session anyway\n", err)
			}
			manager, err := ctx.authManager()
			if err != nil {
				return err
			}
			if err := manager.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoAmICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			user, err := apiClient.WhoAmI(cmd.Context())
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Username: %s\n", user.Username)
			fmt.Fprintf(out, "Email:    %s\n", orDash(user.Email))
			fmt.Fprintf(out, "Roles:    %s\n", joinOrDash(user.Roles))
			return nil
		},
	}
}

// resolvePassword picks the password from the flag, the VENUECTL_PASSWORD
// environment variable, or an interactive prompt, in that order.
func resolvePassword(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("VENUECTL_PASSWORD"); env != "" {
		return env, nil
	}
	entered, err := promptLine(cmd, prompt)
	if err != nil {
		return "", err
	}
	secret := strings.TrimRight(entered, "\r\n")
	if secret == "" {
		return "", errors.New("password is required")
	}
	return secret, nil
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}
