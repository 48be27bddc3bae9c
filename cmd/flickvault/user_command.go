package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flickvault/internal/auth"
	"flickvault/internal/config"
	"flickvault/internal/library"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User account utilities",
	}
	userCmd.AddCommand(newUserAddCommand(ctx))
	return userCmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if username == "" {
				return fmt.Errorf("username is required")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if len(password) < 4 {
				return fmt.Errorf("password must be at least 4 characters")
			}

			return ctx.withStore(func(cfg *config.Config, store *library.Store) error {
				hash, err := auth.HashPassword(password)
				if err != nil {
					return err
				}
				user, err := store.CreateUser(cmd.Context(), username, hash)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id=%d)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password for the new account")
	return cmd
}
