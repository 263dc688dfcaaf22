package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikepea/marks/pkg/marks/auth"
	"github.com/mikepea/marks/pkg/marks/config"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token signed with SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, expires, err := auth.NewGate(cfg.Secret, cfg.TokenTTL).Issue()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expires.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Print a bcrypt hash of the admin password.

The password is read from the first line of standard input when it is not
given as an argument.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					password = strings.TrimRight(scanner.Text(), "\r")
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
