package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sunless-desktop/internal/auth"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the stored sign-in session",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a session token is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := (auth.KeyringStore{}).Load()
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed in")
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := (auth.KeyringStore{}).Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionStatusCmd, sessionClearCmd)
}
