package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display current user information",
	Long:  `Shows the currently authenticated user's name, email, and ID.`,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	user, err := client.GetMe()
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	return formatter.PrintUser(user)
}
