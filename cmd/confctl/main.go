package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	outputFormat string
	serverURL    string
)

var rootCmd = &cobra.Command{
	Use:   "confctl",
	Short: "ConfHub CLI - Manage conferences and CFPs from the command line",
	Long: `confctl is a command-line tool for browsing conferences and managing
Call for Proposals (CFP) windows on ConfHub.

Get started:
  confctl login                  Authenticate with email and password
  confctl conferences            List conferences
  confctl conferences show SLUG  Show a conference and its CFPs
  confctl cfps open              Open a CFP window

Enable shell completion:
  confctl completion bash        Generate bash completion
  confctl completion zsh         Generate zsh completion`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "ConfHub server URL (overrides config)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(conferencesCmd)
	rootCmd.AddCommand(cfpsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("confctl version %s\n", Version)
	},
}

// getFormatter creates a formatter based on the global output flag
func getFormatter() (*cli.Formatter, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewFormatter(format), nil
}

// getClient creates an API client, optionally using the server flag override
func getClient() (*cli.Client, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if serverURL != "" {
		cfg.Server = serverURL
	}

	if !cfg.IsLoggedIn() {
		return nil, fmt.Errorf("not logged in. Run 'confctl login' first")
	}

	return cli.NewClientWithConfig(cfg), nil
}

// getPublicClient creates an unauthenticated API client for public endpoints
func getPublicClient() (*cli.Client, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if serverURL != "" {
		cfg.Server = serverURL
	}

	// Clear token for public access
	cfg.Token = ""
	return cli.NewClientWithConfig(cfg), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
