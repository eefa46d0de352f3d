package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with ConfHub using email and password",
	Long: `Logs in with your ConfHub account and stores the API token
in the CLI config file.

The password can be passed with --password, via the CONFHUB_PASSWORD
environment variable, or entered interactively when prompted.

By default, connects to https://confhub.dev. Use --server to connect
to a different ConfHub instance.`,
	Example: `  # Interactive login
  confctl login --email ada@example.com

  # Non-interactive login (e.g. CI)
  CONFHUB_PASSWORD=secret confctl login --email ada@example.com

  # Login to a custom server
  confctl login --email ada@example.com --server http://localhost:8080`,
	RunE: runLogin,
}

var (
	loginServer   string
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVarP(&loginServer, "server", "s", cli.DefaultServer, "ConfHub server URL")
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prefer CONFHUB_PASSWORD or the prompt)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	// Load existing config to get defaults
	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Determine server: flag > global flag > config > default
	server := loginServer
	if serverURL != "" {
		server = serverURL
	} else if server == cli.DefaultServer && cfg.Server != "" {
		server = cfg.Server
	}

	reader := bufio.NewReader(os.Stdin)

	email := loginEmail
	if email == "" {
		email = cfg.Email
	}
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password := loginPassword
	if password == "" {
		password = os.Getenv("CONFHUB_PASSWORD")
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	client := cli.NewClientWithConfig(&cli.Config{Server: server})
	token, user, err := client.Login(email, password)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	// Save the token to config, preserving existing settings
	cfg.Server = server
	cfg.Token = token
	cfg.Email = email

	if err := cli.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Success! Logged in as %s (%s)\n", user.Name, user.Email)
	if server != cli.DefaultServer {
		fmt.Printf("Server: %s\n", server)
	}

	return nil
}
