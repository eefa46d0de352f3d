package main

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [slug]",
	Short: "Open the ConfHub dashboard in your browser",
	Long: `Opens the web dashboard. With a conference slug, opens that
conference's page directly.`,
	Example: `  # Open the main dashboard
  confctl dashboard

  # Open a conference page
  confctl dashboard gophercon-eu-2026`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	server := cfg.GetServer()
	if serverURL != "" {
		server = serverURL
	}

	target := server
	if len(args) == 1 {
		target = server + "/c/" + args[0]
	}

	fmt.Printf("Opening %s\n", target)
	if err := browser.OpenURL(target); err != nil {
		return fmt.Errorf("could not open browser: %w\nVisit %s manually", err, target)
	}
	return nil
}
