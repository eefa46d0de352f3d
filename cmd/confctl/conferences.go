package main

import (
	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var conferencesCmd = &cobra.Command{
	Use:     "conferences",
	Aliases: []string{"confs"},
	Short:   "List and inspect conferences",
	Long:    `Browse conferences and their Call for Proposals windows.`,
	Example: `  # List all conferences
  confctl conferences

  # Search by name
  confctl conferences --query gopher

  # Filter by country
  confctl conferences --country DE

  # Show one conference with its CFPs
  confctl conferences show gophercon-eu-2026`,
	RunE: runListConferences,
}

var (
	conferencesQuery   string
	conferencesCountry string
	conferencesPage    int
	conferencesPerPage int
)

func init() {
	conferencesCmd.Flags().StringVarP(&conferencesQuery, "query", "q", "", "Search by name or description")
	conferencesCmd.Flags().StringVarP(&conferencesCountry, "country", "c", "", "Filter by country code")
	conferencesCmd.Flags().IntVar(&conferencesPage, "page", 1, "Page number")
	conferencesCmd.Flags().IntVar(&conferencesPerPage, "per-page", 20, "Results per page")

	conferencesCmd.AddCommand(conferencesShowCmd)
}

func runListConferences(cmd *cobra.Command, args []string) error {
	client, err := getPublicClient()
	if err != nil {
		return err
	}

	resp, err := client.ListConferences(cli.ListConferencesOptions{
		Query:   conferencesQuery,
		Country: conferencesCountry,
		Page:    conferencesPage,
		PerPage: conferencesPerPage,
	})
	if err != nil {
		return err
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	return formatter.PrintConferences(resp.Data)
}

var conferencesShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a conference and its CFPs",
	Long:  `Displays a conference's details and every CFP window with its current open status.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShowConference,
}

func runShowConference(cmd *cobra.Command, args []string) error {
	client, err := getPublicClient()
	if err != nil {
		return err
	}

	detail, err := client.GetConference(args[0])
	if err != nil {
		return err
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	return formatter.PrintConference(detail)
}
