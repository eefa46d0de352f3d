package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/confhub/confhub/pkg/cli"
)

var cfpsCmd = &cobra.Command{
	Use:   "cfps",
	Short: "Manage CFP windows",
	Long: `Open, update, and close Call for Proposals windows on conferences
you organize. A conference program can hold one CFP per submission
type: "events" for talk submissions, "tracks" for track proposals.`,
	Example: `  # Open a talks CFP on conference 7
  confctl cfps open 7 --type events --start 2026-01-15 --end 2026-03-31

  # Move a CFP's closing date
  confctl cfps update 12 --type events --start 2026-01-15 --end 2026-04-15

  # Delete a CFP
  confctl cfps delete 12`,
}

var (
	cfpType        string
	cfpStart       string
	cfpEnd         string
	cfpDescription string
)

func addCfpFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cfpType, "type", "t", "events", `Submission type ("events" or "tracks")`)
	cmd.Flags().StringVar(&cfpStart, "start", "", "Opening date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cfpEnd, "end", "", "Closing date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&cfpDescription, "description", "d", "", "CFP description")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
}

func init() {
	addCfpFlags(cfpsOpenCmd)
	addCfpFlags(cfpsUpdateCmd)

	cfpsCmd.AddCommand(cfpsOpenCmd)
	cfpsCmd.AddCommand(cfpsUpdateCmd)
	cfpsCmd.AddCommand(cfpsDeleteCmd)
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, arg)
	}
	return uint(id), nil
}

var cfpsOpenCmd = &cobra.Command{
	Use:   "open <conference-id>",
	Short: "Open a new CFP window on a conference",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpenCfp,
}

func runOpenCfp(cmd *cobra.Command, args []string) error {
	conferenceID, err := parseID(args[0], "conference")
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	cfp, err := client.CreateCfp(conferenceID, &cli.CfpSubmission{
		CfpType:     cfpType,
		StartDate:   cfpStart,
		EndDate:     cfpEnd,
		Description: cfpDescription,
	})
	if err != nil {
		return err
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	fmt.Printf("Opened %s CFP #%d\n", cfp.CfpType, cfp.ID)
	return formatter.PrintCfp(cfp)
}

var cfpsUpdateCmd = &cobra.Command{
	Use:   "update <cfp-id>",
	Short: "Update a CFP window",
	Long: `Updates a CFP's type, dates, or description. If the conference has
date-change notifications enabled, moving the window emails the
organizers.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateCfp,
}

func runUpdateCfp(cmd *cobra.Command, args []string) error {
	cfpID, err := parseID(args[0], "CFP")
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	cfp, err := client.UpdateCfp(cfpID, &cli.CfpSubmission{
		CfpType:     cfpType,
		StartDate:   cfpStart,
		EndDate:     cfpEnd,
		Description: cfpDescription,
	})
	if err != nil {
		return err
	}

	formatter, err := getFormatter()
	if err != nil {
		return err
	}

	return formatter.PrintCfp(cfp)
}

var cfpsDeleteCmd = &cobra.Command{
	Use:   "delete <cfp-id>",
	Short: "Delete a CFP window",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteCfp,
}

func runDeleteCfp(cmd *cobra.Command, args []string) error {
	cfpID, err := parseID(args[0], "CFP")
	if err != nil {
		return err
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.DeleteCfp(cfpID); err != nil {
		return err
	}

	fmt.Printf("Deleted CFP #%d\n", cfpID)
	return nil
}
