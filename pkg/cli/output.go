package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat parses a string into an OutputFormat
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (use table, json, or yaml)", s)
	}
}

// Formatter handles output formatting
type Formatter struct {
	Format OutputFormat
	Writer io.Writer
}

// NewFormatter creates a new formatter with the given format
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		Format: format,
		Writer: os.Stdout,
	}
}

// PrintJSON outputs data as formatted JSON
func (f *Formatter) PrintJSON(data interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML outputs data as YAML
func (f *Formatter) PrintYAML(data interface{}) error {
	return yaml.NewEncoder(f.Writer).Encode(data)
}

// PrintUser outputs user information
func (f *Formatter) PrintUser(user *UserInfo) error {
	switch f.Format {
	case FormatJSON:
		return f.PrintJSON(user)
	case FormatYAML:
		return f.PrintYAML(user)
	default:
		fmt.Fprintf(f.Writer, "Name:    %s\n", user.Name)
		fmt.Fprintf(f.Writer, "Email:   %s\n", user.Email)
		fmt.Fprintf(f.Writer, "ID:      %d\n", user.ID)
		return nil
	}
}

// PrintConferences outputs a list of conferences
func (f *Formatter) PrintConferences(conferences []Conference) error {
	switch f.Format {
	case FormatJSON:
		return f.PrintJSON(conferences)
	case FormatYAML:
		return f.PrintYAML(conferences)
	default:
		if len(conferences) == 0 {
			fmt.Fprintln(f.Writer, "No conferences found.")
			return nil
		}

		w := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tLOCATION\tTIMEZONE\tDATES")
		for _, c := range conferences {
			location := c.Location
			if c.Country != "" && c.Location != "" {
				location = fmt.Sprintf("%s, %s", c.Location, c.Country)
			} else if c.Country != "" {
				location = c.Country
			}
			dates := "-"
			if !c.StartDate.IsZero() {
				dates = c.StartDate.Format("Jan 2, 2006")
				if !c.EndDate.IsZero() && !c.EndDate.Equal(c.StartDate) {
					dates += " - " + c.EndDate.Format("Jan 2, 2006")
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				c.Slug,
				truncate(c.Name, 40),
				truncate(location, 25),
				c.Timezone,
				dates,
			)
		}
		return w.Flush()
	}
}

// PrintConference outputs a single conference with its CFPs
func (f *Formatter) PrintConference(detail *ConferenceDetail) error {
	switch f.Format {
	case FormatJSON:
		return f.PrintJSON(detail)
	case FormatYAML:
		return f.PrintYAML(detail)
	default:
		c := detail.Conference
		fmt.Fprintf(f.Writer, "Name:        %s\n", c.Name)
		fmt.Fprintf(f.Writer, "Slug:        %s\n", c.Slug)
		if c.Description != "" {
			fmt.Fprintf(f.Writer, "Description: %s\n", c.Description)
		}
		if c.Location != "" || c.Country != "" {
			loc := c.Location
			if c.Country != "" {
				if loc != "" {
					loc += ", "
				}
				loc += c.Country
			}
			fmt.Fprintf(f.Writer, "Location:    %s\n", loc)
		}
		fmt.Fprintf(f.Writer, "Timezone:    %s\n", c.Timezone)
		if !c.StartDate.IsZero() {
			dateRange := c.StartDate.Format("Jan 2, 2006")
			if !c.EndDate.IsZero() && !c.EndDate.Equal(c.StartDate) {
				dateRange += " - " + c.EndDate.Format("Jan 2, 2006")
			}
			fmt.Fprintf(f.Writer, "Dates:       %s\n", dateRange)
		}
		if c.Website != "" {
			fmt.Fprintf(f.Writer, "Website:     %s\n", c.Website)
		}

		if len(detail.Cfps) > 0 {
			fmt.Fprintln(f.Writer)
			fmt.Fprintln(f.Writer, "Calls for Proposals:")
			w := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  ID\tTYPE\tOPENS\tCLOSES\tSTATUS")
			for _, cfp := range detail.Cfps {
				status := "closed"
				if cfp.Open {
					status = "open"
				}
				fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n",
					cfp.ID,
					cfp.CfpType,
					cfp.StartDate.Format("Jan 2, 2006"),
					cfp.EndDate.Format("Jan 2, 2006"),
					status,
				)
			}
			return w.Flush()
		}

		return nil
	}
}

// PrintCfp outputs a single CFP
func (f *Formatter) PrintCfp(cfp *Cfp) error {
	switch f.Format {
	case FormatJSON:
		return f.PrintJSON(cfp)
	case FormatYAML:
		return f.PrintYAML(cfp)
	default:
		status := "closed"
		if cfp.Open {
			status = "open"
		}
		fmt.Fprintf(f.Writer, "ID:     %d\n", cfp.ID)
		fmt.Fprintf(f.Writer, "Type:   %s\n", cfp.CfpType)
		fmt.Fprintf(f.Writer, "Opens:  %s\n", cfp.StartDate.Format("Jan 2, 2006"))
		fmt.Fprintf(f.Writer, "Closes: %s\n", cfp.EndDate.Format("Jan 2, 2006"))
		fmt.Fprintf(f.Writer, "Status: %s\n", status)
		if cfp.Description != "" {
			fmt.Fprintln(f.Writer)
			fmt.Fprintln(f.Writer, cfp.Description)
		}
		return nil
	}
}

// truncate truncates a string to max length with ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
