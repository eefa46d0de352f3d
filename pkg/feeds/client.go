package feeds

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"gopkg.in/yaml.v2"
)

// A conference feed is a YAML document published by a partner site listing
// its upcoming conferences and CFP windows. Feeds are polled periodically and
// imported into the local database.
//
// Example document:
//
//	conferences:
//	  - name: "GopherCon EU"
//	    slug: "gophercon-eu-2026"
//	    location: "Berlin"
//	    country: "DE"
//	    timezone: "Europe/Berlin"
//	    start_date: "2026-07-01"
//	    end_date: "2026-07-03"
//	    website: "https://gophercon.eu"
//	    cfps:
//	      - cfp_type: "events"
//	        start_date: "2026-01-15"
//	        end_date: "2026-03-31"

type Client struct {
	FeedURL    string
	HTTPClient *http.Client
}

type Feed struct {
	Conferences []ConferenceEntry `yaml:"conferences"`
}

type ConferenceEntry struct {
	Name         string     `yaml:"name"`
	Slug         string     `yaml:"slug"`
	Description  string     `yaml:"description"`
	Location     string     `yaml:"location"`
	Country      string     `yaml:"country"`
	Timezone     string     `yaml:"timezone"`
	StartDate    string     `yaml:"start_date"` // YYYY-MM-DD
	EndDate      string     `yaml:"end_date"`   // YYYY-MM-DD
	Website      string     `yaml:"website"`
	ContactEmail string     `yaml:"contact_email"`
	Cfps         []CfpEntry `yaml:"cfps"`
}

type CfpEntry struct {
	CfpType   string `yaml:"cfp_type"`
	StartDate string `yaml:"start_date"` // YYYY-MM-DD
	EndDate   string `yaml:"end_date"`   // YYYY-MM-DD
}

func NewClient(feedURL string) *Client {
	return &Client{
		FeedURL: feedURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads and parses the feed.
func (c *Client) Fetch() (*Feed, error) {
	resp, err := c.HTTPClient.Get(c.FeedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, c.FeedURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed Feed
	if err := yaml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing conference feed: %w", err)
	}
	return &feed, nil
}

// ParseDate parses a feed date. Feeds use plain calendar dates.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
