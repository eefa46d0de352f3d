package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseOutputFormat(t *testing.T) {
	testCases := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseOutputFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseOutputFormat(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOutputFormat(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected no truncation, got %q", got)
	}
	if got := truncate("a very long conference name", 10); got != "a very ..." {
		t.Errorf("unexpected truncation: %q", got)
	}
	if len(truncate("abcdef", 3)) != 3 {
		t.Error("expected hard cut at tiny max")
	}
}

func TestPrintConferences_Table(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	conferences := []Conference{
		{
			Slug:      "gophercon-eu-2026",
			Name:      "GopherCon EU",
			Location:  "Berlin",
			Country:   "DE",
			Timezone:  "Europe/Berlin",
			StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := f.PrintConferences(conferences); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "gophercon-eu-2026") {
		t.Errorf("expected slug in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Berlin, DE") {
		t.Errorf("expected combined location, got:\n%s", out)
	}
	if !strings.Contains(out, "Jul 1, 2026 - Jul 3, 2026") {
		t.Errorf("expected date range, got:\n%s", out)
	}
}

func TestPrintConferences_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatTable, Writer: &buf}

	if err := f.PrintConferences(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No conferences found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestPrintCfp_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Format: FormatJSON, Writer: &buf}

	cfp := &Cfp{ID: 3, CfpType: "events", Open: true}
	if err := f.PrintCfp(cfp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"cfp_type": "events"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestConfigKeys(t *testing.T) {
	if !IsValidConfigKey("server") || !IsValidConfigKey("email") {
		t.Error("expected server and email to be valid keys")
	}
	if IsValidConfigKey("token") {
		t.Error("token must not be settable through config commands")
	}

	var cfg Config
	if err := cfg.SetConfigValue("server", "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := cfg.GetConfigValue("server")
	if err != nil || got != "https://example.com" {
		t.Errorf("round trip failed: %q, %v", got, err)
	}

	if err := cfg.SetConfigValue("nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfig_GetServerDefault(t *testing.T) {
	var cfg Config
	if got := cfg.GetServer(); got != DefaultServer {
		t.Errorf("expected default server, got %q", got)
	}
}
