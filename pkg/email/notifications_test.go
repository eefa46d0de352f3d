package email

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/confhub/confhub/pkg/models"
)

// mockSender records all sent messages for assertions.
type mockSender struct {
	mu       sync.Mutex
	messages []*Message
}

func (m *mockSender) Send(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockSender) Messages() []*Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages
}

func newTestNotifyConfig(sender Sender) *NotifyConfig {
	return &NotifyConfig{
		Sender:  sender,
		From:    "ConfHub <test@confhub.dev>",
		BaseURL: "https://confhub.dev",
		Logger:  slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

func testCfp() *models.Cfp {
	return &models.Cfp{
		CfpType:   models.CfpTypeEvents,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestSendCfpDatesUpdatedNotification(t *testing.T) {
	mock := &mockSender{}
	ncfg := newTestNotifyConfig(mock)

	conference := &models.Conference{
		Name:         "GopherCon EU",
		Slug:         "gophercon-eu-2026",
		ContactEmail: "team@gophercon.eu",
		Organizers: []models.User{
			{Name: "Alice", Email: "alice@example.com"},
		},
	}
	settings := &models.EmailSettings{
		SendOnCfpDatesUpdated:  true,
		CfpDatesUpdatedSubject: "{conference}: CFP dates changed",
		CfpDatesUpdatedBody:    "The {cfp_type} window now runs {cfp_start_date} to {cfp_end_date}.",
	}

	if err := SendCfpDatesUpdatedNotification(ncfg, testCfp(), conference, settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}

	msg := msgs[0]
	if msg.To[0] != "team@gophercon.eu" {
		t.Errorf("To = %v, want the contact email", msg.To)
	}
	if len(msg.Cc) != 1 || msg.Cc[0] != "alice@example.com" {
		t.Errorf("Cc = %v, want [alice@example.com]", msg.Cc)
	}
	if msg.Subject != "GopherCon EU: CFP dates changed" {
		t.Errorf("Subject = %q, placeholders not expanded", msg.Subject)
	}
	if !strings.Contains(msg.Text, "The events window now runs June 1, 2026 to June 15, 2026.") {
		t.Errorf("Text body missing expanded operator text:\n%s", msg.Text)
	}
	if !strings.Contains(msg.HTML, "gophercon-eu-2026") {
		t.Errorf("HTML body missing conference link:\n%s", msg.HTML)
	}
}

func TestSendCfpDatesUpdatedNotification_NoRecipients(t *testing.T) {
	mock := &mockSender{}
	ncfg := newTestNotifyConfig(mock)

	conference := &models.Conference{Name: "Lonely Conf"}
	settings := &models.EmailSettings{
		SendOnCfpDatesUpdated:  true,
		CfpDatesUpdatedSubject: "subject",
		CfpDatesUpdatedBody:    "body",
	}

	if err := SendCfpDatesUpdatedNotification(ncfg, testCfp(), conference, settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Messages()) != 0 {
		t.Error("expected no mail when there is nobody to notify")
	}
}

func TestSendCfpDatesUpdatedNotification_OrganizersOnly(t *testing.T) {
	mock := &mockSender{}
	ncfg := newTestNotifyConfig(mock)

	conference := &models.Conference{
		Name: "Conf",
		Slug: "conf",
		Organizers: []models.User{
			{Name: "Alice", Email: "alice@example.com"},
			{Name: "Bob", Email: "bob@example.com"},
		},
	}
	settings := &models.EmailSettings{
		SendOnCfpDatesUpdated:  true,
		CfpDatesUpdatedSubject: "s",
		CfpDatesUpdatedBody:    "b",
	}

	if err := SendCfpDatesUpdatedNotification(ncfg, testCfp(), conference, settings); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].To[0] != "alice@example.com" {
		t.Errorf("To = %v, want first organizer", msgs[0].To)
	}
	if len(msgs[0].Cc) != 1 || msgs[0].Cc[0] != "bob@example.com" {
		t.Errorf("Cc = %v, want remaining organizers", msgs[0].Cc)
	}
}

func TestSendCfpClosingSoonReminder(t *testing.T) {
	mock := &mockSender{}
	ncfg := newTestNotifyConfig(mock)

	conference := &models.Conference{
		Name: "GopherCon EU",
		Organizers: []models.User{
			{Name: "Alice", Email: "alice@example.com"},
			{Name: "Bob", Email: "bob@example.com"},
		},
	}
	conference.ID = 7

	if err := SendCfpClosingSoonReminder(ncfg, testCfp(), conference, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := mock.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected one message per organizer, got %d", len(msgs))
	}
	if msgs[0].Subject != "The events CFP for GopherCon EU closes soon" {
		t.Errorf("Subject = %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].Text, "in 3 days") {
		t.Errorf("Text missing days-left phrasing:\n%s", msgs[0].Text)
	}
	if !strings.Contains(msgs[1].Text, "Hi Bob") {
		t.Errorf("second message not addressed to Bob:\n%s", msgs[1].Text)
	}
}

func TestSendCfpClosingSoonReminder_NoOrganizers(t *testing.T) {
	mock := &mockSender{}
	ncfg := newTestNotifyConfig(mock)

	if err := SendCfpClosingSoonReminder(ncfg, testCfp(), &models.Conference{Name: "Conf"}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Messages()) != 0 {
		t.Error("expected no mail without organizers")
	}
}

func TestSubstitutePlaceholders(t *testing.T) {
	cfp := testCfp()
	conference := &models.Conference{Name: "GopherCon EU"}

	got := substitutePlaceholders("{conference} {cfp_type} {cfp_start_date} {cfp_end_date} {unknown}", cfp, conference)
	want := "GopherCon EU events June 1, 2026 June 15, 2026 {unknown}"
	if got != want {
		t.Errorf("substitutePlaceholders = %q, want %q", got, want)
	}
}
