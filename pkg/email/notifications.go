package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/confhub/confhub/pkg/models"
)

// NotifyConfig holds the settings needed to send notification emails.
type NotifyConfig struct {
	Sender  Sender
	From    string
	BaseURL string
	Logger  *slog.Logger
}

// cfpDatesUpdatedData is the template data for the dates-updated email.
type cfpDatesUpdatedData struct {
	Body           string
	ConferenceName string
	CfpType        string
	StartDate      string
	EndDate        string
	ConferenceURL  string
}

// cfpClosingSoonData is the template data for the organizer reminder email.
type cfpClosingSoonData struct {
	OrganizerName  string
	ConferenceName string
	CfpType        string
	EndDate        string
	DaysLeft       int
	DashboardURL   string
}

const dateLayout = "January 2, 2006"

// substitutePlaceholders expands the operator-written subject/body templates.
// Supported placeholders: {conference}, {cfp_type}, {cfp_start_date},
// {cfp_end_date}.
func substitutePlaceholders(text string, cfp *models.Cfp, conference *models.Conference) string {
	r := strings.NewReplacer(
		"{conference}", conference.Name,
		"{cfp_type}", string(cfp.CfpType),
		"{cfp_start_date}", cfp.StartDate.Format(dateLayout),
		"{cfp_end_date}", cfp.EndDate.Format(dateLayout),
	)
	return r.Replace(text)
}

// organizerRecipients builds To/Cc lists for organizer-facing mail. The
// contact address wins when set; otherwise the first organizer gets To and the
// rest Cc. Empty lists mean there is nobody to tell.
func organizerRecipients(conference *models.Conference) (to, cc []string) {
	if conference.ContactEmail != "" {
		to = []string{conference.ContactEmail}
		for _, org := range conference.Organizers {
			cc = append(cc, org.Email)
		}
		return to, cc
	}
	if len(conference.Organizers) == 0 {
		return nil, nil
	}
	to = []string{conference.Organizers[0].Email}
	for _, org := range conference.Organizers[1:] {
		cc = append(cc, org.Email)
	}
	return to, cc
}

// SendCfpDatesUpdatedNotification emails the conference's organizers after a
// CFP's submission window moved. Subject and body come from the conference's
// email settings with placeholders expanded; callers are expected to have
// already consulted models.ShouldNotifyDatesUpdated.
func SendCfpDatesUpdatedNotification(ncfg *NotifyConfig, cfp *models.Cfp, conference *models.Conference, settings *models.EmailSettings) error {
	to, cc := organizerRecipients(conference)
	if len(to) == 0 {
		return nil
	}

	subject := substitutePlaceholders(settings.CfpDatesUpdatedSubject, cfp, conference)
	body := substitutePlaceholders(settings.CfpDatesUpdatedBody, cfp, conference)

	data := cfpDatesUpdatedData{
		Body:           body,
		ConferenceName: conference.Name,
		CfpType:        string(cfp.CfpType),
		StartDate:      cfp.StartDate.Format(dateLayout),
		EndDate:        cfp.EndDate.Format(dateLayout),
		ConferenceURL:  ncfg.BaseURL + "/c/" + conference.Slug,
	}

	html, text, err := Render("cfp_dates_updated", data)
	if err != nil {
		return fmt.Errorf("render cfp_dates_updated: %w", err)
	}

	msg := &Message{
		To:      to,
		Cc:      cc,
		From:    ncfg.From,
		ReplyTo: conference.ContactEmail,
		Subject: subject,
		HTML:    html,
		Text:    text,
	}

	if err := ncfg.Sender.Send(context.Background(), msg); err != nil {
		ncfg.Logger.Error("failed to send cfp dates updated email",
			"cfp_id", cfp.ID,
			"conference", conference.Slug,
			"error", err,
		)
		return err
	}

	ncfg.Logger.Info("sent cfp dates updated email",
		"cfp_id", cfp.ID,
		"conference", conference.Slug,
		"to", to,
		"cc", cc,
	)
	return nil
}

// SendCfpClosingSoonReminder emails every organizer that a CFP closes in
// daysLeft days.
func SendCfpClosingSoonReminder(ncfg *NotifyConfig, cfp *models.Cfp, conference *models.Conference, daysLeft int) error {
	if len(conference.Organizers) == 0 {
		return nil
	}

	for _, org := range conference.Organizers {
		data := cfpClosingSoonData{
			OrganizerName:  org.Name,
			ConferenceName: conference.Name,
			CfpType:        string(cfp.CfpType),
			EndDate:        cfp.EndDate.Format(dateLayout),
			DaysLeft:       daysLeft,
			DashboardURL:   fmt.Sprintf("%s/dashboard/conferences/%d", ncfg.BaseURL, conference.ID),
		}

		html, text, err := Render("cfp_closing_soon", data)
		if err != nil {
			ncfg.Logger.Error("failed to render cfp reminder email", "error", err)
			continue
		}

		msg := &Message{
			To:      []string{org.Email},
			From:    ncfg.From,
			ReplyTo: conference.ContactEmail,
			Subject: fmt.Sprintf("The %s CFP for %s closes soon", cfp.CfpType, conference.Name),
			HTML:    html,
			Text:    text,
		}

		if err := ncfg.Sender.Send(context.Background(), msg); err != nil {
			ncfg.Logger.Error("failed to send cfp reminder email",
				"organizer", org.Email,
				"error", err,
			)
			continue
		}

		ncfg.Logger.Info("sent cfp reminder email",
			"organizer", org.Email,
			"cfp_id", cfp.ID,
		)
	}

	return nil
}
