package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/clock"
	"github.com/confhub/confhub/pkg/email"
	"github.com/confhub/confhub/pkg/models"
)

// ReminderSweeper periodically checks every conference for CFPs that close in
// exactly the configured number of days and mails the organizers. "Closes in
// N days" is evaluated against the conference's own calendar, so a CFP
// closing Friday in Tokyo triggers on the right Tokyo day even when the
// server runs in UTC.
type ReminderSweeper struct {
	db     *gorm.DB
	logger *slog.Logger
	clk    clock.Clock
	ncfg   *email.NotifyConfig

	mu   sync.Mutex
	sent map[uint]string // cfp ID -> local date the reminder went out
}

func NewReminderSweeper(db *gorm.DB, logger *slog.Logger, clk clock.Clock, sender email.Sender, emailFrom, baseURL string) *ReminderSweeper {
	return &ReminderSweeper{
		db:     db,
		logger: logger,
		clk:    clk,
		ncfg: &email.NotifyConfig{
			Sender:  sender,
			From:    emailFrom,
			BaseURL: baseURL,
			Logger:  logger,
		},
		sent: make(map[uint]string),
	}
}

// StartCfpReminders runs an immediate sweep then repeats at the given interval
// until ctx is cancelled. Intended to be launched as a goroutine from main.
func StartCfpReminders(ctx context.Context, db *gorm.DB, logger *slog.Logger, clk clock.Clock, interval time.Duration, sender email.Sender, emailFrom, baseURL string) {
	logger.Info("cfp reminder sweep starting", "interval", interval)

	sweeper := NewReminderSweeper(db, logger, clk, sender, emailFrom, baseURL)
	sweeper.Sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cfp reminder sweep stopped")
			return
		case <-ticker.C:
			sweeper.Sweep(ctx)
		}
	}
}

// Sweep examines all conferences once and sends any due reminders.
func (s *ReminderSweeper) Sweep(ctx context.Context) {
	var conferences []models.Conference
	if err := s.db.Preload("Program.Cfps").Preload("EmailSettings").Preload("Organizers").
		Find(&conferences).Error; err != nil {
		s.logger.Error("failed to load conferences for reminder sweep", "error", err)
		return
	}

	now := s.clk.Now()
	sentCount := 0

	for i := range conferences {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conference := &conferences[i]
		settings := conference.EmailSettings
		if settings == nil || !settings.SendCfpReminders || conference.Program == nil {
			continue
		}

		loc := conference.TZLocation()
		for _, cfp := range conference.Program.Cfps {
			if !cfp.Open(now, loc) {
				continue
			}

			daysLeft := daysUntilClose(now, loc, cfp.EndDate)
			if daysLeft != settings.CfpReminderDays {
				continue
			}
			if s.alreadySent(cfp.ID, now, loc) {
				continue
			}

			if err := email.SendCfpClosingSoonReminder(s.ncfg, &cfp, conference, daysLeft); err != nil {
				s.logger.Error("failed to send cfp closing reminder",
					"cfp_id", cfp.ID, "conference_id", conference.ID, "error", err)
				continue
			}
			s.markSent(cfp.ID, now, loc)
			sentCount++
		}
	}

	s.logger.Info("cfp reminder sweep completed", "conferences", len(conferences), "sent", sentCount)
}

// daysUntilClose returns the number of whole local calendar days between
// today and the CFP's end date. Zero means the CFP closes today.
func daysUntilClose(now time.Time, loc *time.Location, endDate time.Time) int {
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	ey, em, ed := endDate.UTC().Date()
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)

	return int(end.Sub(today).Hours() / 24)
}

// localDate formats the local calendar date used for reminder deduplication.
func localDate(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("2006-01-02")
}

func (s *ReminderSweeper) alreadySent(cfpID uint, now time.Time, loc *time.Location) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[cfpID] == localDate(now, loc)
}

func (s *ReminderSweeper) markSent(cfpID uint, now time.Time, loc *time.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[cfpID] = localDate(now, loc)
}
