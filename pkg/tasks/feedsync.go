package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/feeds"
	"github.com/confhub/confhub/pkg/models"
)

// StartFeedSync runs an immediate sync then repeats at the given interval until ctx is cancelled.
// Intended to be launched as a goroutine from main.
func StartFeedSync(ctx context.Context, db *gorm.DB, logger *slog.Logger, feedURL string, interval time.Duration) {
	logger.Info("conference feed sync starting", "url", feedURL, "interval", interval)
	syncFeed(db, logger, feedURL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("conference feed sync stopped")
			return
		case <-ticker.C:
			syncFeed(db, logger, feedURL)
		}
	}
}

func syncFeed(db *gorm.DB, logger *slog.Logger, feedURL string) {
	client := feeds.NewClient(feedURL)
	feed, err := client.Fetch()
	if err != nil {
		logger.Error("failed to fetch conference feed", "url", feedURL, "error", err)
		return
	}

	created, updated, skipped := 0, 0, 0
	for _, entry := range feed.Conferences {
		wasCreated, wasUpdated, err := syncConference(db, logger, entry)
		if err != nil {
			logger.Error("failed to sync conference", "slug", entry.Slug, "error", err)
			continue
		}
		if wasCreated {
			created++
		} else if wasUpdated {
			updated++
		} else {
			skipped++
		}
	}

	logger.Info("conference feed sync completed", "created", created, "updated", updated, "skipped", skipped)
}

// changedConferenceFields compares an existing conference against a feed entry
// and returns a comma-separated list of field names that differ. Returns empty
// string if nothing changed.
func changedConferenceFields(existing models.Conference, entry feeds.ConferenceEntry, startDate, endDate time.Time) string {
	var changed []string
	if existing.Name != entry.Name {
		changed = append(changed, "name")
	}
	if !existing.StartDate.Equal(startDate) {
		changed = append(changed, "start_date")
	}
	if !existing.EndDate.Equal(endDate) {
		changed = append(changed, "end_date")
	}
	if existing.Description != entry.Description {
		changed = append(changed, "description")
	}
	if existing.Location != entry.Location {
		changed = append(changed, "location")
	}
	if existing.Country != entry.Country {
		changed = append(changed, "country")
	}
	if existing.Timezone != entry.Timezone {
		changed = append(changed, "timezone")
	}
	if existing.Website != entry.Website {
		changed = append(changed, "website")
	}
	if existing.ContactEmail != entry.ContactEmail {
		changed = append(changed, "contact_email")
	}
	return strings.Join(changed, ",")
}

// syncConference processes a single feed entry.
// Returns (true, false, nil) if created, (false, true, nil) if updated, (false, false, nil) if skipped.
func syncConference(db *gorm.DB, logger *slog.Logger, entry feeds.ConferenceEntry) (created bool, updated bool, err error) {
	if entry.Slug == "" || entry.Name == "" {
		return false, false, fmt.Errorf("feed entry missing slug or name")
	}

	startDate, err := feeds.ParseDate(entry.StartDate)
	if err != nil {
		return false, false, fmt.Errorf("parsing start_date %q: %w", entry.StartDate, err)
	}
	endDate, err := feeds.ParseDate(entry.EndDate)
	if err != nil {
		return false, false, fmt.Errorf("parsing end_date %q: %w", entry.EndDate, err)
	}

	timezone := entry.Timezone
	if timezone == "" {
		timezone = "Etc/UTC"
	}
	if _, tzErr := time.LoadLocation(timezone); tzErr != nil {
		logger.Warn("feed entry has unknown timezone, using UTC", "slug", entry.Slug, "timezone", timezone)
		timezone = "Etc/UTC"
	}

	var existing models.Conference
	if db.Where("slug = ?", entry.Slug).First(&existing).Error == nil {
		diff := changedConferenceFields(existing, entry, startDate, endDate)
		if diff == "" {
			return false, false, syncFeedCfps(db, logger, &existing, entry)
		}
		updates := map[string]interface{}{
			"name":          entry.Name,
			"description":   entry.Description,
			"location":      entry.Location,
			"country":       entry.Country,
			"timezone":      timezone,
			"start_date":    startDate,
			"end_date":      endDate,
			"website":       entry.Website,
			"contact_email": entry.ContactEmail,
		}
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return false, false, fmt.Errorf("updating conference %s: %w", entry.Slug, err)
		}
		logger.Info("updated conference from feed", "slug", entry.Slug, "changed", diff)
		return false, true, syncFeedCfps(db, logger, &existing, entry)
	}

	conference := models.Conference{
		Name:         entry.Name,
		Slug:         entry.Slug,
		Description:  entry.Description,
		Location:     entry.Location,
		Country:      entry.Country,
		Timezone:     timezone,
		StartDate:    startDate,
		EndDate:      endDate,
		Website:      entry.Website,
		ContactEmail: entry.ContactEmail,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conference).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Program{ConferenceID: conference.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.EmailSettings{
			ConferenceID:     conference.ID,
			SendCfpReminders: true,
			CfpReminderDays:  3,
		}).Error
	})
	if err != nil {
		return false, false, fmt.Errorf("creating conference %s: %w", entry.Slug, err)
	}

	logger.Info("created conference from feed", "slug", entry.Slug, "name", entry.Name)
	return true, false, syncFeedCfps(db, logger, &conference, entry)
}

// syncFeedCfps upserts the CFP windows declared by a feed entry. Each program
// holds at most one CFP per submission type, so entries match on type.
func syncFeedCfps(db *gorm.DB, logger *slog.Logger, conference *models.Conference, entry feeds.ConferenceEntry) error {
	if len(entry.Cfps) == 0 {
		return nil
	}

	var program models.Program
	if err := db.Preload("Cfps").Where("conference_id = ?", conference.ID).First(&program).Error; err != nil {
		return fmt.Errorf("loading program for %s: %w", conference.Slug, err)
	}

	for _, ce := range entry.Cfps {
		start, err := feeds.ParseDate(ce.StartDate)
		if err != nil {
			logger.Error("skipping feed cfp with bad start_date", "slug", conference.Slug, "start_date", ce.StartDate)
			continue
		}
		end, err := feeds.ParseDate(ce.EndDate)
		if err != nil {
			logger.Error("skipping feed cfp with bad end_date", "slug", conference.Slug, "end_date", ce.EndDate)
			continue
		}

		cfp := models.Cfp{
			ProgramID: program.ID,
			CfpType:   models.CfpType(ce.CfpType),
			StartDate: start,
			EndDate:   end,
		}
		if existing := models.ForType(program.Cfps, cfp.CfpType); existing != nil {
			cfp.ID = existing.ID
			cfp.CreatedAt = existing.CreatedAt
			cfp.Description = existing.Description
			cfp.Questions = existing.Questions
		}

		if errs := cfp.Validate(conference, program.SiblingCfps(cfp.ID)); errs != nil {
			logger.Error("skipping invalid feed cfp", "slug", conference.Slug, "cfp_type", ce.CfpType, "error", errs.Error())
			continue
		}

		if err := db.Save(&cfp).Error; err != nil {
			logger.Error("failed to save feed cfp", "slug", conference.Slug, "cfp_type", ce.CfpType, "error", err)
		}
	}
	return nil
}
