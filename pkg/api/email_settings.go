package api

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/models"
)

type emailSettingsRequest struct {
	SendOnCfpDatesUpdated  bool   `json:"send_on_cfp_dates_updated"`
	CfpDatesUpdatedSubject string `json:"cfp_dates_updated_subject" validate:"max=500"`
	CfpDatesUpdatedBody    string `json:"cfp_dates_updated_body" validate:"max=10000"`
	SendCfpReminders       bool   `json:"send_cfp_reminders"`
	CfpReminderDays        int    `json:"cfp_reminder_days" validate:"min=0,max=60"`
}

// loadConferenceForOrganizer fetches a conference and checks the current user
// organizes it. Writes the error response itself and returns nil on failure.
func loadConferenceForOrganizer(cfg *config.Config, w http.ResponseWriter, r *http.Request, prefix string) *models.Conference {
	user := GetUserFromContext(r.Context())
	if user == nil {
		encodeError(w, "Not authenticated", http.StatusUnauthorized)
		return nil
	}

	id, ok := pathID(r.URL.Path, prefix)
	if !ok {
		encodeError(w, "Invalid conference ID", http.StatusBadRequest)
		return nil
	}

	var conference models.Conference
	if err := cfg.DB.Preload("Organizers").First(&conference, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			encodeError(w, "Conference not found", http.StatusNotFound)
			return nil
		}
		cfg.Logger.Error("failed to load conference", "id", id, "error", err)
		encodeError(w, "Failed to load conference", http.StatusInternalServerError)
		return nil
	}

	if !conference.IsOrganizer(user.ID) {
		encodeError(w, "Only organizers can manage email settings", http.StatusForbidden)
		return nil
	}
	return &conference
}

// GetEmailSettingsHandler returns a conference's notification settings,
// creating the default row on first access.
// GET /api/v0/conferences/{id}/email-settings
func GetEmailSettingsHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference := loadConferenceForOrganizer(cfg, w, r, "/api/v0/conferences")
		if conference == nil {
			return
		}

		settings, err := models.GetEmailSettings(cfg.DB, conference.ID)
		if err != nil {
			cfg.Logger.Error("failed to load email settings", "conference_id", conference.ID, "error", err)
			encodeError(w, "Failed to load email settings", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, settings)
	}
}

// UpdateEmailSettingsHandler updates a conference's notification settings.
// PUT /api/v0/conferences/{id}/email-settings
func UpdateEmailSettingsHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conference := loadConferenceForOrganizer(cfg, w, r, "/api/v0/conferences")
		if conference == nil {
			return
		}

		var req emailSettingsRequest
		if err := decodeRequest(r, &req); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		settings, err := models.GetEmailSettings(cfg.DB, conference.ID)
		if err != nil {
			cfg.Logger.Error("failed to load email settings", "conference_id", conference.ID, "error", err)
			encodeError(w, "Failed to load email settings", http.StatusInternalServerError)
			return
		}

		settings.SendOnCfpDatesUpdated = req.SendOnCfpDatesUpdated
		settings.CfpDatesUpdatedSubject = req.CfpDatesUpdatedSubject
		settings.CfpDatesUpdatedBody = req.CfpDatesUpdatedBody
		settings.SendCfpReminders = req.SendCfpReminders
		settings.CfpReminderDays = req.CfpReminderDays

		if err := cfg.DB.Save(settings).Error; err != nil {
			cfg.Logger.Error("failed to update email settings", "conference_id", conference.ID, "error", err)
			encodeError(w, "Failed to update email settings", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, settings)
	}
}
