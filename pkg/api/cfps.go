package api

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/email"
	"github.com/confhub/confhub/pkg/models"
)

type cfpRequest struct {
	CfpType     string                      `json:"cfp_type"`
	StartDate   string                      `json:"start_date"` // YYYY-MM-DD
	EndDate     string                      `json:"end_date"`   // YYYY-MM-DD
	Description string                      `json:"description" validate:"max=10000"`
	Questions   []models.SubmissionQuestion `json:"questions"`
}

// applyTo copies the parsed request onto a CFP record. Date format errors are
// reported as field errors so clients get the same shape as validation
// failures.
func (req *cfpRequest) applyTo(cfp *models.Cfp) models.ValidationErrors {
	var errs models.ValidationErrors

	start, err := parseDateParam(req.StartDate)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "start_date", Reason: "must be a date in YYYY-MM-DD format"})
	}
	end, err := parseDateParam(req.EndDate)
	if err != nil {
		errs = append(errs, models.FieldError{Field: "end_date", Reason: "must be a date in YYYY-MM-DD format"})
	}
	if errs != nil {
		return errs
	}

	cfp.CfpType = models.CfpType(req.CfpType)
	cfp.StartDate = start
	cfp.EndDate = end
	cfp.Description = req.Description
	if req.Questions != nil {
		if err := cfp.SetQuestions(req.Questions); err != nil {
			return models.ValidationErrors{{Field: "questions", Reason: "could not be encoded"}}
		}
	}
	return nil
}

// loadCfpContext fetches a CFP together with its program, conference and
// organizers. Handlers need the whole chain for authorization and validation.
func loadCfpContext(db *gorm.DB, cfpID uint) (*models.Cfp, *models.Program, *models.Conference, error) {
	var cfp models.Cfp
	if err := db.First(&cfp, cfpID).Error; err != nil {
		return nil, nil, nil, err
	}

	var program models.Program
	if err := db.Preload("Cfps").First(&program, cfp.ProgramID).Error; err != nil {
		return nil, nil, nil, err
	}

	var conference models.Conference
	if err := db.Preload("Organizers").First(&conference, program.ConferenceID).Error; err != nil {
		return nil, nil, nil, err
	}

	return &cfp, &program, &conference, nil
}

// CreateCfpHandler opens a new call for proposals on a conference's program.
// POST /api/v0/conferences/{id}/cfps
func CreateCfpHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		conferenceID, ok := pathID(r.URL.Path, "/api/v0/conferences")
		if !ok {
			encodeError(w, "Invalid conference ID", http.StatusBadRequest)
			return
		}

		var conference models.Conference
		if err := cfg.DB.Preload("Organizers").Preload("Program.Cfps").First(&conference, conferenceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "Conference not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load conference", "id", conferenceID, "error", err)
			encodeError(w, "Failed to load conference", http.StatusInternalServerError)
			return
		}

		if !conference.IsOrganizer(user.ID) {
			encodeError(w, "Only organizers can manage CFPs", http.StatusForbidden)
			return
		}

		var req cfpRequest
		if err := decodeRequest(r, &req); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		var cfp models.Cfp
		if errs := req.applyTo(&cfp); errs != nil {
			encodeValidationErrors(w, errs)
			return
		}

		var siblings []models.Cfp
		if conference.Program != nil {
			cfp.ProgramID = conference.Program.ID
			siblings = conference.Program.Cfps
		}
		if errs := cfp.Validate(&conference, siblings); errs != nil {
			encodeValidationErrors(w, errs)
			return
		}

		if err := cfg.DB.Create(&cfp).Error; err != nil {
			cfg.Logger.Error("failed to create cfp", "conference_id", conferenceID, "error", err)
			encodeError(w, "Failed to create CFP", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		encodeResponse(w, r, cfpView{Cfp: cfp, Open: cfp.Open(cfg.Clock.Now(), conference.TZLocation())})
	}
}

// GetCfpHandler returns one CFP with its computed openness.
// GET /api/v0/cfps/{id}
func GetCfpHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r.URL.Path, "/api/v0/cfps")
		if !ok {
			encodeError(w, "Invalid CFP ID", http.StatusBadRequest)
			return
		}

		cfp, _, conference, err := loadCfpContext(cfg.DB, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "CFP not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load cfp", "id", id, "error", err)
			encodeError(w, "Failed to load CFP", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, cfpView{Cfp: *cfp, Open: cfp.Open(cfg.Clock.Now(), conference.TZLocation())})
	}
}

// UpdateCfpHandler updates a CFP. When the submission window moved and the
// conference has date-change notifications configured, organizers get an
// email about the new dates. The previous record is snapshotted before any
// change is applied so the comparison sees what was actually persisted.
// PUT /api/v0/cfps/{id}
func UpdateCfpHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r.URL.Path, "/api/v0/cfps")
		if !ok {
			encodeError(w, "Invalid CFP ID", http.StatusBadRequest)
			return
		}

		cfp, program, conference, err := loadCfpContext(cfg.DB, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "CFP not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load cfp", "id", id, "error", err)
			encodeError(w, "Failed to load CFP", http.StatusInternalServerError)
			return
		}

		if !conference.IsOrganizer(user.ID) {
			encodeError(w, "Only organizers can manage CFPs", http.StatusForbidden)
			return
		}

		var req cfpRequest
		if err := decodeRequest(r, &req); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		prev := *cfp
		updated := *cfp
		if errs := req.applyTo(&updated); errs != nil {
			encodeValidationErrors(w, errs)
			return
		}

		if errs := updated.Validate(conference, program.SiblingCfps(cfp.ID)); errs != nil {
			encodeValidationErrors(w, errs)
			return
		}

		settings, err := models.GetEmailSettings(cfg.DB, conference.ID)
		if err != nil {
			cfg.Logger.Error("failed to load email settings", "conference_id", conference.ID, "error", err)
			settings = nil
		}

		if err := cfg.DB.Save(&updated).Error; err != nil {
			cfg.Logger.Error("failed to update cfp", "id", id, "error", err)
			encodeError(w, "Failed to update CFP", http.StatusInternalServerError)
			return
		}

		if models.ShouldNotifyDatesUpdated(&prev, &updated, settings) {
			notify := updated
			conf := *conference
			set := *settings
			SafeGo(cfg, func() {
				ncfg := &email.NotifyConfig{
					Sender:  cfg.EmailSender,
					From:    cfg.EmailFrom,
					BaseURL: cfg.BaseURL,
					Logger:  cfg.Logger,
				}
				if err := email.SendCfpDatesUpdatedNotification(ncfg, &notify, &conf, &set); err != nil {
					cfg.Logger.Error("failed to send cfp dates updated notification",
						"cfp_id", notify.ID, "conference_id", conf.ID, "error", err)
				}
			})
		}

		encodeResponse(w, r, cfpView{Cfp: updated, Open: updated.Open(cfg.Clock.Now(), conference.TZLocation())})
	}
}

// DeleteCfpHandler removes a CFP from a program. Organizers only.
// DELETE /api/v0/cfps/{id}
func DeleteCfpHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r.URL.Path, "/api/v0/cfps")
		if !ok {
			encodeError(w, "Invalid CFP ID", http.StatusBadRequest)
			return
		}

		cfp, _, conference, err := loadCfpContext(cfg.DB, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "CFP not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load cfp", "id", id, "error", err)
			encodeError(w, "Failed to load CFP", http.StatusInternalServerError)
			return
		}

		if !conference.IsOrganizer(user.ID) {
			encodeError(w, "Only organizers can manage CFPs", http.StatusForbidden)
			return
		}

		if err := cfg.DB.Delete(cfp).Error; err != nil {
			cfg.Logger.Error("failed to delete cfp", "id", id, "error", err)
			encodeError(w, "Failed to delete CFP", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, map[string]string{"status": "deleted"})
	}
}
