package api

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/confhub/confhub/pkg/config"
	"github.com/confhub/confhub/pkg/models"
)

// Pagination constants for conference listings
const (
	DefaultPageSize = 20  // Default number of conferences per page
	MaxPageSize     = 100 // Maximum allowed conferences per page to prevent abuse
)

// Field length limits for conferences
const (
	MaxConferenceNameLen        = 200
	MaxConferenceDescriptionLen = 10000
	MaxConferenceSlugLen        = 200
)

// slugRegex validates conference URL slugs.
// Valid examples: "gophercon-eu-2026", "fosdem", "kubecon-na-2025"
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// dateParam is the wire format for calendar dates.
const dateParam = "2006-01-02"

// parseDateParam parses a YYYY-MM-DD value. Empty input yields a zero time
// with no error so optional fields stay optional.
func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateParam, s)
}

// pathID extracts the numeric ID segment following prefix, ignoring any
// trailing sub-path ("/api/v0/cfps/42/..." -> 42).
func pathID(path, prefix string) (uint, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path {
		return 0, false
	}
	rest = strings.TrimPrefix(rest, "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type conferenceRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Slug         string `json:"slug" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=10000"`
	Location     string `json:"location" validate:"max=500"`
	Country      string `json:"country" validate:"max=100"`
	Timezone     string `json:"timezone" validate:"max=100"`
	StartDate    string `json:"start_date"` // YYYY-MM-DD
	EndDate      string `json:"end_date"`   // YYYY-MM-DD
	Website      string `json:"website" validate:"omitempty,url"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// applyTo copies the parsed request onto a conference record.
func (req *conferenceRequest) applyTo(conference *models.Conference) error {
	start, err := parseDateParam(req.StartDate)
	if err != nil {
		return errors.New("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := parseDateParam(req.EndDate)
	if err != nil {
		return errors.New("invalid end_date, expected YYYY-MM-DD")
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "Etc/UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return errors.New("invalid timezone, expected an IANA identifier like Europe/Berlin")
	}

	conference.Name = req.Name
	conference.Slug = req.Slug
	conference.Description = req.Description
	conference.Location = req.Location
	conference.Country = req.Country
	conference.Timezone = timezone
	conference.StartDate = start
	conference.EndDate = end
	conference.Website = req.Website
	conference.ContactEmail = req.ContactEmail
	return nil
}

// CreateConferenceHandler creates a conference along with its program and
// default email settings.
// POST /api/v0/conferences
func CreateConferenceHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		var req conferenceRequest
		if err := decodeRequest(r, &req); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !slugRegex.MatchString(req.Slug) {
			encodeError(w, "Invalid slug: use lowercase letters, numbers and single hyphens", http.StatusBadRequest)
			return
		}

		conference := models.Conference{CreatedByID: &user.ID}
		if err := req.applyTo(&conference); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		err := cfg.DB.Transaction(func(tx *gorm.DB) error {
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
			if strings.Contains(err.Error(), "duplicate key") {
				encodeError(w, "A conference with this slug already exists", http.StatusConflict)
				return
			}
			cfg.Logger.Error("failed to create conference", "error", err)
			encodeError(w, "Failed to create conference", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
		encodeResponse(w, r, conference)
	}
}

// ListConferencesHandler returns a paginated conference listing.
// GET /api/v0/conferences?q=&country=&page=&per_page=
func ListConferencesHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}
		perPage := DefaultPageSize
		if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 && pp <= MaxPageSize {
			perPage = pp
		}

		query := cfg.DB.Model(&models.Conference{})
		if q := r.URL.Query().Get("q"); q != "" {
			pattern := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
		if country := r.URL.Query().Get("country"); country != "" {
			query = query.Where("country = ?", country)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			cfg.Logger.Error("failed to count conferences", "error", err)
			encodeError(w, "Failed to load conferences", http.StatusInternalServerError)
			return
		}

		var conferences []models.Conference
		if err := query.Order("start_date ASC").
			Offset((page - 1) * perPage).Limit(perPage).
			Find(&conferences).Error; err != nil {
			cfg.Logger.Error("failed to list conferences", "error", err)
			encodeError(w, "Failed to load conferences", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, map[string]interface{}{
			"data": conferences,
			"pagination": map[string]interface{}{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// GetConferenceBySlugHandler returns one conference with its CFPs, each
// annotated with openness evaluated in the conference's own timezone.
// GET /api/v0/c/{slug}
func GetConferenceBySlugHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			encodeError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		slug := strings.TrimPrefix(r.URL.Path, "/api/v0/c/")
		slug = strings.TrimSuffix(slug, "/")
		if slug == "" || strings.Contains(slug, "/") {
			encodeError(w, "Conference not found", http.StatusNotFound)
			return
		}

		conference, err := models.GetConferenceBySlug(cfg.DB, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "Conference not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load conference", "slug", slug, "error", err)
			encodeError(w, "Failed to load conference", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, conferenceView(conference, cfg))
	}
}

// cfpView is a Cfp plus its computed openness.
type cfpView struct {
	models.Cfp
	Open bool `json:"open"`
}

// conferenceView shapes a conference for API responses, annotating each CFP
// with whether it is open right now in the conference's timezone and
// exposing the events/tracks CFPs directly.
func conferenceView(conference *models.Conference, cfg *config.Config) map[string]interface{} {
	view := map[string]interface{}{
		"conference": conference,
	}
	if conference.Program == nil {
		return view
	}

	loc := conference.TZLocation()
	now := cfg.Clock.Now()

	cfps := make([]cfpView, len(conference.Program.Cfps))
	for i, c := range conference.Program.Cfps {
		cfps[i] = cfpView{Cfp: c, Open: c.Open(now, loc)}
	}
	view["cfps"] = cfps

	if events := models.ForEvents(conference.Program.Cfps); events != nil {
		view["events_cfp"] = cfpView{Cfp: *events, Open: events.Open(now, loc)}
	}
	if tracks := models.ForTracks(conference.Program.Cfps); tracks != nil {
		view["tracks_cfp"] = cfpView{Cfp: *tracks, Open: tracks.Open(now, loc)}
	}
	return view
}

// UpdateConferenceHandler updates conference fields. Organizers only.
// PUT /api/v0/conferences/{id}
func UpdateConferenceHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r.URL.Path, "/api/v0/conferences")
		if !ok {
			encodeError(w, "Invalid conference ID", http.StatusBadRequest)
			return
		}

		var conference models.Conference
		if err := cfg.DB.Preload("Organizers").First(&conference, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "Conference not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load conference", "id", id, "error", err)
			encodeError(w, "Failed to load conference", http.StatusInternalServerError)
			return
		}

		if !conference.IsOrganizer(user.ID) {
			encodeError(w, "Only organizers can update a conference", http.StatusForbidden)
			return
		}

		var req conferenceRequest
		if err := decodeRequest(r, &req); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !slugRegex.MatchString(req.Slug) {
			encodeError(w, "Invalid slug: use lowercase letters, numbers and single hyphens", http.StatusBadRequest)
			return
		}
		if err := req.applyTo(&conference); err != nil {
			encodeError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := cfg.DB.Save(&conference).Error; err != nil {
			cfg.Logger.Error("failed to update conference", "id", id, "error", err)
			encodeError(w, "Failed to update conference", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, conference)
	}
}

// DeleteConferenceHandler deletes a conference and, via cascading, its
// program, CFPs and email settings. Organizers only.
// DELETE /api/v0/conferences/{id}
func DeleteConferenceHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			encodeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r.URL.Path, "/api/v0/conferences")
		if !ok {
			encodeError(w, "Invalid conference ID", http.StatusBadRequest)
			return
		}

		var conference models.Conference
		if err := cfg.DB.Preload("Organizers").First(&conference, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				encodeError(w, "Conference not found", http.StatusNotFound)
				return
			}
			cfg.Logger.Error("failed to load conference", "id", id, "error", err)
			encodeError(w, "Failed to load conference", http.StatusInternalServerError)
			return
		}

		if !conference.IsOrganizer(user.ID) {
			encodeError(w, "Only organizers can delete a conference", http.StatusForbidden)
			return
		}

		if err := cfg.DB.Delete(&conference).Error; err != nil {
			cfg.Logger.Error("failed to delete conference", "id", id, "error", err)
			encodeError(w, "Failed to delete conference", http.StatusInternalServerError)
			return
		}

		encodeResponse(w, r, map[string]string{"status": "deleted"})
	}
}
