package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CfpType string

const (
	CfpTypeEvents CfpType = "events"
	CfpTypeTracks CfpType = "tracks"
)

// ValidCfpTypes lists the submission types a program may open a CFP for.
func ValidCfpTypes() []CfpType {
	return []CfpType{CfpTypeEvents, CfpTypeTracks}
}

// SubmissionQuestion defines a question shown on the submission form.
// These are stored as JSONB in Cfp.Questions.
//
// Example JSON structure in database:
//
//	[
//	  {
//	    "id": "travel_needs",
//	    "text": "Do you need travel assistance?",
//	    "type": "select",
//	    "options": ["Yes", "No", "Maybe"],
//	    "required": true
//	  }
//	]
type SubmissionQuestion struct {
	ID       string   `json:"id"`                // Unique ID (e.g., "q1", "travel_needs")
	Text     string   `json:"text"`              // Question text displayed to submitter
	Type     string   `json:"type"`              // "text", "select", "multiselect", "checkbox"
	Options  []string `json:"options,omitempty"` // For select/multiselect types
	Required bool     `json:"required"`          // Whether answer is required for submission
}

// Cfp is a call-for-proposals window of a given submission type, scoped to one
// program. A program has at most one CFP per type. Start and end are calendar
// dates; the time-of-day component is ignored everywhere.
type Cfp struct {
	gorm.Model
	ProgramID uint    `gorm:"index;not null;constraint:OnDelete:CASCADE" json:"program_id"`
	CfpType   CfpType `gorm:"index" json:"cfp_type"`

	StartDate time.Time `gorm:"type:date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`

	Description string `json:"description"`

	// Submission form questions, stored as JSONB - see SubmissionQuestion for schema
	Questions datatypes.JSON `gorm:"type:jsonb" json:"questions,omitempty"`
}

// FieldError is a single validation failure attached to a field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects field-level failures. A nil slice means valid.
// It implements error so callers can wrap or log it, but it is returned, never
// panicked.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + " " + fe.Reason
	}
	return strings.Join(parts, "; ")
}

// On returns the reasons recorded for a field.
func (v ValidationErrors) On(field string) []string {
	var reasons []string
	for _, fe := range v {
		if fe.Field == field {
			reasons = append(reasons, fe.Reason)
		}
	}
	return reasons
}

// dateOnly truncates an instant to its calendar date, normalized to UTC so
// date values parsed in different zones compare by day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks a CFP against its conference and the other CFPs of the same
// program. It returns nil when the record is valid.
//
// siblings must not include the record itself; callers updating an existing
// CFP pass Program.SiblingCfps(cfp.ID).
func (c *Cfp) Validate(conference *Conference, siblings []Cfp) ValidationErrors {
	var errs ValidationErrors

	if c.CfpType == "" {
		errs = append(errs, FieldError{Field: "cfp_type", Reason: "can't be blank"})
	} else {
		valid := false
		for _, t := range ValidCfpTypes() {
			if c.CfpType == t {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, FieldError{Field: "cfp_type", Reason: fmt.Sprintf("%q is not a valid submission type", string(c.CfpType))})
		}
		for _, sibling := range siblings {
			if strings.EqualFold(string(sibling.CfpType), string(c.CfpType)) {
				errs = append(errs, FieldError{Field: "cfp_type", Reason: "has already been taken for this program"})
				break
			}
		}
	}

	if c.StartDate.IsZero() {
		errs = append(errs, FieldError{Field: "start_date", Reason: "can't be blank"})
	}
	if c.EndDate.IsZero() {
		errs = append(errs, FieldError{Field: "end_date", Reason: "can't be blank"})
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errs
	}

	start := dateOnly(c.StartDate)
	end := dateOnly(c.EndDate)

	if conference != nil && !conference.EndDate.IsZero() {
		confEnd := dateOnly(conference.EndDate)
		if end.After(confEnd) {
			errs = append(errs, FieldError{Field: "end_date", Reason: "can't be after the conference end date"})
		}
		if start.After(confEnd) {
			errs = append(errs, FieldError{Field: "start_date", Reason: "can't be after the conference end date"})
		}
	}

	// The submission window must span at least one full day: a CFP that
	// starts and ends on the same date is rejected, not just one that starts
	// after it ends.
	if !start.Before(end) {
		errs = append(errs, FieldError{Field: "start_date", Reason: "must be before the end date"})
	}

	return errs
}

// ForType returns the CFP of the given type, or nil if the collection has
// none. Per-program uniqueness guarantees at most one match.
func ForType(cfps []Cfp, t CfpType) *Cfp {
	for i := range cfps {
		if cfps[i].CfpType == t {
			return &cfps[i]
		}
	}
	return nil
}

// ForEvents returns the events CFP from the collection, or nil.
func ForEvents(cfps []Cfp) *Cfp {
	return ForType(cfps, CfpTypeEvents)
}

// ForTracks returns the tracks CFP from the collection, or nil.
func ForTracks(cfps []Cfp) *Cfp {
	return ForType(cfps, CfpTypeTracks)
}

// Open reports whether the CFP is accepting submissions at the given instant.
// "Today" is derived in loc, which must be the conference's timezone; the
// result is therefore independent of wherever the server happens to run. Both
// window boundaries are inclusive.
func (c *Cfp) Open(now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !today.Before(dateOnly(c.StartDate)) && !today.After(dateOnly(c.EndDate))
}

// DatesChanged reports whether the proposed record moves either window
// boundary relative to the previously persisted one.
func DatesChanged(prev, next *Cfp) bool {
	return !dateOnly(prev.StartDate).Equal(dateOnly(next.StartDate)) ||
		!dateOnly(prev.EndDate).Equal(dateOnly(next.EndDate))
}

// ShouldNotifyDatesUpdated decides whether saving next in place of prev should
// trigger a dates-updated email. True only when a date actually changed, the
// conference has the notification enabled, and both subject and body are
// configured. It only decides; sending is the email package's job.
func ShouldNotifyDatesUpdated(prev, next *Cfp, settings *EmailSettings) bool {
	if !DatesChanged(prev, next) {
		return false
	}
	if settings == nil || !settings.SendOnCfpDatesUpdated {
		return false
	}
	return settings.CfpDatesUpdatedSubject != "" && settings.CfpDatesUpdatedBody != ""
}

// GetQuestions unmarshals the submission questions JSON
func (c *Cfp) GetQuestions() ([]SubmissionQuestion, error) {
	var questions []SubmissionQuestion
	if c.Questions == nil {
		return questions, nil
	}
	err := json.Unmarshal(c.Questions, &questions)
	return questions, err
}

// SetQuestions marshals submission questions to JSON
func (c *Cfp) SetQuestions(questions []SubmissionQuestion) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	c.Questions = data
	return nil
}
