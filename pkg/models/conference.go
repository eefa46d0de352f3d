package models

import (
	"time"

	"gorm.io/gorm"
)

type Conference struct {
	gorm.Model
	Name        string `gorm:"index;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"` // Custom URL slug (e.g., "gophercon-eu-2026")
	Description string `json:"description"`
	Location    string `gorm:"index" json:"location"` // City/venue (e.g., "Berlin", "San Francisco")
	Country     string `gorm:"index" json:"country"`  // ISO 3166-1 alpha-2 (e.g., "DE", "US")

	// Timezone is an IANA zone identifier (e.g., "Europe/Berlin"). All CFP
	// openness decisions are made against this zone, not the server's.
	Timezone string `gorm:"default:'Etc/UTC'" json:"timezone"`

	StartDate time.Time `gorm:"type:date;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date" json:"end_date"`

	Website      string `json:"website"`
	LogoURL      string `json:"logo_url"`
	ContactEmail string `json:"contact_email,omitempty"`

	// Each conference has exactly one program and one set of email settings.
	Program       *Program       `json:"program,omitempty"`
	EmailSettings *EmailSettings `json:"email_settings,omitempty"`

	CreatedByID *uint `gorm:"index;constraint:OnDelete:SET NULL" json:"created_by_id"` // Pointer to allow NULL when creator is deleted

	// Co-organizers (many-to-many)
	Organizers []User `gorm:"many2many:conference_organizers;" json:"organizers,omitempty"`
}

// TZLocation resolves the conference timezone. An empty or unknown identifier
// falls back to UTC rather than failing the caller.
func (c *Conference) TZLocation() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsOrganizer checks if a user is an organizer of the conference (creator or co-organizer)
func (c *Conference) IsOrganizer(userID uint) bool {
	if c.CreatedByID != nil && *c.CreatedByID == userID {
		return true
	}
	for _, org := range c.Organizers {
		if org.ID == userID {
			return true
		}
	}
	return false
}

// GetConferenceBySlug loads a conference with its program, CFPs and email settings.
func GetConferenceBySlug(db *gorm.DB, slug string) (*Conference, error) {
	var conference Conference
	if err := db.Preload("Program.Cfps").Preload("EmailSettings").
		Where("slug = ?", slug).First(&conference).Error; err != nil {
		return nil, err
	}
	return &conference, nil
}
