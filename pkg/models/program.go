package models

import "gorm.io/gorm"

// Program is a conference's content container. It is exclusively owned by one
// conference and in turn owns the conference's CFPs.
type Program struct {
	gorm.Model
	ConferenceID uint `gorm:"uniqueIndex;not null;constraint:OnDelete:CASCADE" json:"conference_id"`

	Cfps []Cfp `gorm:"constraint:OnDelete:CASCADE" json:"cfps,omitempty"`
}

// SiblingCfps returns the program's CFPs other than the given record.
// Used for the per-program uniqueness check when updating an existing CFP.
func (p *Program) SiblingCfps(cfpID uint) []Cfp {
	var siblings []Cfp
	for _, c := range p.Cfps {
		if c.ID != cfpID {
			siblings = append(siblings, c)
		}
	}
	return siblings
}
