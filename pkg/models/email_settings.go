package models

import "gorm.io/gorm"

// EmailSettings holds a conference's notification toggles and the operator
// written subject/body templates. Subject and body support {conference},
// {cfp_type}, {cfp_start_date} and {cfp_end_date} placeholders, substituted at
// send time.
type EmailSettings struct {
	gorm.Model
	ConferenceID uint `gorm:"uniqueIndex;not null;constraint:OnDelete:CASCADE" json:"conference_id"`

	// CFP dates changed
	SendOnCfpDatesUpdated  bool   `gorm:"default:false" json:"send_on_cfp_dates_updated"`
	CfpDatesUpdatedSubject string `json:"cfp_dates_updated_subject"`
	CfpDatesUpdatedBody    string `json:"cfp_dates_updated_body"`

	// CFP closing soon reminder for organizers
	SendCfpReminders  bool `gorm:"default:true" json:"send_cfp_reminders"`
	CfpReminderDays   int  `gorm:"default:3" json:"cfp_reminder_days"`
}

// GetEmailSettings loads the settings row for a conference, creating a default
// one on first access so updates always have a record to save over.
func GetEmailSettings(db *gorm.DB, conferenceID uint) (*EmailSettings, error) {
	var settings EmailSettings
	err := db.Where("conference_id = ?", conferenceID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = EmailSettings{ConferenceID: conferenceID, SendCfpReminders: true, CfpReminderDays: 3}
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
