package model

import (
	"time"

	"gorm.io/datatypes"
)

// Person is an outreach contact of the people directory
type Person struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"not null;uniqueIndex" json:"email"`
	UniversityID uint   `gorm:"not null;index" json:"university_id"`
	CountryID    uint   `gorm:"not null;index" json:"country_id"`
	Subfield     string `json:"subfield"`
	SubfieldName string `json:"subfield_name"`
	Role         string `gorm:"index" json:"role"`
	Notes        string `gorm:"type:text" json:"notes"`

	// Relationships
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
	Country    Country    `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"-"`
	EmailLogs  []EmailLog `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"-"`
}

// EmailLog records one message of a thread a Person took part in
type EmailLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PersonID     uint           `gorm:"not null;index" json:"person_id"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
	Subject      string         `json:"subject"`
	Body         string         `gorm:"type:text" json:"body"`
	ThreadID     string         `gorm:"index" json:"thread_id"`
	Participants datatypes.JSON `json:"participants,omitempty"`

	Person Person `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"-"`
}
