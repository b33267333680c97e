package model

// University represents an institution in the catalog
type University struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null;uniqueIndex" json:"name"`
	RORID *string `gorm:"column:ror_id;uniqueIndex" json:"ror_id"` // Research Organization Registry id, nil for manual entries

	// Relationships
	Departments []Department      `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"departments,omitempty"`
	Aliases     []UniversityAlias `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}

// UniversityAlias maps an alternate spelling to a canonical University
type UniversityAlias struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Alias        string `gorm:"not null;uniqueIndex" json:"alias"`
	UniversityID uint   `gorm:"not null;index" json:"university_id"`

	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}
