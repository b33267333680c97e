package model

// Department belongs to exactly one University. Names are not unique across universities.
type Department struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null;index" json:"name"`
	UniversityID uint   `gorm:"not null;index" json:"university_id"`

	// Relationships
	University      University       `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
	DepartmentHeads []DepartmentHead `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"-"`
	Admins          []Admin          `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"-"`
}
