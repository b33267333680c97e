package model

// CatalogEntry is the flattened, foreign-key free row of the simple catalog.
// Deleting one never touches any other row.
type CatalogEntry struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	UniversityName      string `gorm:"not null;index" json:"university_name"`
	DepartmentName      string `gorm:"not null" json:"department_name"`
	DepartmentHeadName  string `json:"department_head_name"`
	DepartmentHeadEmail string `json:"department_head_email"`
	AdminName           string `json:"admin_name"`
	AdminEmail          string `json:"admin_email"`
}
