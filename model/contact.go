package model

// ContactRole distinguishes the two contact tables, which share one shape
type ContactRole string

const (
	RoleDepartmentHead ContactRole = "department_head"
	RoleAdmin          ContactRole = "admin"
)

// Label is the human readable name of the role
func (r ContactRole) Label() string {
	switch r {
	case RoleDepartmentHead:
		return "Department head"
	case RoleAdmin:
		return "Admin"
	default:
		return string(r)
	}
}

// Contact holds the columns shared by department heads and admins.
// DepartmentID must reference a department owned by UniversityID; the store
// does not enforce that, the service layer checks it on creation.
type Contact struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null;index" json:"name"`
	Email        string `gorm:"not null" json:"email"`
	DepartmentID uint   `gorm:"not null;index" json:"department_id"`
	UniversityID uint   `gorm:"not null;index" json:"university_id"`
}

// DepartmentHead is the head of a department
type DepartmentHead struct {
	Contact

	Department Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"-"`
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}

// Admin is the administrative contact of a department
type Admin struct {
	Contact

	Department Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:CASCADE" json:"-"`
	University University `gorm:"foreignKey:UniversityID;constraint:OnDelete:CASCADE" json:"-"`
}
