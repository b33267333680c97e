package services

import (
	"context"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultUniversityListLimit caps GET /universities/ when no limit is given
const DefaultUniversityListLimit = 1000

// DirectoryService handles the university / department / contact hierarchy
type DirectoryService struct {
	db  *gorm.DB
	log *utils.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(db *gorm.DB, log *utils.Logger) *DirectoryService {
	return &DirectoryService{db: db, log: log}
}

// ContactInput is the payload for creating a department head or admin
type ContactInput struct {
	Name         string
	Email        string
	DepartmentID uint
	UniversityID uint
}

func contactTable(role model.ContactRole) (string, error) {
	switch role {
	case model.RoleDepartmentHead:
		return "department_heads", nil
	case model.RoleAdmin:
		return "admins", nil
	default:
		return "", invalid("unknown contact role %q", role)
	}
}

// ListUniversities returns universities ordered by name
func (s *DirectoryService) ListUniversities(ctx context.Context, limit int) ([]model.University, error) {
	if limit <= 0 {
		limit = DefaultUniversityListLimit
	}
	universities := []model.University{}
	if err := s.db.WithContext(ctx).Order("name").Limit(limit).Find(&universities).Error; err != nil {
		return nil, storeError("universities", err)
	}
	return universities, nil
}

// CreateUniversity inserts a university; the name must be unused
func (s *DirectoryService) CreateUniversity(ctx context.Context, name string) (*model.University, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return nil, invalid("university name is required")
	}

	university := model.University{Name: name}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&university).Error; err != nil {
		return nil, storeError("university "+name, err)
	}
	return &university, nil
}

// UpdateUniversity renames a university
func (s *DirectoryService) UpdateUniversity(ctx context.Context, id uint, name string) (*model.University, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return nil, invalid("university name is required")
	}
	db := s.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("id = ?", id), &university)
	if err != nil {
		return nil, storeError("university", err)
	}
	if !found {
		return nil, notFound("university %d not found", id)
	}

	if err := db.Model(&university).Update("name", name).Error; err != nil {
		return nil, storeError("university "+name, err)
	}
	university.Name = name
	return &university, nil
}

// DeleteUniversity removes a university; departments, contacts, aliases and people cascade
func (s *DirectoryService) DeleteUniversity(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.University{}, id)
	if res.Error != nil {
		return storeError("university", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("university %d not found", id)
	}
	return nil
}

// CreateAlias maps alias to the university currently named canonicalName
func (s *DirectoryService) CreateAlias(ctx context.Context, alias, canonicalName string) (*model.UniversityAlias, error) {
	alias = validation.SanitizeString(alias)
	canonicalName = validation.SanitizeString(canonicalName)
	if alias == "" || canonicalName == "" {
		return nil, invalid("alias and canonical_name are required")
	}
	db := s.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("name = ?", canonicalName), &university)
	if err != nil {
		return nil, storeError("university", err)
	}
	if !found {
		return nil, notFound("canonical university %q not found", canonicalName)
	}

	record := model.UniversityAlias{Alias: alias, UniversityID: university.ID}
	if err := db.Omit(clause.Associations).Create(&record).Error; err != nil {
		return nil, storeError("alias "+alias, err)
	}
	return &record, nil
}

// ListDepartments returns departments, newest first. universityID 0 lists all of them.
func (s *DirectoryService) ListDepartments(ctx context.Context, universityID uint) ([]model.Department, error) {
	query := s.db.WithContext(ctx).Order("id DESC")
	if universityID != 0 {
		query = query.Where("university_id = ?", universityID)
	}
	departments := []model.Department{}
	if err := query.Find(&departments).Error; err != nil {
		return nil, storeError("departments", err)
	}
	return departments, nil
}

// CreateDepartment inserts a department under an existing university
func (s *DirectoryService) CreateDepartment(ctx context.Context, name string, universityID uint) (*model.Department, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return nil, invalid("department name is required")
	}
	db := s.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("id = ?", universityID), &university)
	if err != nil {
		return nil, storeError("university", err)
	}
	if !found {
		return nil, notFound("university %d not found", universityID)
	}

	department := model.Department{Name: name, UniversityID: universityID}
	if err := db.Omit(clause.Associations).Create(&department).Error; err != nil {
		return nil, storeError("department", err)
	}
	return &department, nil
}

// UpdateDepartment renames a department
func (s *DirectoryService) UpdateDepartment(ctx context.Context, id uint, name string) (*model.Department, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return nil, invalid("department name is required")
	}
	db := s.db.WithContext(ctx)

	var department model.Department
	found, err := findOne(db.Where("id = ?", id), &department)
	if err != nil {
		return nil, storeError("department", err)
	}
	if !found {
		return nil, notFound("department %d not found", id)
	}

	if err := db.Model(&department).Update("name", name).Error; err != nil {
		return nil, storeError("department", err)
	}
	department.Name = name
	return &department, nil
}

// DeleteDepartment removes a department and, through the cascade, its contacts
func (s *DirectoryService) DeleteDepartment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Department{}, id)
	if res.Error != nil {
		return storeError("department", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("department %d not found", id)
	}
	return nil
}

// CreateContact inserts a department head or admin. The department must belong
// to the stated university; a mismatch is reported as not found, never corrected.
func (s *DirectoryService) CreateContact(ctx context.Context, role model.ContactRole, in ContactInput) (*model.Contact, error) {
	table, err := contactTable(role)
	if err != nil {
		return nil, err
	}
	in.Name = validation.SanitizeString(in.Name)
	in.Email = validation.SanitizeString(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, invalid("%s name and email are both required", role.Label())
	}
	if !validation.ValidateEmail(in.Email) {
		return nil, invalid("invalid email %q", in.Email)
	}
	db := s.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("id = ?", in.UniversityID), &university)
	if err != nil {
		return nil, storeError("university", err)
	}
	if !found {
		return nil, notFound("university %d not found", in.UniversityID)
	}

	var department model.Department
	found, err = findOne(db.Where("id = ? AND university_id = ?", in.DepartmentID, in.UniversityID), &department)
	if err != nil {
		return nil, storeError("department", err)
	}
	if !found {
		return nil, notFound("department %d not found for university %d", in.DepartmentID, in.UniversityID)
	}

	contact := model.Contact{
		Name:         in.Name,
		Email:        in.Email,
		DepartmentID: in.DepartmentID,
		UniversityID: in.UniversityID,
	}
	if err := db.Table(table).Create(&contact).Error; err != nil {
		return nil, storeError(role.Label(), err)
	}
	return &contact, nil
}

// UpdateContact applies the non-empty fields to a department head or admin
func (s *DirectoryService) UpdateContact(ctx context.Context, role model.ContactRole, id uint, name, email string) (*model.Contact, error) {
	table, err := contactTable(role)
	if err != nil {
		return nil, err
	}
	name = validation.SanitizeString(name)
	email = validation.SanitizeString(email)
	if name == "" && email == "" {
		return nil, invalid("nothing to update")
	}
	if email != "" && !validation.ValidateEmail(email) {
		return nil, invalid("invalid email %q", email)
	}
	db := s.db.WithContext(ctx)

	var contact model.Contact
	found, err := findOne(db.Table(table).Where("id = ?", id), &contact)
	if err != nil {
		return nil, storeError(role.Label(), err)
	}
	if !found {
		return nil, notFound("%s %d not found", role.Label(), id)
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
		contact.Name = name
	}
	if email != "" {
		updates["email"] = email
		contact.Email = email
	}
	if err := db.Table(table).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, storeError(role.Label(), err)
	}
	return &contact, nil
}

// DeleteContact removes one department head or admin by id
func (s *DirectoryService) DeleteContact(ctx context.Context, role model.ContactRole, id uint) error {
	table, err := contactTable(role)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(&model.Contact{})
	if res.Error != nil {
		return storeError(role.Label(), res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("%s %d not found", role.Label(), id)
	}
	return nil
}

// ListCountries returns every known country ordered by name
func (s *DirectoryService) ListCountries(ctx context.Context) ([]model.Country, error) {
	countries := []model.Country{}
	if err := s.db.WithContext(ctx).Order("name").Find(&countries).Error; err != nil {
		return nil, storeError("countries", err)
	}
	return countries, nil
}
