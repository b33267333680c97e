package services

import (
	"context"
	"strings"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
	"gorm.io/gorm"
)

// CatalogEntryService manages the flattened catalog rows
type CatalogEntryService struct {
	db  *gorm.DB
	log *utils.Logger
}

// NewCatalogEntryService creates a new flattened catalog service
func NewCatalogEntryService(db *gorm.DB, log *utils.Logger) *CatalogEntryService {
	return &CatalogEntryService{db: db, log: log}
}

// CatalogEntryPatch carries the fields to change; nil leaves a field untouched
type CatalogEntryPatch struct {
	UniversityName      *string
	DepartmentName      *string
	DepartmentHeadName  *string
	DepartmentHeadEmail *string
	AdminName           *string
	AdminEmail          *string
}

func sanitizeEntry(e *model.CatalogEntry) {
	e.UniversityName = validation.SanitizeString(e.UniversityName)
	e.DepartmentName = validation.SanitizeString(e.DepartmentName)
	e.DepartmentHeadName = validation.SanitizeString(e.DepartmentHeadName)
	e.DepartmentHeadEmail = validation.SanitizeString(e.DepartmentHeadEmail)
	e.AdminName = validation.SanitizeString(e.AdminName)
	e.AdminEmail = validation.SanitizeString(e.AdminEmail)
}

func validateEntry(e model.CatalogEntry) error {
	if e.UniversityName == "" {
		return invalid("university name is required")
	}
	if e.DepartmentName == "" {
		return invalid("department name is required")
	}
	if (e.DepartmentHeadName == "") != (e.DepartmentHeadEmail == "") {
		return invalid("department head name and email must both be filled or both be blank")
	}
	if (e.AdminName == "") != (e.AdminEmail == "") {
		return invalid("admin name and email must both be filled or both be blank")
	}
	for _, email := range []string{e.DepartmentHeadEmail, e.AdminEmail} {
		if email != "" && !validation.ValidateEmail(email) {
			return invalid("invalid email %q", email)
		}
	}
	return nil
}

// Search returns the newest entries whose text fields contain term, case-sensitively
func (s *CatalogEntryService) Search(ctx context.Context, term string) ([]model.CatalogEntry, error) {
	term = strings.TrimSpace(term)
	query := s.db.WithContext(ctx).Order("id DESC")

	if term == "" {
		entries := []model.CatalogEntry{}
		if err := query.Limit(RecentRowsLimit).Find(&entries).Error; err != nil {
			return nil, storeError("catalog entries", err)
		}
		return entries, nil
	}

	// LOWER LIKE narrows the candidates portably, the exact-case filter runs below
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	candidates := []model.CatalogEntry{}
	err := query.Where(
		`(LOWER(university_name) LIKE ? ESCAPE '\' OR LOWER(department_name) LIKE ? ESCAPE '\' OR `+
			`LOWER(department_head_name) LIKE ? ESCAPE '\' OR LOWER(department_head_email) LIKE ? ESCAPE '\' OR `+
			`LOWER(admin_name) LIKE ? ESCAPE '\' OR LOWER(admin_email) LIKE ? ESCAPE '\')`,
		pattern, pattern, pattern, pattern, pattern, pattern,
	).Find(&candidates).Error
	if err != nil {
		return nil, storeError("catalog entries", err)
	}

	entries := []model.CatalogEntry{}
	for _, e := range candidates {
		if entryContains(e, term) {
			entries = append(entries, e)
		}
		if len(entries) == RecentRowsLimit {
			break
		}
	}
	return entries, nil
}

func entryContains(e model.CatalogEntry, term string) bool {
	for _, field := range []string{e.UniversityName, e.DepartmentName, e.DepartmentHeadName, e.DepartmentHeadEmail, e.AdminName, e.AdminEmail} {
		if strings.Contains(field, term) {
			return true
		}
	}
	return false
}

// isDuplicate reports whether another row has the same university, department and contact identity
func (s *CatalogEntryService) isDuplicate(ctx context.Context, e model.CatalogEntry, excludeID uint) (bool, error) {
	query := s.db.WithContext(ctx).Model(&model.CatalogEntry{}).
		Where("university_name = ? AND department_name = ?", e.UniversityName, e.DepartmentName)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	switch {
	case e.DepartmentHeadName != "" && e.AdminName != "":
		query = query.Where(
			"((department_head_name = ? AND department_head_email = ?) OR (admin_name = ? AND admin_email = ?))",
			e.DepartmentHeadName, e.DepartmentHeadEmail, e.AdminName, e.AdminEmail,
		)
	case e.DepartmentHeadName != "":
		query = query.Where("department_head_name = ? AND department_head_email = ?", e.DepartmentHeadName, e.DepartmentHeadEmail)
	case e.AdminName != "":
		query = query.Where("admin_name = ? AND admin_email = ?", e.AdminName, e.AdminEmail)
	default:
		query = query.Where("department_head_name = '' AND admin_name = ''")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a flattened entry unless an identical identity already exists
func (s *CatalogEntryService) Create(ctx context.Context, e model.CatalogEntry) (*model.CatalogEntry, error) {
	sanitizeEntry(&e)
	e.ID = 0
	if err := validateEntry(e); err != nil {
		return nil, err
	}

	dup, err := s.isDuplicate(ctx, e, 0)
	if err != nil {
		return nil, storeError("catalog entry", err)
	}
	if dup {
		return nil, duplicate("catalog entry for %s / %s already exists", e.UniversityName, e.DepartmentName)
	}

	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, storeError("catalog entry", err)
	}
	return &e, nil
}

// Update applies patch to the entry with the given id
func (s *CatalogEntryService) Update(ctx context.Context, id uint, patch CatalogEntryPatch) (*model.CatalogEntry, error) {
	db := s.db.WithContext(ctx)

	var entry model.CatalogEntry
	found, err := findOne(db.Where("id = ?", id), &entry)
	if err != nil {
		return nil, storeError("catalog entry", err)
	}
	if !found {
		return nil, notFound("catalog entry %d not found", id)
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&entry.UniversityName, patch.UniversityName)
	apply(&entry.DepartmentName, patch.DepartmentName)
	apply(&entry.DepartmentHeadName, patch.DepartmentHeadName)
	apply(&entry.DepartmentHeadEmail, patch.DepartmentHeadEmail)
	apply(&entry.AdminName, patch.AdminName)
	apply(&entry.AdminEmail, patch.AdminEmail)

	sanitizeEntry(&entry)
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	dup, err := s.isDuplicate(ctx, entry, entry.ID)
	if err != nil {
		return nil, storeError("catalog entry", err)
	}
	if dup {
		return nil, duplicate("catalog entry for %s / %s already exists", entry.UniversityName, entry.DepartmentName)
	}

	if err := db.Save(&entry).Error; err != nil {
		return nil, storeError("catalog entry", err)
	}
	return &entry, nil
}

// Delete removes exactly one entry
func (s *CatalogEntryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.CatalogEntry{}, id)
	if res.Error != nil {
		return storeError("catalog entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("catalog entry %d not found", id)
	}
	return nil
}
