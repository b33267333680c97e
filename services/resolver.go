package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/metrics"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityResolver turns human supplied names into row ids, creating rows when needed.
// Concurrent creators of the same canonical row are not serialised: the
// uniqueness constraint picks a winner and the loser re-reads the winner's row.
type EntityResolver struct {
	db               *gorm.DB
	lookupUniversity UniversityLookup
	lookupCountry    CountryLookup
	metrics          *metrics.Metrics
	log              *utils.Logger
}

// NewEntityResolver creates a resolver. Either lookup may be nil to disable the registry fallback.
func NewEntityResolver(db *gorm.DB, universities UniversityLookup, countries CountryLookup, m *metrics.Metrics, log *utils.Logger) *EntityResolver {
	return &EntityResolver{
		db:               db,
		lookupUniversity: universities,
		lookupCountry:    countries,
		metrics:          m,
		log:              log,
	}
}

// findOne loads the first row matching the query into dest without treating absence as an error
func findOne(q *gorm.DB, dest interface{}) (bool, error) {
	res := q.Limit(1).Find(dest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ResolveUniversity looks the name up by exact match, then in the alias table,
// then in the ROR registry. A registry hit inserts the canonical row.
func (r *EntityResolver) ResolveUniversity(ctx context.Context, name string) (uint, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return 0, invalid("university name is required")
	}
	db := r.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("name = ?", name), &university)
	if err != nil {
		return 0, storeError("university", err)
	}
	if found {
		r.metrics.IncResolved("university", "local")
		return university.ID, nil
	}

	var alias model.UniversityAlias
	found, err = findOne(db.Where("alias = ?", name), &alias)
	if err != nil {
		return 0, storeError("university alias", err)
	}
	if found {
		r.metrics.IncResolved("university", "alias")
		return alias.UniversityID, nil
	}

	if r.lookupUniversity == nil {
		return 0, notFound("university %q not found", name)
	}
	org, err := r.lookupUniversity(ctx, name)
	if err != nil {
		r.log.Warn("ROR lookup failed", "query", name, "error", err)
		return 0, notFound("university %q not found via ROR", name)
	}
	if org == nil {
		return 0, notFound("university %q not found via ROR", name)
	}

	rorID := org.RORID
	created := model.University{Name: org.Name, RORID: &rorID}
	err = db.Omit(clause.Associations).Create(&created).Error
	if err == nil {
		r.metrics.IncResolved("university", "registry")
		r.registerAliases(ctx, created.ID, created.Name, append([]string{name}, org.Aliases...))
		return created.ID, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, storeError("university", err)
	}

	// Someone else inserted the canonical row first, or it predates its registry id
	var existing model.University
	found, err = findOne(db.Where("ror_id = ? OR name = ?", org.RORID, org.Name), &existing)
	if err != nil {
		return 0, storeError("university", err)
	}
	if !found {
		return 0, fmt.Errorf("university %q conflicted but no row matches ror_id %s: %w", org.Name, org.RORID, ErrInconsistent)
	}
	r.metrics.IncResolved("university", "conflict")
	r.registerAliases(ctx, existing.ID, existing.Name, []string{name})
	return existing.ID, nil
}

// registerAliases records alternate names for a canonical university, skipping taken ones
func (r *EntityResolver) registerAliases(ctx context.Context, universityID uint, canonical string, names []string) {
	seen := map[string]bool{canonical: true}
	aliases := make([]model.UniversityAlias, 0, len(names))
	for _, n := range names {
		n = validation.SanitizeString(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		aliases = append(aliases, model.UniversityAlias{Alias: n, UniversityID: universityID})
	}
	if len(aliases) == 0 {
		return
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&aliases).Error
	if err != nil {
		r.log.Warn("Failed to register university aliases", "university_id", universityID, "error", err)
	}
}

// ResolveDepartment returns the department called name under universityID, creating it when absent
func (r *EntityResolver) ResolveDepartment(ctx context.Context, name string, universityID uint) (uint, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return 0, invalid("department name is required")
	}
	db := r.db.WithContext(ctx)

	var university model.University
	found, err := findOne(db.Where("id = ?", universityID), &university)
	if err != nil {
		return 0, storeError("university", err)
	}
	if !found {
		return 0, notFound("university %d not found", universityID)
	}

	var department model.Department
	found, err = findOne(db.Where("name = ? AND university_id = ?", name, universityID).Order("id"), &department)
	if err != nil {
		return 0, storeError("department", err)
	}
	if found {
		r.metrics.IncResolved("department", "local")
		return department.ID, nil
	}

	department = model.Department{Name: name, UniversityID: universityID}
	if err := db.Omit(clause.Associations).Create(&department).Error; err != nil {
		return 0, storeError("department", err)
	}
	r.metrics.IncResolved("department", "created")
	return department.ID, nil
}

// ResolveCountry looks the name up locally, then in the countries registry
func (r *EntityResolver) ResolveCountry(ctx context.Context, name string) (uint, error) {
	name = validation.SanitizeString(name)
	if name == "" {
		return 0, invalid("country name is required")
	}
	db := r.db.WithContext(ctx)

	var country model.Country
	found, err := findOne(db.Where("name = ?", name), &country)
	if err != nil {
		return 0, storeError("country", err)
	}
	if found {
		r.metrics.IncResolved("country", "local")
		return country.ID, nil
	}

	if r.lookupCountry == nil {
		return 0, notFound("country %q not found", name)
	}
	match, err := r.lookupCountry(ctx, name)
	if err != nil {
		r.log.Warn("Country lookup failed", "query", name, "error", err)
		return 0, notFound("country %q not found via ISO lookup", name)
	}
	if match == nil {
		return 0, notFound("country %q not found via ISO lookup", name)
	}

	country = model.Country{Name: match.Name, Code: match.Code}
	err = db.Create(&country).Error
	if err == nil {
		r.metrics.IncResolved("country", "registry")
		return country.ID, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, storeError("country", err)
	}

	var existing model.Country
	found, err = findOne(db.Where("code = ? OR name = ?", match.Code, match.Name), &existing)
	if err != nil {
		return 0, storeError("country", err)
	}
	if !found {
		return 0, fmt.Errorf("country %q conflicted but no row matches code %s: %w", match.Name, match.Code, ErrInconsistent)
	}
	r.metrics.IncResolved("country", "conflict")
	return existing.ID, nil
}
