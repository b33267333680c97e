package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services/reconcile"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedReport counts what a seeding run did
type SeedReport struct {
	Created    int
	Skipped    int
	Incomplete int
}

// Seeder handles database seeding operations
type Seeder struct {
	db       *gorm.DB
	engine   *reconcile.Engine
	resolver *services.EntityResolver
	log      *utils.Logger
}

// NewSeeder creates a new seeder instance. Catalog rows go through the
// reconciliation engine so seeding obeys the same duplicate rules as clients.
func NewSeeder(db *gorm.DB, log *utils.Logger) *Seeder {
	backend := reconcile.NewLocalBackend(
		services.NewSearchService(db, nil),
		services.NewDirectoryService(db, log),
	)
	return &Seeder{
		db:       db,
		engine:   reconcile.NewEngine(backend, log),
		resolver: services.NewEntityResolver(db, nil, nil, nil, log),
		log:      log,
	}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(ctx context.Context) (*SeedReport, error) {
	s.log.Info("Starting database seeding")

	if err := s.SeedCountries(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed countries: %w", err)
	}

	report, err := s.SeedCatalog(ctx, sampleCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	if err := s.SeedDepartments(ctx, sampleDepartments); err != nil {
		return nil, fmt.Errorf("failed to seed departments: %w", err)
	}

	if err := s.SeedCatalogEntries(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed catalog entries: %w", err)
	}

	s.log.Info("Database seeding completed",
		"created", report.Created, "skipped", report.Skipped, "incomplete", report.Incomplete)
	return report, nil
}

// SeedCountries inserts a few common countries, leaving existing ones alone
func (s *Seeder) SeedCountries(ctx context.Context) error {
	countries := []model.Country{
		{Name: "Canada", Code: "CA"},
		{Name: "United States", Code: "US"},
		{Name: "United Kingdom", Code: "GB"},
		{Name: "Switzerland", Code: "CH"},
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&countries).Error
}

// SeedCatalog submits each bundle through the engine; bundles that already exist are skipped
func (s *Seeder) SeedCatalog(ctx context.Context, bundles []reconcile.Submission) (*SeedReport, error) {
	report := &SeedReport{}
	for _, b := range bundles {
		result, err := s.engine.Create(ctx, b)
		switch {
		case errors.Is(err, services.ErrDuplicateEntry):
			s.log.Debug("Seed bundle already present", "university", b.UniversityName, "department", b.DepartmentName)
			report.Skipped++
			continue
		case err != nil:
			return report, err
		}
		report.Created++
		if !result.Complete {
			report.Incomplete++
		}
	}
	return report, nil
}

// SeedDepartments adds departments under already seeded universities. The
// resolver finds existing departments, so running it twice changes nothing.
func (s *Seeder) SeedDepartments(ctx context.Context, departments []seedDepartment) error {
	for _, d := range departments {
		universityID, err := s.resolver.ResolveUniversity(ctx, d.university)
		if err != nil {
			return fmt.Errorf("university %q: %w", d.university, err)
		}
		if _, err := s.resolver.ResolveDepartment(ctx, d.name, universityID); err != nil {
			return fmt.Errorf("department %q: %w", d.name, err)
		}
	}
	return nil
}

// SeedCatalogEntries mirrors the sample bundles into the flattened catalog
func (s *Seeder) SeedCatalogEntries(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.CatalogEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("Catalog entries already exist, skipping", "count", count)
		return nil
	}

	entries := make([]model.CatalogEntry, 0, len(sampleCatalog))
	for _, b := range sampleCatalog {
		entries = append(entries, model.CatalogEntry{
			UniversityName:      b.UniversityName,
			DepartmentName:      b.DepartmentName,
			DepartmentHeadName:  b.HeadName,
			DepartmentHeadEmail: b.HeadEmail,
			AdminName:           b.AdminName,
			AdminEmail:          b.AdminEmail,
		})
	}
	return s.db.WithContext(ctx).Create(&entries).Error
}

var sampleCatalog = []reconcile.Submission{
	{
		UniversityName: "McGill University",
		DepartmentName: "Electrical and Computer Engineering",
		HeadName:       "Ada Fischer",
		HeadEmail:      "ada.fischer@mcgill.example",
		AdminName:      "Luc Tremblay",
		AdminEmail:     "luc.tremblay@mcgill.example",
	},
	{
		UniversityName: "University of Toronto",
		DepartmentName: "Chemical Engineering",
		HeadName:       "Priya Raman",
		HeadEmail:      "priya.raman@utoronto.example",
	},
	{
		UniversityName: "ETH Zurich",
		DepartmentName: "Materials Science",
		AdminName:      "Jonas Keller",
		AdminEmail:     "jonas.keller@ethz.example",
	},
	{
		UniversityName: "Imperial College London",
		DepartmentName: "Bioengineering",
	},
}

type seedDepartment struct {
	university string
	name       string
}

var sampleDepartments = []seedDepartment{
	{university: "McGill University", name: "Physics"},
	{university: "McGill University", name: "Mining and Materials Engineering"},
	{university: "ETH Zurich", name: "Materials Science"},
}
