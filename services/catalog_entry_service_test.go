package services

import (
	"context"
	"testing"

	"github.com/joemans3/TandemLaunch-Scouting-DB/database/dbtest"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newCatalogEntryService(t *testing.T) *CatalogEntryService {
	t.Helper()
	return NewCatalogEntryService(dbtest.Open(t), utils.NewNopLogger())
}

func TestCatalogEntry_CreateValidation(t *testing.T) {
	s := newCatalogEntryService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry model.CatalogEntry
	}{
		{"missing university", model.CatalogEntry{DepartmentName: "Physics"}},
		{"missing department", model.CatalogEntry{UniversityName: "McGill University"}},
		{"head without email", model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Physics", DepartmentHeadName: "Ada"}},
		{"admin without name", model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Physics", AdminEmail: "a@b.example"}},
		{"bad email", model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Physics", AdminName: "Luc", AdminEmail: "luc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.entry)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogEntry_Duplicates(t *testing.T) {
	s := newCatalogEntryService(t)
	ctx := context.Background()

	base := model.CatalogEntry{
		UniversityName:      "McGill University",
		DepartmentName:      "Physics",
		DepartmentHeadName:  "Ada Fischer",
		DepartmentHeadEmail: "ada@mcgill.example",
	}
	created, err := s.Create(ctx, base)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = s.Create(ctx, base)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	// Same department with a different head is a separate row
	other := base
	other.DepartmentHeadName = "Grace Hopper"
	other.DepartmentHeadEmail = "grace@mcgill.example"
	second, err := s.Create(ctx, other)
	require.NoError(t, err)

	// Renaming the second head onto the first collides
	_, err = s.Update(ctx, second.ID, CatalogEntryPatch{
		DepartmentHeadName:  strPtr("Ada Fischer"),
		DepartmentHeadEmail: strPtr("ada@mcgill.example"),
	})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	// An entry never collides with itself
	updated, err := s.Update(ctx, created.ID, CatalogEntryPatch{AdminName: strPtr("Luc"), AdminEmail: strPtr("luc@mcgill.example")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Fischer", updated.DepartmentHeadName)
	assert.Equal(t, "Luc", updated.AdminName)
}

func TestCatalogEntry_SearchIsCaseSensitive(t *testing.T) {
	s := newCatalogEntryService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Physics"})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.CatalogEntry{UniversityName: "University of Toronto", DepartmentName: "Chemistry",
		AdminName: "Luc", AdminEmail: "luc@utoronto.example"})
	require.NoError(t, err)

	all, err := s.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "University of Toronto", all[0].UniversityName, "newest first")

	hits, err := s.Search(ctx, "McGill")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search(ctx, "mcgill")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = s.Search(ctx, "utoronto")
	require.NoError(t, err)
	assert.Len(t, hits, 1, "emails are searched too")
}

func TestCatalogEntry_UpdateAndDelete(t *testing.T) {
	s := newCatalogEntryService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Physics"})
	require.NoError(t, err)
	second, err := s.Create(ctx, model.CatalogEntry{UniversityName: "McGill University", DepartmentName: "Biology"})
	require.NoError(t, err)

	_, err = s.Update(ctx, 9999, CatalogEntryPatch{DepartmentName: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Update(ctx, first.ID, CatalogEntryPatch{DepartmentName: strPtr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, s.Delete(ctx, first.ID))
	assert.ErrorIs(t, s.Delete(ctx, first.ID), ErrNotFound)

	rest, err := s.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, second.ID, rest[0].ID)
}
