package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/joemans3/TandemLaunch-Scouting-DB/database/dbtest"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	mcgill, toronto, eth  *model.University
	physics, chem, matsci *model.Department
}

// seedCatalog builds three universities: one fully staffed department, one
// head-only department and one university without departments
func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()
	dir := NewDirectoryService(db, utils.NewNopLogger())
	ctx := context.Background()

	var f catalogFixture
	var err error
	f.mcgill, err = dir.CreateUniversity(ctx, "McGill University")
	require.NoError(t, err)
	f.toronto, err = dir.CreateUniversity(ctx, "University of Toronto")
	require.NoError(t, err)
	f.eth, err = dir.CreateUniversity(ctx, "ETH Zurich")
	require.NoError(t, err)

	f.physics, err = dir.CreateDepartment(ctx, "Physics", f.mcgill.ID)
	require.NoError(t, err)
	f.chem, err = dir.CreateDepartment(ctx, "Chemical Engineering", f.toronto.ID)
	require.NoError(t, err)

	_, err = dir.CreateContact(ctx, model.RoleDepartmentHead, ContactInput{
		Name: "Ada Fischer", Email: "ada@mcgill.example", DepartmentID: f.physics.ID, UniversityID: f.mcgill.ID,
	})
	require.NoError(t, err)
	_, err = dir.CreateContact(ctx, model.RoleAdmin, ContactInput{
		Name: "Luc Tremblay", Email: "luc@mcgill.example", DepartmentID: f.physics.ID, UniversityID: f.mcgill.ID,
	})
	require.NoError(t, err)
	_, err = dir.CreateContact(ctx, model.RoleDepartmentHead, ContactInput{
		Name: "Priya Raman", Email: "priya@utoronto.example", DepartmentID: f.chem.ID, UniversityID: f.toronto.ID,
	})
	require.NoError(t, err)
	return f
}

func TestSearch_EmptyTermListsNewestDepartments(t *testing.T) {
	db := dbtest.Open(t)
	f := seedCatalog(t, db)
	s := NewSearchService(db, nil)

	rows, err := s.Search(context.Background(), "  ")
	require.NoError(t, err)
	require.Len(t, rows, 2, "universities without departments are not listed")

	assert.Equal(t, "Chemical Engineering", rows[0].DepartmentName)
	assert.Equal(t, "Priya Raman", rows[0].DepartmentHeadName)
	assert.Nil(t, rows[0].AdminID)
	assert.Empty(t, rows[0].AdminName)

	assert.Equal(t, f.physics.ID, *rows[1].DepartmentID)
	assert.Equal(t, "Luc Tremblay", rows[1].AdminName)
}

func TestSearch_MatchesEveryEntityCaseInsensitively(t *testing.T) {
	db := dbtest.Open(t)
	f := seedCatalog(t, db)
	s := NewSearchService(db, nil)
	ctx := context.Background()

	tests := []struct {
		term       string
		university string
	}{
		{term: "mcgill", university: "McGill University"},
		{term: "PHYSICS", university: "McGill University"},
		{term: "ada", university: "McGill University"},
		{term: "tremblay", university: "McGill University"},
		{term: "raman", university: "University of Toronto"},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			rows, err := s.Search(ctx, tt.term)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.university, rows[0].UniversityName)
		})
	}

	rows, err := s.Search(ctx, "zurich")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.eth.ID, rows[0].UniversityID)
	assert.Nil(t, rows[0].DepartmentID, "a bare university still appears with empty department fields")
}

func TestSearch_DeduplicatesAcrossSeeds(t *testing.T) {
	db := dbtest.Open(t)
	seedCatalog(t, db)
	s := NewSearchService(db, nil)

	// "i" hits both staffed rows through the university, department and head seeds
	rows, err := s.Search(context.Background(), "i")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "University of Toronto", rows[0].UniversityName)
	assert.Equal(t, "McGill University", rows[1].UniversityName)
	assert.Equal(t, "ETH Zurich", rows[2].UniversityName)
}

func TestSearch_EscapesLikeWildcards(t *testing.T) {
	db := dbtest.Open(t)
	seedCatalog(t, db)
	s := NewSearchService(db, nil)

	rows, err := s.Search(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.Search(context.Background(), "_")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearch_EmptyTermIsCapped(t *testing.T) {
	db := dbtest.Open(t)
	u := model.University{Name: "Université Laval"}
	require.NoError(t, db.Create(&u).Error)
	for i := 0; i < RecentRowsLimit+5; i++ {
		require.NoError(t, db.Create(&model.Department{Name: fmt.Sprintf("Department %03d", i), UniversityID: u.ID}).Error)
	}

	rows, err := NewSearchService(db, nil).Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, RecentRowsLimit)
	for i := 1; i < len(rows); i++ {
		assert.Greater(t, *rows[i-1].DepartmentID, *rows[i].DepartmentID)
	}
	assert.Equal(t, "Department 104", rows[0].DepartmentName)
}

func TestSearch_FoldsNonASCIICase(t *testing.T) {
	db := dbtest.Open(t)
	u := model.University{Name: "ÉCOLE POLYTECHNIQUE"}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&model.Department{Name: "Génie Physique", UniversityID: u.ID}).Error)
	s := NewSearchService(db, nil)

	for _, term := range []string{"école", "génie", "GÉNIE"} {
		rows, err := s.Search(context.Background(), term)
		require.NoError(t, err)
		require.Len(t, rows, 1, term)
		assert.Equal(t, "ÉCOLE POLYTECHNIQUE", rows[0].UniversityName)
	}
}

func TestSearch_CollapsesIdenticallyDisplayedRows(t *testing.T) {
	db := dbtest.Open(t)
	u := model.University{Name: "MIT"}
	require.NoError(t, db.Create(&u).Error)
	first := model.Department{Name: "CS", UniversityID: u.ID}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&model.Department{Name: "CS", UniversityID: u.ID}).Error)

	rows, err := NewSearchService(db, nil).Search(context.Background(), "CS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotEqual(t, first.ID, *rows[0].DepartmentID, "the newest department comes first in seed order")
}

func TestUnionRows(t *testing.T) {
	one, two, three := uint(1), uint(2), uint(3)
	a := SearchRow{UniversityID: 1, UniversityName: "A", DepartmentID: &one, DepartmentName: "X"}
	twin := SearchRow{UniversityID: 1, UniversityName: "A", DepartmentID: &two, DepartmentName: "X"}
	b := SearchRow{UniversityID: 1, UniversityName: "A", DepartmentID: &three, DepartmentName: "Y"}

	merged := unionRows([]SearchRow{a}, []SearchRow{twin, b}, nil)
	assert.Equal(t, []SearchRow{a, b}, merged, "rows differing only in ids collapse into the first")
}
