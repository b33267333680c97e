package services

import (
	"context"
	"errors"
	"testing"

	"github.com/joemans3/TandemLaunch-Scouting-DB/database/dbtest"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubRegistry struct {
	org     *RegistryOrganization
	country *RegistryCountry
	err     error
	calls   int
}

func (s *stubRegistry) university(_ context.Context, _ string) (*RegistryOrganization, error) {
	s.calls++
	return s.org, s.err
}

func (s *stubRegistry) lookupCountry(_ context.Context, _ string) (*RegistryCountry, error) {
	s.calls++
	return s.country, s.err
}

func newTestResolver(t *testing.T, reg *stubRegistry) (*EntityResolver, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	var universities UniversityLookup
	var countries CountryLookup
	if reg != nil {
		universities = reg.university
		countries = reg.lookupCountry
	}
	return NewEntityResolver(db, universities, countries, nil, utils.NewNopLogger()), db
}

func TestResolveUniversity_LocalAndAlias(t *testing.T) {
	reg := &stubRegistry{}
	r, db := newTestResolver(t, reg)
	ctx := context.Background()

	u := model.University{Name: "McGill University"}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&model.UniversityAlias{Alias: "McGill", UniversityID: u.ID}).Error)

	id, err := r.ResolveUniversity(ctx, "  McGill University ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	id, err = r.ResolveUniversity(ctx, "McGill")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	assert.Zero(t, reg.calls, "local hits must not reach the registry")
}

func TestResolveUniversity_RegistryInsertsCanonicalRow(t *testing.T) {
	reg := &stubRegistry{org: &RegistryOrganization{
		Name:    "McGill University",
		RORID:   "https://ror.org/01pxwe438",
		Aliases: []string{"McGill", "Université McGill"},
	}}
	r, db := newTestResolver(t, reg)
	ctx := context.Background()

	id, err := r.ResolveUniversity(ctx, "mcgill univ")
	require.NoError(t, err)

	var u model.University
	require.NoError(t, db.First(&u, id).Error)
	assert.Equal(t, "McGill University", u.Name)
	require.NotNil(t, u.RORID)
	assert.Equal(t, "https://ror.org/01pxwe438", *u.RORID)

	var aliases []string
	require.NoError(t, db.Model(&model.UniversityAlias{}).Order("alias").Pluck("alias", &aliases).Error)
	assert.Equal(t, []string{"McGill", "Université McGill", "mcgill univ"}, aliases)

	// The query term now resolves without the registry
	again, err := r.ResolveUniversity(ctx, "mcgill univ")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, reg.calls)
}

func TestResolveUniversity_RegistryMissOrFailure(t *testing.T) {
	tests := []struct {
		name string
		reg  *stubRegistry
	}{
		{name: "no registry", reg: nil},
		{name: "miss", reg: &stubRegistry{}},
		{name: "registry error", reg: &stubRegistry{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t, tt.reg)
			_, err := r.ResolveUniversity(context.Background(), "Nowhere Institute")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestResolveUniversity_EmptyName(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	_, err := r.ResolveUniversity(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveUniversity_ConflictReturnsExistingRow(t *testing.T) {
	reg := &stubRegistry{org: &RegistryOrganization{Name: "McGill University", RORID: "https://ror.org/01pxwe438"}}
	r, db := newTestResolver(t, reg)

	// Manual entry without a registry id, reached through a spelling that is not an alias yet
	existing := model.University{Name: "McGill University"}
	require.NoError(t, db.Create(&existing).Error)

	id, err := r.ResolveUniversity(context.Background(), "McGill Montreal")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)

	var count int64
	require.NoError(t, db.Model(&model.University{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var alias model.UniversityAlias
	require.NoError(t, db.Where("alias = ?", "McGill Montreal").First(&alias).Error)
	assert.Equal(t, existing.ID, alias.UniversityID)
}

func TestResolveUniversity_ConflictWithoutRowIsInconsistent(t *testing.T) {
	reg := &stubRegistry{org: &RegistryOrganization{Name: "Ghost University", RORID: "https://ror.org/000000000"}}
	r, db := newTestResolver(t, reg)

	// Report a uniqueness violation although nothing matching exists
	err := db.Callback().Create().Before("gorm:create").Register("test:force_duplicate", func(tx *gorm.DB) {
		if tx.Statement.Table == "universities" {
			_ = tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	require.NoError(t, err)

	_, err = r.ResolveUniversity(context.Background(), "Ghost")
	assert.ErrorIs(t, err, ErrInconsistent)
}

func TestResolveDepartment(t *testing.T) {
	r, db := newTestResolver(t, nil)
	ctx := context.Background()

	mcgill := model.University{Name: "McGill University"}
	toronto := model.University{Name: "University of Toronto"}
	require.NoError(t, db.Create(&mcgill).Error)
	require.NoError(t, db.Create(&toronto).Error)

	first, err := r.ResolveDepartment(ctx, "Physics", mcgill.ID)
	require.NoError(t, err)
	second, err := r.ResolveDepartment(ctx, "Physics", mcgill.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := r.ResolveDepartment(ctx, "Physics", toronto.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "department names are scoped to their university")

	_, err = r.ResolveDepartment(ctx, "Physics", 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.ResolveDepartment(ctx, "", mcgill.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveCountry(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		reg := &stubRegistry{}
		r, db := newTestResolver(t, reg)
		canada := model.Country{Name: "Canada", Code: "CA"}
		require.NoError(t, db.Create(&canada).Error)

		id, err := r.ResolveCountry(context.Background(), "Canada")
		require.NoError(t, err)
		assert.Equal(t, canada.ID, id)
		assert.Zero(t, reg.calls)
	})

	t.Run("registry insert", func(t *testing.T) {
		reg := &stubRegistry{country: &RegistryCountry{Name: "Switzerland", Code: "CH"}}
		r, db := newTestResolver(t, reg)

		id, err := r.ResolveCountry(context.Background(), "Swiss Confederation")
		require.NoError(t, err)

		var c model.Country
		require.NoError(t, db.First(&c, id).Error)
		assert.Equal(t, "Switzerland", c.Name)
		assert.Equal(t, "CH", c.Code)
	})

	t.Run("conflict on code", func(t *testing.T) {
		reg := &stubRegistry{country: &RegistryCountry{Name: "United States of America", Code: "US"}}
		r, db := newTestResolver(t, reg)
		us := model.Country{Name: "United States", Code: "US"}
		require.NoError(t, db.Create(&us).Error)

		id, err := r.ResolveCountry(context.Background(), "USA")
		require.NoError(t, err)
		assert.Equal(t, us.ID, id)
	})

	t.Run("miss", func(t *testing.T) {
		r, _ := newTestResolver(t, &stubRegistry{})
		_, err := r.ResolveCountry(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
