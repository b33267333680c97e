package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/joemans3/TandemLaunch-Scouting-DB/database/dbtest"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPeopleService(t *testing.T) (*PeopleService, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&model.University{Name: "McGill University"}).Error)
	require.NoError(t, db.Create(&model.University{Name: "ETH Zurich"}).Error)
	require.NoError(t, db.Create(&model.Country{Name: "Canada", Code: "CA"}).Error)
	require.NoError(t, db.Create(&model.Country{Name: "Switzerland", Code: "CH"}).Error)

	log := utils.NewNopLogger()
	resolver := NewEntityResolver(db, nil, nil, nil, log)
	return NewPeopleService(db, resolver, log), db
}

func ada() PersonInput {
	return PersonInput{
		Name:       "Ada Fischer",
		Email:      "Ada.Fischer@mcgill.example",
		University: "McGill University",
		Country:    "Canada",
		Subfield:   "cond-mat",
		Role:       "professor",
	}
}

func jonas() PersonInput {
	return PersonInput{
		Name:       "Jonas Keller",
		Email:      "jonas@ethz.example",
		University: "ETH Zurich",
		Country:    "Switzerland",
		Role:       "postdoc",
	}
}

func TestPeople_CreateAndUpdate(t *testing.T) {
	s, _ := newPeopleService(t)
	ctx := context.Background()

	p, err := s.CreatePerson(ctx, ada())
	require.NoError(t, err)
	assert.Equal(t, "McGill University", p.University)
	assert.Equal(t, "Canada", p.Country)

	_, err = s.CreatePerson(ctx, ada())
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	unknown := jonas()
	unknown.University = "Unseen Polytechnic"
	_, err = s.CreatePerson(ctx, unknown)
	assert.ErrorIs(t, err, ErrNotFound)

	invalidEmail := jonas()
	invalidEmail.Email = "jonas"
	_, err = s.CreatePerson(ctx, invalidEmail)
	assert.ErrorIs(t, err, ErrValidation)

	moved := ada()
	moved.University = "ETH Zurich"
	moved.Country = "Switzerland"
	updated, err := s.UpdatePerson(ctx, p.ID, moved)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "ETH Zurich", updated.University)

	_, err = s.UpdatePerson(ctx, 9999, moved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPeople_ReturnsCanonicalNames(t *testing.T) {
	s, db := newPeopleService(t)
	ctx := context.Background()

	var mcgill model.University
	require.NoError(t, db.Where("name = ?", "McGill University").First(&mcgill).Error)
	require.NoError(t, db.Create(&model.UniversityAlias{Alias: "McGill", UniversityID: mcgill.ID}).Error)

	in := ada()
	in.University = "McGill"
	p, err := s.CreatePerson(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "McGill University", p.University)
	assert.Equal(t, mcgill.ID, p.UniversityID)

	updated, err := s.UpdatePerson(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "McGill University", updated.University)
}

func TestPeople_ListFilters(t *testing.T) {
	s, _ := newPeopleService(t)
	ctx := context.Background()

	_, err := s.CreatePerson(ctx, ada())
	require.NoError(t, err)
	_, err = s.CreatePerson(ctx, jonas())
	require.NoError(t, err)

	all, err := s.ListPeople(ctx, PeopleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Jonas Keller", all[0].Name, "newest first")

	tests := []struct {
		name   string
		filter PeopleFilter
		want   []string
	}{
		{"role", PeopleFilter{Role: "professor"}, []string{"Ada Fischer"}},
		{"country", PeopleFilter{Country: "Switzerland"}, []string{"Jonas Keller"}},
		{"subfield", PeopleFilter{Subfield: "cond-mat"}, []string{"Ada Fischer"}},
		{"q on university", PeopleFilter{Q: "zurich"}, []string{"Jonas Keller"}},
		{"q on email", PeopleFilter{Q: "ADA.FISCHER"}, []string{"Ada Fischer"}},
		{"paging", PeopleFilter{Limit: 1, Offset: 1}, []string{"Ada Fischer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			people, err := s.ListPeople(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(people))
			for _, p := range people {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestPeople_ExportCSV(t *testing.T) {
	s, _ := newPeopleService(t)
	ctx := context.Background()

	in := ada()
	in.Notes = "met at APS, \"follow up\""
	_, err := s.CreatePerson(ctx, in)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"Ada Fischer", "Ada.Fischer@mcgill.example", "McGill University", "Canada",
		"cond-mat", "", "professor", "met at APS, \"follow up\""}, records[1])
}

func TestPeople_EmailIngestion(t *testing.T) {
	s, db := newPeopleService(t)
	ctx := context.Background()

	a, err := s.CreatePerson(ctx, ada())
	require.NoError(t, err)
	j, err := s.CreatePerson(ctx, jonas())
	require.NoError(t, err)

	earlier := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(48 * time.Hour)

	matched, err := s.IngestThread(ctx, EmailThread{
		Participants: []string{"ada.fischer@MCGILL.example", "stranger@example.org"},
		Timestamp:    earlier,
		Subject:      "Intro",
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, matched, "emails match case-insensitively")

	matched, err = s.LogEmail(ctx, EmailThread{
		Participants: []string{"jonas@ethz.example", "Ada.Fischer@mcgill.example"},
		Timestamp:    later,
		Subject:      "Follow up",
		ThreadID:     "thread-7",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, j.ID}, matched)

	history, err := s.ListEmails(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Follow up", history[0].Subject, "newest first")
	assert.Equal(t, "thread-7", history[0].ThreadID)
	assert.NotEmpty(t, history[1].ThreadID, "a missing thread id is generated")

	_, err = s.IngestThread(ctx, EmailThread{Participants: []string{"nobody@example.org"}, Timestamp: later})
	assert.ErrorIs(t, err, ErrNotFound)

	matched, err = s.LogEmail(ctx, EmailThread{Participants: []string{"nobody@example.org"}, Timestamp: later})
	require.NoError(t, err)
	assert.Empty(t, matched)

	_, err = s.LogEmail(ctx, EmailThread{Participants: []string{"jonas@ethz.example"}})
	assert.ErrorIs(t, err, ErrValidation)

	// Deleting a person removes its history
	require.NoError(t, s.DeletePerson(ctx, a.ID))
	var count int64
	require.NoError(t, db.Model(&model.EmailLog{}).Where("person_id = ?", a.ID).Count(&count).Error)
	assert.Zero(t, count)
	assert.ErrorIs(t, s.DeletePerson(ctx, a.ID), ErrNotFound)
}
