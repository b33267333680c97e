package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPeopleListLimit caps GET /people/ when no limit is given
const DefaultPeopleListLimit = 100

// PeopleService manages the outreach directory: people, their universities and countries, and email logs
type PeopleService struct {
	db       *gorm.DB
	resolver *EntityResolver
	log      *utils.Logger
}

// NewPeopleService creates a new people service
func NewPeopleService(db *gorm.DB, resolver *EntityResolver, log *utils.Logger) *PeopleService {
	return &PeopleService{db: db, resolver: resolver, log: log}
}

// PersonInput is the client payload for creating or replacing a person.
// University and Country are free-text names resolved to ids.
type PersonInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email,max=254"`
	University   string `json:"university" validate:"required,max=255"`
	Country      string `json:"country" validate:"required,max=120"`
	Subfield     string `json:"subfield" validate:"max=255"`
	SubfieldName string `json:"subfield_name" validate:"max=255"`
	Role         string `json:"role" validate:"max=120"`
	Notes        string `json:"notes"`
}

// PersonOut is a person joined with its university and country names
type PersonOut struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	University   string `json:"university"`
	Country      string `json:"country"`
	UniversityID uint   `json:"university_id"`
	CountryID    uint   `json:"country_id"`
	Subfield     string `json:"subfield"`
	SubfieldName string `json:"subfield_name"`
	Role         string `json:"role"`
	Notes        string `json:"notes"`
}

// PeopleFilter narrows ListPeople. Empty fields do not filter.
type PeopleFilter struct {
	Role     string
	Country  string
	Subfield string
	Q        string
	Limit    int
	Offset   int
}

// EmailThread is one message of an email thread to attach to every known participant
type EmailThread struct {
	Participants []string  `json:"participants" validate:"required,min=1,dive,required"`
	Timestamp    time.Time `json:"timestamp"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	ThreadID     string    `json:"thread_id"`
}

// EmailLogOut is one entry of a person's email history
type EmailLogOut struct {
	ID        uint      `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	ThreadID  string    `json:"thread_id"`
}

func sanitizePerson(in *PersonInput) {
	in.Name = validation.SanitizeString(in.Name)
	in.Email = validation.SanitizeString(in.Email)
	in.University = validation.SanitizeString(in.University)
	in.Country = validation.SanitizeString(in.Country)
	in.Subfield = validation.SanitizeString(in.Subfield)
	in.SubfieldName = validation.SanitizeString(in.SubfieldName)
	in.Role = validation.SanitizeString(in.Role)
}

func (s *PeopleService) resolveRefs(ctx context.Context, in PersonInput) (uint, uint, error) {
	universityID, err := s.resolver.ResolveUniversity(ctx, in.University)
	if err != nil {
		return 0, 0, err
	}
	countryID, err := s.resolver.ResolveCountry(ctx, in.Country)
	if err != nil {
		return 0, 0, err
	}
	return universityID, countryID, nil
}

// CreatePerson resolves the university and country, then inserts the person
func (s *PeopleService) CreatePerson(ctx context.Context, in PersonInput) (*PersonOut, error) {
	sanitizePerson(&in)
	if in.Name == "" || !validation.ValidateEmail(in.Email) {
		return nil, invalid("name and a valid email are required")
	}

	universityID, countryID, err := s.resolveRefs(ctx, in)
	if err != nil {
		return nil, err
	}

	person := model.Person{
		Name:         in.Name,
		Email:        in.Email,
		UniversityID: universityID,
		CountryID:    countryID,
		Subfield:     in.Subfield,
		SubfieldName: in.SubfieldName,
		Role:         in.Role,
		Notes:        in.Notes,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&person).Error; err != nil {
		return nil, storeError("email "+in.Email, err)
	}
	return s.getPerson(ctx, person.ID)
}

// UpdatePerson replaces every field of an existing person
func (s *PeopleService) UpdatePerson(ctx context.Context, id uint, in PersonInput) (*PersonOut, error) {
	sanitizePerson(&in)
	if in.Name == "" || !validation.ValidateEmail(in.Email) {
		return nil, invalid("name and a valid email are required")
	}

	universityID, countryID, err := s.resolveRefs(ctx, in)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var person model.Person
	found, err := findOne(db.Where("id = ?", id), &person)
	if err != nil {
		return nil, storeError("person", err)
	}
	if !found {
		return nil, notFound("person %d not found", id)
	}

	person.Name = in.Name
	person.Email = in.Email
	person.UniversityID = universityID
	person.CountryID = countryID
	person.Subfield = in.Subfield
	person.SubfieldName = in.SubfieldName
	person.Role = in.Role
	person.Notes = in.Notes

	if err := db.Omit(clause.Associations).Save(&person).Error; err != nil {
		return nil, storeError("email "+in.Email, err)
	}
	return s.getPerson(ctx, person.ID)
}

// DeletePerson removes a person and its email history
func (s *PeopleService) DeletePerson(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Person{}, id)
	if res.Error != nil {
		return storeError("person", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("person %d not found", id)
	}
	return nil
}

func (s *PeopleService) peopleQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("people p").
		Select("p.id, p.name, p.email, p.university_id, p.country_id, p.subfield, p.subfield_name, p.role, p.notes, " +
			"u.name AS university, c.name AS country").
		Joins("JOIN universities u ON p.university_id = u.id").
		Joins("JOIN countries c ON p.country_id = c.id")
}

// getPerson reads one person back with the stored university and country names
func (s *PeopleService) getPerson(ctx context.Context, id uint) (*PersonOut, error) {
	var out PersonOut
	res := s.peopleQuery(ctx).Where("p.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, storeError("person", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("person %d not found", id)
	}
	return &out, nil
}

// ListPeople returns people newest first, narrowed by the filter
func (s *PeopleService) ListPeople(ctx context.Context, f PeopleFilter) ([]PersonOut, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPeopleListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := s.peopleQuery(ctx)
	if f.Role != "" {
		query = query.Where("p.role = ?", f.Role)
	}
	if f.Country != "" {
		query = query.Where("c.name = ?", f.Country)
	}
	if f.Subfield != "" {
		query = query.Where("p.subfield = ?", f.Subfield)
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			`(LOWER(p.name) LIKE ? ESCAPE '\' OR LOWER(p.email) LIKE ? ESCAPE '\' OR LOWER(u.name) LIKE ? ESCAPE '\' OR LOWER(c.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	people := []PersonOut{}
	if err := query.Order("p.id DESC").Limit(f.Limit).Offset(f.Offset).Scan(&people).Error; err != nil {
		return nil, storeError("people", err)
	}
	return people, nil
}

var csvHeader = []string{"Name", "Email", "University", "Country", "Subfield", "Subfield Name", "Role", "Notes"}

// ExportCSV writes every person, newest first, as CSV with a header row
func (s *PeopleService) ExportCSV(ctx context.Context, w io.Writer) error {
	people := []PersonOut{}
	if err := s.peopleQuery(ctx).Order("p.id DESC").Scan(&people).Error; err != nil {
		return storeError("people", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range people {
		record := []string{p.Name, p.Email, p.University, p.Country, p.Subfield, p.SubfieldName, p.Role, p.Notes}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// matchParticipants returns the ids of people whose email appears among participants, case-insensitively
func (s *PeopleService) matchParticipants(ctx context.Context, participants []string) ([]uint, error) {
	lowered := make([]string, 0, len(participants))
	for _, p := range participants {
		if p = strings.ToLower(validation.SanitizeString(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	ids := []uint{}
	if len(lowered) == 0 {
		return ids, nil
	}
	err := s.db.WithContext(ctx).Model(&model.Person{}).
		Where("LOWER(email) IN ?", lowered).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, storeError("people", err)
	}
	return ids, nil
}

func (s *PeopleService) writeLogs(ctx context.Context, ids []uint, thread EmailThread) error {
	if len(ids) == 0 {
		return nil
	}
	if thread.ThreadID == "" {
		thread.ThreadID = uuid.NewString()
	}
	participants, err := json.Marshal(thread.Participants)
	if err != nil {
		return err
	}

	logs := make([]model.EmailLog, 0, len(ids))
	for _, id := range ids {
		logs = append(logs, model.EmailLog{
			PersonID:     id,
			Timestamp:    thread.Timestamp.UTC(),
			Subject:      thread.Subject,
			Body:         thread.Body,
			ThreadID:     thread.ThreadID,
			Participants: datatypes.JSON(participants),
		})
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&logs).Error; err != nil {
		return storeError("email log", err)
	}
	return nil
}

// IngestThread attaches a message to every known participant; no known participant is an error
func (s *PeopleService) IngestThread(ctx context.Context, thread EmailThread) ([]uint, error) {
	if thread.Timestamp.IsZero() {
		return nil, invalid("timestamp is required")
	}
	ids, err := s.matchParticipants(ctx, thread.Participants)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, notFound("no matching people found")
	}
	if err := s.writeLogs(ctx, ids, thread); err != nil {
		return nil, err
	}
	return ids, nil
}

// LogEmail attaches a message to every known participant and reports who matched, possibly nobody
func (s *PeopleService) LogEmail(ctx context.Context, thread EmailThread) ([]uint, error) {
	if thread.Timestamp.IsZero() {
		return nil, invalid("timestamp is required")
	}
	ids, err := s.matchParticipants(ctx, thread.Participants)
	if err != nil {
		return nil, err
	}
	if err := s.writeLogs(ctx, ids, thread); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListEmails returns a person's email history, newest first
func (s *PeopleService) ListEmails(ctx context.Context, personID uint) ([]EmailLogOut, error) {
	logs := []EmailLogOut{}
	err := s.db.WithContext(ctx).Model(&model.EmailLog{}).
		Select("id, timestamp, subject, body, thread_id").
		Where("person_id = ?", personID).
		Order("timestamp DESC").
		Scan(&logs).Error
	if err != nil {
		return nil, storeError("email logs", err)
	}
	return logs, nil
}
