package reconcile

import (
	"context"
	"fmt"

	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
	"golang.org/x/text/cases"
)

// Submission is one catalog bundle as entered by a user
type Submission struct {
	UniversityName string `json:"university_name"`
	DepartmentName string `json:"department_name"`
	HeadName       string `json:"department_head_name"`
	HeadEmail      string `json:"department_head_email"`
	AdminName      string `json:"admin_name"`
	AdminEmail     string `json:"admin_email"`
}

func (s *Submission) sanitize() {
	s.UniversityName = validation.SanitizeString(s.UniversityName)
	s.DepartmentName = validation.SanitizeString(s.DepartmentName)
	s.HeadName = validation.SanitizeString(s.HeadName)
	s.HeadEmail = validation.SanitizeString(s.HeadEmail)
	s.AdminName = validation.SanitizeString(s.AdminName)
	s.AdminEmail = validation.SanitizeString(s.AdminEmail)
}

// HasHead reports whether both head fields are filled
func (s Submission) HasHead() bool {
	return s.HeadName != "" && s.HeadEmail != ""
}

// HasAdmin reports whether both admin fields are filled
func (s Submission) HasAdmin() bool {
	return s.AdminName != "" && s.AdminEmail != ""
}

// Validate applies the caller-side rules: university and department are
// required and each contact is either complete or blank.
func (s Submission) Validate() error {
	s.sanitize()
	if s.UniversityName == "" || s.DepartmentName == "" {
		return fmt.Errorf("university and department names are required: %w", services.ErrValidation)
	}
	if (s.HeadName == "") != (s.HeadEmail == "") {
		return fmt.Errorf("both department head name and email must be filled, or both left blank: %w", services.ErrValidation)
	}
	if (s.AdminName == "") != (s.AdminEmail == "") {
		return fmt.Errorf("both admin name and email must be filled, or both left blank: %w", services.ErrValidation)
	}
	for _, email := range []string{s.HeadEmail, s.AdminEmail} {
		if email != "" && !validation.ValidateEmail(email) {
			return fmt.Errorf("invalid email %q: %w", email, services.ErrValidation)
		}
	}
	return nil
}

// CreateResult reports which steps of a creation committed.
// University and department always exist when Create returns no error.
type CreateResult struct {
	UniversityID uint
	DepartmentID uint
	HeadCreated  bool
	AdminCreated bool
	// Complete is false when a requested contact could not be created
	Complete bool
}

// UpdateResult reports the outcome of an edit. Changed is true when at least one
// PATCH succeeded, even if others failed; Failed names the groups that did.
type UpdateResult struct {
	Changed   bool
	Attempted []string
	Failed    []string
}

// Message is the user facing summary of an update
func (r UpdateResult) Message() string {
	if r.Changed {
		return "updated"
	}
	return "no changes"
}

// DeleteResult reports the outcome of removing a row's contacts
type DeleteResult struct {
	Success bool
	Errors  []error
}

// Message is the user facing summary of a deletion
func (r DeleteResult) Message() string {
	if r.Success {
		return "deleted"
	}
	return "partial failure"
}

// Engine turns submissions into catalog rows through a Backend
type Engine struct {
	backend Backend
	log     *utils.Logger
}

// NewEngine creates a reconciliation engine
func NewEngine(backend Backend, log *utils.Logger) *Engine {
	return &Engine{backend: backend, log: log}
}

// fieldCheck pairs a submitted name with the search row field it must not match
type fieldCheck struct {
	label string
	name  string
	field func(services.SearchRow) string
}

// checkDuplicates rejects the submission when any of its names already exists
// anywhere in the catalog, compared case-insensitively on the matching field.
func (e *Engine) checkDuplicates(ctx context.Context, s Submission) error {
	fold := cases.Fold()
	checks := []fieldCheck{
		{"university", s.UniversityName, func(r services.SearchRow) string { return r.UniversityName }},
		{"department", s.DepartmentName, func(r services.SearchRow) string { return r.DepartmentName }},
		{"department head", s.HeadName, func(r services.SearchRow) string { return r.DepartmentHeadName }},
		{"admin", s.AdminName, func(r services.SearchRow) string { return r.AdminName }},
	}

	for _, c := range checks {
		if c.name == "" {
			continue
		}
		rows, err := e.backend.Search(ctx, c.name)
		if err != nil {
			return err
		}
		want := fold.String(c.name)
		for _, row := range rows {
			if fold.String(c.field(row)) == want {
				return fmt.Errorf("%s %q already exists: %w", c.label, c.name, services.ErrDuplicateEntry)
			}
		}
	}
	return nil
}

// Create runs the creation protocol: duplicate check, university, department,
// then head and admin independently. Committed steps are never rolled back.
func (e *Engine) Create(ctx context.Context, s Submission) (*CreateResult, error) {
	s.sanitize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := e.checkDuplicates(ctx, s); err != nil {
		return nil, err
	}

	university, err := e.backend.CreateUniversity(ctx, s.UniversityName)
	if err != nil {
		return nil, fmt.Errorf("failed to add university: %w", err)
	}

	department, err := e.backend.CreateDepartment(ctx, s.DepartmentName, university.ID)
	if err != nil {
		e.log.Warn("Department creation failed after university was committed",
			"university_id", university.ID, "error", err)
		return nil, fmt.Errorf("failed to add department: %w", err)
	}

	result := &CreateResult{
		UniversityID: university.ID,
		DepartmentID: department.ID,
		Complete:     true,
	}

	if s.HasHead() {
		result.HeadCreated = e.createContact(ctx, model.RoleDepartmentHead, s.HeadName, s.HeadEmail, department.ID, university.ID)
		result.Complete = result.Complete && result.HeadCreated
	}
	if s.HasAdmin() {
		result.AdminCreated = e.createContact(ctx, model.RoleAdmin, s.AdminName, s.AdminEmail, department.ID, university.ID)
		result.Complete = result.Complete && result.AdminCreated
	}
	return result, nil
}

func (e *Engine) createContact(ctx context.Context, role model.ContactRole, name, email string, departmentID, universityID uint) bool {
	_, err := e.backend.CreateContact(ctx, role, services.ContactInput{
		Name:         name,
		Email:        email,
		DepartmentID: departmentID,
		UniversityID: universityID,
	})
	if err != nil {
		e.log.Warn("Contact creation failed", "role", role, "department_id", departmentID, "error", err)
		return false
	}
	return true
}

// Update compares next against the row as it was displayed and PATCHes each
// changed group. Contact groups are only patched when the row already has that contact.
func (e *Engine) Update(ctx context.Context, previous services.SearchRow, next Submission) (*UpdateResult, error) {
	next.sanitize()
	if err := next.Validate(); err != nil {
		return nil, err
	}
	result := &UpdateResult{}

	record := func(group string, err error) {
		result.Attempted = append(result.Attempted, group)
		if err != nil {
			e.log.Warn("Catalog update failed", "group", group, "error", err)
			result.Failed = append(result.Failed, group)
			return
		}
		result.Changed = true
	}

	if next.UniversityName != previous.UniversityName {
		_, err := e.backend.UpdateUniversity(ctx, previous.UniversityID, next.UniversityName)
		record("university", err)
	}

	if previous.DepartmentID != nil && next.DepartmentName != previous.DepartmentName {
		_, err := e.backend.UpdateDepartment(ctx, *previous.DepartmentID, next.DepartmentName)
		record("department", err)
	}

	if previous.DepartmentHeadID != nil &&
		(next.HeadName != previous.DepartmentHeadName || next.HeadEmail != previous.DepartmentHeadEmail) {
		_, err := e.backend.UpdateContact(ctx, model.RoleDepartmentHead, *previous.DepartmentHeadID, next.HeadName, next.HeadEmail)
		record("department_head", err)
	}

	if previous.AdminID != nil &&
		(next.AdminName != previous.AdminName || next.AdminEmail != previous.AdminEmail) {
		_, err := e.backend.UpdateContact(ctx, model.RoleAdmin, *previous.AdminID, next.AdminName, next.AdminEmail)
		record("admin", err)
	}

	return result, nil
}

// Delete removes the row's department head and admin independently.
// Success requires every attempted deletion to succeed.
func (e *Engine) Delete(ctx context.Context, row services.SearchRow) DeleteResult {
	result := DeleteResult{Success: true}

	if row.DepartmentHeadID != nil {
		if err := e.backend.DeleteContact(ctx, model.RoleDepartmentHead, *row.DepartmentHeadID); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err)
		}
	}
	if row.AdminID != nil {
		if err := e.backend.DeleteContact(ctx, model.RoleAdmin, *row.AdminID); err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err)
		}
	}

	if !result.Success {
		e.log.Warn("Catalog delete partially failed", "university_id", row.UniversityID, "errors", len(result.Errors))
	}
	return result
}
