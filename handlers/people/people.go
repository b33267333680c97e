package people

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// PeopleHandler handles the people directory
type PeopleHandler struct {
	people    *services.PeopleService
	validator *validation.Validator
	log       *utils.Logger
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(people *services.PeopleService, log *utils.Logger) *PeopleHandler {
	return &PeopleHandler{
		people:    people,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// ListPeople handles GET /people/
func (h *PeopleHandler) ListPeople(c *fiber.Ctx) error {
	people, err := h.people.ListPeople(c.UserContext(), services.PeopleFilter{
		Role:     c.Query("role"),
		Country:  c.Query("country"),
		Subfield: c.Query("subfield"),
		Q:        c.Query("q"),
		Limit:    c.QueryInt("limit", services.DefaultPeopleListLimit),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, people)
}

// CreatePerson handles POST /people/
func (h *PeopleHandler) CreatePerson(c *fiber.Ctx) error {
	var req services.PersonInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	person, err := h.people.CreatePerson(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, person)
}

// UpdatePerson handles PATCH /people/:id
func (h *PeopleHandler) UpdatePerson(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	var req services.PersonInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	person, err := h.people.UpdatePerson(c.UserContext(), id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, person)
}

// DeletePerson handles DELETE /people/:id
func (h *PeopleHandler) DeletePerson(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	if err := h.people.DeletePerson(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Status(c, "success")
}

// ExportCSV handles GET /people/export_csv
func (h *PeopleHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.people.ExportCSV(c.UserContext(), &buf); err != nil {
		h.log.Error("Failed to export people", "error", err)
		return response.FromError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Attachment("people_export.csv")
	return c.Send(buf.Bytes())
}

// ListEmails handles GET /people/:id/emails/
func (h *PeopleHandler) ListEmails(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid person id")
	}

	logs, err := h.people.ListEmails(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, logs)
}
