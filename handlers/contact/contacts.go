package contact

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// ContactHandler serves one contact table; the router mounts one per role
type ContactHandler struct {
	directory *services.DirectoryService
	role      model.ContactRole
	validator *validation.Validator
}

// NewContactHandler creates a handler for department heads or admins
func NewContactHandler(directory *services.DirectoryService, role model.ContactRole) *ContactHandler {
	return &ContactHandler{
		directory: directory,
		role:      role,
		validator: validation.NewValidator(),
	}
}

// CreateContactRequest represents the request body for creating a contact
type CreateContactRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email,max=254"`
	DepartmentID uint   `json:"department_id" validate:"required"`
	UniversityID uint   `json:"university_id" validate:"required"`
}

// UpdateContactRequest represents the request body for updating a contact; empty fields are kept
type UpdateContactRequest struct {
	Name  string `json:"name" validate:"omitempty,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

// CreateContact handles POST /department_heads/ and /admins/
func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var req CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	contact, err := h.directory.CreateContact(c.UserContext(), h.role, services.ContactInput{
		Name:         req.Name,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
		UniversityID: req.UniversityID,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, contact)
}

// UpdateContact handles PATCH /department_heads/:id and /admins/:id
func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid "+h.role.Label()+" id")
	}

	var req UpdateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	contact, err := h.directory.UpdateContact(c.UserContext(), h.role, id, req.Name, req.Email)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, contact)
}

// DeleteContact handles DELETE /department_heads/:id and /admins/:id
func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid "+h.role.Label()+" id")
	}

	if err := h.directory.DeleteContact(c.UserContext(), h.role, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Status(c, "success")
}
