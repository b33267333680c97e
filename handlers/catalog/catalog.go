package catalog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	"github.com/joemans3/TandemLaunch-Scouting-DB/model"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// CatalogHandler serves the flattened catalog rows
type CatalogHandler struct {
	entries   *services.CatalogEntryService
	validator *validation.Validator
}

// NewCatalogHandler creates a new flattened catalog handler
func NewCatalogHandler(entries *services.CatalogEntryService) *CatalogHandler {
	return &CatalogHandler{
		entries:   entries,
		validator: validation.NewValidator(),
	}
}

// CreateEntryRequest represents the request body for a new flattened row
type CreateEntryRequest struct {
	UniversityName      string `json:"university_name" validate:"required,max=255"`
	DepartmentName      string `json:"department_name" validate:"required,max=255"`
	DepartmentHeadName  string `json:"department_head_name" validate:"max=255"`
	DepartmentHeadEmail string `json:"department_head_email" validate:"omitempty,email,max=254"`
	AdminName           string `json:"admin_name" validate:"max=255"`
	AdminEmail          string `json:"admin_email" validate:"omitempty,email,max=254"`
}

// UpdateEntryRequest carries only the fields to change
type UpdateEntryRequest struct {
	UniversityName      *string `json:"university_name" validate:"omitempty,max=255"`
	DepartmentName      *string `json:"department_name" validate:"omitempty,max=255"`
	DepartmentHeadName  *string `json:"department_head_name" validate:"omitempty,max=255"`
	DepartmentHeadEmail *string `json:"department_head_email" validate:"omitempty,max=254"`
	AdminName           *string `json:"admin_name" validate:"omitempty,max=255"`
	AdminEmail          *string `json:"admin_email" validate:"omitempty,max=254"`
}

// ListEntries handles GET /catalog/?q=
func (h *CatalogHandler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.entries.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, entries)
}

// CreateEntry handles POST /catalog/
func (h *CatalogHandler) CreateEntry(c *fiber.Ctx) error {
	var req CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.entries.Create(c.UserContext(), model.CatalogEntry{
		UniversityName:      req.UniversityName,
		DepartmentName:      req.DepartmentName,
		DepartmentHeadName:  req.DepartmentHeadName,
		DepartmentHeadEmail: req.DepartmentHeadEmail,
		AdminName:           req.AdminName,
		AdminEmail:          req.AdminEmail,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, entry)
}

// UpdateEntry handles PATCH /catalog/:id
func (h *CatalogHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalog entry id")
	}

	var req UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.entries.Update(c.UserContext(), id, services.CatalogEntryPatch{
		UniversityName:      req.UniversityName,
		DepartmentName:      req.DepartmentName,
		DepartmentHeadName:  req.DepartmentHeadName,
		DepartmentHeadEmail: req.DepartmentHeadEmail,
		AdminName:           req.AdminName,
		AdminEmail:          req.AdminEmail,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, entry)
}

// DeleteEntry handles DELETE /catalog/:id; only that row is removed
func (h *CatalogHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid catalog entry id")
	}

	if err := h.entries.Delete(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Status(c, "success")
}
