package department

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// DepartmentHandler handles department-related requests
type DepartmentHandler struct {
	directory *services.DirectoryService
	validator *validation.Validator
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(directory *services.DirectoryService) *DepartmentHandler {
	return &DepartmentHandler{
		directory: directory,
		validator: validation.NewValidator(),
	}
}

// CreateDepartmentRequest represents the request body for creating a department
type CreateDepartmentRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	UniversityID uint   `json:"university_id" validate:"required"`
}

// UpdateDepartmentRequest represents the request body for renaming a department
type UpdateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ListDepartments handles GET /departments/
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	universityID, err := handlers.QueryUint(c, "university_id")
	if err != nil {
		return response.BadRequest(c, "Invalid university_id")
	}

	departments, err := h.directory.ListDepartments(c.UserContext(), universityID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, departments)
}

// CreateDepartment handles POST /departments/
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	department, err := h.directory.CreateDepartment(c.UserContext(), req.Name, req.UniversityID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, department)
}

// UpdateDepartment handles PATCH /departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid department id")
	}

	var req UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	department, err := h.directory.UpdateDepartment(c.UserContext(), id, req.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, department)
}

// DeleteDepartment handles DELETE /departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid department id")
	}

	if err := h.directory.DeleteDepartment(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Status(c, "success")
}
