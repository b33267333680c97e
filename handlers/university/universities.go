package university

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/handlers"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// UniversityHandler handles university-related requests
type UniversityHandler struct {
	directory *services.DirectoryService
	dump      *services.RORDump
	validator *validation.Validator
	log       *utils.Logger
}

// NewUniversityHandler creates a new university handler. dump may be nil, which disables suggestions.
func NewUniversityHandler(directory *services.DirectoryService, dump *services.RORDump, log *utils.Logger) *UniversityHandler {
	return &UniversityHandler{
		directory: directory,
		dump:      dump,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// UniversityRequest represents the request body for creating or renaming a university
type UniversityRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AliasRequest represents the request body for registering an alias
type AliasRequest struct {
	Alias         string `json:"alias" query:"alias" validate:"required,max=255"`
	CanonicalName string `json:"canonical_name" query:"canonical_name" validate:"required,max=255"`
}

// AliasResponse is returned after an alias is registered
type AliasResponse struct {
	Alias        string `json:"alias"`
	UniversityID uint   `json:"university_id"`
}

// ListUniversities handles GET /universities/
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", services.DefaultUniversityListLimit)

	universities, err := h.directory.ListUniversities(c.UserContext(), limit)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, universities)
}

// Suggestions handles GET /universities/suggestions
func (h *UniversityHandler) Suggestions(c *fiber.Ctx) error {
	if h.dump == nil {
		return response.JSON(c, []string{})
	}
	limit := c.QueryInt("limit", services.DefaultSuggestionLimit)

	names, err := h.dump.Suggest(c.Query("q"), limit)
	if errors.Is(err, services.ErrDumpMissing) {
		return response.ServiceUnavailable(c, "ROR dump not loaded yet")
	}
	if err != nil {
		h.log.Error("Failed to read ROR dump", "error", err)
		return response.InternalServerError(c, "Failed to read ROR dump")
	}
	return response.JSON(c, names)
}

// CreateUniversity handles POST /universities/
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req UniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.directory.CreateUniversity(c.UserContext(), req.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, university)
}

// UpdateUniversity handles PATCH /universities/:id
func (h *UniversityHandler) UpdateUniversity(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	var req UniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	university, err := h.directory.UpdateUniversity(c.UserContext(), id, req.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, university)
}

// DeleteUniversity handles DELETE /universities/:id
func (h *UniversityHandler) DeleteUniversity(c *fiber.Ctx) error {
	id, err := handlers.ParseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid university id")
	}

	if err := h.directory.DeleteUniversity(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Status(c, "success")
}

// CreateAlias handles POST /universities/aliases/. The fields may come as query parameters or as JSON.
func (h *UniversityHandler) CreateAlias(c *fiber.Ctx) error {
	var req AliasRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	alias, err := h.directory.CreateAlias(c.UserContext(), req.Alias, req.CanonicalName)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, AliasResponse{Alias: alias.Alias, UniversityID: alias.UniversityID})
}
