package search

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
)

// SearchHandler serves the multi-entity catalog search
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /search/?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rows, err := h.search.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, rows)
}
