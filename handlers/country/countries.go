package country

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
)

// CountryHandler lists the countries resolved so far
type CountryHandler struct {
	directory *services.DirectoryService
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(directory *services.DirectoryService) *CountryHandler {
	return &CountryHandler{directory: directory}
}

// ListCountries handles GET /countries/
func (h *CountryHandler) ListCountries(c *fiber.Ctx) error {
	countries, err := h.directory.ListCountries(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, countries)
}
