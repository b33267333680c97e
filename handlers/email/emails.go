package email

import (
	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/services"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/validation"
)

// EmailHandler attaches email threads to known people
type EmailHandler struct {
	people    *services.PeopleService
	validator *validation.Validator
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(people *services.PeopleService) *EmailHandler {
	return &EmailHandler{
		people:    people,
		validator: validation.NewValidator(),
	}
}

// IngestResponse is returned by POST /emails/
type IngestResponse struct {
	Status  string `json:"status"`
	Matched []uint `json:"matched"`
}

// LogResponse is returned by POST /email_logs/
type LogResponse struct {
	Status        string `json:"status"`
	MatchedPeople []uint `json:"matched_people"`
}

// parseThread decodes the body; on failure the error response is already written and ok is false
func (h *EmailHandler) parseThread(c *fiber.Ctx) (thread services.EmailThread, ok bool, err error) {
	if err := c.BodyParser(&thread); err != nil {
		return thread, false, response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(thread); err != nil {
		return thread, false, response.ValidationError(c, err)
	}
	return thread, true, nil
}

// IngestThread handles POST /emails/; 404 when no participant is a known person
func (h *EmailHandler) IngestThread(c *fiber.Ctx) error {
	thread, ok, err := h.parseThread(c)
	if !ok {
		return err
	}

	matched, err := h.people.IngestThread(c.UserContext(), thread)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, IngestResponse{Status: "ok", Matched: matched})
}

// LogEmail handles POST /email_logs/; logging with no match still succeeds
func (h *EmailHandler) LogEmail(c *fiber.Ctx) error {
	thread, ok, err := h.parseThread(c)
	if !ok {
		return err
	}

	matched, err := h.people.LogEmail(c.UserContext(), thread)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.JSON(c, LogResponse{Status: "logged", MatchedPeople: matched})
}
