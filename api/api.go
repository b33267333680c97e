package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils"
	"github.com/joemans3/TandemLaunch-Scouting-DB/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *utils.Logger
}

func NewAPIServer(listenAddress string, log *utils.Logger) *APIServer {
	app := fiber.New(fiber.Config{
		AppName:      "scouting-db",
		ErrorHandler: errorHandler(log),
	})
	return &APIServer{
		app:           app,
		listenAddress: listenAddress,
		log:           log,
	}
}

// errorHandler renders errors that escape handlers (unknown routes, panics) in the error envelope
func errorHandler(log *utils.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusNotFound:
				return response.NotFound(c, fe.Message)
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
				return response.Error(c, fe.Code, fe.Message, response.CodeBadRequest)
			}
			return response.Error(c, fe.Code, fe.Message, response.CodeInternal)
		}
		log.Error("Unhandled request error", "path", c.Path(), "error", err)
		return response.InternalServerError(c, "")
	}
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	s.log.Info("Starting API Server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown() error {
	s.log.Info("Shutting down API Server")
	return s.app.Shutdown()
}
