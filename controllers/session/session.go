package session

import (
	"strings"

	"tripdesk/logger"
	"tripdesk/services/credentials"
	"tripdesk/types"

	"github.com/gofiber/fiber/v2"
)

// SessionController manages the stored upstream credentials: the bearer
// token and the company scope the API client attaches to every request.
type SessionController struct {
	Store *credentials.Store
}

func NewSessionController(store *credentials.Store) *SessionController {
	return &SessionController{Store: store}
}

// Set stores a new token and company id.
func (sc *SessionController) Set(c *fiber.Ctx) error {
	var req struct {
		Token     string `json:"token"`
		CompanyID string `json:"companyId"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse session request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Token) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Token is required",
		})
	}

	if err := sc.Store.Set(req.Token, req.CompanyID); err != nil {
		logger.Error("Failed to persist session", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to persist session",
		})
	}

	logger.Success("Session credentials stored")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session stored successfully",
		Data:    map[string]string{"companyId": sc.Store.CompanyID()},
	})
}

// Clear drops the stored credentials.
func (sc *SessionController) Clear(c *fiber.Ctx) error {
	sc.Store.Clear()
	logger.Info("Session credentials cleared")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Session cleared",
	})
}
