package booking

import (
	"context"
	"time"

	"tripdesk/httpServices/bookingapi"
	"tripdesk/logger"
	"tripdesk/types"
	agentTypes "tripdesk/types/agent"

	"github.com/gofiber/fiber/v2"
)

// BookingController proxies the upstream booking resource, reconciling its
// records into the canonical shape on the way through.
type BookingController struct {
	Client *bookingapi.Client
	Logger *logger.AsyncLogger
}

// NewBookingController creates a new booking controller.
func NewBookingController(client *bookingapi.Client, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		Client: client,
		Logger: asyncLogger,
	}
}

// roster fetches the agent list. A roster failure is isolated: agent name
// resolution degrades, the bookings themselves still render.
func (bc *BookingController) roster(ctx context.Context) []agentTypes.Agent {
	items, err := bc.Client.Agents(ctx)
	if err != nil {
		logger.Warning("Failed to fetch agent roster: " + err.Error())
		return nil
	}
	return agentTypes.FromRaw(items)
}

// sendResponseWithLog writes the response and queues a request log entry.
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, started time.Time, resp types.ApiResponse) error {
	if bc.Logger != nil {
		bc.Logger.Log(types.LogEntry{
			Method:      c.Method(),
			URL:         c.OriginalURL(),
			RequestBody: string(c.Body()),
			StatusCode:  resp.Status,
			LatencyMs:   time.Since(started).Milliseconds(),
			CreatedAt:   time.Now(),
		})
	}
	return c.Status(resp.Status).JSON(resp)
}

// upstreamError maps a client-layer failure onto an API response. The 403
// export case carries its own wording so callers can tell a permission
// problem from a generic failure.
func upstreamError(err error, action string) types.ApiResponse {
	if apiErr, ok := err.(*bookingapi.APIError); ok {
		switch apiErr.Status {
		case fiber.StatusUnauthorized:
			return types.ApiResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Session expired, please sign in again",
			}
		case fiber.StatusForbidden:
			return types.ApiResponse{
				Status:  fiber.StatusForbidden,
				Message: "You do not have permission to " + action,
			}
		case fiber.StatusNotFound:
			return types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
			}
		default:
			return types.ApiResponse{
				Status:  fiber.StatusBadGateway,
				Message: apiErr.Message,
			}
		}
	}
	return types.ApiResponse{
		Status:  fiber.StatusBadGateway,
		Message: "Failed to " + action + ": " + err.Error(),
	}
}
