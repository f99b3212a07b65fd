package dashboard

import (
	"context"
	"time"

	"tripdesk/httpServices/bookingapi"
	"tripdesk/logger"
	"tripdesk/middleware"
	"tripdesk/services/normalizer"
	"tripdesk/services/report"
	"tripdesk/types"
	agentTypes "tripdesk/types/agent"
	bookingTypes "tripdesk/types/booking"

	"github.com/gofiber/fiber/v2"
)

// DashboardController serves the aggregated chart series. Everything is
// computed per request from the latest fetched list; there is no local cache
// of bookings.
type DashboardController struct {
	Client *bookingapi.Client
}

func NewDashboardController(client *bookingapi.Client) *DashboardController {
	return &DashboardController{Client: client}
}

func (dc *DashboardController) fetchNormalized(ctx context.Context, c *fiber.Ctx) ([]bookingTypes.Normalized, error) {
	raws, err := dc.Client.List(ctx, c.Query("scope") == "my")
	if err != nil {
		return nil, err
	}

	var roster []agentTypes.Agent
	if items, err := dc.Client.Agents(ctx); err != nil {
		// Roster failures stay isolated; charts fall back to embedded names.
		logger.Warning("Failed to fetch agent roster: " + err.Error())
	} else {
		roster = agentTypes.FromRaw(items)
	}

	return normalizer.NormalizeAll(raws, roster, middleware.CurrentUser(c)), nil
}

func upstreamError(err error) types.ApiResponse {
	if apiErr, ok := err.(*bookingapi.APIError); ok {
		status := fiber.StatusBadGateway
		message := apiErr.Message
		if apiErr.Status == fiber.StatusUnauthorized {
			status = fiber.StatusUnauthorized
			message = "Session expired, please sign in again"
		}
		return types.ApiResponse{Status: status, Message: message}
	}
	return types.ApiResponse{
		Status:  fiber.StatusBadGateway,
		Message: "Failed to load bookings: " + err.Error(),
	}
}

// Summary returns the header roll-up for the selected period. The period
// filter keeps bookings with an unparseable creation date, so the headline
// count never loses records to bad data.
func (dc *DashboardController) Summary(c *fiber.Ctx) error {
	period := report.Period(c.Query("period", string(report.PeriodMonth)))
	if !period.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "period must be one of week, month, year",
		})
	}

	bookings, err := dc.fetchNormalized(c.Context(), c)
	if err != nil {
		logger.Error("Failed to load dashboard summary", err)
		resp := upstreamError(err)
		return c.Status(resp.Status).JSON(resp)
	}

	filtered := report.FilterPeriod(bookings, period, time.Now())
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Summary computed successfully",
		Data:    report.Summarize(filtered),
	})
}

// PeriodSeries returns the time-bucketed chart for ?period= and ?metric=.
func (dc *DashboardController) PeriodSeries(c *fiber.Ctx) error {
	period := report.Period(c.Query("period", string(report.PeriodWeek)))
	metric := report.Metric(c.Query("metric", string(report.MetricCount)))
	if !period.IsValid() || !metric.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "period must be week/month/year and metric count/profit/revenue",
		})
	}

	bookings, err := dc.fetchNormalized(c.Context(), c)
	if err != nil {
		logger.Error("Failed to load period series", err)
		resp := upstreamError(err)
		return c.Status(resp.Status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Series computed successfully",
		Data:    report.AggregateByPeriod(bookings, period, metric, time.Now()),
	})
}

// AgentSeries returns the per-agent leaderboard for ?metric=.
func (dc *DashboardController) AgentSeries(c *fiber.Ctx) error {
	metric := report.Metric(c.Query("metric", string(report.MetricCount)))
	if !metric.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "metric must be one of count, profit, revenue",
		})
	}

	bookings, err := dc.fetchNormalized(c.Context(), c)
	if err != nil {
		logger.Error("Failed to load agent series", err)
		resp := upstreamError(err)
		return c.Status(resp.Status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Series computed successfully",
		Data:    report.AggregateByAgent(bookings, metric),
	})
}
