package routes

import (
	"os"

	"tripdesk/constants"
	bookingController "tripdesk/controllers/booking"
	dashboardController "tripdesk/controllers/dashboard"
	sessionController "tripdesk/controllers/session"
	"tripdesk/httpServices/bookingapi"
	"tripdesk/logger"
	"tripdesk/middleware"
	"tripdesk/services/credentials"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	statePath := os.Getenv("STATE_FILE")
	if statePath == "" {
		statePath = ".tripdesk-state.json"
	}
	store := credentials.Open(statePath, credentials.KeyFromEnv("STATE_KEY"))
	apiClient := bookingapi.NewClient(os.Getenv("UPSTREAM_API_URL"), store)

	asyncLogger := logger.NewAsyncLogger(db)
	bookings := bookingController.NewBookingController(apiClient, asyncLogger)
	dashboard := dashboardController.NewDashboardController(apiClient)
	sessions := sessionController.NewSessionController(store)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Session Routes
	===============================================================================*/
	api.Post("/session", sessions.Set)
	api.Delete("/session", sessions.Clear)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings")

	bookingGroup.Get("/", middleware.RequirePermissions(
		constants.PermBookingView,
		constants.PermBookingManage,
	), bookings.Index)

	bookingGroup.Get("/:id", middleware.RequirePermissions(
		constants.PermBookingView,
		constants.PermBookingManage,
	), bookings.Show)

	bookingGroup.Post("/", middleware.RequirePermissions(
		constants.PermBookingManage,
	), bookings.Store)

	bookingGroup.Put("/:id", middleware.RequirePermissions(
		constants.PermBookingManage,
	), bookings.Update)

	bookingGroup.Delete("/:id", middleware.RequirePermissions(
		constants.PermBookingManage,
	), bookings.Destroy)

	bookingGroup.Get("/:id/confirmation.pdf", middleware.RequirePermissions(
		constants.PermBookingExport,
	), bookings.ExportConfirmation)

	bookingGroup.Get("/:id/invoice.pdf", middleware.RequirePermissions(
		constants.PermBookingExport,
	), bookings.ExportInvoice)

	/*=============================================================================
	| Itinerary Routes
	===============================================================================*/
	api.Post("/itinerary/parse", middleware.RequirePermissions(
		constants.PermBookingManage,
	), bookings.ParseItinerary)

	/*=============================================================================
	| Dashboard Routes
	===============================================================================*/
	dashboardGroup := api.Group("/dashboard").Use(middleware.RequirePermissions(
		constants.PermDashboardView,
		constants.PermBookingManage,
	))
	dashboardGroup.Get("/summary", dashboard.Summary)
	dashboardGroup.Get("/period", dashboard.PeriodSeries)
	dashboardGroup.Get("/agents", dashboard.AgentSeries)
}
