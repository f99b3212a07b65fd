package constants

// Permission names carried in the JWT claims.
const (
	PermAny = "any"

	PermBookingView   = "booking.view"
	PermBookingManage = "booking.manage"
	PermBookingExport = "booking.export"
	PermDashboardView = "dashboard.view"
)
