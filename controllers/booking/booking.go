package booking

import (
	"fmt"
	"time"

	"tripdesk/logger"
	"tripdesk/middleware"
	"tripdesk/services/normalizer"
	"tripdesk/services/wizard"
	"tripdesk/types"
	bookingTypes "tripdesk/types/booking"

	"github.com/gofiber/fiber/v2"
)

// Index lists bookings in canonical form. ?scope=my narrows to the caller's
// own records for non-admin users.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	started := time.Now()

	my := c.Query("scope") == "my"
	raws, err := bc.Client.List(c.Context(), my)
	if err != nil {
		logger.Error("Failed to fetch bookings", err)
		return bc.sendResponseWithLog(c, started, upstreamError(err, "load bookings"))
	}

	roster := bc.roster(c.Context())
	current := middleware.CurrentUser(c)
	normalized := normalizer.NormalizeAll(raws, roster, current)

	return bc.sendResponseWithLog(c, started, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    normalized,
	})
}

// Show returns one booking in canonical form.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	started := time.Now()

	raw, err := bc.Client.Get(c.Context(), c.Params("id"))
	if err != nil {
		logger.Error("Failed to fetch booking", err)
		return bc.sendResponseWithLog(c, started, upstreamError(err, "load booking"))
	}

	normalized := normalizer.Normalize(raw, bc.roster(c.Context()), middleware.CurrentUser(c))
	return bc.sendResponseWithLog(c, started, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    normalized,
	})
}

// Store accepts a whole wizard batch. Validation is all-or-nothing: the
// first failing draft blocks every draft in the submission.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	started := time.Now()

	var form wizard.FormState
	if err := c.BodyParser(&form); err != nil {
		logger.Error("Failed to parse wizard submission", err)
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if len(form.Drafts) == 0 {
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Submission holds no booking drafts",
		})
	}

	current := middleware.CurrentUser(c)
	payloads, failure, err := form.BuildAllPayloads(current)
	if failure != nil {
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: fmt.Sprintf("Draft %d failed validation on the %s step", failure.Draft+1, failure.Step),
			Data:    failure,
		})
	}
	if err != nil {
		// A payload precondition slipped past step validation; surface it the
		// same way as a network failure banner.
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	roster := bc.roster(c.Context())
	created := make([]bookingTypes.Normalized, 0, len(payloads))
	for i, payload := range payloads {
		raw, err := bc.Client.Create(c.Context(), payload)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create booking draft %d", i+1), err)
			resp := upstreamError(err, "create booking")
			resp.Message = fmt.Sprintf("Draft %d: %s (%d of %d drafts were created)",
				i+1, resp.Message, len(created), len(payloads))
			return bc.sendResponseWithLog(c, started, resp)
		}
		created = append(created, normalizer.Normalize(raw, roster, current))
	}

	logger.Success(fmt.Sprintf("Created %d booking(s) for %s", len(created), form.Contact.Name))
	return bc.sendResponseWithLog(c, started, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Bookings created successfully",
		Data:    created,
	})
}

// Update rebuilds the payload from a single-draft wizard state and replaces
// the upstream record.
func (bc *BookingController) Update(c *fiber.Ctx) error {
	started := time.Now()

	var form wizard.FormState
	if err := c.BodyParser(&form); err != nil {
		logger.Error("Failed to parse wizard submission", err)
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	current := middleware.CurrentUser(c)
	if failure := form.ValidateAll(); failure != nil {
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: fmt.Sprintf("Validation failed on the %s step", failure.Step),
			Data:    failure,
		})
	}
	payload, err := form.BuildPayload(0, current)
	if err != nil {
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	raw, err := bc.Client.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		logger.Error("Failed to update booking", err)
		return bc.sendResponseWithLog(c, started, upstreamError(err, "update booking"))
	}

	normalized := normalizer.Normalize(raw, bc.roster(c.Context()), current)
	logger.Success("Booking updated successfully: " + normalized.ID)
	return bc.sendResponseWithLog(c, started, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking updated successfully",
		Data:    normalized,
	})
}

// Destroy deletes one booking upstream.
func (bc *BookingController) Destroy(c *fiber.Ctx) error {
	started := time.Now()

	id := c.Params("id")
	if err := bc.Client.Delete(c.Context(), id); err != nil {
		logger.Error("Failed to delete booking", err)
		return bc.sendResponseWithLog(c, started, upstreamError(err, "delete booking"))
	}

	logger.Success("Booking deleted successfully: " + id)
	return bc.sendResponseWithLog(c, started, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking deleted successfully",
	})
}
