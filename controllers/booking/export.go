package booking

import (
	"os"
	"time"

	"tripdesk/logger"
	"tripdesk/middleware"
	"tripdesk/services/document"
	"tripdesk/services/normalizer"
	"tripdesk/types"

	"github.com/gofiber/fiber/v2"
)

// ExportConfirmation streams the booking confirmation PDF.
func (bc *BookingController) ExportConfirmation(c *fiber.Ctx) error {
	return bc.export(c, document.VariantConfirmation)
}

// ExportInvoice streams the commercial invoice PDF.
func (bc *BookingController) ExportInvoice(c *fiber.Ctx) error {
	return bc.export(c, document.VariantInvoice)
}

func (bc *BookingController) export(c *fiber.Ctx, variant document.Variant) error {
	started := time.Now()

	raw, err := bc.Client.Get(c.Context(), c.Params("id"))
	if err != nil {
		logger.Error("Failed to fetch booking for export", err)
		return bc.sendResponseWithLog(c, started, upstreamError(err, "export this booking"))
	}

	nb := normalizer.Normalize(raw, bc.roster(c.Context()), middleware.CurrentUser(c))
	extras := extrasFromRaw(raw)

	var pdf []byte
	var filename string
	switch variant {
	case document.VariantInvoice:
		pdf, err = document.RenderInvoice(nb, extras)
		filename = document.InvoiceFilename(nb.ID)
	default:
		pdf, err = document.RenderConfirmation(nb, extras)
		filename = document.ConfirmationFilename(nb.ID)
	}
	if err != nil {
		logger.Error("Failed to render document", err)
		return bc.sendResponseWithLog(c, started, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to render document",
		})
	}

	logger.Success("Rendered " + string(variant) + " for booking " + nb.ID)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(pdf)
}

// extrasFromRaw pulls the fields the documents print but the canonical
// shape does not keep.
func extrasFromRaw(raw map[string]any) document.Extras {
	str := func(keys ...string) string {
		for _, key := range keys {
			if s, ok := raw[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return document.Extras{
		CardholderName: str("cardholderName", "cardHolderName"),
		CardNumber:     str("cardNumber"),
		PaymentStatus:  str("paymentStatus", "payment_status"),
		CompanyName:    os.Getenv("COMPANY_NAME"),
	}
}
