package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	bookingTypes "tripdesk/types/booking"
)

// Extras are the raw-record fields the canonical shape does not retain but
// the printed documents still show.
type Extras struct {
	CardholderName string
	CardNumber     string
	PaymentStatus  string
	CompanyName    string
}

// Variant selects which document is rendered.
type Variant string

const (
	VariantConfirmation Variant = "confirmation"
	VariantInvoice      Variant = "invoice"
)

const (
	pageWidth    = 210.0
	marginX      = 12.0
	bottomGuard  = 24.0
	sectionTitle = 7.0
	lineHeight   = 6.0
)

// ConfirmationFilename derives the deterministic download name.
func ConfirmationFilename(id string) string {
	return "booking-" + id + ".pdf"
}

func InvoiceFilename(id string) string {
	return "invoice-" + id + ".pdf"
}

// RenderConfirmation renders the full booking confirmation. Output is
// deterministic for identical input: fixed fonts, fixed section order and a
// pinned creation date.
func RenderConfirmation(nb bookingTypes.Normalized, extras Extras) ([]byte, error) {
	return render(nb, extras, VariantConfirmation)
}

// RenderInvoice renders the commercial invoice variant: same engine, pricing
// sections only.
func RenderInvoice(nb bookingTypes.Normalized, extras Extras) ([]byte, error) {
	return render(nb, extras, VariantInvoice)
}

type doc struct {
	pdf     *gofpdf.Fpdf
	title   string
	company string
}

func render(nb bookingTypes.Normalized, extras Extras, variant Variant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetAutoPageBreak(false, bottomGuard)

	title := "Booking Confirmation"
	if variant == VariantInvoice {
		title = "Commercial Invoice"
	}
	d := &doc{pdf: pdf, title: title, company: orDash(extras.CompanyName)}

	pdf.AddPage()
	d.header()

	d.referenceSection(nb)
	if variant == VariantConfirmation || nb.Totals != (bookingTypes.Totals{}) {
		d.profitSection(nb)
	}
	d.travelerSection(nb)
	d.datesSection(nb)
	if variant == VariantConfirmation {
		d.flightSection(nb)
		d.hotelsSection(nb)
		d.visasSection(nb)
		d.transportSection(nb)
	}
	d.costingSection(nb)
	d.paymentSection(extras)
	if variant == VariantConfirmation {
		d.cardSection(extras)
	}
	d.termsSection(variant)

	d.footer()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", variant, err)
	}
	return buf.Bytes(), nil
}

func (d *doc) header() {
	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.SetXY(marginX, 14)
	d.pdf.CellFormat(pageWidth-2*marginX, 9, d.title, "", 1, "C", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetX(marginX)
	d.pdf.CellFormat(pageWidth-2*marginX, 5, d.company, "", 1, "C", false, 0, "")
	d.pdf.Ln(3)
}

func (d *doc) footer() {
	d.pdf.SetFont("Helvetica", "I", 8)
	d.pdf.SetXY(marginX, 297-14)
	d.pdf.CellFormat(pageWidth-2*marginX, 5,
		fmt.Sprintf("Page %d", d.pdf.PageNo()), "T", 0, "C", false, 0, "")
}

// ensureSpace applies the pagination rule: before a section is drawn, the
// remaining vertical space is checked against that section's budget; when it
// does not fit, the footer is emitted, a new page started and the header
// re-drawn.
func (d *doc) ensureSpace(needed float64) {
	if d.pdf.GetY()+needed <= 297-bottomGuard {
		return
	}
	d.footer()
	d.pdf.AddPage()
	d.header()
}

func (d *doc) sectionHeading(title string) {
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.SetX(marginX)
	d.pdf.SetFillColor(235, 238, 245)
	d.pdf.CellFormat(pageWidth-2*marginX, sectionTitle, title, "", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

func (d *doc) keyValue(label, value string) {
	d.pdf.SetX(marginX)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.CellFormat(45, lineHeight, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.CellFormat(pageWidth-2*marginX-45, lineHeight, orDash(value), "", 1, "L", false, 0, "")
}

func (d *doc) table(headers []string, widths []float64, rows [][]string) {
	d.pdf.SetFont("Helvetica", "B", 8)
	d.pdf.SetFillColor(245, 246, 250)
	d.pdf.SetX(marginX)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], lineHeight, h, "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		d.ensureSpace(lineHeight + 2)
		d.pdf.SetX(marginX)
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], lineHeight, orDash(cell), "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(2)
}

func (d *doc) referenceSection(nb bookingTypes.Normalized) {
	d.ensureSpace(4*lineHeight + sectionTitle)
	d.sectionHeading("Booking Reference")
	d.keyValue("Reference", nb.ID)
	d.keyValue("Status", titleCase(nb.Status.String()))
	d.keyValue("Approval", titleCase(nb.ApprovalStatus.String()))
	d.keyValue("Agent", nb.Agent.Name)
	d.pdf.Ln(2)
}

func (d *doc) profitSection(nb bookingTypes.Normalized) {
	d.ensureSpace(3*lineHeight + sectionTitle)
	d.sectionHeading("Financial Summary")
	d.keyValue("Total Cost", money(nb.Totals.TotalCost))
	d.keyValue("Total Sale", money(nb.Totals.TotalSale))
	d.keyValue("Profit", money(nb.Totals.Profit))
	d.pdf.Ln(2)
}

func (d *doc) travelerSection(nb bookingTypes.Normalized) {
	d.ensureSpace(3*lineHeight + sectionTitle)
	d.sectionHeading("Traveler")
	d.keyValue("Name", nb.Customer.Name)
	d.keyValue("Email", nb.Customer.Email)
	d.keyValue("Phone", nb.Customer.Phone)
	d.pdf.Ln(2)
}

func (d *doc) datesSection(nb bookingTypes.Normalized) {
	d.ensureSpace(3*lineHeight + sectionTitle)
	d.sectionHeading("Dates")
	d.keyValue("Booked", nb.Dates.Booking)
	d.keyValue("Departure", nb.Dates.Departure)
	d.keyValue("Return", nb.Dates.Return)
	d.pdf.Ln(2)
}

func (d *doc) flightSection(nb bookingTypes.Normalized) {
	d.ensureSpace(4*lineHeight + sectionTitle)
	d.sectionHeading("Flight")
	d.keyValue("Route", nb.Flight.Route)
	d.keyValue("Class", nb.Flight.Class)
	d.keyValue("PNR", nb.Flight.PNR)
	d.keyValue("Itinerary", nb.Flight.Itinerary)
	d.pdf.Ln(2)
}

func (d *doc) hotelsSection(nb bookingTypes.Normalized) {
	if len(nb.Hotels) == 0 {
		return
	}
	d.ensureSpace(float64(len(nb.Hotels)+2)*lineHeight + sectionTitle)
	d.sectionHeading("Hotels")
	rows := make([][]string, 0, len(nb.Hotels))
	for _, h := range nb.Hotels {
		rows = append(rows, []string{h.Name, h.RoomType, h.CheckIn, h.CheckOut})
	}
	d.table([]string{"Hotel", "Room", "Check-in", "Check-out"},
		[]float64{66, 40, 40, 40}, rows)
}

func (d *doc) visasSection(nb bookingTypes.Normalized) {
	if len(nb.Visas) == 0 {
		return
	}
	d.ensureSpace(float64(len(nb.Visas)+2)*lineHeight + sectionTitle)
	d.sectionHeading("Visas")
	rows := make([][]string, 0, len(nb.Visas))
	for _, v := range nb.Visas {
		rows = append(rows, []string{v.Name, v.Nationality, v.VisaType})
	}
	d.table([]string{"Applicant", "Nationality", "Type"},
		[]float64{86, 50, 50}, rows)
}

func (d *doc) transportSection(nb bookingTypes.Normalized) {
	if len(nb.TransportLegs) == 0 {
		return
	}
	d.ensureSpace(float64(len(nb.TransportLegs)+2)*lineHeight + sectionTitle)
	d.sectionHeading("Transport")
	rows := make([][]string, 0, len(nb.TransportLegs))
	for _, l := range nb.TransportLegs {
		rows = append(rows, []string{l.From, l.To, l.VehicleType, l.Date, l.Time})
	}
	d.table([]string{"From", "To", "Vehicle", "Date", "Time"},
		[]float64{46, 46, 38, 30, 26}, rows)
}

func (d *doc) costingSection(nb bookingTypes.Normalized) {
	d.ensureSpace(float64(len(nb.CostingRows)+4)*lineHeight + sectionTitle)
	d.sectionHeading("Costing")
	if nb.Package != "" {
		d.keyValue("Package", nb.Package)
	}
	rows := make([][]string, 0, len(nb.CostingRows))
	for _, r := range nb.CostingRows {
		rows = append(rows, []string{
			r.Label,
			fmt.Sprintf("%.0f", r.Quantity),
			money(r.CostPerQty),
			money(r.SalePerQty),
			money(r.TotalCost),
			money(r.TotalSale),
		})
	}
	if len(rows) > 0 {
		d.table([]string{"Item", "Qty", "Unit Cost", "Unit Sale", "Cost", "Sale"},
			[]float64{56, 16, 28, 28, 29, 29}, rows)
	}
	d.keyValue("Total", money(nb.Totals.TotalSale))
	d.pdf.Ln(2)
}

func (d *doc) paymentSection(extras Extras) {
	d.ensureSpace(lineHeight + sectionTitle)
	d.sectionHeading("Payment")
	d.keyValue("Status", extras.PaymentStatus)
	d.pdf.Ln(2)
}

func (d *doc) cardSection(extras Extras) {
	if extras.CardholderName == "" && extras.CardNumber == "" {
		return
	}
	d.ensureSpace(2*lineHeight + sectionTitle)
	d.sectionHeading("Card")
	d.keyValue("Cardholder", extras.CardholderName)
	d.keyValue("Card Number", extras.CardNumber)
	d.pdf.Ln(2)
}

func (d *doc) termsSection(variant Variant) {
	d.ensureSpace(4*lineHeight + sectionTitle)
	d.sectionHeading("Terms & Conditions")
	terms := "All bookings are subject to availability and the supplier's conditions of carriage. " +
		"Cancellation charges apply as per the package terms. Travel documents remain the " +
		"responsibility of the traveler."
	if variant == VariantInvoice {
		terms = "Payment is due within 14 days of the invoice date. Amounts are stated in the " +
			"booking currency. Disputes must be raised within 7 days of receipt."
	}
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetX(marginX)
	d.pdf.MultiCell(pageWidth-2*marginX, 4.5, terms, "", "L", false)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
