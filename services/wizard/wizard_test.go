package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agentTypes "tripdesk/types/agent"
	bookingTypes "tripdesk/types/booking"
)

func filled() *FormState {
	f := New()
	f.Contact = ContactInfo{Name: "Ann Lee", Email: "ann@example.com", Phone: "0123", Passengers: 2}
	f.Credit = CreditInfo{CardholderName: "Ann Lee"}
	d := f.Active()
	d.Flight = FlightInfo{Itinerary: "DAC-JED 01 Mar, JED-DAC 15 Mar", PNR: "AB12CD"}
	d.Costing = CostingInput{
		PackageName: "Gold Umrah",
		Rows: []RowInput{
			{Label: "Flights", Quantity: 2, CostPerQty: 100, SalePerQty: 150},
			{Label: "Hotel", Quantity: 1, CostPerQty: 400, SalePerQty: 500},
		},
	}
	return f
}

func TestNextBlockedUntilStepValid(t *testing.T) {
	f := New()

	errs := f.Next()
	require.NotEmpty(t, errs)
	assert.Equal(t, StepContact, f.CurrentStep())
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "passengers")

	f.Contact = ContactInfo{Name: "Ann", Email: "a@b.c", Phone: "1", Passengers: 1}
	errs = f.Next()
	assert.Empty(t, errs)
	assert.Equal(t, StepCredit, f.CurrentStep())
}

func TestPreviousAndJumpBypassValidation(t *testing.T) {
	f := New() // everything invalid

	require.True(t, f.Jump(StepCosting))
	assert.Equal(t, StepCosting, f.CurrentStep())

	f.Previous()
	assert.Equal(t, StepTransport, f.CurrentStep())

	assert.False(t, f.Jump(Step("summary")))
	assert.Equal(t, StepTransport, f.CurrentStep())
}

func TestNextStopsAtLastStep(t *testing.T) {
	f := filled()
	f.Jump(StepCosting)
	errs := f.Next()
	assert.Empty(t, errs)
	assert.Equal(t, StepCosting, f.CurrentStep())
}

func TestValidateFlightsAlternatives(t *testing.T) {
	f := New()
	d := f.Active()

	errs := f.ValidateStep(StepFlights)
	assert.Contains(t, errs, "itinerary")

	d.Flight = FlightInfo{Itinerary: "free text routing"}
	assert.Empty(t, f.ValidateStep(StepFlights))

	d.Flight = FlightInfo{
		DepartureCity: "Dhaka", ArrivalCity: "Jeddah",
		DepartureDate: "2026-03-01", ReturnDate: "2026-03-15",
	}
	assert.Empty(t, f.ValidateStep(StepFlights))

	// Legacy combo is all-or-nothing.
	d.Flight.ReturnDate = ""
	assert.Contains(t, f.ValidateStep(StepFlights), "itinerary")
}

func TestValidateFlightsPNRFormat(t *testing.T) {
	f := New()
	d := f.Active()
	d.Flight.Itinerary = "whatever"

	d.Flight.PNR = "AB12CD"
	assert.Empty(t, f.ValidateStep(StepFlights))

	d.Flight.PNR = "" // optional
	assert.Empty(t, f.ValidateStep(StepFlights))

	d.Flight.PNR = "AB-12!"
	assert.Contains(t, f.ValidateStep(StepFlights), "pnr")

	d.Flight.PNR = "TOOLONG7"
	assert.Contains(t, f.ValidateStep(StepFlights), "pnr")
}

func TestValidateHotelsEveryField(t *testing.T) {
	f := New()
	f.Active().Hotels = []bookingTypes.HotelStay{
		{Name: "Hilton", RoomType: "Twin", CheckIn: "2026-03-01", CheckOut: "2026-03-05"},
		{Name: "", RoomType: "Double"},
	}
	errs := f.ValidateStep(StepHotels)

	assert.Contains(t, errs, "hotels.1.name")
	assert.Contains(t, errs, "hotels.1.checkIn")
	assert.Contains(t, errs, "hotels.1.checkOut")
	assert.NotContains(t, errs, "hotels.0.name")
}

func TestValidateVisasHonorsDeclaredCount(t *testing.T) {
	f := New()
	d := f.Active()
	d.Visas = []bookingTypes.VisaEntry{
		{Name: "A", Nationality: "BD", VisaType: "Umrah"},
		{}, // incomplete, but beyond the declared count
	}
	d.VisasCount = 1

	assert.Empty(t, f.ValidateStep(StepVisa))

	d.VisasCount = 2
	errs := f.ValidateStep(StepVisa)
	assert.Contains(t, errs, "visas.1.name")
}

func TestValidateCostingRejectsNegatives(t *testing.T) {
	f := New()
	d := f.Active()
	d.Costing = CostingInput{
		PackageName: "Basic",
		Rows:        []RowInput{{Label: "X", Quantity: -1, SalePerQty: -5}},
	}
	errs := f.ValidateStep(StepCosting)

	assert.Contains(t, errs, "rows.0.quantity")
	assert.Contains(t, errs, "rows.0.salePerQty")
	assert.NotContains(t, errs, "rows.0.costPerQty")
}

func TestValidateAllJumpsToFailingDraft(t *testing.T) {
	f := filled()
	f.AddDraft() // blank second draft: flights step will fail
	f.ActiveDraft = 0
	f.Jump(StepContact)

	failure := f.ValidateAll()

	require.NotNil(t, failure)
	assert.Equal(t, 1, failure.Draft)
	assert.Equal(t, StepFlights, failure.Step)
	assert.Equal(t, 1, f.ActiveDraft)
	assert.Equal(t, StepFlights, f.CurrentStep())
}

func TestValidateAllCleanBatch(t *testing.T) {
	f := filled()
	assert.Nil(t, f.ValidateAll())
}

func TestRemoveDraft(t *testing.T) {
	f := filled()
	assert.False(t, f.RemoveDraft(0)) // last draft stays

	f.AddDraft()
	assert.Equal(t, 1, f.ActiveDraft)
	assert.True(t, f.RemoveDraft(1))
	assert.Equal(t, 0, f.ActiveDraft)
	assert.Len(t, f.Drafts, 1)
}

func TestBuildPayloadMirrorsLegacyFields(t *testing.T) {
	f := filled()
	user := &agentTypes.Current{ID: "u-9", Name: "Agent Nine", Role: "agent"}

	payload, err := f.BuildPayload(0, user)
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", payload["customerName"])
	assert.Equal(t, "Ann Lee", payload["name"])
	customer := payload["customer"].(map[string]any)
	assert.Equal(t, "ann@example.com", customer["email"])

	assert.Equal(t, "Gold Umrah", payload["packageName"])
	assert.Equal(t, "Gold Umrah", payload["package"])

	assert.Equal(t, "pending", payload["status"])
	assert.Equal(t, "pending", payload["approvalStatus"])

	assert.Equal(t, "u-9", payload["agent"])
	assert.Equal(t, "u-9", payload["agentId"])
	assert.Equal(t, "Agent Nine", payload["agentName"])

	assert.NotEmpty(t, payload["clientReference"])
}

func TestBuildPayloadTotals(t *testing.T) {
	f := filled()

	payload, err := f.BuildPayload(0, nil)
	require.NoError(t, err)

	// Rows: 2*150 + 1*500 = 800 sale, 2*100 + 1*400 = 600 cost.
	costing := payload["costing"].(map[string]any)
	totals := costing["totals"].(map[string]any)
	assert.Equal(t, 600.0, totals["totalCost"])
	assert.Equal(t, 800.0, totals["totalSale"])
	assert.Equal(t, 200.0, totals["profit"])
	assert.Equal(t, 800.0, payload["amount"])
	assert.Equal(t, 800.0, payload["totalAmount"])
}

func TestBuildPayloadManualAmountOverride(t *testing.T) {
	f := filled()
	f.Active().Costing.TotalAmount = 950

	payload, err := f.BuildPayload(0, nil)
	require.NoError(t, err)

	// The flat amount carries the override; structured totals keep the row sum.
	assert.Equal(t, 950.0, payload["amount"])
	assert.Equal(t, 950.0, payload["totalAmount"])
	totals := payload["pricing"].(map[string]any)["totals"].(map[string]any)
	assert.Equal(t, 800.0, totals["totalSale"])
}

func TestBuildPayloadSingletonMirrors(t *testing.T) {
	f := filled()
	d := f.Active()
	d.Hotels = []bookingTypes.HotelStay{{Name: "Hilton", RoomType: "Twin", CheckIn: "2026-03-01", CheckOut: "2026-03-05"}}
	d.Visas = []bookingTypes.VisaEntry{{Name: "Ann Lee", Nationality: "BD", VisaType: "Umrah"}}
	d.VisasCount = 1

	payload, err := f.BuildPayload(0, nil)
	require.NoError(t, err)

	hotel := payload["hotel"].(map[string]any)
	assert.Equal(t, "Hilton", hotel["name"])
	assert.Equal(t, "Hilton", hotel["hotelName"])
	visa := payload["visa"].(map[string]any)
	assert.Equal(t, "Ann Lee", visa["name"])
}

func TestBuildPayloadKeepsSeededReference(t *testing.T) {
	f := filled()
	f.Active().ClientReference = "ref-123"

	payload, err := f.BuildPayload(0, nil)
	require.NoError(t, err)
	assert.Equal(t, "ref-123", payload["clientReference"])
}

func TestBuildPayloadPreconditions(t *testing.T) {
	f := filled()
	f.Contact.Name = "  "

	_, err := f.BuildPayload(0, nil)
	var perr *PayloadError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "name", perr.Field)

	_, err = f.BuildPayload(5, nil)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "draft", perr.Field)
}

func TestBuildAllPayloadsAllOrNothing(t *testing.T) {
	f := filled()
	f.AddDraft() // invalid second draft

	payloads, failure, err := f.BuildAllPayloads(nil)
	require.NoError(t, err)
	require.NotNil(t, failure)
	assert.Nil(t, payloads)

	f.RemoveDraft(1)
	payloads, failure, err = f.BuildAllPayloads(nil)
	require.NoError(t, err)
	assert.Nil(t, failure)
	require.Len(t, payloads, 1)
}

func TestSeedRoundTrip(t *testing.T) {
	nb := bookingTypes.Normalized{
		Customer: bookingTypes.Customer{Name: "Ben", Email: "ben@x.y", Phone: "321"},
		Package:  "Silver",
		Flight:   bookingTypes.Flight{Itinerary: "DAC-JED", Class: "Economy", PNR: "XY99ZZ"},
		Hotels:   []bookingTypes.HotelStay{{Name: "Marriott"}},
		Visas:    []bookingTypes.VisaEntry{{Name: "Ben"}},
		CostingRows: []bookingTypes.CostingRow{
			{Label: "Package", Quantity: 1, CostPerQty: 700, SalePerQty: 900},
		},
	}
	f := Seed(nb)

	assert.Equal(t, "Ben", f.Contact.Name)
	assert.Equal(t, 1, f.Contact.Passengers)
	d := f.Active()
	assert.Equal(t, "Silver", d.Costing.PackageName)
	assert.Equal(t, 1, d.VisasCount)
	require.Len(t, d.Costing.Rows, 1)
	assert.Equal(t, 900.0, d.Costing.Rows[0].SalePerQty)
}
