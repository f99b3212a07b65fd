package wizard

import (
	bookingTypes "tripdesk/types/booking"
)

// Step is one page of the booking wizard.
type Step string

const (
	StepContact   Step = "contact"
	StepCredit    Step = "credit"
	StepFlights   Step = "flights"
	StepHotels    Step = "hotels"
	StepVisa      Step = "visa"
	StepTransport Step = "transport"
	StepCosting   Step = "costing"
)

// StepOrder is the fixed linear order of the wizard.
var StepOrder = []Step{
	StepContact,
	StepCredit,
	StepFlights,
	StepHotels,
	StepVisa,
	StepTransport,
	StepCosting,
}

// ContactInfo is the shared contact block of all drafts in the batch.
type ContactInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Passengers int    `json:"passengers"`
}

// CreditInfo is the shared payment block. Only the cardholder name is ever
// validated; the full PAN is never required server-side.
type CreditInfo struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	Expiry         string `json:"expiry"`
}

// FlightInfo accepts either a free-text itinerary or the legacy city/date
// combination.
type FlightInfo struct {
	Itinerary     string `json:"itinerary"`
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
	Class         string `json:"class"`
	PNR           string `json:"pnr"`
}

// RowInput is one user-entered costing line. Totals are derived at payload
// time, never entered.
type RowInput struct {
	Label      string  `json:"label"`
	Quantity   float64 `json:"quantity"`
	CostPerQty float64 `json:"costPerQty"`
	SalePerQty float64 `json:"salePerQty"`
}

// CostingInput is the pricing step. TotalAmount is an optional manual
// override of the flat amount the legacy readers see.
type CostingInput struct {
	PackageName string     `json:"packageName"`
	Rows        []RowInput `json:"rows"`
	TotalAmount float64    `json:"totalAmount"`
}

// Draft is one in-progress booking of the batch. List fields are owned by
// the draft; drafts never share slice backing.
type Draft struct {
	ClientReference string                      `json:"clientReference"`
	Flight          FlightInfo                  `json:"flight"`
	Hotels          []bookingTypes.HotelStay    `json:"hotels"`
	Visas           []bookingTypes.VisaEntry    `json:"visas"`
	VisasCount      int                         `json:"visasCount"`
	Legs            []bookingTypes.TransportLeg `json:"legs"`
	LegsCount       int                         `json:"legsCount"`
	Costing         CostingInput                `json:"costing"`
}

// FormState is the whole wizard: shared contact/credit blocks plus one or
// more drafts. It is a plain mutable in-memory value, created empty or seeded
// from a fetched booking and discarded after submission.
type FormState struct {
	Contact ContactInfo `json:"contact"`
	Credit  CreditInfo  `json:"credit"`
	Drafts  []Draft     `json:"drafts"`

	StepIndex   int `json:"stepIndex"`
	ActiveDraft int `json:"activeDraft"`
}

// New returns an empty wizard holding a single blank draft.
func New() *FormState {
	return &FormState{Drafts: []Draft{{}}}
}

// Seed pre-fills a wizard from an already normalized booking, for editing.
func Seed(nb bookingTypes.Normalized) *FormState {
	f := &FormState{
		Contact: ContactInfo{
			Name:       nb.Customer.Name,
			Email:      nb.Customer.Email,
			Phone:      nb.Customer.Phone,
			Passengers: 1,
		},
	}
	draft := Draft{
		Flight: FlightInfo{
			Itinerary:     nb.Flight.Itinerary,
			Class:         nb.Flight.Class,
			PNR:           nb.Flight.PNR,
			DepartureDate: nb.Dates.Departure,
			ReturnDate:    nb.Dates.Return,
		},
		Hotels:     append([]bookingTypes.HotelStay{}, nb.Hotels...),
		Visas:      append([]bookingTypes.VisaEntry{}, nb.Visas...),
		VisasCount: len(nb.Visas),
		Legs:       append([]bookingTypes.TransportLeg{}, nb.TransportLegs...),
		LegsCount:  len(nb.TransportLegs),
		Costing:    CostingInput{PackageName: nb.Package},
	}
	for _, row := range nb.CostingRows {
		draft.Costing.Rows = append(draft.Costing.Rows, RowInput{
			Label:      row.Label,
			Quantity:   row.Quantity,
			CostPerQty: row.CostPerQty,
			SalePerQty: row.SalePerQty,
		})
	}
	f.Drafts = []Draft{draft}
	return f
}

// CurrentStep returns the step the wizard is showing.
func (f *FormState) CurrentStep() Step {
	if f.StepIndex < 0 || f.StepIndex >= len(StepOrder) {
		return StepContact
	}
	return StepOrder[f.StepIndex]
}

// Next advances to the following step only when the current step validates
// clean. The returned error map is empty on success.
func (f *FormState) Next() map[string]string {
	errs := f.ValidateStep(f.CurrentStep())
	if len(errs) > 0 {
		return errs
	}
	if f.StepIndex < len(StepOrder)-1 {
		f.StepIndex++
	}
	return map[string]string{}
}

// Previous always succeeds; going back never re-validates.
func (f *FormState) Previous() {
	if f.StepIndex > 0 {
		f.StepIndex--
	}
}

// Jump moves directly to a step, bypassing validation. This is the
// step-indicator click: free navigation back to fix earlier mistakes.
func (f *FormState) Jump(step Step) bool {
	for i, s := range StepOrder {
		if s == step {
			f.StepIndex = i
			return true
		}
	}
	return false
}

// Active returns the draft the wizard is editing.
func (f *FormState) Active() *Draft {
	if len(f.Drafts) == 0 {
		f.Drafts = []Draft{{}}
	}
	if f.ActiveDraft < 0 || f.ActiveDraft >= len(f.Drafts) {
		f.ActiveDraft = 0
	}
	return &f.Drafts[f.ActiveDraft]
}

// AddDraft appends a blank draft sharing the batch contact/credit blocks and
// switches to it.
func (f *FormState) AddDraft() {
	f.Drafts = append(f.Drafts, Draft{})
	f.ActiveDraft = len(f.Drafts) - 1
}

// RemoveDraft deletes a draft by index; the last remaining draft cannot be
// removed.
func (f *FormState) RemoveDraft(i int) bool {
	if len(f.Drafts) <= 1 || i < 0 || i >= len(f.Drafts) {
		return false
	}
	f.Drafts = append(f.Drafts[:i], f.Drafts[i+1:]...)
	if f.ActiveDraft >= len(f.Drafts) {
		f.ActiveDraft = len(f.Drafts) - 1
	}
	return true
}
