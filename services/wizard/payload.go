package wizard

import (
	"strings"

	"github.com/google/uuid"

	agentTypes "tripdesk/types/agent"
)

// PayloadError is the structured precondition failure raised at submit time.
// The per-step validators should have caught these already; this is the last
// line of defense before the request leaves the process.
type PayloadError struct {
	Field   string
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

// BuildPayload expands one draft plus the shared blocks into the redundant
// wire shape the upstream accepts. Every canonical field is mirrored into
// each legacy alias so consumers reading either schema generation find their
// expected keys.
//
// The flat amount honors a manual totalAmount override; the structured
// pricing.totals always carry the recomputed row sum. The two can disagree,
// and that is the contract: legacy readers see the agent's override, the
// structured totals stay internally consistent.
func (f *FormState) BuildPayload(draftIndex int, user *agentTypes.Current) (map[string]any, error) {
	if draftIndex < 0 || draftIndex >= len(f.Drafts) {
		return nil, &PayloadError{Field: "draft", Message: "No such draft"}
	}
	d := f.Drafts[draftIndex]

	if strings.TrimSpace(f.Contact.Name) == "" {
		return nil, &PayloadError{Field: "name", Message: "Customer name is required"}
	}
	if strings.TrimSpace(f.Contact.Email) == "" {
		return nil, &PayloadError{Field: "email", Message: "Customer email is required"}
	}
	if strings.TrimSpace(d.Costing.PackageName) == "" {
		return nil, &PayloadError{Field: "packageName", Message: "Package name is required"}
	}

	rows := make([]map[string]any, 0, len(d.Costing.Rows))
	var totalCost, totalSale float64
	for _, r := range d.Costing.Rows {
		rowCost := r.Quantity * r.CostPerQty
		rowSale := r.Quantity * r.SalePerQty
		totalCost += rowCost
		totalSale += rowSale
		rows = append(rows, map[string]any{
			"item":       r.Label,
			"label":      r.Label,
			"quantity":   r.Quantity,
			"costPerQty": r.CostPerQty,
			"salePerQty": r.SalePerQty,
			"totalCost":  rowCost,
			"totalSale":  rowSale,
			"profit":     rowSale - rowCost,
		})
	}

	amount := totalSale
	if d.Costing.TotalAmount > 0 {
		amount = d.Costing.TotalAmount
	}
	totals := map[string]any{
		"totalCost": totalCost,
		"totalSale": totalSale,
		"profit":    totalSale - totalCost,
	}

	hotels := make([]map[string]any, 0, len(d.Hotels))
	for _, h := range d.Hotels {
		hotels = append(hotels, map[string]any{
			"name":      h.Name,
			"hotelName": h.Name,
			"roomType":  h.RoomType,
			"checkIn":   h.CheckIn,
			"checkOut":  h.CheckOut,
		})
	}

	visaCount := len(d.Visas)
	if d.VisasCount >= 0 && d.VisasCount < visaCount {
		visaCount = d.VisasCount
	}
	visas := make([]map[string]any, 0, visaCount)
	for _, v := range d.Visas[:visaCount] {
		visas = append(visas, map[string]any{
			"name":        v.Name,
			"nationality": v.Nationality,
			"visaType":    v.VisaType,
		})
	}

	legCount := len(d.Legs)
	if d.LegsCount >= 0 && d.LegsCount < legCount {
		legCount = d.LegsCount
	}
	legs := make([]map[string]any, 0, legCount)
	for _, l := range d.Legs[:legCount] {
		legs = append(legs, map[string]any{
			"from":        l.From,
			"to":          l.To,
			"vehicleType": l.VehicleType,
			"date":        l.Date,
			"time":        l.Time,
		})
	}

	pnr := strings.ToUpper(strings.Join(strings.Fields(d.Flight.PNR), ""))
	route := strings.TrimSpace(d.Flight.DepartureCity)
	if route != "" && strings.TrimSpace(d.Flight.ArrivalCity) != "" {
		route += " - " + strings.TrimSpace(d.Flight.ArrivalCity)
	}

	// The upstream dedupes resubmitted batches by client reference.
	reference := d.ClientReference
	if reference == "" {
		reference = uuid.NewString()
	}

	payload := map[string]any{
		"clientReference": reference,

		"customerName":  f.Contact.Name,
		"name":          f.Contact.Name,
		"customerEmail": f.Contact.Email,
		"email":         f.Contact.Email,
		"customerPhone": f.Contact.Phone,
		"phone":         f.Contact.Phone,
		"passengers":    f.Contact.Passengers,
		"customer": map[string]any{
			"name":  f.Contact.Name,
			"email": f.Contact.Email,
			"phone": f.Contact.Phone,
		},

		"cardholderName": f.Credit.CardholderName,
		"cardNumber":     f.Credit.CardNumber,
		"cardExpiry":     f.Credit.Expiry,

		"packageName": d.Costing.PackageName,
		"package":     d.Costing.PackageName,

		"flight": map[string]any{
			"route":         route,
			"class":         d.Flight.Class,
			"pnr":           pnr,
			"itinerary":     d.Flight.Itinerary,
			"departureCity": d.Flight.DepartureCity,
			"arrivalCity":   d.Flight.ArrivalCity,
			"departureDate": d.Flight.DepartureDate,
			"returnDate":    d.Flight.ReturnDate,
		},
		"itinerary":     d.Flight.Itinerary,
		"pnr":           pnr,
		"departureCity": d.Flight.DepartureCity,
		"arrivalCity":   d.Flight.ArrivalCity,
		"departureDate": d.Flight.DepartureDate,
		"returnDate":    d.Flight.ReturnDate,

		"hotels":        hotels,
		"visas":         visas,
		"transport":     map[string]any{"legs": legs},
		"transportLegs": legs,

		"costing": map[string]any{
			"packageName": d.Costing.PackageName,
			"rows":        rows,
			"totals":      totals,
		},
		"pricing": map[string]any{
			"packageName": d.Costing.PackageName,
			"rows":        rows,
			"totals":      totals,
		},
		"amount":      amount,
		"totalAmount": amount,

		"status":         "pending",
		"approvalStatus": "pending",
	}

	// Old readers expect the first hotel/visa as a singleton field too.
	if len(hotels) > 0 {
		payload["hotel"] = hotels[0]
	}
	if len(visas) > 0 {
		payload["visa"] = visas[0]
	}

	if user != nil && user.ID != "" {
		payload["agent"] = user.ID
		payload["agentId"] = user.ID
		payload["agentName"] = user.Name
	}

	return payload, nil
}

// BuildAllPayloads validates the batch and expands every draft. Either all
// drafts convert or none do.
func (f *FormState) BuildAllPayloads(user *agentTypes.Current) ([]map[string]any, *DraftFailure, error) {
	if failure := f.ValidateAll(); failure != nil {
		return nil, failure, nil
	}
	payloads := make([]map[string]any, 0, len(f.Drafts))
	for i := range f.Drafts {
		p, err := f.BuildPayload(i, user)
		if err != nil {
			return nil, nil, err
		}
		payloads = append(payloads, p)
	}
	return payloads, nil, nil
}
