package wizard

import (
	"fmt"
	"regexp"
	"strings"
)

var pnrPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// ValidateStep runs the validator for one step against the active draft.
// The result maps field names to messages; an empty map means the step is
// clean. Errors never block navigating elsewhere, only Next and submit.
func (f *FormState) ValidateStep(step Step) map[string]string {
	switch step {
	case StepContact:
		return f.validateContact()
	case StepCredit:
		return f.validateCredit()
	case StepFlights:
		return validateFlights(f.Active())
	case StepHotels:
		return validateHotels(f.Active())
	case StepVisa:
		return validateVisas(f.Active())
	case StepTransport:
		return validateTransport(f.Active())
	case StepCosting:
		return validateCosting(f.Active())
	default:
		return map[string]string{}
	}
}

func (f *FormState) validateContact() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Contact.Name) == "" {
		errs["name"] = "Customer name is required"
	}
	if strings.TrimSpace(f.Contact.Email) == "" {
		errs["email"] = "Email is required"
	}
	if strings.TrimSpace(f.Contact.Phone) == "" {
		errs["phone"] = "Contact number is required"
	}
	if f.Contact.Passengers < 1 {
		errs["passengers"] = "Passenger count is required"
	}
	return errs
}

func (f *FormState) validateCredit() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.Credit.CardholderName) == "" {
		errs["cardholderName"] = "Cardholder name is required"
	}
	return errs
}

func validateFlights(d *Draft) map[string]string {
	errs := map[string]string{}
	hasItinerary := strings.TrimSpace(d.Flight.Itinerary) != ""
	hasLegacy := strings.TrimSpace(d.Flight.DepartureCity) != "" &&
		strings.TrimSpace(d.Flight.ArrivalCity) != "" &&
		strings.TrimSpace(d.Flight.DepartureDate) != "" &&
		strings.TrimSpace(d.Flight.ReturnDate) != ""
	if !hasItinerary && !hasLegacy {
		errs["itinerary"] = "Provide an itinerary, or departure/arrival cities with both dates"
	}
	if pnr := strings.TrimSpace(d.Flight.PNR); pnr != "" && !pnrPattern.MatchString(pnr) {
		errs["pnr"] = "PNR must be exactly 6 letters or digits"
	}
	return errs
}

func validateHotels(d *Draft) map[string]string {
	errs := map[string]string{}
	for i, h := range d.Hotels {
		if strings.TrimSpace(h.Name) == "" {
			errs[fmt.Sprintf("hotels.%d.name", i)] = "Hotel name is required"
		}
		if strings.TrimSpace(h.RoomType) == "" {
			errs[fmt.Sprintf("hotels.%d.roomType", i)] = "Room type is required"
		}
		if strings.TrimSpace(h.CheckIn) == "" {
			errs[fmt.Sprintf("hotels.%d.checkIn", i)] = "Check-in date is required"
		}
		if strings.TrimSpace(h.CheckOut) == "" {
			errs[fmt.Sprintf("hotels.%d.checkOut", i)] = "Check-out date is required"
		}
	}
	return errs
}

// validateVisas checks entries up to the declared count only; rows the user
// added but then reduced the count below are ignored.
func validateVisas(d *Draft) map[string]string {
	errs := map[string]string{}
	for i, v := range d.Visas {
		if i >= d.VisasCount {
			break
		}
		if strings.TrimSpace(v.Name) == "" {
			errs[fmt.Sprintf("visas.%d.name", i)] = "Applicant name is required"
		}
		if strings.TrimSpace(v.Nationality) == "" {
			errs[fmt.Sprintf("visas.%d.nationality", i)] = "Nationality is required"
		}
		if strings.TrimSpace(v.VisaType) == "" {
			errs[fmt.Sprintf("visas.%d.visaType", i)] = "Visa type is required"
		}
	}
	return errs
}

func validateTransport(d *Draft) map[string]string {
	errs := map[string]string{}
	for i, l := range d.Legs {
		if i >= d.LegsCount {
			break
		}
		if strings.TrimSpace(l.From) == "" {
			errs[fmt.Sprintf("legs.%d.from", i)] = "Pickup location is required"
		}
		if strings.TrimSpace(l.To) == "" {
			errs[fmt.Sprintf("legs.%d.to", i)] = "Drop location is required"
		}
		if strings.TrimSpace(l.VehicleType) == "" {
			errs[fmt.Sprintf("legs.%d.vehicleType", i)] = "Vehicle type is required"
		}
		if strings.TrimSpace(l.Date) == "" {
			errs[fmt.Sprintf("legs.%d.date", i)] = "Date is required"
		}
	}
	return errs
}

func validateCosting(d *Draft) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Costing.PackageName) == "" {
		errs["packageName"] = "Package name is required"
	}
	for i, r := range d.Costing.Rows {
		if r.Quantity < 0 {
			errs[fmt.Sprintf("rows.%d.quantity", i)] = "Quantity cannot be negative"
		}
		if r.CostPerQty < 0 {
			errs[fmt.Sprintf("rows.%d.costPerQty", i)] = "Cost cannot be negative"
		}
		if r.SalePerQty < 0 {
			errs[fmt.Sprintf("rows.%d.salePerQty", i)] = "Sale price cannot be negative"
		}
	}
	return errs
}

// DraftFailure reports the first draft that failed batch validation.
type DraftFailure struct {
	Draft  int               `json:"draft"`
	Step   Step              `json:"step"`
	Errors map[string]string `json:"errors"`
}

// draftSteps are the steps validated once per draft; contact and credit are
// shared across the batch and checked a single time.
var draftSteps = []Step{StepFlights, StepHotels, StepVisa, StepTransport, StepCosting}

// ValidateAll validates the whole batch before submission. On the first
// failure the wizard jumps to the offending draft and step so the error can
// be surfaced in place. Only a nil result lets submission proceed: the batch
// is all-or-nothing, never partially created.
func (f *FormState) ValidateAll() *DraftFailure {
	for _, step := range []Step{StepContact, StepCredit} {
		if errs := f.ValidateStep(step); len(errs) > 0 {
			f.Jump(step)
			return &DraftFailure{Draft: f.ActiveDraft, Step: step, Errors: errs}
		}
	}
	for i := range f.Drafts {
		for _, step := range draftSteps {
			var errs map[string]string
			switch step {
			case StepFlights:
				errs = validateFlights(&f.Drafts[i])
			case StepHotels:
				errs = validateHotels(&f.Drafts[i])
			case StepVisa:
				errs = validateVisas(&f.Drafts[i])
			case StepTransport:
				errs = validateTransport(&f.Drafts[i])
			case StepCosting:
				errs = validateCosting(&f.Drafts[i])
			}
			if len(errs) > 0 {
				f.ActiveDraft = i
				f.Jump(step)
				return &DraftFailure{Draft: i, Step: step, Errors: errs}
			}
		}
	}
	return nil
}
