package booking

// Status is the booking lifecycle status as exposed by the upstream API.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ApprovalStatus is the back-office approval state of a booking.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Customer holds the traveler contact block. Fields are empty strings when
// the upstream record has no value, never null downstream.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Agent is the resolved agent attribution of a booking.
type Agent struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Dates carries the three booking dates as ISO strings, '' when unknown.
// Booking is the creation date and is what the report buckets key on.
type Dates struct {
	Booking   string `json:"booking"`
	Departure string `json:"departure"`
	Return    string `json:"return"`
}

// Flight is the flight block of a booking.
type Flight struct {
	Route     string `json:"route"`
	Class     string `json:"class"`
	PNR       string `json:"pnr"`
	Itinerary string `json:"itinerary"`
}

// HotelStay is one hotel entry of a booking.
type HotelStay struct {
	Name     string `json:"name"`
	RoomType string `json:"roomType"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// VisaEntry is one visa application attached to a booking.
type VisaEntry struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	VisaType    string `json:"visaType"`
}

// TransportLeg is one ground-transport segment.
type TransportLeg struct {
	From        string `json:"from"`
	To          string `json:"to"`
	VehicleType string `json:"vehicleType"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// CostingRow is one line item of the pricing breakdown. TotalCost, TotalSale
// and Profit are always recomputed from quantity and unit prices; stored
// totals coming from the upstream record are never trusted.
type CostingRow struct {
	Label      string  `json:"label"`
	Quantity   float64 `json:"quantity"`
	CostPerQty float64 `json:"costPerQty"`
	SalePerQty float64 `json:"salePerQty"`
	TotalCost  float64 `json:"totalCost"`
	TotalSale  float64 `json:"totalSale"`
	Profit     float64 `json:"profit"`
}

// Totals is the financial summary of a booking. Profit = TotalSale - TotalCost
// holds by construction.
type Totals struct {
	TotalCost float64 `json:"totalCost"`
	TotalSale float64 `json:"totalSale"`
	Profit    float64 `json:"profit"`
}

// Normalized is the single canonical booking shape reconciled from whatever
// historical schema the upstream API returns. Every slice field is non-nil,
// every money field finite.
type Normalized struct {
	ID             string         `json:"id"`
	Customer       Customer       `json:"customer"`
	Agent          Agent          `json:"agent"`
	Package        string         `json:"package"`
	Status         Status         `json:"status"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
	Dates          Dates          `json:"dates"`
	Flight         Flight         `json:"flight"`
	Hotels         []HotelStay    `json:"hotels"`
	Visas          []VisaEntry    `json:"visas"`
	TransportLegs  []TransportLeg `json:"transportLegs"`
	CostingRows    []CostingRow   `json:"costingRows"`
	Totals         Totals         `json:"totals"`
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen returns true if the booking still counts toward active work.
func (s Status) IsOpen() bool {
	return s != StatusCancelled
}

func (a ApprovalStatus) String() string {
	return string(a)
}

func (a ApprovalStatus) IsValid() bool {
	switch a {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}
