package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"tripdesk/services/resolver"
	agentTypes "tripdesk/types/agent"
	bookingTypes "tripdesk/types/booking"
)

// resolution is the compatibility matrix between historical upstream schemas
// and the canonical booking shape. Each canonical field lists its accepted
// source paths in priority order; the first non-empty value wins. New legacy
// aliases go here, not into ad hoc fallback chains at call sites.
var resolution = map[string][]string{
	"id":               {"_id", "id"},
	"customer.name":    {"customerName", "customer.name", "name", "clientName"},
	"customer.email":   {"customerEmail", "customer.email", "email"},
	"customer.phone":   {"customerPhone", "customer.phone", "phone", "contactNo"},
	"package":          {"packageName", "package", "pricing.packageName", "costing.packageName"},
	"status":           {"status", "bookingStatus"},
	"approvalStatus":   {"approvalStatus", "approval_status"},
	"dates.booking":    {"createdAt", "created_at", "bookingDate", "dates.booking", "date"},
	"dates.departure":  {"departureDate", "travelDates.departure", "dates.departure", "flight.departureDate"},
	"dates.return":     {"returnDate", "travelDates.return", "dates.return", "flight.returnDate"},
	"flight.route":     {"flight.route", "route"},
	"flight.class":     {"flight.class", "travelClass", "class"},
	"flight.pnr":       {"flight.pnr", "pnr"},
	"flight.itinerary": {"flight.itinerary", "itinerary", "itineraryText"},
	"agent.name":       {"agentName", "agent.name"},
}

// Normalize reconciles one raw upstream booking record into the canonical
// shape. It is a total function: malformed or missing fields degrade to empty
// strings, empty slices or zero, never to an error. The agent roster and the
// current user feed the agent name resolution; both may be nil.
func Normalize(raw map[string]any, roster []agentTypes.Agent, current *agentTypes.Current) bookingTypes.Normalized {
	nb := bookingTypes.Normalized{
		ID: str(raw, "id"),
		Customer: bookingTypes.Customer{
			Name:  str(raw, "customer.name"),
			Email: str(raw, "customer.email"),
			Phone: str(raw, "customer.phone"),
		},
		Package:        str(raw, "package"),
		Status:         normalizeStatus(str(raw, "status")),
		ApprovalStatus: normalizeApproval(str(raw, "approvalStatus")),
		Dates: bookingTypes.Dates{
			Booking:   CleanDate(str(raw, "dates.booking")),
			Departure: CleanDate(str(raw, "dates.departure")),
			Return:    CleanDate(str(raw, "dates.return")),
		},
		Flight: bookingTypes.Flight{
			Route:     flightRoute(raw),
			Class:     str(raw, "flight.class"),
			PNR:       CleanPNR(str(raw, "flight.pnr")),
			Itinerary: str(raw, "flight.itinerary"),
		},
		Hotels:        hotelStays(raw),
		Visas:         visaEntries(raw),
		TransportLegs: transportLegs(raw),
		CostingRows:   costingRows(raw),
	}

	agentRef, _ := lookup(raw, "agent")
	if agentRef == nil {
		agentRef, _ = lookup(raw, "agentId")
	}
	nb.Agent = bookingTypes.Agent{
		ID:   resolver.CandidateID(agentRef),
		Name: resolver.ResolveName(agentRef, roster, str(raw, "agent.name"), current),
	}

	nb.Totals = totals(raw, nb.CostingRows)
	return nb
}

// NormalizeAll maps a fetched list, skipping entries that are not objects.
func NormalizeAll(raws []any, roster []agentTypes.Agent, current *agentTypes.Current) []bookingTypes.Normalized {
	out := make([]bookingTypes.Normalized, 0, len(raws))
	for _, r := range raws {
		if m, ok := r.(map[string]any); ok {
			out = append(out, Normalize(m, roster, current))
		}
	}
	return out
}

// str resolves a canonical field through the resolution table.
func str(raw map[string]any, field string) string {
	for _, path := range resolution[field] {
		if v, ok := lookup(raw, path); ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func flightRoute(raw map[string]any) string {
	if r := str(raw, "flight.route"); r != "" {
		return r
	}
	// Legacy records carry the route as a separate city pair.
	from := firstString(raw, "departureCity", "flight.departureCity")
	to := firstString(raw, "arrivalCity", "flight.arrivalCity")
	if from != "" && to != "" {
		return from + " - " + to
	}
	return ""
}

func hotelStays(raw map[string]any) []bookingTypes.HotelStay {
	stays := make([]bookingTypes.HotelStay, 0)
	for _, item := range listOrSingleton(raw, "hotels", "hotel") {
		stay := bookingTypes.HotelStay{
			Name:     firstString(item, "name", "hotelName"),
			RoomType: firstString(item, "roomType", "room_type", "room"),
			CheckIn:  CleanDate(firstString(item, "checkIn", "checkInDate")),
			CheckOut: CleanDate(firstString(item, "checkOut", "checkOutDate")),
		}
		if stay != (bookingTypes.HotelStay{}) {
			stays = append(stays, stay)
		}
	}
	return stays
}

func visaEntries(raw map[string]any) []bookingTypes.VisaEntry {
	entries := make([]bookingTypes.VisaEntry, 0)
	for _, item := range listOrSingleton(raw, "visas", "visa") {
		entry := bookingTypes.VisaEntry{
			Name:        firstString(item, "name", "visaName", "applicantName"),
			Nationality: firstString(item, "nationality"),
			VisaType:    firstString(item, "visaType", "type"),
		}
		if entry != (bookingTypes.VisaEntry{}) {
			entries = append(entries, entry)
		}
	}
	return entries
}

func transportLegs(raw map[string]any) []bookingTypes.TransportLeg {
	legs := make([]bookingTypes.TransportLeg, 0)
	items := listAt(raw, "transport.legs")
	if len(items) == 0 {
		items = listAt(raw, "transportLegs")
	}
	if len(items) == 0 {
		// Oldest schema: transport itself is a single leg object.
		if t := mapAt(raw, "transport"); t != nil {
			items = []map[string]any{t}
		}
	}
	for _, item := range items {
		leg := bookingTypes.TransportLeg{
			From:        firstString(item, "from", "pickup", "pickupLocation"),
			To:          firstString(item, "to", "drop", "dropLocation"),
			VehicleType: firstString(item, "vehicleType", "vehicle"),
			Date:        CleanDate(firstString(item, "date")),
			Time:        firstString(item, "time"),
		}
		if leg != (bookingTypes.TransportLeg{}) {
			legs = append(legs, leg)
		}
	}
	return legs
}

func costingRows(raw map[string]any) []bookingTypes.CostingRow {
	rows := make([]bookingTypes.CostingRow, 0)
	items := listAt(raw, "costing.rows")
	if len(items) == 0 {
		items = listAt(raw, "pricing.rows")
	}
	if len(items) == 0 {
		items = listAt(raw, "costingRows")
	}
	for _, item := range items {
		row := bookingTypes.CostingRow{
			Label:      firstString(item, "item", "label", "service"),
			Quantity:   firstNumber(item, "quantity", "qty"),
			CostPerQty: firstNumber(item, "costPerQty", "unitCost", "cost"),
			SalePerQty: firstNumber(item, "salePerQty", "unitSale", "sale"),
		}
		// Stored totals are only a hint; recompute so stale aggregates in the
		// upstream record can never leak through.
		row.TotalCost = row.Quantity * row.CostPerQty
		row.TotalSale = row.Quantity * row.SalePerQty
		row.Profit = row.TotalSale - row.TotalCost
		rows = append(rows, row)
	}
	return rows
}

func totals(raw map[string]any, rows []bookingTypes.CostingRow) bookingTypes.Totals {
	t := bookingTypes.Totals{}
	if len(rows) > 0 {
		for _, row := range rows {
			t.TotalCost += row.TotalCost
			t.TotalSale += row.TotalSale
		}
		t.Profit = t.TotalSale - t.TotalCost
		return t
	}
	t.TotalCost = firstNumber(raw, "costing.totals.totalCost", "pricing.totals.totalCost")
	t.TotalSale = firstNumber(raw, "costing.totals.totalSale", "pricing.totals.totalSale",
		"amount", "totalAmount")
	t.Profit = t.TotalSale - t.TotalCost
	return t
}

func normalizeStatus(s string) bookingTypes.Status {
	st := bookingTypes.Status(strings.ToLower(strings.TrimSpace(s)))
	if st.IsValid() {
		return st
	}
	return bookingTypes.StatusPending
}

func normalizeApproval(s string) bookingTypes.ApprovalStatus {
	ap := bookingTypes.ApprovalStatus(strings.ToLower(strings.TrimSpace(s)))
	if ap.IsValid() {
		return ap
	}
	return bookingTypes.ApprovalPending
}

// CleanPNR upper-cases a record locator and strips all whitespace.
func CleanPNR(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"Jan 2, 2006",
}

// CleanDate reduces whatever date representation the upstream stored to an
// ISO yyyy-mm-dd string. Unparseable input degrades to '' rather than
// propagating an invalid date into display or bucketing.
func CleanDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	candidates := []string{s}
	if len(s) > 10 {
		candidates = append(candidates, s[:10])
	}
	for _, c := range candidates {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}
	return ""
}

// coerceString renders scalars as trimmed strings; objects and lists are not
// representable as field values and come back empty.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// coerceNumber folds anything numeric-looking into a finite float64; NaN,
// infinities and garbage all collapse to 0.
func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, true
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// lookup walks a dot-separated path through nested objects.
func lookup(raw map[string]any, path string) (any, bool) {
	cur := any(raw)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func firstString(raw map[string]any, paths ...string) string {
	for _, path := range paths {
		if v, ok := lookup(raw, path); ok {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(raw map[string]any, paths ...string) float64 {
	for _, path := range paths {
		if v, ok := lookup(raw, path); ok {
			if f, ok := coerceNumber(v); ok {
				return f
			}
		}
	}
	return 0
}

func listAt(raw map[string]any, path string) []map[string]any {
	v, ok := lookup(raw, path)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func mapAt(raw map[string]any, path string) map[string]any {
	v, ok := lookup(raw, path)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// listOrSingleton reads the array field first; a legacy single object field
// is wrapped into a one-element list only when the array is empty or absent.
func listOrSingleton(raw map[string]any, listPath, singlePath string) []map[string]any {
	if items := listAt(raw, listPath); len(items) > 0 {
		return items
	}
	if m := mapAt(raw, singlePath); len(m) > 0 {
		return []map[string]any{m}
	}
	return nil
}
