package wizard

import (
	bookingTypes "tripdesk/types/booking"
)

// Index-addressed list editing per draft. Every mutator bounds-checks and
// reports whether it applied, mirroring how the form rows behave.

func (d *Draft) AddHotel(h bookingTypes.HotelStay) {
	d.Hotels = append(d.Hotels, h)
}

func (d *Draft) SetHotel(i int, h bookingTypes.HotelStay) bool {
	if i < 0 || i >= len(d.Hotels) {
		return false
	}
	d.Hotels[i] = h
	return true
}

func (d *Draft) RemoveHotel(i int) bool {
	if i < 0 || i >= len(d.Hotels) {
		return false
	}
	d.Hotels = append(d.Hotels[:i], d.Hotels[i+1:]...)
	return true
}

func (d *Draft) AddVisa(v bookingTypes.VisaEntry) {
	d.Visas = append(d.Visas, v)
	if d.VisasCount < len(d.Visas) {
		d.VisasCount = len(d.Visas)
	}
}

func (d *Draft) SetVisa(i int, v bookingTypes.VisaEntry) bool {
	if i < 0 || i >= len(d.Visas) {
		return false
	}
	d.Visas[i] = v
	return true
}

func (d *Draft) RemoveVisa(i int) bool {
	if i < 0 || i >= len(d.Visas) {
		return false
	}
	d.Visas = append(d.Visas[:i], d.Visas[i+1:]...)
	if d.VisasCount > len(d.Visas) {
		d.VisasCount = len(d.Visas)
	}
	return true
}

func (d *Draft) AddLeg(l bookingTypes.TransportLeg) {
	d.Legs = append(d.Legs, l)
	if d.LegsCount < len(d.Legs) {
		d.LegsCount = len(d.Legs)
	}
}

func (d *Draft) SetLeg(i int, l bookingTypes.TransportLeg) bool {
	if i < 0 || i >= len(d.Legs) {
		return false
	}
	d.Legs[i] = l
	return true
}

func (d *Draft) RemoveLeg(i int) bool {
	if i < 0 || i >= len(d.Legs) {
		return false
	}
	d.Legs = append(d.Legs[:i], d.Legs[i+1:]...)
	if d.LegsCount > len(d.Legs) {
		d.LegsCount = len(d.Legs)
	}
	return true
}

func (d *Draft) AddRow(r RowInput) {
	d.Costing.Rows = append(d.Costing.Rows, r)
}

func (d *Draft) SetRow(i int, r RowInput) bool {
	if i < 0 || i >= len(d.Costing.Rows) {
		return false
	}
	d.Costing.Rows[i] = r
	return true
}

func (d *Draft) RemoveRow(i int) bool {
	if i < 0 || i >= len(d.Costing.Rows) {
		return false
	}
	d.Costing.Rows = append(d.Costing.Rows[:i], d.Costing.Rows[i+1:]...)
	return true
}
