// Package catalog holds the fixed set of bookable time slots and the
// availability calculation over it.
package catalog

import (
	"fmt"

	"slot-booking-api/internal/model"
)

// Clock is a time of day in minutes since midnight.
type Clock int

func At(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// String renders the clock the way slots are shown and stored, e.g. "02:00 PM".
func (c Clock) String() string {
	h, suffix := c.Hour(), "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, c.Minute(), suffix)
}

type entry struct {
	id    string
	clock Clock
}

// order here is the order availability is reported in
var entries = [...]entry{
	{"1", At(8, 0)},
	{"2", At(10, 0)},
	{"3", At(11, 0)},
	{"4", At(14, 0)},
	{"5", At(15, 0)},
	{"6", At(16, 0)},
	{"7", At(17, 0)},
}

// Slots returns a fresh copy of the catalog in catalog order.
func Slots() []model.Slot {
	out := make([]model.Slot, len(entries))
	for i, e := range entries {
		out[i] = model.Slot{ID: e.id, Time: e.clock.String()}
	}
	return out
}

// Available returns the catalog slots whose display string does not appear
// in booked. Matching is exact string equality; booked may contain
// duplicates or values that are not in the catalog.
func Available(booked []string) []model.Slot {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	out := make([]model.Slot, 0, len(entries))
	for _, s := range Slots() {
		if _, ok := taken[s.Time]; ok {
			continue
		}
		out = append(out, s)
	}
	return out
}
