package booking

import (
	"sort"

	"skywings-cli/model"
)

// Partition splits bookings into active (confirmed) and past (completed or
// cancelled). Pending bookings are in neither.
func Partition(bookings []model.Booking) (active, past []model.Booking) {
	active = []model.Booking{}
	past = []model.Booking{}
	for _, b := range bookings {
		switch b.EffectiveStatus() {
		case model.BookingConfirmed:
			active = append(active, b)
		case model.BookingCompleted, model.BookingCancelled:
			past = append(past, b)
		}
	}
	return active, past
}

type Summary struct {
	Total     int
	Confirmed int
	Completed int
	Cancelled int
	Pending   int
	// Spent excludes cancelled bookings.
	Spent float64
}

func Summarize(bookings []model.Booking) Summary {
	var s Summary
	for _, b := range bookings {
		s.Total++
		switch b.EffectiveStatus() {
		case model.BookingConfirmed:
			s.Confirmed++
		case model.BookingCompleted:
			s.Completed++
		case model.BookingCancelled:
			s.Cancelled++
			continue
		case model.BookingPending:
			s.Pending++
		}
		s.Spent += b.TotalPrice
	}
	return s
}

// SortRecent orders bookings newest first by booking time.
func SortRecent(bookings []model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].BookedAt().After(bookings[j].BookedAt().Time)
	})
}
