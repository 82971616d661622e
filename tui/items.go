package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/store"
)

type flightItem struct {
	flight model.FlightSearchResult
}

func (f flightItem) Title() string {
	return fmt.Sprintf("%s  %s → %s", f.flight.FlightNumber, f.flight.Origin, f.flight.Destination)
}

func (f flightItem) Description() string {
	fare, class := f.flight.CheapestFare()
	parts := []string{
		fmt.Sprintf("%s – %s", format.Time(f.flight.DepartureTime.Time), format.Time(f.flight.ArrivalTime.Time)),
		format.Duration(f.flight.DepartureTime.Time, f.flight.ArrivalTime.Time),
		fmt.Sprintf("from %s (%s)", format.Money(fare), class),
	}
	if p, ok := f.flight.Pricing[class]; ok && p.SeatsAvailable > 0 {
		parts = append(parts, fmt.Sprintf("%d seats left", p.SeatsAvailable))
	}
	return strings.Join(parts, " • ")
}

func (f flightItem) FilterValue() string {
	return strings.Join([]string{f.flight.FlightNumber, f.flight.Origin, f.flight.Destination}, " ")
}

func buildFlightItems(flights []model.FlightSearchResult) []list.Item {
	items := make([]list.Item, 0, len(flights))
	for _, f := range flights {
		items = append(items, flightItem{flight: f})
	}
	return items
}

type classItem struct {
	class string
	price model.ClassPrice
	base  float64
}

func (c classItem) Title() string { return c.class }

func (c classItem) Description() string {
	amount := c.price.Amount()
	if amount == 0 {
		amount = c.base
	}
	if c.price.SeatsAvailable > 0 {
		return fmt.Sprintf("%s • %d seats available", format.Money(amount), c.price.SeatsAvailable)
	}
	return format.Money(amount)
}

func (c classItem) FilterValue() string { return c.class }

func buildClassItems(flight model.FlightSearchResult) []list.Item {
	classes := flight.Classes()
	if len(classes) == 0 {
		return []list.Item{classItem{class: model.ClassEconomy, base: flight.BaseEconomyPrice}}
	}
	items := make([]list.Item, 0, len(classes))
	for _, class := range classes {
		items = append(items, classItem{class: class, price: flight.Pricing[class], base: flight.BaseEconomyPrice})
	}
	return items
}

type bookingItem struct {
	booking model.Booking
}

func (b bookingItem) Title() string {
	route := ""
	if !b.booking.Origin.IsZero() || !b.booking.Destination.IsZero() {
		route = fmt.Sprintf("  %s → %s", b.booking.Origin, b.booking.Destination)
	}
	return b.booking.PNR + route
}

func (b bookingItem) Description() string {
	parts := []string{format.Status(string(b.booking.EffectiveStatus()))}
	if b.booking.FlightNumber != "" {
		parts = append(parts, "Flight "+b.booking.FlightNumber)
	}
	if b.booking.SeatNumber != "" {
		parts = append(parts, "Seat "+b.booking.SeatNumber)
	}
	if !b.booking.DepartureTime.IsZero() {
		parts = append(parts, format.DateTime(b.booking.DepartureTime.Time))
	} else if booked := b.booking.BookedAt(); !booked.IsZero() {
		parts = append(parts, "Booked "+format.DateTime(booked.Time))
	}
	parts = append(parts, format.Money(b.booking.TotalPrice))
	return strings.Join(parts, " • ")
}

func (b bookingItem) FilterValue() string {
	return strings.Join([]string{b.booking.PNR, b.booking.FlightNumber, b.booking.PassengerName, b.booking.Origin.String(), b.booking.Destination.String()}, " ")
}

func buildBookingItems(bookings []model.Booking) []list.Item {
	items := make([]list.Item, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingItem{booking: b})
	}
	return items
}

type tripItem struct {
	trip  store.RecentSearch
	label func(string) string
}

func (t tripItem) Title() string {
	return fmt.Sprintf("%s → %s", t.label(t.trip.Origin), t.label(t.trip.Destination))
}

func (t tripItem) Description() string {
	passengers := t.trip.Passengers
	if passengers <= 0 {
		passengers = 1
	}
	noun := "passenger"
	if passengers > 1 {
		noun = "passengers"
	}
	desc := fmt.Sprintf("%s • %d %s", t.trip.Date, passengers, noun)
	if !t.trip.SavedAt.IsZero() {
		desc += " • saved " + format.Date(t.trip.SavedAt)
	}
	return desc
}

func (t tripItem) FilterValue() string {
	return t.trip.Origin + " " + t.trip.Destination + " " + t.trip.Date
}
