// Package seatmap arranges a flight's seats into rows for display and
// selection.
package seatmap

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"skywings-cli/model"
)

type Status int

const (
	Available Status = iota
	Premium
	Selected
	Booked
)

func (s Status) String() string {
	switch s {
	case Premium:
		return "premium"
	case Selected:
		return "selected"
	case Booked:
		return "booked"
	default:
		return "available"
	}
}

var (
	ErrUnknownSeat     = errors.New("seat does not exist on this flight")
	ErrSeatUnavailable = errors.New("seat is no longer available")
)

// Row is one cabin row. Seats are ordered by seat number.
type Row struct {
	Label string
	Seats []model.Seat
}

// Map is a seat list grouped by row, rows in ascending numeric order.
type Map struct {
	Rows []Row
}

// RowLabel is the leading run of digits in a seat number, or "0" when there
// is none.
func RowLabel(seatNumber string) string {
	s := strings.TrimSpace(seatNumber)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return "0"
	}
	return s[:end]
}

// Build groups seats by row.
func Build(seats []model.Seat) Map {
	byRow := map[string][]model.Seat{}
	var labels []string
	for _, seat := range seats {
		label := RowLabel(seat.SeatNumber)
		if _, ok := byRow[label]; !ok {
			labels = append(labels, label)
		}
		byRow[label] = append(byRow[label], seat)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, _ := strconv.Atoi(labels[i])
		b, _ := strconv.Atoi(labels[j])
		if a == b {
			return labels[i] < labels[j]
		}
		return a < b
	})

	m := Map{Rows: make([]Row, 0, len(labels))}
	for _, label := range labels {
		row := byRow[label]
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].SeatNumber < row[j].SeatNumber
		})
		m.Rows = append(m.Rows, Row{Label: label, Seats: row})
	}
	return m
}

func (m Map) Empty() bool {
	return len(m.Rows) == 0
}

// Flatten returns every seat in row order.
func (m Map) Flatten() []model.Seat {
	var out []model.Seat
	for _, row := range m.Rows {
		out = append(out, row.Seats...)
	}
	return out
}

func (m Map) Find(seatNumber string) (model.Seat, bool) {
	seatNumber = strings.ToUpper(strings.TrimSpace(seatNumber))
	for _, row := range m.Rows {
		for _, seat := range row.Seats {
			if strings.EqualFold(seat.SeatNumber, seatNumber) {
				return seat, true
			}
		}
	}
	return model.Seat{}, false
}

// Select returns the seat if it exists and is still available.
func (m Map) Select(seatNumber string) (model.Seat, error) {
	seat, ok := m.Find(seatNumber)
	if !ok {
		return model.Seat{}, ErrUnknownSeat
	}
	if !seat.IsAvailable {
		return model.Seat{}, ErrSeatUnavailable
	}
	return seat, nil
}

// StatusOf derives how a seat is drawn given the current selection.
func StatusOf(seat model.Seat, selected string) Status {
	switch {
	case !seat.IsAvailable:
		return Booked
	case selected != "" && strings.EqualFold(seat.SeatNumber, selected):
		return Selected
	case seat.IsPremium():
		return Premium
	default:
		return Available
	}
}
