package seatmap

import (
	"sort"
	"testing"

	"skywings-cli/model"
)

func sampleSeats() []model.Seat {
	return []model.Seat{
		{SeatNumber: "10B", IsAvailable: true, Class: model.ClassEconomy},
		{SeatNumber: "2C", IsAvailable: false, Class: model.ClassEconomy},
		{SeatNumber: "2A", IsAvailable: true, Class: model.ClassEconomy},
		{SeatNumber: "1A", IsAvailable: true, Class: model.ClassFirst},
		{SeatNumber: "10A", IsAvailable: true, Class: model.ClassEconomy},
		{SeatNumber: "XA", IsAvailable: true, Class: model.ClassEconomy},
	}
}

func TestBuild_RowsNumericAndSeatsLexicographic(t *testing.T) {
	m := Build(sampleSeats())

	var labels []string
	for _, row := range m.Rows {
		labels = append(labels, row.Label)
	}
	want := []string{"0", "1", "2", "10"}
	if len(labels) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected rows %v, got %v", want, labels)
		}
	}

	for _, row := range m.Rows {
		if !sort.SliceIsSorted(row.Seats, func(i, j int) bool { return row.Seats[i].SeatNumber < row.Seats[j].SeatNumber }) {
			t.Fatalf("row %s not sorted: %+v", row.Label, row.Seats)
		}
	}
	if m.Rows[0].Seats[0].SeatNumber != "XA" {
		t.Fatalf("expected seat without row digits in row 0, got %+v", m.Rows[0])
	}
}

func TestFlatten_ReproducesInput(t *testing.T) {
	in := sampleSeats()
	out := Build(in).Flatten()
	if len(out) != len(in) {
		t.Fatalf("expected %d seats, got %d", len(in), len(out))
	}
	count := map[string]int{}
	for _, s := range in {
		count[s.SeatNumber]++
	}
	for _, s := range out {
		count[s.SeatNumber]--
	}
	for number, n := range count {
		if n != 0 {
			t.Fatalf("seat %s count mismatch: %d", number, n)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	m := Build(nil)
	if !m.Empty() {
		t.Fatalf("expected empty map, got %+v", m)
	}
	if len(m.Flatten()) != 0 {
		t.Fatal("expected no seats")
	}
}

func TestSelect(t *testing.T) {
	m := Build(sampleSeats())

	if _, err := m.Select("2c"); err != ErrSeatUnavailable {
		t.Fatalf("expected ErrSeatUnavailable, got %v", err)
	}
	if _, err := m.Select("99Z"); err != ErrUnknownSeat {
		t.Fatalf("expected ErrUnknownSeat, got %v", err)
	}
	seat, err := m.Select("1a")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if seat.SeatNumber != "1A" {
		t.Fatalf("unexpected seat: %+v", seat)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		seat     model.Seat
		selected string
		want     Status
	}{
		{name: "booked wins", seat: model.Seat{SeatNumber: "1A", Class: model.ClassFirst}, selected: "1A", want: Booked},
		{name: "selected", seat: model.Seat{SeatNumber: "1A", IsAvailable: true, Class: model.ClassFirst}, selected: "1A", want: Selected},
		{name: "premium", seat: model.Seat{SeatNumber: "1A", IsAvailable: true, Class: model.ClassBusiness}, want: Premium},
		{name: "available", seat: model.Seat{SeatNumber: "20C", IsAvailable: true, Class: model.ClassEconomy}, want: Available},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusOf(tc.seat, tc.selected); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCursorMoves(t *testing.T) {
	m := Build(sampleSeats())
	// rows: 0:[XA] 1:[1A] 2:[2A 2C] 10:[10A 10B]
	c := Cursor{Row: 3, Col: 1}

	c = m.Right(c)
	if c.Col != 1 {
		t.Fatalf("right at row end should stay, got %+v", c)
	}
	c = m.Up(c)
	if c != (Cursor{Row: 2, Col: 1}) {
		t.Fatalf("unexpected cursor after up: %+v", c)
	}
	c = m.Up(c)
	if c != (Cursor{Row: 1, Col: 0}) {
		t.Fatalf("expected column clamp, got %+v", c)
	}
	c = m.Left(c)
	if c.Col != 0 {
		t.Fatalf("left at row start should stay, got %+v", c)
	}
	c = m.Down(m.Down(m.Down(c)))
	if c.Row != 3 {
		t.Fatalf("down should stop at last row, got %+v", c)
	}

	seat, ok := m.Seat(m.Locate("2C"))
	if !ok || seat.SeatNumber != "2C" {
		t.Fatalf("unexpected located seat: %+v", seat)
	}
	if got := m.Locate(""); got != (Cursor{Row: 0, Col: 0}) {
		t.Fatalf("expected first available seat, got %+v", got)
	}
}
