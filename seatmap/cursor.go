package seatmap

import "skywings-cli/model"

// Cursor is a (row, column) position in a Map.
type Cursor struct {
	Row int
	Col int
}

// Seat returns the seat under the cursor.
func (m Map) Seat(c Cursor) (model.Seat, bool) {
	if c.Row < 0 || c.Row >= len(m.Rows) {
		return model.Seat{}, false
	}
	seats := m.Rows[c.Row].Seats
	if c.Col < 0 || c.Col >= len(seats) {
		return model.Seat{}, false
	}
	return seats[c.Col], true
}

// Left and Right stay within the row.
func (m Map) Left(c Cursor) Cursor {
	if c.Col > 0 {
		c.Col--
	}
	return c
}

func (m Map) Right(c Cursor) Cursor {
	if c.Row >= 0 && c.Row < len(m.Rows) && c.Col < len(m.Rows[c.Row].Seats)-1 {
		c.Col++
	}
	return c
}

// Up and Down change rows, clamping the column to the new row's width.
func (m Map) Up(c Cursor) Cursor {
	if c.Row > 0 {
		c.Row--
		c.Col = m.clampCol(c.Row, c.Col)
	}
	return c
}

func (m Map) Down(c Cursor) Cursor {
	if c.Row < len(m.Rows)-1 {
		c.Row++
		c.Col = m.clampCol(c.Row, c.Col)
	}
	return c
}

// Locate returns the cursor on seatNumber, or the first available seat.
func (m Map) Locate(seatNumber string) Cursor {
	for r, row := range m.Rows {
		for c, seat := range row.Seats {
			if seatNumber != "" && seat.SeatNumber == seatNumber {
				return Cursor{Row: r, Col: c}
			}
		}
	}
	for r, row := range m.Rows {
		for c, seat := range row.Seats {
			if seat.IsAvailable {
				return Cursor{Row: r, Col: c}
			}
		}
	}
	return Cursor{}
}

func (m Map) clampCol(row, col int) int {
	n := len(m.Rows[row].Seats)
	if col >= n {
		col = n - 1
	}
	if col < 0 {
		col = 0
	}
	return col
}
