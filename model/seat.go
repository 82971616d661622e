package model

type Seat struct {
	Id          int    `json:"id,omitempty"`
	FlightId    int    `json:"flight_id,omitempty"`
	SeatNumber  string `json:"seat_number"`
	IsAvailable bool   `json:"is_available"`
	Class       string `json:"class"`
}

func (s Seat) IsPremium() bool {
	return s.Class == ClassBusiness || s.Class == ClassFirst
}

type SeatSelection struct {
	Seats   []Seat             `json:"seats"`
	Pricing map[string]float64 `json:"pricing"`
}

// SeatPrice returns the class price for a seat, or zero when unknown.
func (s SeatSelection) SeatPrice(seat Seat) float64 {
	return s.Pricing[seat.Class]
}
