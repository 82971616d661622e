package model

import (
	"net/mail"
	"strconv"
	"strings"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type InitiateBookingRequest struct {
	FlightId       int    `json:"flight_id"`
	SeatNumber     string `json:"seat_number"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email,omitempty"`
	PassengerPhone string `json:"passenger_phone,omitempty"`
}

// PreBooking is the reserved-but-unpaid state returned by the initiate step.
type PreBooking struct {
	Message      string  `json:"message"`
	PreBookingId string  `json:"pre_booking_id"`
	TotalPrice   float64 `json:"total_price"`
	PaymentURL   string  `json:"payment_url,omitempty"`
}

type PaymentRequest struct {
	PreBookingId string `json:"pre_booking_id"`
}

type Booking struct {
	Id             int           `json:"id"`
	PNR            string        `json:"pnr"`
	FlightId       int           `json:"flight_id"`
	FlightNumber   string        `json:"flight_number,omitempty"`
	PassengerName  string        `json:"passenger_name"`
	PassengerEmail string        `json:"passenger_email,omitempty"`
	PassengerPhone string        `json:"passenger_phone,omitempty"`
	SeatId         int           `json:"seat_id,omitempty"`
	SeatNumber     string        `json:"seat_number,omitempty"`
	SeatClass      string        `json:"seat_class,omitempty"`
	TotalPrice     float64       `json:"total_price"`
	Status         BookingStatus `json:"booking_status,omitempty"`
	BookingTime    Timestamp     `json:"booking_time"`
	BookingDate    Timestamp     `json:"booking_date"`
	Origin         Place         `json:"origin"`
	Destination    Place         `json:"destination"`
	DepartureTime  Timestamp     `json:"departure_time"`
	ArrivalTime    Timestamp     `json:"arrival_time"`
}

// BookedAt returns whichever booking timestamp the service populated.
func (b Booking) BookedAt() Timestamp {
	if !b.BookingTime.IsZero() {
		return b.BookingTime
	}
	return b.BookingDate
}

// EffectiveStatus treats records without a status as confirmed, which is
// how the service reports freshly paid bookings.
func (b Booking) EffectiveStatus() BookingStatus {
	if b.Status == "" {
		return BookingConfirmed
	}
	return BookingStatus(strings.ToLower(string(b.Status)))
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Passenger is the checkout form.
type Passenger struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Age       string `json:"age"`
	Gender    string `json:"gender"`
}

func (p Passenger) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

func (p Passenger) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return &ValidationError{Field: "first_name", Message: "First name is required"}
	}
	if strings.TrimSpace(p.LastName) == "" {
		return &ValidationError{Field: "last_name", Message: "Last name is required"}
	}
	if strings.TrimSpace(p.Email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(p.Email)); err != nil {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if age := strings.TrimSpace(p.Age); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil || n <= 0 || n > 120 {
			return &ValidationError{Field: "age", Message: "Please enter a valid age"}
		}
	}
	return nil
}
