// Package booking runs the two-step reserve-then-pay checkout against the
// booking service and derives views over a user's bookings.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"skywings-cli/addons"
	"skywings-cli/logging"
	"skywings-cli/model"
)

// ErrInProgress is returned when Submit is called while another submission
// has not settled.
var ErrInProgress = errors.New("a booking is already being processed")

const releaseTimeout = 5 * time.Second

// API is the slice of the service client the flow needs.
type API interface {
	InitiateBooking(ctx context.Context, req model.InitiateBookingRequest) (model.PreBooking, error)
	ProcessPayment(ctx context.Context, preBookingID string) (model.Booking, error)
	ReleasePreBooking(ctx context.Context, preBookingID string) error
}

type Stage string

const (
	StageInitiate Stage = "initiate"
	StagePayment  Stage = "payment"
)

// StageError names the step that failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageInitiate:
		return fmt.Sprintf("reserve seat: %v", e.Err)
	case StagePayment:
		return fmt.Sprintf("process payment: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Checkout is everything the checkout page has collected.
type Checkout struct {
	Flight     model.FlightSearchResult
	Seat       model.Seat
	Class      string
	Passenger  model.Passenger
	AddOns     addons.Selection
	AddOnTotal float64
}

// Confirmation is the outcome of a successful submission.
type Confirmation struct {
	Booking    model.Booking
	Flight     model.FlightSearchResult
	Seat       model.Seat
	Class      string
	Passenger  model.Passenger
	AddOns     addons.Selection
	AddOnTotal float64
}

// Total is the reserved fare plus the extras chosen on the add-ons page.
func (c Confirmation) Total() float64 {
	return c.Booking.TotalPrice + c.AddOnTotal
}

// Flow serialises submissions. The zero value is not usable; use NewFlow.
type Flow struct {
	api    API
	logger *slog.Logger

	mu      sync.Mutex
	pending bool
}

func NewFlow(api API) *Flow {
	return &Flow{api: api, logger: logging.WithFields("component", "booking")}
}

// Pending reports whether a submission is in flight.
func (f *Flow) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Submit validates the passenger, reserves the seat and pays for it. When
// payment fails the reservation is released on a best-effort basis.
func (f *Flow) Submit(ctx context.Context, co Checkout) (Confirmation, error) {
	if err := co.Passenger.Validate(); err != nil {
		return Confirmation{}, err
	}
	if co.Flight.FlightId <= 0 || co.Seat.SeatNumber == "" {
		return Confirmation{}, &model.ValidationError{Field: "seat", Message: "Please select a flight and seat"}
	}

	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return Confirmation{}, ErrInProgress
	}
	f.pending = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.pending = false
		f.mu.Unlock()
	}()

	log := logging.WithContext(ctx).With("component", "booking", "flight_id", co.Flight.FlightId, "seat", co.Seat.SeatNumber)

	pre, err := f.api.InitiateBooking(ctx, model.InitiateBookingRequest{
		FlightId:       co.Flight.FlightId,
		SeatNumber:     co.Seat.SeatNumber,
		PassengerName:  co.Passenger.FullName(),
		PassengerEmail: co.Passenger.Email,
		PassengerPhone: co.Passenger.Phone,
	})
	if err != nil {
		return Confirmation{}, &StageError{Stage: StageInitiate, Err: err}
	}
	log = log.With("pre_booking_id", pre.PreBookingId)
	log.Info("seat reserved", "total", pre.TotalPrice)

	booked, err := f.api.ProcessPayment(ctx, pre.PreBookingId)
	if err != nil {
		f.release(ctx, log, pre.PreBookingId)
		return Confirmation{}, &StageError{Stage: StagePayment, Err: err}
	}

	switch {
	case booked.TotalPrice == 0:
		booked.TotalPrice = pre.TotalPrice
	case math.Abs(booked.TotalPrice-pre.TotalPrice) > 0.005:
		log.Warn("payment total differs from reserved total", "reserved", pre.TotalPrice, "paid", booked.TotalPrice)
		booked.TotalPrice = pre.TotalPrice
	}
	if booked.FlightId == 0 {
		booked.FlightId = co.Flight.FlightId
	}
	if booked.FlightNumber == "" {
		booked.FlightNumber = co.Flight.FlightNumber
	}
	if booked.SeatNumber == "" {
		booked.SeatNumber = co.Seat.SeatNumber
	}
	if booked.SeatClass == "" {
		booked.SeatClass = co.Class
	}
	if booked.PassengerName == "" {
		booked.PassengerName = co.Passenger.FullName()
	}
	if booked.PassengerEmail == "" {
		booked.PassengerEmail = co.Passenger.Email
	}
	log.Info("booking confirmed", "pnr", booked.PNR)

	return Confirmation{
		Booking:    booked,
		Flight:     co.Flight,
		Seat:       co.Seat,
		Class:      co.Class,
		Passenger:  co.Passenger,
		AddOns:     co.AddOns.Clone(),
		AddOnTotal: co.AddOnTotal,
	}, nil
}

// release runs detached from ctx so leaving the page does not skip it.
func (f *Flow) release(ctx context.Context, log *slog.Logger, preBookingID string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := f.api.ReleasePreBooking(rctx, preBookingID); err != nil {
		log.Warn("release pre-booking failed", "error", err)
		return
	}
	log.Info("pre-booking released")
}
