package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"skywings-cli/model"
)

// InitiateBooking reserves the seat and returns the pre-booking id with the
// service-computed total.
func (c *Client) InitiateBooking(ctx context.Context, req model.InitiateBookingRequest) (model.PreBooking, error) {
	req.SeatNumber = strings.ToUpper(strings.TrimSpace(req.SeatNumber))
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	if req.FlightId <= 0 || req.SeatNumber == "" {
		return model.PreBooking{}, &model.ValidationError{Field: "seat_number", Message: "Please select a flight and seat"}
	}
	if req.PassengerName == "" {
		return model.PreBooking{}, &model.ValidationError{Field: "passenger_name", Message: "Passenger name is required"}
	}

	var pre model.PreBooking
	if err := c.do(ctx, http.MethodPost, "/bookings/initiate", requestOptions{body: req}, &pre); err != nil {
		return model.PreBooking{}, err
	}
	if strings.TrimSpace(pre.PreBookingId) == "" {
		return model.PreBooking{}, errors.New("booking service did not return a pre-booking id")
	}
	return pre, nil
}

// ProcessPayment finalises a pre-booking. The service answers either with a
// nested booking record or with a flat {pnr, total_price} body.
func (c *Client) ProcessPayment(ctx context.Context, preBookingID string) (model.Booking, error) {
	preBookingID = strings.TrimSpace(preBookingID)
	if preBookingID == "" {
		return model.Booking{}, errors.New("pre-booking id is required")
	}

	var res struct {
		Message    string         `json:"message"`
		Booking    *model.Booking `json:"booking"`
		PNR        string         `json:"pnr"`
		TotalPrice float64        `json:"total_price"`
	}
	body := model.PaymentRequest{PreBookingId: preBookingID}
	if err := c.do(ctx, http.MethodPost, "/payment/process", requestOptions{body: body}, &res); err != nil {
		return model.Booking{}, err
	}

	var booking model.Booking
	if res.Booking != nil {
		booking = *res.Booking
	}
	if booking.PNR == "" {
		booking.PNR = res.PNR
	}
	if booking.TotalPrice == 0 {
		booking.TotalPrice = res.TotalPrice
	}
	if strings.TrimSpace(booking.PNR) == "" {
		return model.Booking{}, errors.New("booking service did not return a PNR")
	}
	if booking.Status == "" {
		booking.Status = model.BookingConfirmed
	}
	return booking, nil
}

// ReleasePreBooking asks the service to drop an unpaid reservation. A 404
// means it is already gone and counts as released.
func (c *Client) ReleasePreBooking(ctx context.Context, preBookingID string) error {
	preBookingID = strings.TrimSpace(preBookingID)
	if preBookingID == "" {
		return errors.New("pre-booking id is required")
	}
	path := "/bookings/initiate/" + url.PathEscape(preBookingID)
	err := c.do(ctx, http.MethodDelete, path, requestOptions{}, nil)
	if err != nil && IsNotFound(err) {
		return nil
	}
	return err
}

// NormalizePNR trims and upper-cases a PNR the way the service stores it.
func NormalizePNR(pnr string) string {
	return strings.ToUpper(strings.TrimSpace(pnr))
}

func (c *Client) GetBookingByPNR(ctx context.Context, pnr string) (model.Booking, error) {
	pnr = NormalizePNR(pnr)
	if pnr == "" {
		return model.Booking{}, &model.ValidationError{Field: "pnr", Message: "Please enter a PNR number"}
	}
	var booking model.Booking
	if err := c.getJSON(ctx, "/bookings/"+url.PathEscape(pnr), nil, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

func (c *Client) GetBookingsByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &model.ValidationError{Field: "email", Message: "Please enter an email address"}
	}
	var bookings []model.Booking
	if err := c.getJSON(ctx, "/bookings/email/"+url.PathEscape(email), nil, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

// CancelBooking cancels a finalised booking and returns the service's
// acknowledgement.
func (c *Client) CancelBooking(ctx context.Context, pnr string) (string, error) {
	pnr = NormalizePNR(pnr)
	if pnr == "" {
		return "", &model.ValidationError{Field: "pnr", Message: "Please enter a PNR number"}
	}
	var res model.MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(pnr), requestOptions{}, &res); err != nil {
		return "", err
	}
	if res.Message == "" {
		res.Message = fmt.Sprintf("Booking %s cancelled.", pnr)
	}
	return res.Message, nil
}
