package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"skywings-cli/model"
)

// ReferenceData is the static catalog loaded once per run.
type ReferenceData struct {
	Airports []model.Airport
	Airlines []model.Airline
}

// GetAirports lists airports. Concurrent calls share one request.
func (c *Client) GetAirports(ctx context.Context) ([]model.Airport, error) {
	v, err, _ := c.refGroup.Do("/airports", func() (any, error) {
		var airports []model.Airport
		if err := c.getJSON(ctx, "/airports", nil, &airports); err != nil {
			return nil, err
		}
		return airports, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Airport), nil
}

// GetAirlines lists airlines. Concurrent calls share one request.
func (c *Client) GetAirlines(ctx context.Context) ([]model.Airline, error) {
	v, err, _ := c.refGroup.Do("/airlines", func() (any, error) {
		var airlines []model.Airline
		if err := c.getJSON(ctx, "/airlines", nil, &airlines); err != nil {
			return nil, err
		}
		return airlines, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Airline), nil
}

// LoadReferenceData fetches airports and airlines concurrently.
func (c *Client) LoadReferenceData(ctx context.Context) (ReferenceData, error) {
	var data ReferenceData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		airports, err := c.GetAirports(gctx)
		if err != nil {
			return fmt.Errorf("load airports: %w", err)
		}
		data.Airports = airports
		return nil
	})
	g.Go(func() error {
		airlines, err := c.GetAirlines(gctx)
		if err != nil {
			return fmt.Errorf("load airlines: %w", err)
		}
		data.Airlines = airlines
		return nil
	})
	if err := g.Wait(); err != nil {
		return ReferenceData{}, err
	}
	return data, nil
}

// SearchFlights returns matching flights. A route with no flights yields an
// empty, non-nil slice and no error.
func (c *Client) SearchFlights(ctx context.Context, req model.FlightSearchRequest) ([]model.FlightSearchResult, error) {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	req.DepartureDate = strings.TrimSpace(req.DepartureDate)
	if req.Origin == "" || req.Destination == "" || req.DepartureDate == "" {
		return nil, &model.ValidationError{Message: "Please provide search criteria to find flights."}
	}

	var res struct {
		Flights []model.FlightSearchResult `json:"flights"`
		Message string                     `json:"message"`
	}
	if err := c.do(ctx, "POST", "/flights/search", requestOptions{body: req}, &res); err != nil {
		return nil, err
	}
	if res.Flights == nil {
		return []model.FlightSearchResult{}, nil
	}
	return res.Flights, nil
}

// GetFlightDetails fetches the flight/airline/airport/seat bundle.
func (c *Client) GetFlightDetails(ctx context.Context, flightID int) (model.FlightDetails, error) {
	if flightID <= 0 {
		return model.FlightDetails{}, errors.New("flight id is required")
	}
	var details model.FlightDetails
	if err := c.getJSON(ctx, fmt.Sprintf("/flights/%d", flightID), nil, &details); err != nil {
		return model.FlightDetails{}, err
	}
	return details, nil
}

// GetFlightSeats fetches the seat list and per-class prices. An empty class
// returns every cabin.
func (c *Client) GetFlightSeats(ctx context.Context, flightID int, class string) (model.SeatSelection, error) {
	if flightID <= 0 {
		return model.SeatSelection{}, errors.New("flight id is required")
	}
	var query url.Values
	if class = strings.TrimSpace(class); class != "" {
		query = url.Values{"class": {class}}
	}
	var seats model.SeatSelection
	if err := c.getJSON(ctx, fmt.Sprintf("/flights/%d/seats", flightID), query, &seats); err != nil {
		return model.SeatSelection{}, err
	}
	if seats.Seats == nil {
		seats.Seats = []model.Seat{}
	}
	return seats, nil
}

// GetDynamicPrice fetches the current price of a class on a flight.
func (c *Client) GetDynamicPrice(ctx context.Context, flightID int, class string) (float64, error) {
	if flightID <= 0 || strings.TrimSpace(class) == "" {
		return 0, errors.New("flight id and seat class are required")
	}
	var quote model.PriceQuote
	query := url.Values{"seat_class": {class}}
	if err := c.getJSON(ctx, fmt.Sprintf("/flights/%d/pricing", flightID), query, &quote); err != nil {
		return 0, err
	}
	return quote.Price, nil
}
