// Package search sorts, filters and validates flight searches.
package search

import (
	"sort"
	"strings"
	"time"

	"skywings-cli/model"
)

type SortKey int

const (
	ByPrice SortKey = iota
	ByDuration
	ByDeparture
)

func (k SortKey) String() string {
	switch k {
	case ByDuration:
		return "duration"
	case ByDeparture:
		return "departure"
	default:
		return "price"
	}
}

// Next cycles through the sort keys.
func (k SortKey) Next() SortKey {
	return (k + 1) % 3
}

// ParseSortKey accepts "price", "duration" or "departure".
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "price":
		return ByPrice, true
	case "duration":
		return ByDuration, true
	case "departure":
		return ByDeparture, true
	}
	return ByPrice, false
}

// Sort returns a sorted copy. Ties keep their input order.
func Sort(flights []model.FlightSearchResult, key SortKey) []model.FlightSearchResult {
	out := make([]model.FlightSearchResult, len(flights))
	copy(out, flights)
	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByDuration:
			return out[i].Duration() < out[j].Duration()
		case ByDeparture:
			return out[i].DepartureTime.Before(out[j].DepartureTime.Time)
		default:
			pi, _ := out[i].CheapestFare()
			pj, _ := out[j].CheapestFare()
			return pi < pj
		}
	})
	return out
}

// PriceRange is an inclusive fare window.
type PriceRange struct {
	Min float64
	Max float64
}

// DefaultPriceRange matches the results page slider.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterByPrice keeps flights whose cheapest fare is within r.
func FilterByPrice(flights []model.FlightSearchResult, r PriceRange) []model.FlightSearchResult {
	out := make([]model.FlightSearchResult, 0, len(flights))
	for _, f := range flights {
		if fare, _ := f.CheapestFare(); r.Contains(fare) {
			out = append(out, f)
		}
	}
	return out
}

// Form is the home page search form.
type Form struct {
	Origin      string
	Destination string
	Date        string
	Passengers  int
}

// Request validates the form and builds the search request.
func (f Form) Request() (model.FlightSearchRequest, error) {
	origin := strings.ToUpper(strings.TrimSpace(f.Origin))
	destination := strings.ToUpper(strings.TrimSpace(f.Destination))
	date := strings.TrimSpace(f.Date)

	if origin == "" || destination == "" || date == "" {
		return model.FlightSearchRequest{}, &model.ValidationError{Message: "Please fill in origin, destination and date"}
	}
	if !isAirportCode(origin) {
		return model.FlightSearchRequest{}, &model.ValidationError{Field: "origin", Message: "Origin must be a 3-letter airport code"}
	}
	if !isAirportCode(destination) {
		return model.FlightSearchRequest{}, &model.ValidationError{Field: "destination", Message: "Destination must be a 3-letter airport code"}
	}
	if origin == destination {
		return model.FlightSearchRequest{}, &model.ValidationError{Field: "destination", Message: "Origin and destination must differ"}
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return model.FlightSearchRequest{}, &model.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"}
	}
	// Zero means the field was left unset and counts as one traveller.
	if f.Passengers < 0 || f.Passengers > 9 {
		return model.FlightSearchRequest{}, &model.ValidationError{Field: "passengers", Message: "Passengers must be between 1 and 9"}
	}
	return model.FlightSearchRequest{Origin: origin, Destination: destination, DepartureDate: date}, nil
}

func isAirportCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
