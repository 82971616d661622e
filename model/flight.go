package model

import (
	"sort"
	"time"

	"golang.org/x/exp/maps"
)

const (
	ClassEconomy  = "Economy"
	ClassBusiness = "Business"
	ClassFirst    = "First"
)

type FlightSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

// ClassPrice is the per-class fare entry. Search results call the amount
// "price", flight details call it "current_price".
type ClassPrice struct {
	Price          float64 `json:"price,omitempty"`
	CurrentPrice   float64 `json:"current_price,omitempty"`
	SeatsAvailable int     `json:"seats_available"`
}

func (p ClassPrice) Amount() float64 {
	if p.Price > 0 {
		return p.Price
	}
	return p.CurrentPrice
}

type FlightSearchResult struct {
	FlightId         int                   `json:"flight_id"`
	FlightNumber     string                `json:"flight_number"`
	Origin           string                `json:"origin"`
	Destination      string                `json:"destination"`
	DepartureTime    Timestamp             `json:"departure_time"`
	ArrivalTime      Timestamp             `json:"arrival_time"`
	BaseEconomyPrice float64               `json:"base_economy_price"`
	Pricing          map[string]ClassPrice `json:"pricing"`
}

// Fare returns the price for a class, falling back to the base economy
// price when the class is not offered.
func (f FlightSearchResult) Fare(class string) float64 {
	if p, ok := f.Pricing[class]; ok && p.Amount() > 0 {
		return p.Amount()
	}
	return f.BaseEconomyPrice
}

// Classes lists the offered classes, cheapest first.
func (f FlightSearchResult) Classes() []string {
	classes := maps.Keys(f.Pricing)
	sort.Slice(classes, func(i, j int) bool {
		pi, pj := f.Pricing[classes[i]].Amount(), f.Pricing[classes[j]].Amount()
		if pi == pj {
			return classes[i] < classes[j]
		}
		return pi < pj
	})
	return classes
}

// CheapestFare returns the lowest class fare and the class offering it.
func (f FlightSearchResult) CheapestFare() (float64, string) {
	classes := f.Classes()
	if len(classes) == 0 {
		return f.BaseEconomyPrice, ClassEconomy
	}
	return f.Pricing[classes[0]].Amount(), classes[0]
}

func (f FlightSearchResult) Duration() time.Duration {
	if f.DepartureTime.IsZero() || f.ArrivalTime.IsZero() {
		return 0
	}
	return f.ArrivalTime.Sub(f.DepartureTime.Time)
}

type FlightDetails struct {
	FlightId           int                   `json:"flight_id"`
	FlightNumber       string                `json:"flight_number"`
	AirlineName        string                `json:"airline_name"`
	OriginAirport      string                `json:"origin_airport"`
	DestinationAirport string                `json:"destination_airport"`
	DepartureTime      Timestamp             `json:"departure_time"`
	ArrivalTime        Timestamp             `json:"arrival_time"`
	BaseEconomyPrice   float64               `json:"base_economy_price"`
	DynamicPricing     map[string]ClassPrice `json:"dynamic_pricing"`
	Seats              []Seat                `json:"seats"`
}

// Summary converts the detail bundle to the search-result shape used by the
// booking pages.
func (d FlightDetails) Summary() FlightSearchResult {
	return FlightSearchResult{
		FlightId:         d.FlightId,
		FlightNumber:     d.FlightNumber,
		Origin:           d.OriginAirport,
		Destination:      d.DestinationAirport,
		DepartureTime:    d.DepartureTime,
		ArrivalTime:      d.ArrivalTime,
		BaseEconomyPrice: d.BaseEconomyPrice,
		Pricing:          d.DynamicPricing,
	}
}

type PriceQuote struct {
	Price float64 `json:"price"`
}
