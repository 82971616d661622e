package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skywings-cli/model"
)

func flight(number string, price float64, dep time.Time, dur time.Duration) model.FlightSearchResult {
	return model.FlightSearchResult{
		FlightNumber:  number,
		DepartureTime: model.NewTimestamp(dep),
		ArrivalTime:   model.NewTimestamp(dep.Add(dur)),
		Pricing:       map[string]model.ClassPrice{model.ClassEconomy: {Price: price}},
	}
}

func numbers(flights []model.FlightSearchResult) []string {
	out := make([]string, 0, len(flights))
	for _, f := range flights {
		out = append(out, f.FlightNumber)
	}
	return out
}

func TestSort(t *testing.T) {
	base := time.Date(2026, 12, 1, 6, 0, 0, 0, time.UTC)
	flights := []model.FlightSearchResult{
		flight("SW1", 400, base.Add(3*time.Hour), 5*time.Hour),
		flight("SW2", 199, base.Add(5*time.Hour), 6*time.Hour),
		flight("SW3", 299, base, 4*time.Hour),
		flight("SW4", 199, base.Add(1*time.Hour), 7*time.Hour),
	}

	assert.Equal(t, []string{"SW2", "SW4", "SW3", "SW1"}, numbers(Sort(flights, ByPrice)))
	assert.Equal(t, []string{"SW3", "SW1", "SW2", "SW4"}, numbers(Sort(flights, ByDuration)))
	assert.Equal(t, []string{"SW3", "SW4", "SW1", "SW2"}, numbers(Sort(flights, ByDeparture)))
	assert.Equal(t, "SW1", flights[0].FlightNumber, "input must not be reordered")
}

func TestFilterByPrice(t *testing.T) {
	base := time.Date(2026, 12, 1, 6, 0, 0, 0, time.UTC)
	flights := []model.FlightSearchResult{
		flight("SW1", 1200, base, time.Hour),
		flight("SW2", 299, base, time.Hour),
	}

	got := FilterByPrice(flights, DefaultPriceRange)
	assert.Equal(t, []string{"SW2"}, numbers(got))
	assert.Empty(t, FilterByPrice(flights, PriceRange{Min: 0, Max: 100}))
}

func TestFormRequest(t *testing.T) {
	req, err := Form{Origin: " jfk", Destination: "lax", Date: "2026-12-01", Passengers: 1}.Request()
	require.NoError(t, err)
	assert.Equal(t, model.FlightSearchRequest{Origin: "JFK", Destination: "LAX", DepartureDate: "2026-12-01"}, req)

	invalid := []Form{
		{Origin: "JFK", Destination: "JFK", Date: "2026-12-01"},
		{Origin: "JF", Destination: "LAX", Date: "2026-12-01"},
		{Origin: "JFK", Destination: "LA1", Date: "2026-12-01"},
		{Origin: "JFK", Destination: "LAX", Date: "12/01/2026"},
		{Origin: "JFK", Destination: "LAX"},
	}
	for _, f := range invalid {
		_, err := f.Request()
		assert.True(t, model.IsValidationError(err), "expected validation error for %+v", f)
	}
}

func TestFormRequest_Passengers(t *testing.T) {
	form := Form{Origin: "JFK", Destination: "LAX", Date: "2026-12-01"}

	for _, n := range []int{0, 1, 9} {
		form.Passengers = n
		_, err := form.Request()
		assert.NoError(t, err, "passengers %d", n)
	}
	for _, n := range []int{-1, 10} {
		form.Passengers = n
		_, err := form.Request()
		assert.True(t, model.IsValidationError(err), "passengers %d", n)
	}
}

func TestSortKeyCycle(t *testing.T) {
	assert.Equal(t, ByDuration, ByPrice.Next())
	assert.Equal(t, ByPrice, ByDeparture.Next())
	key, ok := ParseSortKey("Departure")
	assert.True(t, ok)
	assert.Equal(t, ByDeparture, key)
	_, ok = ParseSortKey("seats")
	assert.False(t, ok)
}
