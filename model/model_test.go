package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_NaiveISO(t *testing.T) {
	var out struct {
		At Timestamp `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":"2025-11-15T09:00:00"}`), &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC)
	if !out.At.Equal(want) {
		t.Fatalf("expected %v, got %v", want, out.At)
	}
}

func TestTimestamp_NullAndInvalid(t *testing.T) {
	var out struct {
		At Timestamp `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":null}`), &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !out.At.IsZero() {
		t.Fatalf("expected zero time, got %v", out.At)
	}
	if err := json.Unmarshal([]byte(`{"at":"yesterday"}`), &out); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestPlace_DecodesStringAndObject(t *testing.T) {
	var b Booking
	payload := `{"pnr":"ABC123","origin":"New York (JFK)","destination":{"code":"LAX","name":"Los Angeles Intl","city":"Los Angeles"}}`
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if b.Origin.Code != "JFK" || b.Origin.City != "New York" {
		t.Fatalf("unexpected origin: %+v", b.Origin)
	}
	if b.Destination.Code != "LAX" || b.Destination.String() != "Los Angeles (LAX)" {
		t.Fatalf("unexpected destination: %+v", b.Destination)
	}
}

func TestFlightSearchResult_FareAndClasses(t *testing.T) {
	f := FlightSearchResult{
		BaseEconomyPrice: 199,
		Pricing: map[string]ClassPrice{
			ClassFirst:    {Price: 899, SeatsAvailable: 2},
			ClassEconomy:  {Price: 249, SeatsAvailable: 40},
			ClassBusiness: {Price: 599, SeatsAvailable: 8},
		},
	}
	classes := f.Classes()
	if len(classes) != 3 || classes[0] != ClassEconomy || classes[2] != ClassFirst {
		t.Fatalf("unexpected class order: %v", classes)
	}
	if got := f.Fare("Premium"); got != 199 {
		t.Fatalf("expected base fallback 199, got %v", got)
	}
	price, class := f.CheapestFare()
	if price != 249 || class != ClassEconomy {
		t.Fatalf("unexpected cheapest fare: %v %s", price, class)
	}
}

func TestUserRegister_Validate(t *testing.T) {
	reg := UserRegister{Email: "a@b.c", Password: "secret", FirstName: "A", LastName: "B"}
	if err := reg.Validate("other"); err == nil || err.Error() != "Passwords do not match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	reg.LastName = ""
	if err := reg.Validate("secret"); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPassenger_Validate(t *testing.T) {
	p := Passenger{FirstName: "John", LastName: "Doe", Email: "john@example.com"}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	p.Email = "not-an-email"
	if err := p.Validate(); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
