// Package nav tracks which page is on screen and the typed data it was
// opened with.
package nav

import (
	"skywings-cli/addons"
	"skywings-cli/booking"
	"skywings-cli/model"
	"skywings-cli/search"
)

type Page string

const (
	PageHome           Page = "home"
	PageSearchResults  Page = "search-results"
	PageFlightDetails  Page = "flight-details"
	PageSeatSelection  Page = "seat-selection"
	PageAddOns         Page = "add-ons"
	PageCheckout       Page = "checkout"
	PageConfirmation   Page = "confirmation"
	PageMyBookings     Page = "my-bookings"
	PageManageBooking  Page = "manage-booking"
	PageSignIn         Page = "sign-in"
	PageProfile        Page = "profile"
	PageBookingHistory Page = "booking-history"
	PageSavedTrips     Page = "saved-trips"
	PageFareRules      Page = "fare-rules"
)

// Payload is the data a page is opened with. The set of implementations is
// closed to this package.
type Payload interface {
	Page() Page
	isPayload()
}

type Home struct {
	// Prefill carries a previous search back to the form.
	Prefill search.Form
}

type SearchResults struct {
	Form   search.Form
	Search model.FlightSearchRequest
}

type FlightDetails struct {
	FlightId int
	Flight   model.FlightSearchResult
}

type SeatSelection struct {
	Flight model.FlightSearchResult
	Class  string
}

type AddOns struct {
	Flight    model.FlightSearchResult
	Seat      model.Seat
	Class     string
	SeatPrice float64
	Selection addons.Selection
}

type Checkout struct {
	Flight     model.FlightSearchResult
	Seat       model.Seat
	Class      string
	SeatPrice  float64
	AddOns     addons.Selection
	AddOnTotal float64
}

type Confirmation struct {
	Result booking.Confirmation
}

type MyBookings struct{}

type ManageBooking struct {
	PNR string
}

type SignIn struct {
	// Register opens the sign-up form instead of sign-in.
	Register bool
	// Then is where to go after a successful sign-in; nil means Home.
	Then Payload
}

type Profile struct{}

type BookingHistory struct{}

type SavedTrips struct{}

// FareRules shows live class prices when Flight is set.
type FareRules struct {
	Flight model.FlightSearchResult
	Class  string
}

func (Home) Page() Page           { return PageHome }
func (SearchResults) Page() Page  { return PageSearchResults }
func (FlightDetails) Page() Page  { return PageFlightDetails }
func (SeatSelection) Page() Page  { return PageSeatSelection }
func (AddOns) Page() Page         { return PageAddOns }
func (Checkout) Page() Page       { return PageCheckout }
func (Confirmation) Page() Page   { return PageConfirmation }
func (MyBookings) Page() Page     { return PageMyBookings }
func (ManageBooking) Page() Page  { return PageManageBooking }
func (SignIn) Page() Page         { return PageSignIn }
func (Profile) Page() Page        { return PageProfile }
func (BookingHistory) Page() Page { return PageBookingHistory }
func (SavedTrips) Page() Page     { return PageSavedTrips }
func (FareRules) Page() Page      { return PageFareRules }

func (Home) isPayload()           {}
func (SearchResults) isPayload()  {}
func (FlightDetails) isPayload()  {}
func (SeatSelection) isPayload()  {}
func (AddOns) isPayload()         {}
func (Checkout) isPayload()       {}
func (Confirmation) isPayload()   {}
func (MyBookings) isPayload()     {}
func (ManageBooking) isPayload()  {}
func (SignIn) isPayload()         {}
func (Profile) isPayload()        {}
func (BookingHistory) isPayload() {}
func (SavedTrips) isPayload()     {}
func (FareRules) isPayload()      {}
