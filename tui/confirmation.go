package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/format"
	"skywings-cli/nav"
)

type confirmationPage struct {
	env     env
	payload nav.Confirmation
	pnr     string
}

func newConfirmationPage(e env, p nav.Confirmation) *confirmationPage {
	pnr := p.Result.Booking.PNR
	if pnr == "" {
		pnr = format.PlaceholderPNR()
	}
	return &confirmationPage{env: e, payload: p, pnr: pnr}
}

func (p *confirmationPage) Init() tea.Cmd { return nil }

func (p *confirmationPage) Hints() string {
	return "enter book another flight • ctrl+b my bookings • ctrl+g manage this booking"
}

func (p *confirmationPage) Update(msg tea.Msg) (page, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "enter":
		return p, resetCmd(nav.Home{})
	case "ctrl+b":
		return p, navigateCmd(nav.MyBookings{})
	case "ctrl+g":
		return p, navigateCmd(nav.ManageBooking{PNR: p.pnr})
	}
	return p, nil
}

func (p *confirmationPage) View() string {
	res := p.payload.Result
	b := res.Booking
	f := res.Flight

	header := joinBlocks(
		noticeLine("Booking confirmed!"),
		hint("Your PNR number")+"\n"+chipStyle.Render(p.pnr),
	)

	passenger := b.PassengerName
	if passenger == "" {
		passenger = res.Passenger.FullName()
	}
	email := b.PassengerEmail
	if email == "" {
		email = res.Passenger.Email
	}
	seat := b.SeatNumber
	if seat == "" {
		seat = res.Seat.SeatNumber
	}
	lines := []string{
		headingStyle.Render(fmt.Sprintf("%s  %s → %s", f.FlightNumber, p.env.ref.airportLabel(f.Origin), p.env.ref.airportLabel(f.Destination))),
		row("Departs", format.DateTime(f.DepartureTime.Time)),
		row("Arrives", format.DateTime(f.ArrivalTime.Time)),
		row("Duration", format.Duration(f.DepartureTime.Time, f.ArrivalTime.Time)),
		row("Passenger", passenger),
		row("Email", email),
		row("Seat", fmt.Sprintf("%s (%s)", seat, res.Class)),
		row("Status", format.Status(string(b.EffectiveStatus()))),
	}
	for _, line := range res.AddOns.Lines(p.env.catalog) {
		lines = append(lines, row("  "+line.Item.Title, fmt.Sprintf("x%d", line.Quantity)))
	}
	if res.AddOnTotal > 0 {
		lines = append(lines, row("Add-ons", format.Money(res.AddOnTotal)))
	}
	lines = append(lines, row("Total paid", priceStyle.Render(format.Money(res.Total()))))

	return joinBlocks(header, panel(p.env.width, strings.Join(lines, "\n")), hint("A confirmation has been sent to "+email+"."))
}
