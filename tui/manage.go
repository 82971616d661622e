package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

type lookupMsg struct {
	bookings []model.Booking
	byEmail  bool
	err      error
}

type cancelMsg struct {
	message string
	err     error
}

// managePage finds a booking by PNR (or all bookings for an email) and
// lets the traveller cancel it.
type managePage struct {
	env     env
	payload nav.ManageBooking

	input      textinput.Model
	loading    bool
	cancelling bool
	confirm    bool
	err        string
	notice     string

	booking  *model.Booking
	matches  list.Model
	byEmail  bool
	lastTerm string
}

func newManagePage(e env, p nav.ManageBooking) *managePage {
	input := textinput.New()
	input.Prompt = "PNR or email: "
	input.Placeholder = "e.g. SWAB12CD"
	input.CharLimit = 64
	input.SetValue(p.PNR)

	l := newList("Bookings")
	l.SetFilteringEnabled(false)
	resizeList(&l, e.width, e.height, 12)
	return &managePage{env: e, payload: p, input: input, matches: l}
}

func (p *managePage) Init() tea.Cmd {
	focus := p.input.Focus()
	if strings.TrimSpace(p.payload.PNR) == "" {
		return focus
	}
	return tea.Batch(focus, p.lookup(p.payload.PNR))
}

func (p *managePage) Loading() (string, bool) {
	if p.cancelling {
		return "Cancelling booking", true
	}
	return "Looking up booking", p.loading
}

func (p *managePage) Hints() string {
	if p.confirm {
		return "y confirm cancellation • n keep booking"
	}
	if p.byEmail && p.booking == nil {
		return "up/down choose • enter open • ctrl+l new lookup"
	}
	return "enter look up • ctrl+x cancel booking • ctrl+l new lookup"
}

func (p *managePage) lookup(term string) tea.Cmd {
	term = strings.TrimSpace(term)
	p.lastTerm = term
	p.err = ""
	p.notice = ""
	p.confirm = false
	client := p.env.client
	if strings.Contains(term, "@") {
		p.loading = true
		return p.env.run(func(ctx context.Context) tea.Msg {
			bookings, err := client.GetBookingsByEmail(ctx, term)
			return lookupMsg{bookings: bookings, byEmail: true, err: err}
		})
	}
	if service.NormalizePNR(term) == "" {
		p.err = "Please enter a PNR number"
		return nil
	}
	p.loading = true
	return p.env.run(func(ctx context.Context) tea.Msg {
		b, err := client.GetBookingByPNR(ctx, term)
		if err != nil {
			return lookupMsg{err: err}
		}
		return lookupMsg{bookings: []model.Booking{b}}
	})
}

func (p *managePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.matches, msg.Width, msg.Height, 12)
		return p, nil

	case lookupMsg:
		p.loading = false
		p.booking = nil
		p.byEmail = msg.byEmail
		if msg.err != nil {
			switch {
			case service.IsNotFound(msg.err):
				p.err = "Booking not found. Please check your PNR number."
			default:
				p.err = service.Detail(msg.err, "Failed to find booking")
			}
			return p, nil
		}
		if msg.byEmail {
			if len(msg.bookings) == 0 {
				p.err = "No bookings found for this email."
				return p, nil
			}
			p.matches.SetItems(buildBookingItems(msg.bookings))
			p.matches.Select(0)
			p.input.Blur()
			return p, nil
		}
		b := msg.bookings[0]
		p.booking = &b
		p.input.Blur()
		return p, nil

	case cancelMsg:
		p.cancelling = false
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Failed to cancel booking")
			return p, nil
		}
		// The service drops cancelled records, so a fresh lookup would 404.
		p.booking.Status = model.BookingCancelled
		p.notice = msg.message
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *managePage) handleKey(msg tea.KeyMsg) (page, tea.Cmd) {
	if p.loading || p.cancelling {
		return p, nil
	}
	if p.confirm {
		switch msg.String() {
		case "y", "Y":
			return p, p.cancel()
		case "n", "N", "enter":
			p.confirm = false
		}
		return p, nil
	}

	switch msg.String() {
	case "ctrl+l":
		p.booking = nil
		p.byEmail = false
		p.err = ""
		p.notice = ""
		p.input.SetValue("")
		return p, p.input.Focus()
	case "ctrl+x":
		if p.booking == nil {
			return p, nil
		}
		if p.booking.EffectiveStatus() == model.BookingCancelled {
			p.err = "This booking is already cancelled."
			return p, nil
		}
		p.confirm = true
		return p, nil
	case "enter":
		if p.input.Focused() {
			return p, p.lookup(p.input.Value())
		}
		if p.byEmail && p.booking == nil {
			if item, ok := p.matches.SelectedItem().(bookingItem); ok {
				b := item.booking
				p.booking = &b
			}
		}
		return p, nil
	}

	if p.input.Focused() {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	if p.byEmail && p.booking == nil {
		var cmd tea.Cmd
		p.matches, cmd = p.matches.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *managePage) cancel() tea.Cmd {
	p.confirm = false
	p.cancelling = true
	p.err = ""
	client, pnr := p.env.client, p.booking.PNR
	return p.env.run(func(ctx context.Context) tea.Msg {
		message, err := client.CancelBooking(ctx, pnr)
		return cancelMsg{message: message, err: err}
	})
}

func (p *managePage) View() string {
	blocks := []string{p.input.View()}
	switch {
	case p.booking != nil:
		blocks = append(blocks, p.bookingView(*p.booking))
	case p.byEmail && len(p.matches.Items()) > 0:
		blocks = append(blocks, p.matches.View())
	}
	if p.confirm {
		blocks = append(blocks, errorStyle.Render(fmt.Sprintf("Cancel booking %s? This cannot be undone. (y/n)", p.booking.PNR)))
	}
	blocks = append(blocks, errorLine(p.err), noticeLine(p.notice))
	return joinBlocks(blocks...)
}

func (p *managePage) bookingView(b model.Booking) string {
	lines := []string{
		headingStyle.Render("Booking " + b.PNR),
		row("Status", format.Status(string(b.EffectiveStatus()))),
		row("Passenger", b.PassengerName),
	}
	if b.PassengerEmail != "" {
		lines = append(lines, row("Email", b.PassengerEmail))
	}
	if b.FlightNumber != "" {
		lines = append(lines, row("Flight", b.FlightNumber))
	}
	if !b.Origin.IsZero() || !b.Destination.IsZero() {
		lines = append(lines, row("Route", fmt.Sprintf("%s → %s", b.Origin, b.Destination)))
	}
	if !b.DepartureTime.IsZero() {
		lines = append(lines, row("Departs", format.DateTime(b.DepartureTime.Time)))
	}
	if !b.ArrivalTime.IsZero() {
		lines = append(lines, row("Arrives", format.DateTime(b.ArrivalTime.Time)))
	}
	if b.SeatNumber != "" {
		seat := b.SeatNumber
		if b.SeatClass != "" {
			seat += " (" + b.SeatClass + ")"
		}
		lines = append(lines, row("Seat", seat))
	}
	if booked := b.BookedAt(); !booked.IsZero() {
		lines = append(lines, row("Booked", format.DateTime(booked.Time)))
	}
	lines = append(lines, row("Total", priceStyle.Render(format.Money(b.TotalPrice))))
	return panel(p.env.width, strings.Join(lines, "\n"))
}
