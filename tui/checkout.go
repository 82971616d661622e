package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/booking"
	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

const (
	checkoutFirstName = iota
	checkoutLastName
	checkoutEmail
	checkoutPhone
	checkoutAge
	checkoutGender
)

type bookingResultMsg struct {
	confirmation booking.Confirmation
	err          error
}

type checkoutPage struct {
	env     env
	payload nav.Checkout

	form       form
	submitting bool
	err        string
}

func newCheckoutPage(e env, p nav.Checkout) *checkoutPage {
	var first, last, email, phone string
	if user, ok := e.client.CurrentUser(); ok {
		first, last, email, phone = user.FirstName, user.LastName, user.Email, user.Phone
	}
	return &checkoutPage{
		env:     e,
		payload: p,
		form: newForm(
			fieldSpec{label: "First name", value: first},
			fieldSpec{label: "Last name", value: last},
			fieldSpec{label: "Email", placeholder: "you@example.com", value: email},
			fieldSpec{label: "Phone", placeholder: "optional", value: phone},
			fieldSpec{label: "Age", placeholder: "optional", limit: 3},
			fieldSpec{label: "Gender", placeholder: "optional"},
		),
	}
}

func (p *checkoutPage) Init() tea.Cmd {
	return p.form.focusAt(checkoutFirstName)
}

func (p *checkoutPage) Loading() (string, bool) {
	return "Processing your booking", p.submitting
}

func (p *checkoutPage) Hints() string {
	return "tab/enter next field • enter on last field to pay"
}

func (p *checkoutPage) Update(msg tea.Msg) (page, tea.Cmd) {
	if res, ok := msg.(bookingResultMsg); ok {
		p.submitting = false
		if res.err != nil {
			p.err = bookingErrorText(res.err)
			return p, nil
		}
		return p, resetCmd(nav.Confirmation{Result: res.confirmation})
	}
	if p.submitting {
		return p, nil
	}

	var cmd tea.Cmd
	var submitted bool
	p.form, cmd, submitted = p.form.update(msg)
	if submitted {
		return p, p.submit()
	}
	return p, cmd
}

func (p *checkoutPage) passenger() model.Passenger {
	return model.Passenger{
		FirstName: p.form.value(checkoutFirstName),
		LastName:  p.form.value(checkoutLastName),
		Email:     p.form.value(checkoutEmail),
		Phone:     p.form.value(checkoutPhone),
		Age:       p.form.value(checkoutAge),
		Gender:    p.form.value(checkoutGender),
	}
}

func (p *checkoutPage) submit() tea.Cmd {
	passenger := p.passenger()
	if err := passenger.Validate(); err != nil {
		p.err = service.Detail(err, "Please check the passenger details")
		return nil
	}
	p.err = ""
	p.submitting = true
	flow := p.env.flow
	co := booking.Checkout{
		Flight:     p.payload.Flight,
		Seat:       p.payload.Seat,
		Class:      p.payload.Class,
		Passenger:  passenger,
		AddOns:     p.payload.AddOns,
		AddOnTotal: p.payload.AddOnTotal,
	}
	return p.env.run(func(ctx context.Context) tea.Msg {
		conf, err := flow.Submit(ctx, co)
		return bookingResultMsg{confirmation: conf, err: err}
	})
}

func bookingErrorText(err error) string {
	if errors.Is(err, booking.ErrInProgress) {
		return "Your booking is already being processed."
	}
	var stageErr *booking.StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case booking.StageInitiate:
			return service.Detail(err, "Failed to reserve your seat. Please try again.")
		case booking.StagePayment:
			return service.Detail(err, "Payment failed. Your seat has been released. Please try again.")
		}
	}
	return service.Detail(err, "Booking failed. Please try again.")
}

func (p *checkoutPage) View() string {
	f := p.payload.Flight
	fare := p.payload.SeatPrice
	if fare == 0 {
		fare = f.Fare(p.payload.Class)
	}
	lines := []string{
		headingStyle.Render(fmt.Sprintf("%s  %s → %s", f.FlightNumber, f.Origin, f.Destination)),
		row("Departs", format.DateTime(f.DepartureTime.Time)),
		row("Seat", fmt.Sprintf("%s (%s)", p.payload.Seat.SeatNumber, p.payload.Class)),
		row("Fare", format.Money(fare)),
	}
	for _, line := range p.payload.AddOns.Lines(p.env.catalog) {
		lines = append(lines, row("  "+line.Item.Title, fmt.Sprintf("x%d %s", line.Quantity, format.Money(line.Subtotal))))
	}
	if p.payload.AddOnTotal > 0 {
		lines = append(lines, row("Add-ons", format.Money(p.payload.AddOnTotal)))
	}
	lines = append(lines, row("Total", priceStyle.Render(format.Money(fare+p.payload.AddOnTotal))))

	return joinBlocks(
		panel(p.env.width, strings.Join(lines, "\n")),
		headingStyle.Render("Passenger details"),
		p.form.view(),
		errorLine(p.err),
	)
}
