package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skywings-cli/addons"
	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/seatmap"
	"skywings-cli/service"
)

type seatsMsg struct {
	selection model.SeatSelection
	err       error
}

type seatsPage struct {
	env     env
	payload nav.SeatSelection

	loading     bool
	err         string
	selection   model.SeatSelection
	seatMap     seatmap.Map
	cursor      seatmap.Cursor
	selected    model.Seat
	showNumbers bool
}

func newSeatsPage(e env, p nav.SeatSelection) *seatsPage {
	return &seatsPage{env: e, payload: p, showNumbers: true}
}

func (p *seatsPage) Init() tea.Cmd {
	p.loading = true
	p.err = ""
	client, id, class := p.env.client, p.payload.Flight.FlightId, p.payload.Class
	return p.env.run(func(ctx context.Context) tea.Msg {
		selection, err := client.GetFlightSeats(ctx, id, class)
		return seatsMsg{selection: selection, err: err}
	})
}

func (p *seatsPage) Loading() (string, bool) {
	return "Loading seat map", p.loading
}

func (p *seatsPage) Hints() string {
	return "arrows move • enter/space select • ctrl+n continue • n toggle numbers • ctrl+r reload"
}

func (p *seatsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case seatsMsg:
		p.loading = false
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Failed to load seats")
			return p, nil
		}
		p.selection = msg.selection
		p.seatMap = seatmap.Build(msg.selection.Seats)
		p.cursor = p.seatMap.Locate(p.selected.SeatNumber)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			p.cursor = p.seatMap.Up(p.cursor)
		case "down", "j":
			p.cursor = p.seatMap.Down(p.cursor)
		case "left", "h":
			p.cursor = p.seatMap.Left(p.cursor)
		case "right", "l":
			p.cursor = p.seatMap.Right(p.cursor)
		case "enter", " ":
			p.selectUnderCursor()
		case "n":
			p.showNumbers = !p.showNumbers
		case "ctrl+r":
			return p, p.Init()
		case "ctrl+n":
			return p.proceed()
		}
	}
	return p, nil
}

func (p *seatsPage) selectUnderCursor() {
	under, ok := p.seatMap.Seat(p.cursor)
	if !ok {
		return
	}
	seat, err := p.seatMap.Select(under.SeatNumber)
	switch {
	case errors.Is(err, seatmap.ErrSeatUnavailable):
		p.err = fmt.Sprintf("Seat %s is already booked.", under.SeatNumber)
		return
	case err != nil:
		p.err = err.Error()
		return
	}
	p.err = ""
	p.selected = seat
}

func (p *seatsPage) proceed() (page, tea.Cmd) {
	if p.seatMap.Empty() {
		return p, nil
	}
	if p.selected.SeatNumber == "" {
		p.err = "Please select a seat to continue"
		return p, nil
	}
	class := p.selected.Class
	if class == "" {
		class = p.payload.Class
	}
	return p, navigateCmd(nav.AddOns{
		Flight:    p.payload.Flight,
		Seat:      p.selected,
		Class:     class,
		SeatPrice: p.seatPrice(),
		Selection: addons.Selection{},
	})
}

func (p *seatsPage) seatPrice() float64 {
	if price := p.selection.SeatPrice(p.selected); price > 0 {
		return price
	}
	return p.payload.Flight.Fare(p.selected.Class)
}

func (p *seatsPage) View() string {
	title := headingStyle.Render(fmt.Sprintf("%s • %s cabin", p.payload.Flight.FlightNumber, p.payload.Class))
	if p.seatMap.Empty() {
		if p.err != "" {
			return joinBlocks(title, errorLine(p.err), hint("Press ctrl+r to retry or esc to go back."))
		}
		return joinBlocks(title, "No seats available for this cabin.", hint("Press esc to choose another cabin."))
	}
	selected := hint("No seat selected")
	if p.selected.SeatNumber != "" {
		selected = fmt.Sprintf("Selected: %s (%s) • %s", p.selected.SeatNumber, p.selected.Class, priceStyle.Render(format.Money(p.seatPrice())))
	}
	return joinBlocks(title, p.renderSeatMap(), selected, errorLine(p.err))
}

func (p *seatsPage) renderSeatMap() string {
	styles := map[seatmap.Status]lipgloss.Style{
		seatmap.Available: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		seatmap.Premium:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		seatmap.Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63")).Bold(true),
		seatmap.Booked:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	rowWidth := 2
	cellWidth := 2
	for _, r := range p.seatMap.Rows {
		rowWidth = max(rowWidth, len(r.Label))
		for _, s := range r.Seats {
			cellWidth = max(cellWidth, len(s.SeatNumber))
		}
	}
	if !p.showNumbers {
		cellWidth = 2
	}

	var b strings.Builder
	for ri, r := range p.seatMap.Rows {
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, r.Label))
		for ci, seat := range r.Seats {
			status := seatmap.StatusOf(seat, p.selected.SeatNumber)
			text := seatToken(status)
			if p.showNumbers {
				text = seat.SeatNumber
			}
			rendered := styles[status].Render(padCell(text, cellWidth))
			if ri == p.cursor.Row && ci == p.cursor.Col {
				rendered = cursorStyle.Render(padCell(text, cellWidth))
			}
			b.WriteString(rendered)
			if ci < len(r.Seats)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	legend := "Legend: [] available • PP premium • ** selected • XX booked"
	if p.showNumbers {
		legend = "Legend: green available • magenta premium • highlighted selected • grey booked"
	}
	return b.String() + hint(legend)
}

func seatToken(status seatmap.Status) string {
	switch status {
	case seatmap.Booked:
		return "XX"
	case seatmap.Selected:
		return "**"
	case seatmap.Premium:
		return "PP"
	default:
		return "[]"
	}
}

func padCell(text string, width int) string {
	if len(text) >= width {
		return text
	}
	left := (width - len(text)) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-len(text)-left)
}
