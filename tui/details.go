package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

type detailsMsg struct {
	details model.FlightDetails
	err     error
}

type detailsPage struct {
	env     env
	payload nav.FlightDetails

	loading bool
	err     string
	details model.FlightDetails
	classes list.Model
}

func newDetailsPage(e env, p nav.FlightDetails) *detailsPage {
	l := newList("Choose a cabin")
	l.SetFilteringEnabled(false)
	resizeList(&l, e.width, e.height, 18)
	return &detailsPage{env: e, payload: p, classes: l}
}

func (p *detailsPage) Init() tea.Cmd {
	p.loading = true
	p.err = ""
	client, id := p.env.client, p.payload.FlightId
	return p.env.run(func(ctx context.Context) tea.Msg {
		details, err := client.GetFlightDetails(ctx, id)
		return detailsMsg{details: details, err: err}
	})
}

func (p *detailsPage) Loading() (string, bool) {
	return "Loading flight details", p.loading
}

func (p *detailsPage) Hints() string {
	return "enter select cabin • ctrl+f fare rules • ctrl+r reload"
}

func (p *detailsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.classes, msg.Width, msg.Height, 18)
		return p, nil

	case detailsMsg:
		p.loading = false
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Failed to load flight details")
			return p, nil
		}
		p.details = msg.details
		p.classes.SetItems(buildClassItems(p.flight()))
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return p, p.Init()
		case "ctrl+f":
			return p, navigateCmd(nav.FareRules{Flight: p.flight(), Class: p.selectedClass()})
		case "enter":
			if p.err != "" {
				return p, nil
			}
			return p, navigateCmd(nav.SeatSelection{Flight: p.flight(), Class: p.selectedClass()})
		}
	}

	var cmd tea.Cmd
	p.classes, cmd = p.classes.Update(msg)
	return p, cmd
}

// flight prefers the fresh details and falls back to the search result.
func (p *detailsPage) flight() model.FlightSearchResult {
	if p.details.FlightId == 0 {
		return p.payload.Flight
	}
	f := p.details.Summary()
	if len(f.Pricing) == 0 {
		f.Pricing = p.payload.Flight.Pricing
	}
	return f
}

func (p *detailsPage) selectedClass() string {
	if item, ok := p.classes.SelectedItem().(classItem); ok {
		return item.class
	}
	return model.ClassEconomy
}

func (p *detailsPage) View() string {
	if p.err != "" {
		return joinBlocks(errorLine(p.err), hint("Press ctrl+r to retry or esc to go back."))
	}
	f := p.flight()
	free := 0
	for _, s := range p.details.Seats {
		if s.IsAvailable {
			free++
		}
	}
	title := headingStyle.Render(fmt.Sprintf("%s  %s → %s", f.FlightNumber, p.env.ref.airportLabel(f.Origin), p.env.ref.airportLabel(f.Destination)))
	airline := p.details.AirlineName
	if airline == "" {
		airline = "-"
	}
	info := []string{
		row("Airline", airline),
		row("Departs", format.DateTime(f.DepartureTime.Time)),
		row("Arrives", format.DateTime(f.ArrivalTime.Time)),
		row("Duration", format.Duration(f.DepartureTime.Time, f.ArrivalTime.Time)),
		row("Base fare", format.Money(f.BaseEconomyPrice)),
	}
	if len(p.details.Seats) > 0 {
		info = append(info, row("Open seats", fmt.Sprintf("%d of %d", free, len(p.details.Seats))))
	}
	block := title
	for _, line := range info {
		block += "\n" + line
	}
	return panel(p.env.width, block) + "\n\n" + p.classes.View()
}
