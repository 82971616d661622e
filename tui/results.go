package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/search"
	"skywings-cli/service"
)

// priceCaps are the max-price steps ctrl+p cycles through; 0 is no cap.
var priceCaps = []float64{0, 1000, 750, 500, 300}

type flightsMsg struct {
	flights []model.FlightSearchResult
	err     error
}

type resultsPage struct {
	env     env
	payload nav.SearchResults

	loading bool
	err     string
	flights []model.FlightSearchResult
	shown   int

	sortKey  search.SortKey
	priceCap int
	list     list.Model
}

func newResultsPage(e env, p nav.SearchResults) *resultsPage {
	l := newList(fmt.Sprintf("Flights %s → %s • %s", p.Search.Origin, p.Search.Destination, p.Search.DepartureDate))
	resizeList(&l, e.width, e.height, 9)
	return &resultsPage{env: e, payload: p, list: l}
}

func (p *resultsPage) Init() tea.Cmd {
	p.loading = true
	p.err = ""
	client, req := p.env.client, p.payload.Search
	return p.env.run(func(ctx context.Context) tea.Msg {
		flights, err := client.SearchFlights(ctx, req)
		return flightsMsg{flights: flights, err: err}
	})
}

func (p *resultsPage) Loading() (string, bool) {
	return "Searching flights", p.loading
}

func (p *resultsPage) Hints() string {
	return "type to filter • enter details • ctrl+s sort • ctrl+p max price • ctrl+r retry"
}

func (p *resultsPage) activeList() *list.Model {
	return &p.list
}

func (p *resultsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.list, msg.Width, msg.Height, 9)
		return p, nil

	case flightsMsg:
		p.loading = false
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Failed to search flights. Please try again.")
			return p, nil
		}
		p.flights = msg.flights
		p.refresh()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			p.sortKey = p.sortKey.Next()
			p.refresh()
			return p, nil
		case "ctrl+p":
			p.priceCap = (p.priceCap + 1) % len(priceCaps)
			p.refresh()
			return p, nil
		case "ctrl+r":
			return p, p.Init()
		case "enter":
			item, ok := p.list.SelectedItem().(flightItem)
			if !ok {
				return p, nil
			}
			return p, navigateCmd(nav.FlightDetails{FlightId: item.flight.FlightId, Flight: item.flight})
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *resultsPage) priceLabel() string {
	if priceCaps[p.priceCap] == 0 {
		return "any"
	}
	return format.Money(priceCaps[p.priceCap])
}

func (p *resultsPage) refresh() {
	visible := p.flights
	if limit := priceCaps[p.priceCap]; limit > 0 {
		visible = search.FilterByPrice(visible, search.PriceRange{Min: search.DefaultPriceRange.Min, Max: limit})
	}
	visible = search.Sort(visible, p.sortKey)
	p.shown = len(visible)
	p.list.SetItems(buildFlightItems(visible))
	p.list.Select(0)
}

func (p *resultsPage) View() string {
	if p.err != "" {
		return joinBlocks(errorLine(p.err), hint("Press ctrl+r to retry or esc to change your search."))
	}
	if len(p.flights) == 0 {
		return panel(p.env.width, joinBlocks(
			headingStyle.Render("No flights found"),
			"Try adjusting your search criteria or dates.",
			hint("Press esc to modify your search."),
		))
	}
	status := hint(fmt.Sprintf("Sort: %s • Max price: %s • %d of %d flights",
		p.sortKey, p.priceLabel(), p.shown, len(p.flights)))
	if p.shown == 0 {
		return joinBlocks(status, "No flights match the price filter. Press ctrl+p until the cap reads \"any\" to show every fare.")
	}
	return status + "\n" + p.list.View()
}
