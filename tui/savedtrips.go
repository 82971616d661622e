package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/nav"
	"skywings-cli/search"
	"skywings-cli/service"
	"skywings-cli/store"
)

type savedTripsPage struct {
	env env

	list   list.Model
	count  int
	err    string
	notice string
}

func newSavedTripsPage(e env, _ nav.SavedTrips) *savedTripsPage {
	l := newList("Saved trips")
	resizeList(&l, e.width, e.height, 8)
	p := &savedTripsPage{env: e, list: l}
	p.reload()
	return p
}

func (p *savedTripsPage) reload() {
	trips, err := store.LoadRecentSearches()
	if err != nil {
		p.err = "Failed to load saved trips"
		return
	}
	items := make([]list.Item, 0, len(trips))
	for _, t := range trips {
		items = append(items, tripItem{trip: t, label: p.env.ref.airportLabel})
	}
	p.count = len(items)
	p.list.SetItems(items)
}

func (p *savedTripsPage) Init() tea.Cmd { return nil }

func (p *savedTripsPage) Hints() string {
	return "enter search again • ctrl+e edit • ctrl+x remove"
}

func (p *savedTripsPage) activeList() *list.Model {
	return &p.list
}

func (p *savedTripsPage) selected() (store.RecentSearch, bool) {
	item, ok := p.list.SelectedItem().(tripItem)
	if !ok {
		return store.RecentSearch{}, false
	}
	return item.trip, true
}

func (p *savedTripsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.list, msg.Width, msg.Height, 8)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			trip, ok := p.selected()
			if !ok {
				return p, nil
			}
			form := tripForm(trip)
			req, err := form.Request()
			if err != nil {
				p.err = service.Detail(err, "This trip can no longer be searched")
				return p, nil
			}
			return p, navigateCmd(nav.SearchResults{Form: form, Search: req})
		case "ctrl+e":
			trip, ok := p.selected()
			if !ok {
				return p, nil
			}
			return p, resetCmd(nav.Home{Prefill: tripForm(trip)})
		case "ctrl+x":
			trip, ok := p.selected()
			if !ok {
				return p, nil
			}
			if err := store.ForgetSearch(trip); err != nil {
				p.err = "Failed to remove trip"
				return p, nil
			}
			p.notice = "Removed " + trip.Origin + " → " + trip.Destination + "."
			p.reload()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func tripForm(t store.RecentSearch) search.Form {
	passengers := t.Passengers
	if passengers <= 0 {
		passengers = 1
	}
	return search.Form{Origin: t.Origin, Destination: t.Destination, Date: t.Date, Passengers: passengers}
}

func (p *savedTripsPage) View() string {
	if p.count == 0 {
		return joinBlocks(
			headingStyle.Render("No saved trips yet"),
			"Every search you run is saved here so you can repeat it later.",
			errorLine(p.err),
			noticeLine(p.notice),
		)
	}
	return joinBlocks(p.list.View(), errorLine(p.err), noticeLine(p.notice))
}
