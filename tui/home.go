package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/logging"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/search"
	"skywings-cli/service"
	"skywings-cli/store"
)

const (
	homeOrigin = iota
	homeDestination
	homeDate
	homePassengers
)

type locationMsg struct {
	airport  model.Airport
	location service.UserLocation
	err      error
}

type homePage struct {
	env    env
	form   form
	recent []store.RecentSearch
	next   int

	locating bool
	err      string
	notice   string
}

func newHomePage(e env, p nav.Home) *homePage {
	origin := p.Prefill.Origin
	if origin == "" {
		origin = e.defaultOrigin
	}
	date := p.Prefill.Date
	if date == "" {
		date = time.Now().AddDate(0, 0, 1).Format(time.DateOnly)
	}
	passengers := "1"
	if p.Prefill.Passengers > 0 {
		passengers = strconv.Itoa(p.Prefill.Passengers)
	}

	recent, err := store.LoadRecentSearches()
	if err != nil {
		logging.WithFields("component", "tui").Warn("load recent searches", "error", err)
	}

	return &homePage{
		env: e,
		form: newForm(
			fieldSpec{label: "From", placeholder: "JFK", value: origin, limit: 3},
			fieldSpec{label: "To", placeholder: "LAX", value: p.Prefill.Destination, limit: 3},
			fieldSpec{label: "Departure", placeholder: "YYYY-MM-DD", value: date, limit: 10},
			fieldSpec{label: "Passengers", placeholder: "1", value: passengers, limit: 1},
		),
		recent: recent,
	}
}

func (p *homePage) Init() tea.Cmd {
	if p.form.value(homeOrigin) != "" {
		return p.form.focusAt(homeDestination)
	}
	return p.form.focusAt(homeOrigin)
}

func (p *homePage) Loading() (string, bool) {
	return "Detecting your location", p.locating
}

func (p *homePage) Hints() string {
	return "enter next/search • ctrl+l use my location • ctrl+r recent • ctrl+b my bookings • ctrl+g manage booking • ctrl+u account • ctrl+h history • ctrl+t saved trips • ctrl+f fare rules"
}

func (p *homePage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case locationMsg:
		p.locating = false
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Could not detect your location: "+msg.err.Error())
			return p, nil
		}
		p.err = ""
		p.form.set(homeOrigin, msg.airport.Code)
		p.notice = fmt.Sprintf("Detected %s. Departing from %s (%s).", msg.location.City, msg.airport.Name, msg.airport.Code)
		return p, p.form.focusAt(homeDestination)

	case tea.KeyMsg:
		if p.locating {
			return p, nil
		}
		switch msg.String() {
		case "ctrl+l":
			return p.detectLocation()
		case "ctrl+r":
			p.fillRecent()
			return p, nil
		case "ctrl+b":
			return p, navigateCmd(nav.MyBookings{})
		case "ctrl+g":
			return p, navigateCmd(nav.ManageBooking{})
		case "ctrl+u":
			if p.env.client.IsAuthenticated() {
				return p, navigateCmd(nav.Profile{})
			}
			return p, navigateCmd(nav.SignIn{})
		case "ctrl+h":
			return p, navigateCmd(nav.BookingHistory{})
		case "ctrl+t":
			return p, navigateCmd(nav.SavedTrips{})
		case "ctrl+f":
			return p, navigateCmd(nav.FareRules{})
		}
	}

	var cmd tea.Cmd
	var submitted bool
	p.form, cmd, submitted = p.form.update(msg)
	if submitted {
		return p.submit()
	}
	return p, cmd
}

func (p *homePage) submit() (page, tea.Cmd) {
	passengers, err := strconv.Atoi(p.form.value(homePassengers))
	if err != nil || passengers < 1 {
		p.err = "Passengers must be between 1 and 9"
		return p, nil
	}
	sf := search.Form{
		Origin:      p.form.value(homeOrigin),
		Destination: p.form.value(homeDestination),
		Date:        p.form.value(homeDate),
		Passengers:  passengers,
	}
	req, err := sf.Request()
	if err != nil {
		p.err = service.Detail(err, "Please check your search")
		return p, nil
	}
	if err := store.RememberSearch(store.RecentSearch{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.DepartureDate,
		Passengers:  passengers,
	}); err != nil {
		logging.WithFields("component", "tui").Warn("remember search", "error", err)
	}
	return p, navigateCmd(nav.SearchResults{Form: sf, Search: req})
}

func (p *homePage) fillRecent() {
	if len(p.recent) == 0 {
		p.notice = "No recent searches yet."
		return
	}
	r := p.recent[p.next%len(p.recent)]
	p.next++
	p.form.set(homeOrigin, r.Origin)
	p.form.set(homeDestination, r.Destination)
	p.form.set(homeDate, r.Date)
	if r.Passengers > 0 {
		p.form.set(homePassengers, strconv.Itoa(r.Passengers))
	}
	p.notice = fmt.Sprintf("Loaded recent search %s → %s.", r.Origin, r.Destination)
}

func (p *homePage) detectLocation() (page, tea.Cmd) {
	airports := p.env.ref.airports
	if len(airports) == 0 {
		p.err = "Airport list is not loaded yet."
		return p, nil
	}
	p.locating = true
	p.err = ""
	client := p.env.client
	return p, p.env.run(func(ctx context.Context) tea.Msg {
		airport, location, err := client.SuggestOriginAirport(ctx, airports)
		return locationMsg{airport: airport, location: location, err: err}
	})
}

func (p *homePage) View() string {
	intro := headingStyle.Render("Where would you like to go?")
	body := p.form.view()

	var recent []string
	for i, r := range p.recent {
		if i == 3 {
			break
		}
		recent = append(recent, fmt.Sprintf("%s → %s on %s", r.Origin, r.Destination, r.Date))
	}
	recentBlock := ""
	if len(recent) > 0 {
		recentBlock = hint("Recent: " + strings.Join(recent, " • "))
	}

	airportsBlock := ""
	switch {
	case p.env.ref.err != nil:
		airportsBlock = errorLine("Failed to load airports")
	case len(p.env.ref.airports) > 0:
		codes := make([]string, 0, len(p.env.ref.airports))
		for _, a := range p.env.ref.airports {
			codes = append(codes, a.Code)
		}
		airportsBlock = hint("Airports: " + strings.Join(codes, " "))
	}

	return panel(p.env.width, joinBlocks(intro, body, errorLine(p.err), noticeLine(p.notice), recentBlock, airportsBlock))
}
