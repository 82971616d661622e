package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

type fareType struct {
	name     string
	from     float64
	cabinBag string
	checked  string
	seat     string
	change   string
	cancel   string
	refund   string
}

var fareTypes = []fareType{
	{name: "Economy Saver", from: 249, cabinBag: "yes", checked: "no", seat: "no", change: "no", cancel: "no", refund: "no"},
	{name: "Economy Flex", from: 299, cabinBag: "yes", checked: "23kg", seat: "yes", change: "$50 fee", cancel: "within 24h", refund: "no"},
	{name: "Business", from: 599, cabinBag: "yes", checked: "32kg", seat: "priority", change: "free", cancel: "free", refund: "yes"},
}

type fareQuotesMsg struct {
	quotes map[string]float64
	err    error
}

// fareRulesPage compares fare types and, for a chosen flight, quotes the
// live price of every cabin.
type fareRulesPage struct {
	env     env
	payload nav.FareRules

	loading bool
	quotes  map[string]float64
	err     string
}

func newFareRulesPage(e env, p nav.FareRules) *fareRulesPage {
	return &fareRulesPage{env: e, payload: p}
}

func (p *fareRulesPage) classes() []string {
	classes := p.payload.Flight.Classes()
	if len(classes) == 0 {
		classes = []string{model.ClassEconomy, model.ClassBusiness, model.ClassFirst}
	}
	return classes
}

func (p *fareRulesPage) Init() tea.Cmd {
	if p.payload.Flight.FlightId == 0 {
		return nil
	}
	p.loading = true
	p.err = ""
	client, id, classes := p.env.client, p.payload.Flight.FlightId, p.classes()
	return p.env.run(func(ctx context.Context) tea.Msg {
		var mu sync.Mutex
		quotes := make(map[string]float64, len(classes))
		g, gctx := errgroup.WithContext(ctx)
		for _, class := range classes {
			g.Go(func() error {
				price, err := client.GetDynamicPrice(gctx, id, class)
				if err != nil {
					return err
				}
				mu.Lock()
				quotes[class] = price
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fareQuotesMsg{quotes: quotes, err: err}
		}
		return fareQuotesMsg{quotes: quotes}
	})
}

func (p *fareRulesPage) Loading() (string, bool) {
	return "Fetching live prices", p.loading
}

func (p *fareRulesPage) Hints() string {
	if p.payload.Flight.FlightId == 0 {
		return "esc back"
	}
	return "enter choose seats • ctrl+r refresh prices"
}

func (p *fareRulesPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case fareQuotesMsg:
		p.loading = false
		p.quotes = msg.quotes
		if msg.err != nil {
			p.err = service.Detail(msg.err, "Some prices could not be loaded")
		}
	case tea.KeyMsg:
		if p.payload.Flight.FlightId == 0 {
			return p, nil
		}
		switch msg.String() {
		case "ctrl+r":
			return p, p.Init()
		case "enter":
			class := p.payload.Class
			if class == "" {
				class = model.ClassEconomy
			}
			return p, navigateCmd(nav.SeatSelection{Flight: p.payload.Flight, Class: class})
		}
	}
	return p, nil
}

func (p *fareRulesPage) View() string {
	rules := table.NewWriter()
	rules.SetStyle(table.StyleLight)
	rules.AppendHeader(table.Row{"Fare", "From", "Cabin bag", "Checked bag", "Seat choice", "Date change", "Cancellation", "Refundable"})
	for _, f := range fareTypes {
		rules.AppendRow(table.Row{f.name, format.Money(f.from), f.cabinBag, f.checked, f.seat, f.change, f.cancel, f.refund})
	}
	blocks := []string{headingStyle.Render("Fare types"), rules.Render()}

	flight := p.payload.Flight
	if flight.FlightId != 0 {
		live := table.NewWriter()
		live.SetStyle(table.StyleLight)
		live.AppendHeader(table.Row{"Cabin", "Listed", "Live price", "Seats"})
		for _, class := range p.classes() {
			listed := flight.Fare(class)
			quote := "-"
			if v, ok := p.quotes[class]; ok {
				quote = format.Money(v)
			}
			seats := "-"
			if price, ok := flight.Pricing[class]; ok && price.SeatsAvailable > 0 {
				seats = fmt.Sprintf("%d", price.SeatsAvailable)
			}
			live.AppendRow(table.Row{class, format.Money(listed), quote, seats})
		}
		blocks = append(blocks,
			headingStyle.Render(fmt.Sprintf("%s  %s → %s", flight.FlightNumber, flight.Origin, flight.Destination)),
			live.Render(),
			errorLine(p.err),
		)
	}
	blocks = append(blocks, hint("Prices change with demand. The price at reservation is what you pay."))
	return joinBlocks(blocks...)
}
