package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/addons"
	"skywings-cli/format"
	"skywings-cli/nav"
)

type addOnsPage struct {
	env     env
	payload nav.AddOns

	groups    []addons.Group
	items     []addons.Item
	cursor    int
	selection addons.Selection
}

func newAddOnsPage(e env, p nav.AddOns) *addOnsPage {
	groups := e.catalog.Grouped()
	var items []addons.Item
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	selection := p.Selection.Clone()
	return &addOnsPage{env: e, payload: p, groups: groups, items: items, selection: selection}
}

func (p *addOnsPage) Init() tea.Cmd { return nil }

func (p *addOnsPage) Hints() string {
	return "up/down choose • +/right add • -/left remove • enter continue • ctrl+k skip"
}

func (p *addOnsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "+", "=", "right", "l":
		if len(p.items) > 0 {
			p.selection.Adjust(p.items[p.cursor].Id, 1)
		}
	case "-", "_", "left", "h":
		if len(p.items) > 0 {
			p.selection.Adjust(p.items[p.cursor].Id, -1)
		}
	case "enter":
		return p, p.checkout(p.selection)
	case "ctrl+k":
		return p, p.checkout(addons.Selection{})
	}
	return p, nil
}

// checkout computes the add-on total once; later pages only carry it.
func (p *addOnsPage) checkout(sel addons.Selection) tea.Cmd {
	return navigateCmd(nav.Checkout{
		Flight:     p.payload.Flight,
		Seat:       p.payload.Seat,
		Class:      p.payload.Class,
		SeatPrice:  p.payload.SeatPrice,
		AddOns:     sel.Clone(),
		AddOnTotal: sel.Total(p.env.catalog),
	})
}

func (p *addOnsPage) View() string {
	var b strings.Builder
	i := 0
	for gi, g := range p.groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(g.Category) + "\n")
		for _, item := range g.Items {
			marker := "  "
			if i == p.cursor {
				marker = priceStyle.Render("> ")
			}
			qty := ""
			if n := p.selection.Quantity(item.Id); n > 0 {
				qty = noticeStyle.Render(fmt.Sprintf("  x%d", n))
			}
			b.WriteString(fmt.Sprintf("%s%-22s %8s%s\n", marker, item.Title, format.Money(item.Price), qty))
			if i == p.cursor {
				b.WriteString("    " + hint(item.Description) + "\n")
			}
			i++
		}
	}

	total := p.selection.Total(p.env.catalog)
	summary := strings.Join([]string{
		row(fmt.Sprintf("Seat %s", p.payload.Seat.SeatNumber), format.Money(p.payload.SeatPrice)),
		row(fmt.Sprintf("Add-ons (%d)", p.selection.Count()), format.Money(total)),
		row("Estimated total", priceStyle.Render(format.Money(p.payload.SeatPrice+total))),
	}, "\n")
	return joinBlocks(strings.TrimRight(b.String(), "\n"), panel(p.env.width, summary))
}
