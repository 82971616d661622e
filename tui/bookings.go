package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/booking"
	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
)

type userBookingsMsg struct {
	bookings []model.Booking
	err      error
}

func loadUserBookings(e env) tea.Cmd {
	client := e.client
	return e.run(func(ctx context.Context) tea.Msg {
		bookings, err := client.GetUserBookings(ctx)
		return userBookingsMsg{bookings: bookings, err: err}
	})
}

// myBookingsPage lists the signed-in user's trips split into upcoming and
// past tabs.
type myBookingsPage struct {
	env env

	loading  bool
	err      string
	loaded   bool
	active   []model.Booking
	past     []model.Booking
	showPast bool
	list     list.Model
}

func newMyBookingsPage(e env, _ nav.MyBookings) *myBookingsPage {
	l := newList("Upcoming trips")
	resizeList(&l, e.width, e.height, 8)
	return &myBookingsPage{env: e, list: l}
}

func (p *myBookingsPage) Init() tea.Cmd {
	if !p.env.client.IsAuthenticated() {
		return replaceCmd(nav.SignIn{Then: nav.MyBookings{}})
	}
	p.loading = true
	p.err = ""
	return loadUserBookings(p.env)
}

func (p *myBookingsPage) Loading() (string, bool) {
	return "Loading your bookings", p.loading
}

func (p *myBookingsPage) Hints() string {
	return "tab upcoming/past • enter manage • ctrl+r reload"
}

func (p *myBookingsPage) activeList() *list.Model {
	return &p.list
}

func (p *myBookingsPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.list, msg.Width, msg.Height, 8)
		return p, nil

	case userBookingsMsg:
		p.loading = false
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return p, replaceCmd(nav.SignIn{Then: nav.MyBookings{}})
			}
			p.err = service.Detail(msg.err, "Failed to load bookings")
			return p, nil
		}
		p.loaded = true
		p.active, p.past = booking.Partition(msg.bookings)
		booking.SortRecent(p.past)
		p.refresh()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			p.showPast = !p.showPast
			p.list.ResetFilter()
			p.refresh()
			return p, nil
		case "ctrl+r":
			return p, p.Init()
		case "enter":
			if item, ok := p.list.SelectedItem().(bookingItem); ok {
				return p, navigateCmd(nav.ManageBooking{PNR: item.booking.PNR})
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *myBookingsPage) refresh() {
	items := p.active
	p.list.Title = fmt.Sprintf("Upcoming trips (%d)", len(p.active))
	if p.showPast {
		items = p.past
		p.list.Title = fmt.Sprintf("Past trips (%d)", len(p.past))
	}
	p.list.SetItems(buildBookingItems(items))
	p.list.Select(0)
}

func (p *myBookingsPage) View() string {
	if p.err != "" {
		return joinBlocks(errorLine(p.err), hint("Press ctrl+r to retry."))
	}
	if !p.loaded {
		return ""
	}
	tabs := tabBar([]string{
		fmt.Sprintf("Upcoming (%d)", len(p.active)),
		fmt.Sprintf("Past (%d)", len(p.past)),
	}, boolIndex(p.showPast))
	if len(p.list.Items()) == 0 {
		empty := "No upcoming trips. Search for a flight to get started."
		if p.showPast {
			empty = "No past trips yet."
		}
		return joinBlocks(tabs, empty)
	}
	return tabs + "\n\n" + p.list.View()
}

// historyPage shows every booking, newest first, with a spending summary.
type historyPage struct {
	env env

	loading bool
	err     string
	loaded  bool
	summary booking.Summary
	list    list.Model
}

func newHistoryPage(e env, _ nav.BookingHistory) *historyPage {
	l := newList("Booking history")
	resizeList(&l, e.width, e.height, 12)
	return &historyPage{env: e, list: l}
}

func (p *historyPage) Init() tea.Cmd {
	if !p.env.client.IsAuthenticated() {
		return replaceCmd(nav.SignIn{Then: nav.BookingHistory{}})
	}
	p.loading = true
	p.err = ""
	return loadUserBookings(p.env)
}

func (p *historyPage) Loading() (string, bool) {
	return "Loading booking history", p.loading
}

func (p *historyPage) Hints() string {
	return "type to filter • enter manage • ctrl+r reload"
}

func (p *historyPage) activeList() *list.Model {
	return &p.list
}

func (p *historyPage) Update(msg tea.Msg) (page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		resizeList(&p.list, msg.Width, msg.Height, 12)
		return p, nil

	case userBookingsMsg:
		p.loading = false
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return p, replaceCmd(nav.SignIn{Then: nav.BookingHistory{}})
			}
			p.err = service.Detail(msg.err, "Failed to load booking history")
			return p, nil
		}
		p.loaded = true
		bookings := append([]model.Booking(nil), msg.bookings...)
		booking.SortRecent(bookings)
		p.summary = booking.Summarize(bookings)
		p.list.SetItems(buildBookingItems(bookings))
		p.list.Select(0)
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+r":
			return p, p.Init()
		case "enter":
			if item, ok := p.list.SelectedItem().(bookingItem); ok {
				return p, navigateCmd(nav.ManageBooking{PNR: item.booking.PNR})
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p *historyPage) View() string {
	if p.err != "" {
		return joinBlocks(errorLine(p.err), hint("Press ctrl+r to retry."))
	}
	if !p.loaded {
		return ""
	}
	s := p.summary
	stats := strings.Join([]string{
		row("Bookings", fmt.Sprintf("%d", s.Total)),
		row("Confirmed", fmt.Sprintf("%d", s.Confirmed)),
		row("Completed", fmt.Sprintf("%d", s.Completed)),
		row("Cancelled", fmt.Sprintf("%d", s.Cancelled)),
		row("Total spent", priceStyle.Render(format.Money(s.Spent))),
	}, "\n")
	if s.Total == 0 {
		return joinBlocks(panel(p.env.width, stats), "You have not booked any flights yet.")
	}
	return panel(p.env.width, stats) + "\n\n" + p.list.View()
}

func tabBar(labels []string, active int) string {
	parts := make([]string, len(labels))
	for i, label := range labels {
		if i == active {
			parts[i] = chipStyle.Render(label)
			continue
		}
		parts[i] = hint(" " + label + " ")
	}
	return strings.Join(parts, " ")
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
