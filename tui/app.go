package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skywings-cli/addons"
	"skywings-cli/booking"
	"skywings-cli/logging"
	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
	"skywings-cli/store"
)

// page is one screen. Pages are rebuilt from their payload on every visit.
type page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (page, tea.Cmd)
	View() string
	Hints() string
}

// loadingPage is implemented by pages that fetch data.
type loadingPage interface {
	Loading() (string, bool)
}

// listPage exposes the list that receives typed filter input.
type listPage interface {
	activeList() *list.Model
}

type navMode int

const (
	navPush navMode = iota
	navReplace
	navReset
)

type navigateMsg struct {
	to   nav.Payload
	mode navMode
}

type backMsg struct{}

// pageMsg carries an async result back to the page generation that asked
// for it.
type pageMsg struct {
	gen uint64
	msg tea.Msg
}

type referenceMsg struct {
	data service.ReferenceData
	err  error
}

// reference is shared by all pages and filled once at startup.
type reference struct {
	airports []model.Airport
	airlines []model.Airline
	err      error
}

func (r *reference) airportLabel(code string) string {
	for _, a := range r.airports {
		if strings.EqualFold(a.Code, code) {
			return fmt.Sprintf("%s (%s)", a.City, a.Code)
		}
	}
	return code
}

// env is what a page needs from the root.
type env struct {
	client        *service.Client
	flow          *booking.Flow
	catalog       addons.Catalog
	ref           *reference
	defaultOrigin string

	ctx    context.Context
	gen    uint64
	width  int
	height int
}

// run executes fn off the event loop under the page context and tags the
// result with the page generation.
func (e env) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	ctx, gen := e.ctx, e.gen
	return func() tea.Msg {
		return pageMsg{gen: gen, msg: fn(ctx)}
	}
}

// Options configures the application.
type Options struct {
	Client        *service.Client
	Catalog       addons.Catalog
	DefaultOrigin string
	Start         nav.Payload
}

type appModel struct {
	client  *service.Client
	flow    *booking.Flow
	catalog addons.Catalog
	ref     *reference
	origin  string
	ctrl    *nav.Controller
	logger  *slog.Logger

	page    page
	spinner spinner.Model

	width  int
	height int
}

func New(opts Options) tea.Model {
	client := opts.Client
	if client == nil {
		client = service.NewClient("", nil, nil)
	}
	catalog := opts.Catalog
	if len(catalog) == 0 {
		catalog = addons.DefaultCatalog()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	m := appModel{
		client:  client,
		flow:    booking.NewFlow(client),
		catalog: catalog,
		ref:     &reference{},
		origin:  strings.ToUpper(strings.TrimSpace(opts.DefaultOrigin)),
		ctrl:    nav.NewController(context.Background(), opts.Start),
		logger:  logging.WithFields("component", "tui"),
		spinner: sp,
	}
	m.page = m.buildPage(m.ctrl.Current())
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.loadReferenceCmd(), m.page.Init(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.ctrl.Close()
			return m, tea.Quit
		case "esc":
			if listPtr := m.activeList(); listPtr != nil && listPtr.FilterValue() != "" {
				listPtr.ResetFilter()
				return m, nil
			}
			return m.back()
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		return m.forward(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading() {
			return m, cmd
		}
		return m, nil

	case navigateMsg:
		return m.navigate(msg)

	case backMsg:
		return m.back()

	case pageMsg:
		if !m.ctrl.Accepts(msg.gen) {
			m.logger.Debug("dropping stale page message", "gen", msg.gen, "current", m.ctrl.Generation())
			return m, nil
		}
		return m.forward(msg.msg)

	case referenceMsg:
		m.ref.err = msg.err
		if msg.err != nil {
			m.logger.Warn("reference data unavailable", "error", msg.err)
			return m, nil
		}
		m.ref.airports = msg.data.Airports
		m.ref.airlines = msg.data.Airlines
		return m, nil
	}

	return m.forward(msg)
}

// forward hands msg to the page and restarts the spinner when the page
// starts loading.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	wasLoading := m.isLoading()
	next, cmd := m.page.Update(msg)
	m.page = next
	if !wasLoading && m.isLoading() {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m appModel) navigate(msg navigateMsg) (tea.Model, tea.Cmd) {
	to := msg.to
	if to == nil {
		to = nav.Home{}
	}
	switch msg.mode {
	case navReplace:
		m.ctrl.Replace(to)
	case navReset:
		m.ctrl.Reset(to)
	default:
		m.ctrl.Navigate(to)
	}
	m.logger.Debug("navigate", "page", to.Page(), "gen", m.ctrl.Generation())
	return m.enter(to)
}

func (m appModel) back() (tea.Model, tea.Cmd) {
	prev, ok := m.ctrl.Back()
	if !ok {
		return m, nil
	}
	return m.enter(prev)
}

func (m appModel) enter(p nav.Payload) (tea.Model, tea.Cmd) {
	m.page = m.buildPage(p)
	cmds := []tea.Cmd{m.page.Init()}
	if m.width > 0 {
		sized, cmd := m.page.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.page = sized
		cmds = append(cmds, cmd)
	}
	if m.isLoading() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) env() env {
	return env{
		client:        m.client,
		flow:          m.flow,
		catalog:       m.catalog,
		ref:           m.ref,
		defaultOrigin: m.origin,
		ctx:           m.ctrl.Context(),
		gen:           m.ctrl.Generation(),
		width:         m.width,
		height:        m.height,
	}
}

func (m appModel) buildPage(p nav.Payload) page {
	e := m.env()
	switch p := p.(type) {
	case nav.Home:
		return newHomePage(e, p)
	case nav.SearchResults:
		return newResultsPage(e, p)
	case nav.FlightDetails:
		return newDetailsPage(e, p)
	case nav.SeatSelection:
		return newSeatsPage(e, p)
	case nav.AddOns:
		return newAddOnsPage(e, p)
	case nav.Checkout:
		return newCheckoutPage(e, p)
	case nav.Confirmation:
		return newConfirmationPage(e, p)
	case nav.MyBookings:
		return newMyBookingsPage(e, p)
	case nav.ManageBooking:
		return newManagePage(e, p)
	case nav.SignIn:
		return newSignInPage(e, p)
	case nav.Profile:
		return newProfilePage(e, p)
	case nav.BookingHistory:
		return newHistoryPage(e, p)
	case nav.SavedTrips:
		return newSavedTripsPage(e, p)
	case nav.FareRules:
		return newFareRulesPage(e, p)
	default:
		return newHomePage(e, nav.Home{})
	}
}

func (m appModel) View() string {
	header := m.headerView()
	if title, loading := m.loadingState(); loading {
		return header + "\n\n" + m.loadingView(title)
	}
	return header + "\n\n" + m.page.View()
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render("SkyWings")
	sub := []string{pageTitle(m.ctrl.Current().Page())}
	if user, ok := m.client.CurrentUser(); ok && m.client.IsAuthenticated() {
		sub = append(sub, "Signed in: "+user.FullName())
	} else {
		sub = append(sub, "Guest")
	}
	meta := "\n" + lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))

	hints := "ctrl+c quit • esc back"
	if extra := m.page.Hints(); extra != "" {
		hints += " • " + extra
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func pageTitle(p nav.Page) string {
	switch p {
	case nav.PageHome:
		return "Search flights"
	case nav.PageSearchResults:
		return "Search results"
	case nav.PageFlightDetails:
		return "Flight details"
	case nav.PageSeatSelection:
		return "Select your seat"
	case nav.PageAddOns:
		return "Add-ons"
	case nav.PageCheckout:
		return "Checkout"
	case nav.PageConfirmation:
		return "Booking confirmed"
	case nav.PageMyBookings:
		return "My bookings"
	case nav.PageManageBooking:
		return "Manage booking"
	case nav.PageSignIn:
		return "Sign in"
	case nav.PageProfile:
		return "Profile"
	case nav.PageBookingHistory:
		return "Booking history"
	case nav.PageSavedTrips:
		return "Saved trips"
	case nav.PageFareRules:
		return "Fare rules"
	default:
		return string(p)
	}
}

func (m appModel) loadingState() (string, bool) {
	if lp, ok := m.page.(loadingPage); ok {
		return lp.Loading()
	}
	return "", false
}

func (m appModel) isLoading() bool {
	_, loading := m.loadingState()
	return loading
}

func (m appModel) loadingView(title string) string {
	if title == "" {
		title = "Loading"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to the booking service..."))
}

func (m *appModel) activeList() *list.Model {
	if lp, ok := m.page.(listPage); ok {
		return lp.activeList()
	}
	return nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 || msg.Alt {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

// loadReferenceCmd serves airports and airlines from the local cache when
// fresh and refreshes it otherwise.
func (m appModel) loadReferenceCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		airports, airportsFresh, aErr := store.LoadAirportCache()
		airlines, airlinesFresh, lErr := store.LoadAirlineCache()
		if aErr == nil && lErr == nil && airportsFresh && airlinesFresh && len(airports) > 0 {
			return referenceMsg{data: service.ReferenceData{Airports: airports, Airlines: airlines}}
		}
		data, err := client.LoadReferenceData(context.Background())
		if err != nil {
			if len(airports) > 0 {
				return referenceMsg{data: service.ReferenceData{Airports: airports, Airlines: airlines}}
			}
			return referenceMsg{err: err}
		}
		_ = store.SaveAirportCache(data.Airports)
		_ = store.SaveAirlineCache(data.Airlines)
		return referenceMsg{data: data}
	}
}

func navigateCmd(to nav.Payload) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, mode: navPush} }
}

func replaceCmd(to nav.Payload) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, mode: navReplace} }
}

func resetCmd(to nav.Payload) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, mode: navReset} }
}

func backCmd() tea.Msg {
	return backMsg{}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func resizeList(l *list.Model, width, height, reserved int) {
	if width == 0 || height == 0 {
		return
	}
	h := height - reserved
	if h < 6 {
		h = 6
	}
	l.SetSize(width, h)
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
