package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
	"skywings-cli/session"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

// isolate keeps the local store out of the real user directories.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
}

var testSearch = nav.SearchResults{
	Search: model.FlightSearchRequest{Origin: "JFK", Destination: "LAX", DepartureDate: "2026-11-20"},
}

func newTestModel(t *testing.T, client *service.Client, start nav.Payload) appModel {
	t.Helper()
	isolate(t)
	return New(Options{Client: client, Start: start}).(appModel)
}

func newFilterModel(t *testing.T, items []list.Item) (*appModel, *resultsPage) {
	t.Helper()
	m := newTestModel(t, nil, testSearch)
	results, ok := m.page.(*resultsPage)
	if !ok {
		t.Fatalf("expected results page, got %T", m.page)
	}
	results.list.SetItems(items)
	return &m, results
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(appModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

// collect runs cmd and every command it batches, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m, results := newFilterModel(t, []list.Item{
		testItem{value: "SW100 JFK LAX"},
		testItem{value: "SW200 SFO ORD"},
	})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := results.list.FilterValue(); got != "s" {
		t.Fatalf("expected filter value to be %q, got %q", "s", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := results.list.FilterValue(); got != "sf" {
		t.Fatalf("expected filter value to be %q, got %q", "sf", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m, results := newFilterModel(t, []list.Item{
		testItem{value: "SW100 JFK LAX"},
	})

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := results.list.FilterValue(); got != "j" {
		t.Fatalf("expected filter value to be %q, got %q", "j", got)
	}

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := results.list.FilterValue(); got != "" {
		t.Fatalf("expected empty filter, got %q", got)
	}
	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace on empty filter to fall through")
	}
}

func TestHandleFilterInput_Space(t *testing.T) {
	m, results := newFilterModel(t, []list.Item{
		testItem{value: "New York"},
	})

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("new")})
	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeySpace}) {
		t.Fatal("expected space to be handled")
	}
	if got := results.list.FilterValue(); got != "new " {
		t.Fatalf("expected filter value to be %q, got %q", "new ", got)
	}
}

func TestHandleFilterInput_IgnoredOnFormPages(t *testing.T) {
	m := newTestModel(t, nil, nav.Home{})
	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}) {
		t.Fatal("expected form page to receive runes")
	}
}

func TestTrimLastRune(t *testing.T) {
	if got := trimLastRune("São"); got != "Sã" {
		t.Fatalf("expected %q, got %q", "Sã", got)
	}
	if got := trimLastRune("a"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestPageMsg_StaleGenerationIsDropped(t *testing.T) {
	m := newTestModel(t, nil, testSearch)
	staleGen := m.ctrl.Generation()

	m, _ = update(t, m, navigateMsg{to: testSearch, mode: navReplace})
	if m.ctrl.Generation() == staleGen {
		t.Fatal("expected a new generation after navigation")
	}

	flights := []model.FlightSearchResult{{FlightId: 1, FlightNumber: "SW100", Origin: "JFK", Destination: "LAX", BaseEconomyPrice: 299}}
	m, _ = update(t, m, pageMsg{gen: staleGen, msg: flightsMsg{flights: flights}})
	if got := len(m.page.(*resultsPage).flights); got != 0 {
		t.Fatalf("expected stale result to be dropped, got %d flights", got)
	}

	m, _ = update(t, m, pageMsg{gen: m.ctrl.Generation(), msg: flightsMsg{flights: flights}})
	if got := len(m.page.(*resultsPage).flights); got != 1 {
		t.Fatalf("expected current result to be applied, got %d flights", got)
	}
}

func TestResults_EmptySearchShowsNoFlights(t *testing.T) {
	m := newTestModel(t, nil, testSearch)
	m, _ = update(t, m, pageMsg{gen: m.ctrl.Generation(), msg: flightsMsg{flights: []model.FlightSearchResult{}}})

	view := m.View()
	if !strings.Contains(view, "No flights found") {
		t.Fatalf("expected empty state, got:\n%s", view)
	}
}

func TestBack_RebuildsPreviousPage(t *testing.T) {
	m := newTestModel(t, nil, nav.Home{})
	m, _ = update(t, m, navigateMsg{to: nav.SavedTrips{}})
	if _, ok := m.page.(*savedTripsPage); !ok {
		t.Fatalf("expected saved trips page, got %T", m.page)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.page.(*homePage); !ok {
		t.Fatalf("expected home page after esc, got %T", m.page)
	}
}

func TestMyBookings_RedirectsGuestsToSignIn(t *testing.T) {
	m := newTestModel(t, service.NewClient("http://127.0.0.1:0", nil, session.NewMemory()), nav.Home{})
	m, cmd := update(t, m, navigateMsg{to: nav.MyBookings{}})

	var redirected bool
	for _, msg := range collect(cmd) {
		if nm, ok := msg.(navigateMsg); ok {
			m, _ = update(t, m, nm)
			redirected = true
		}
	}
	if !redirected {
		t.Fatal("expected a redirect to sign in")
	}
	signIn, ok := m.page.(*signInPage)
	if !ok {
		t.Fatalf("expected sign in page, got %T", m.page)
	}
	if _, ok := signIn.payload.Then.(nav.MyBookings); !ok {
		t.Fatalf("expected sign in to return to my bookings, got %T", signIn.payload.Then)
	}
}

func TestCheckout_ConfirmsBooking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings/initiate":
			var req model.InitiateBookingRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode initiate request: %v", err)
			}
			if req.SeatNumber != "12A" || req.PassengerName != "John Doe" {
				t.Errorf("unexpected initiate request: %+v", req)
			}
			_, _ = w.Write([]byte(`{"message":"Seat reserved","pre_booking_id":"pre-1","total_price":299}`))
		case "/payment/process":
			_, _ = w.Write([]byte(`{"message":"Payment successful","pnr":"SWAB12CD","total_price":299}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sessions := session.NewMemory()
	if err := sessions.Save("tok", model.User{Id: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	client := service.NewClient(server.URL, server.Client(), sessions)

	departs := time.Date(2026, 11, 20, 8, 0, 0, 0, time.UTC)
	flight := model.FlightSearchResult{
		FlightId:         1,
		FlightNumber:     "SW100",
		Origin:           "JFK",
		Destination:      "LAX",
		DepartureTime:    model.NewTimestamp(departs),
		ArrivalTime:      model.NewTimestamp(departs.Add(6 * time.Hour)),
		BaseEconomyPrice: 299,
	}
	m := newTestModel(t, client, nav.Checkout{
		Flight:    flight,
		Seat:      model.Seat{SeatNumber: "12A", Class: model.ClassEconomy, IsAvailable: true},
		Class:     model.ClassEconomy,
		SeatPrice: 299,
	})

	var cmd tea.Cmd
	for i := 0; i < 6; i++ {
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if title, loading := m.loadingState(); !loading || title != "Processing your booking" {
		t.Fatalf("expected booking in progress, got %q %v", title, loading)
	}

	var result *pageMsg
	for _, msg := range collect(cmd) {
		if pm, ok := msg.(pageMsg); ok {
			result = &pm
		}
	}
	if result == nil {
		t.Fatal("expected a booking result")
	}

	m, cmd = update(t, m, *result)
	var navigated bool
	for _, msg := range collect(cmd) {
		if nm, ok := msg.(navigateMsg); ok {
			m, _ = update(t, m, nm)
			navigated = true
		}
	}
	if !navigated {
		t.Fatal("expected navigation to confirmation")
	}
	if _, ok := m.page.(*confirmationPage); !ok {
		t.Fatalf("expected confirmation page, got %T", m.page)
	}
	if m.ctrl.Depth() != 0 {
		t.Fatalf("expected confirmation to reset history, depth %d", m.ctrl.Depth())
	}

	view := m.View()
	for _, want := range []string{"SWAB12CD", "$299.00", "John Doe", "12A"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestCheckout_PaymentFailureKeepsForm(t *testing.T) {
	var released bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/bookings/initiate" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"pre_booking_id":"pre-2","total_price":299}`))
		case r.URL.Path == "/payment/process":
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"detail":"Card declined"}`))
		case r.URL.Path == "/bookings/initiate/pre-2" && r.Method == http.MethodDelete:
			released = true
			_, _ = w.Write([]byte(`{"message":"released"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	sessions := session.NewMemory()
	_ = sessions.Save("tok", model.User{Id: 1, FirstName: "John", LastName: "Doe", Email: "john@example.com"})
	client := service.NewClient(server.URL, server.Client(), sessions)

	m := newTestModel(t, client, nav.Checkout{
		Flight: model.FlightSearchResult{FlightId: 1, FlightNumber: "SW100", Origin: "JFK", Destination: "LAX", BaseEconomyPrice: 299},
		Seat:   model.Seat{SeatNumber: "12A", Class: model.ClassEconomy},
		Class:  model.ClassEconomy,
	})

	var cmd tea.Cmd
	for i := 0; i < 6; i++ {
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	for _, msg := range collect(cmd) {
		if pm, ok := msg.(pageMsg); ok {
			m, _ = update(t, m, pm)
		}
	}

	if !released {
		t.Fatal("expected the reservation to be released")
	}
	checkout, ok := m.page.(*checkoutPage)
	if !ok {
		t.Fatalf("expected to stay on checkout, got %T", m.page)
	}
	if checkout.err != "Card declined" {
		t.Fatalf("expected service detail, got %q", checkout.err)
	}
	if got := checkout.form.value(checkoutEmail); got != "john@example.com" {
		t.Fatalf("expected form to keep its values, got %q", got)
	}
}
