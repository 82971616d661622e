package tui

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"skywings-cli/model"
	"skywings-cli/nav"
	"skywings-cli/service"
	"skywings-cli/session"
)

// deliver runs cmd and feeds every page message it yields back into m.
func deliver(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	for _, msg := range collect(cmd) {
		if pm, ok := msg.(pageMsg); ok {
			m, _ = update(t, m, pm)
		}
	}
	return m
}

func TestManageBooking_CancelKeepsAcknowledgement(t *testing.T) {
	var cancelled bool
	var lookupsAfterCancel int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bookings/SWAB12CD" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			if cancelled {
				lookupsAfterCancel++
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"detail":"Booking not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"pnr":"SWAB12CD","passenger_name":"John Doe","flight_number":"SW100","booking_status":"confirmed","total_price":299}`))
		case http.MethodDelete:
			cancelled = true
			_, _ = w.Write([]byte(`{"message":"Booking SWAB12CD successfully cancelled"}`))
		}
	}))
	defer server.Close()

	client := service.NewClient(server.URL, server.Client(), session.NewMemory())
	m := newTestModel(t, client, nav.ManageBooking{})
	manage, ok := m.page.(*managePage)
	if !ok {
		t.Fatalf("expected manage page, got %T", m.page)
	}
	m = deliver(t, m, manage.lookup("SWAB12CD"))
	if manage.booking == nil {
		t.Fatalf("expected booking to load, err %q", manage.err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if !manage.confirm {
		t.Fatal("expected a cancellation prompt")
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = deliver(t, m, cmd)

	if !cancelled {
		t.Fatal("expected the booking to be cancelled")
	}
	if lookupsAfterCancel != 0 {
		t.Fatalf("expected no lookup after cancelling, got %d", lookupsAfterCancel)
	}
	if manage.err != "" {
		t.Fatalf("expected no error, got %q", manage.err)
	}
	if manage.notice != "Booking SWAB12CD successfully cancelled" {
		t.Fatalf("expected acknowledgement, got %q", manage.notice)
	}
	if manage.booking.EffectiveStatus() != model.BookingCancelled {
		t.Fatalf("expected booking marked cancelled, got %q", manage.booking.Status)
	}

	view := m.View()
	for _, want := range []string{"successfully cancelled", "Cancelled"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Booking not found") {
		t.Fatalf("expected no not-found message, got:\n%s", view)
	}
}

func TestResults_NoPriceCapByDefault(t *testing.T) {
	m := newTestModel(t, nil, testSearch)
	flights := []model.FlightSearchResult{
		{FlightId: 1, FlightNumber: "SW100", Origin: "JFK", Destination: "LAX", Pricing: map[string]model.ClassPrice{"Economy": {Price: 1200}}},
		{FlightId: 2, FlightNumber: "SW200", Origin: "JFK", Destination: "LAX", BaseEconomyPrice: 299},
	}
	m, _ = update(t, m, pageMsg{gen: m.ctrl.Generation(), msg: flightsMsg{flights: flights}})

	results := m.page.(*resultsPage)
	if results.shown != 2 {
		t.Fatalf("expected both flights shown, got %d", results.shown)
	}
	if view := m.View(); !strings.Contains(view, "Max price: any") {
		t.Fatalf("expected uncapped status, got:\n%s", view)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if results.shown != 1 {
		t.Fatalf("expected the $1000 cap to hide the $1200 fare, got %d shown", results.shown)
	}

	for range priceCaps[1:] {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	}
	if results.shown != 2 {
		t.Fatalf("expected the cap to wrap back to any, got %d shown", results.shown)
	}
}

func TestSeats_FetchErrorIsNotAnEmptyCabin(t *testing.T) {
	start := nav.SeatSelection{Flight: model.FlightSearchResult{FlightId: 1, FlightNumber: "SW100"}, Class: model.ClassEconomy}

	m := newTestModel(t, nil, start)
	m, _ = update(t, m, pageMsg{gen: m.ctrl.Generation(), msg: seatsMsg{err: errors.New("boom")}})
	view := m.View()
	if !strings.Contains(view, "Failed to load seats") {
		t.Fatalf("expected load error, got:\n%s", view)
	}
	if strings.Contains(view, "No seats available") {
		t.Fatalf("expected no empty-cabin text on error, got:\n%s", view)
	}

	m = newTestModel(t, nil, start)
	m, _ = update(t, m, pageMsg{gen: m.ctrl.Generation(), msg: seatsMsg{}})
	if view := m.View(); !strings.Contains(view, "No seats available for this cabin.") {
		t.Fatalf("expected empty-cabin text, got:\n%s", view)
	}
}
