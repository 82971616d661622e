package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skywings-cli/logging"
	"skywings-cli/model"
)

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("SKYWINGS_API_BASE_URL", server.URL)
	t.Setenv("SKYWINGS_LOG_FILE", dir+"/test.log")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSearchCmd_RendersSortedTable(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/search", r.URL.Path)
		var req model.FlightSearchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "JFK", req.Origin)
		assert.Equal(t, "LAX", req.Destination)
		_, _ = w.Write([]byte(`{"flights":[
			{"flight_id":2,"flight_number":"SW200","origin":"JFK","destination":"LAX","departure_time":"2026-11-20T10:00:00","arrival_time":"2026-11-20T16:00:00","base_economy_price":450,"pricing":{"Economy":{"price":450,"seats_available":3}}},
			{"flight_id":1,"flight_number":"SW100","origin":"JFK","destination":"LAX","departure_time":"2026-11-20T08:00:00","arrival_time":"2026-11-20T14:00:00","base_economy_price":299,"pricing":{"Economy":{"price":299,"seats_available":12}}}
		]}`))
	}, "search", "--from", "jfk", "--to", "lax", "--date", "2026-11-20")
	require.NoError(t, err)

	assert.Contains(t, out, "SW100")
	assert.Contains(t, out, "$299.00")
	assert.Less(t, strings.Index(out, "SW100"), strings.Index(out, "SW200"))
}

func TestSearchCmd_MaxPriceFilters(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"flights":[
			{"flight_id":2,"flight_number":"SW200","origin":"JFK","destination":"LAX","base_economy_price":450},
			{"flight_id":1,"flight_number":"SW100","origin":"JFK","destination":"LAX","base_economy_price":299}
		]}`))
	}, "search", "--from", "JFK", "--to", "LAX", "--date", "2026-11-20", "--max-price", "300")
	require.NoError(t, err)

	assert.Contains(t, out, "SW100")
	assert.NotContains(t, out, "SW200")
}

func TestSearchCmd_RejectsSameAirport(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	}, "search", "--from", "JFK", "--to", "JFK", "--date", "2026-11-20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ")
}

func TestBookingShowCmd(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/SWAB12CD", r.URL.Path)
		_, _ = w.Write([]byte(`{"pnr":"SWAB12CD","passenger_name":"John Doe","flight_number":"SW100","origin":"New York (JFK)","destination":"Los Angeles (LAX)","seat_number":"12A","total_price":299}`))
	}, "booking", "show", "swab12cd")
	require.NoError(t, err)

	assert.Contains(t, out, "SWAB12CD")
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "Confirmed")
	assert.Contains(t, out, "$299.00")
}

func TestBookingShowCmd_NotFound(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Booking not found"}`))
	}, "booking", "show", "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Booking not found")
}

func TestBookingCancelCmd_SkipsPromptWithYes(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bookings/SWAB12CD", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"Booking cancelled successfully"}`))
	}, "booking", "cancel", "SWAB12CD", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Booking cancelled successfully")
}

func TestBookingListCmd_RequiresSessionWithoutEmail(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	}, "booking", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign in")
}

func TestWhoAmICmd_Guest(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request %s", r.URL.Path)
	}, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in.")
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3", "abc123")
	t.Cleanup(func() { SetVersion("dev", "none") })

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "skywings 1.2.3 (abc123)\n", out.String())
}

func TestRenderAirports_GroupsByCountry(t *testing.T) {
	var out bytes.Buffer
	renderAirports(&out, []model.Airport{
		{Code: "LHR", City: "London", Name: "Heathrow", Country: "UK"},
		{Code: "LAX", City: "Los Angeles", Name: "Los Angeles International", Country: "USA"},
		{Code: "JFK", City: "New York", Name: "John F. Kennedy International", Country: "USA"},
	})
	text := out.String()

	assert.Less(t, strings.Index(text, "LHR"), strings.Index(text, "JFK"))
	assert.Less(t, strings.Index(text, "JFK"), strings.Index(text, "LAX"))
}

func TestAppClose_ReleasesLogFileOnce(t *testing.T) {
	f, err := logging.OpenFile(filepath.Join(t.TempDir(), "skywings.log"))
	require.NoError(t, err)

	a := &app{logFile: f}
	a.close()
	a.close()

	assert.Nil(t, a.logFile)
	_, err = f.WriteString("late")
	assert.ErrorIs(t, err, os.ErrClosed)
}
