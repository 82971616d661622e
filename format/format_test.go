package format

import (
	"regexp"
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	dep := time.Date(2026, 12, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		arr  time.Time
		want string
	}{
		{arr: dep.Add(3*time.Hour + 30*time.Minute), want: "3h 30m"},
		{arr: dep.Add(45 * time.Minute), want: "0h 45m"},
		{arr: dep.Add(-time.Hour), want: "0h 0m"},
		{arr: time.Time{}, want: "-"},
	}
	for _, tc := range tests {
		if got := Duration(dep, tc.arr); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestDateTimeAndTime(t *testing.T) {
	ts := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	if got := DateTime(ts); got != "Jan 2, 2026, 09:00 AM" {
		t.Fatalf("unexpected DateTime: %q", got)
	}
	if got := Time(ts.Add(6 * time.Hour)); got != "03:00 PM" {
		t.Fatalf("unexpected Time: %q", got)
	}
	if got := Date(ts); got != "Fri, Jan 2, 2026" {
		t.Fatalf("unexpected Date: %q", got)
	}
}

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		299:     "$299.00",
		0:       "$0.00",
		12.5:    "$12.50",
		1234.56: "$1,234.56",
		-45:     "-$45.00",
	}
	for in, want := range tests {
		if got := Money(in); got != want {
			t.Fatalf("Money(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestPlaceholderPNR(t *testing.T) {
	pattern := regexp.MustCompile(`^SW[A-Z0-9]{6}$`)
	for i := 0; i < 20; i++ {
		if pnr := PlaceholderPNR(); !pattern.MatchString(pnr) {
			t.Fatalf("unexpected placeholder PNR: %q", pnr)
		}
	}
}

func TestInitialsAndStatus(t *testing.T) {
	if got := Initials("ada", "lovelace"); got != "AL" {
		t.Fatalf("unexpected initials: %q", got)
	}
	if got := Initials(" ", ""); got != "?" {
		t.Fatalf("unexpected initials: %q", got)
	}
	if got := Status("CONFIRMED"); got != "Confirmed" {
		t.Fatalf("unexpected status: %q", got)
	}
}
