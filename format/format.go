// Package format renders durations, dates, money and names for display.
package format

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Duration renders the flight time between two instants, e.g. "3h 30m".
func Duration(dep, arr time.Time) string {
	if dep.IsZero() || arr.IsZero() {
		return "-"
	}
	d := arr.Sub(dep)
	if d < 0 {
		d = 0
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// DateTime renders e.g. "Jan 2, 2026, 09:00 AM".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// Date renders e.g. "Mon, Jan 2, 2026".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon, Jan 2, 2006")
}

// Time renders e.g. "09:00 AM".
func Time(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format("03:04 PM")
}

// Money renders a dollar amount with two decimals and thousands separators.
func Money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PlaceholderPNR returns a display-only reference, "SW" plus six characters.
// It is never sent to the booking service.
func PlaceholderPNR() string {
	var b strings.Builder
	b.WriteString("SW")
	max := big.NewInt(int64(len(pnrAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b.WriteByte(pnrAlphabet[i])
			continue
		}
		b.WriteByte(pnrAlphabet[n.Int64()])
	}
	return b.String()
}

// Initials returns up to two upper-case initials, "?" when both are empty.
func Initials(first, last string) string {
	var out []rune
	for _, s := range []string{first, last} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, []rune(strings.ToUpper(s))[0])
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Status title-cases a booking status, e.g. "confirmed" -> "Confirmed".
func Status(status string) string {
	return text.FormatTitle.Apply(strings.ToLower(strings.TrimSpace(status)))
}

// Truncate cuts s to at most width runes.
func Truncate(s string, width int) string {
	return text.Trim(s, width)
}
