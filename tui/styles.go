package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Faint(true).Width(18)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	priceStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	chipStyle    = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("63")).
			Padding(0, 2)
	panelBorder = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))
)

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

// panel boxes content, capped to the terminal width.
func panel(width int, content string) string {
	style := panelBorder
	if width > 56 {
		cardWidth := width - 8
		if cardWidth > 84 {
			cardWidth = 84
		}
		style = style.Width(cardWidth)
	}
	return style.Render(content)
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func errorLine(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	return errorStyle.Render(msg)
}

func noticeLine(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	return noticeStyle.Render(msg)
}

// joinBlocks joins non-empty blocks with a blank line.
func joinBlocks(blocks ...string) string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			out = append(out, b)
		}
	}
	return strings.Join(out, "\n\n")
}
