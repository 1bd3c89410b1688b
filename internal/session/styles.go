package session

import "github.com/charmbracelet/lipgloss"

// styles holds the console palette. The zero value renders plain text.
type styles struct {
	enabled bool

	title    lipgloss.Style
	muted    lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	errText  lipgloss.Style
}

func newStyles(enabled bool) styles {
	if !enabled {
		return styles{}
	}

	return styles{
		enabled: true,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")), // Purple
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")), // Medium gray
		positive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1")), // Green
		negative: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9E2AF")), // Yellow
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")), // Red
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// label colours a sentiment label.
func (s styles) label(sentiment string) string {
	switch sentiment {
	case "Positive":
		return s.render(s.positive, sentiment)
	case "Negative":
		return s.render(s.negative, sentiment)
	default:
		return s.render(s.errText, sentiment)
	}
}
