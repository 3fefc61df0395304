package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette is the set of colours for one UI theme
type Palette struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	CardBack  lipgloss.Color
	CardFace  lipgloss.Color
	Matched   lipgloss.Color
	Hinted    lipgloss.Color
	Cursor    lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	HeaderFg  lipgloss.Color
	HeaderBg  lipgloss.Color
	DialogBdr lipgloss.Color
}

var (
	darkPalette = Palette{
		Text:      lipgloss.Color("#FAFAFA"),
		Muted:     lipgloss.Color("#626262"),
		Accent:    lipgloss.Color("#7D56F4"),
		CardBack:  lipgloss.Color("#3C3C5A"),
		CardFace:  lipgloss.Color("#FAFAFA"),
		Matched:   lipgloss.Color("#96CEB4"),
		Hinted:    lipgloss.Color("#FFD700"),
		Cursor:    lipgloss.Color("#04B575"),
		Success:   lipgloss.Color("#96CEB4"),
		Error:     lipgloss.Color("#FF6B6B"),
		Warning:   lipgloss.Color("#FFEAA7"),
		HeaderFg:  lipgloss.Color("#FAFAFA"),
		HeaderBg:  lipgloss.Color("#7D56F4"),
		DialogBdr: lipgloss.Color("#04B575"),
	}

	lightPalette = Palette{
		Text:      lipgloss.Color("#1F1F1F"),
		Muted:     lipgloss.Color("#8A8A8A"),
		Accent:    lipgloss.Color("#5A3FD1"),
		CardBack:  lipgloss.Color("#C9C3F2"),
		CardFace:  lipgloss.Color("#1F1F1F"),
		Matched:   lipgloss.Color("#2E8B57"),
		Hinted:    lipgloss.Color("#B8860B"),
		Cursor:    lipgloss.Color("#027A48"),
		Success:   lipgloss.Color("#2E8B57"),
		Error:     lipgloss.Color("#C0392B"),
		Warning:   lipgloss.Color("#B7791F"),
		HeaderFg:  lipgloss.Color("#FAFAFA"),
		HeaderBg:  lipgloss.Color("#5A3FD1"),
		DialogBdr: lipgloss.Color("#027A48"),
	}
)

// Styles are the rendered styles for one palette
type Styles struct {
	Dark bool

	Header   lipgloss.Style
	Status   lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	CardBack lipgloss.Style
	CardFace lipgloss.Style
	Matched  lipgloss.Style
	Hinted   lipgloss.Style
	Dialog   lipgloss.Style

	CursorColor lipgloss.Color
}

// NewStyles builds the dark or light styles
func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	card := lipgloss.NewStyle().
		Width(cardWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())

	return Styles{
		Dark: dark,

		Header: lipgloss.NewStyle().
			Foreground(p.HeaderFg).
			Background(p.HeaderBg).
			Bold(true).
			Padding(0, 1),
		Status:  lipgloss.NewStyle().Foreground(p.Text),
		Info:    lipgloss.NewStyle().Foreground(p.Muted),
		Success: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(p.Warning).Bold(true),

		CardBack: card.BorderForeground(p.CardBack).Foreground(p.CardBack),
		CardFace: card.BorderForeground(p.Accent).Foreground(p.CardFace).Bold(true),
		Matched:  card.BorderForeground(p.Matched).Foreground(p.Matched),
		Hinted:   card.BorderForeground(p.Hinted).Foreground(p.Hinted).Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.DialogBdr).
			Padding(1, 3),

		CursorColor: p.Cursor,
	}
}

// ResolveDark maps a configured UI theme ("light", "dark" or "auto") to
// dark mode, asking the terminal for its background colour when auto
func ResolveDark(theme string) bool {
	switch theme {
	case "dark":
		return true
	case "light":
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// themeName is the stored preference for a dark flag
func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
