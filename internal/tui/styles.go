package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/trucoforbots/truco"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Suit colors follow the printed deck
var suitStyles = map[truco.Suit]lipgloss.Style{
	truco.Espada: lipgloss.NewStyle().Foreground(lipgloss.Color("#5DADE2")).Bold(true),
	truco.Basto:  lipgloss.NewStyle().Foreground(lipgloss.Color("#58D68D")).Bold(true),
	truco.Oro:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")).Bold(true),
	truco.Copa:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

// CardStyle returns the style for a card's suit
func CardStyle(c truco.Card) lipgloss.Style {
	return suitStyles[c.Suit]
}

// SetNoColor switches every style to plain ASCII output
func SetNoColor(noColor bool) {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
