package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Accent   lipgloss.Style
	Hidden   lipgloss.Style
	Focus    lipgloss.Style
	Toast    lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("177")),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
		Hidden: lipgloss.NewStyle().Faint(true),
		Focus: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("221")),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
