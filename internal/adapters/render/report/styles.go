package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	aborted   lipgloss.Style
	target    lipgloss.Style
	detail    lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	tableHead lipgloss.Style
	tableCell lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		aborted:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		target:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		tableHead: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		tableCell: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
