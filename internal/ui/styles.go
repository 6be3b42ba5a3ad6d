package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	dirty     lipgloss.Style
	stdout    lipgloss.Style
	stderr    lipgloss.Style
	reference lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	neutral   lipgloss.Style
	running   lipgloss.Style
	diagError lipgloss.Style
	diagWarn  lipgloss.Style
	selected  lipgloss.Style
	pane      lipgloss.Style
	paneFocus lipgloss.Style
}

func newStyles(theme string) styles {
	fg := lipgloss.Color("7")
	dim := lipgloss.Color("8")
	if theme == "light" {
		fg = lipgloss.Color("0")
		dim = lipgloss.Color("7")
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(fg),
		dirty:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		stdout:    lipgloss.NewStyle().Foreground(fg),
		stderr:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		reference: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Underline(true).Bold(true),
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failure:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		neutral:   lipgloss.NewStyle().Foreground(dim),
		running:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		diagError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		diagWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		selected:  lipgloss.NewStyle().Reverse(true),
		pane:      lipgloss.NewStyle().Foreground(dim),
		paneFocus: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}
