package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	success   lipgloss.Style
	system    lipgloss.Style
	err       lipgloss.Style
	hint      lipgloss.Style
	label     lipgloss.Style
	separator lipgloss.Style
	pending   lipgloss.Style
	author    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")),
		system: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),
		separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")),
		pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		author: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// plainStyles render text unchanged.
func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{
		title:     s,
		success:   s,
		system:    s,
		err:       s,
		hint:      s,
		label:     s,
		separator: s,
		pending:   s,
		author:    s,
	}
}
