package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	card    lipgloss.Style
	reading lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:   NewBold(t).MarginBottom(1),
		ok:      NewBold(s),
		err:     NewBold(e),
		warn:    NewStyle(w),
		help:    NewEm(h),
		card:    NewCard(t),
		reading: NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// NewCard returns a rounded, padded box for flashcard faces.
func NewCard(border string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 4).
		Width(cardWidth).
		Align(lipgloss.Center)
}

// Title renders s as a heading, for CLI output outside the TUI.
func Title(s string) string { return styles.title.Render(s) }

// OK renders s in the success style.
func OK(s string) string { return styles.ok.Render(s) }

// Warn renders s in the warning style.
func Warn(s string) string { return styles.warn.Render(s) }

// Muted renders s in the help style.
func Muted(s string) string { return styles.help.Render(s) }
