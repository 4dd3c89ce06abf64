// Package ui renders library views for the terminal with [lipgloss] styles.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262", "#FFD700")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	fav   lipgloss.Style
}

func NewPalette(t, s, e, w, h, f string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		fav:   NewBold(f),
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

// Title renders a section heading.
func Title(s string) string { return styles.title.Render(s) }

// Success renders a confirmation line.
func Success(s string) string { return styles.ok.Render(s) }

// Error renders a failure line.
func Error(s string) string { return styles.err.Render(s) }

// Warn renders a cautionary line.
func Warn(s string) string { return styles.warn.Render(s) }

// Help renders secondary detail text.
func Help(s string) string { return styles.help.Render(s) }
