package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewStyle(h).Width(labelWidth),
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

const labelWidth = 22

// Title renders a section heading.
func Title(s string) string { return styles.title.Render(s) }

// Success renders a completion line.
func Success(s string) string { return styles.ok.Render("✓ " + s) }

// Failure renders an error line.
func Failure(s string) string { return styles.err.Render("✗ " + s) }

// Warning renders a data-quality warning.
func Warning(s string) string { return styles.warn.Render("⚠ " + s) }

// Muted renders secondary text.
func Muted(s string) string { return styles.help.Render(s) }

// Field renders a "label  value" summary line with the label padded to a fixed width.
func Field(label string, value any) string {
	return styles.label.Render(label+":") + fmt.Sprint(value)
}

// Fields renders label/value pairs as one block, one per line. Pairs with a missing value are dropped.
func Fields(kv ...any) string {
	lines := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		lines = append(lines, Field(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return strings.Join(lines, "\n")
}
