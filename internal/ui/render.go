// internal/ui/render.go

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most width display cells, appending "…" when
// something was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to exactly width display cells, truncating
// first if needed.
func Pad(s string, width int) string {
	s = Truncate(s, width)
	return s + strings.Repeat(" ", width-runewidth.StringWidth(s))
}

// Column describes one table column.
type Column struct {
	Title string
	Width int
}

// Table renders a header row plus data rows, highlighting the selected
// index. Rows longer than the column set are truncated per column.
func Table(cols []Column, rows [][]string, selected int) string {
	var b strings.Builder

	var header []string
	for _, c := range cols {
		header = append(header, Pad(c.Title, c.Width))
	}
	b.WriteString(HeaderStyle.Render(strings.Join(header, "  ")))
	b.WriteString("\n")

	for i, row := range rows {
		var cells []string
		for j, c := range cols {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			cells = append(cells, Pad(cell, c.Width))
		}
		line := strings.Join(cells, "  ")
		if i == selected {
			line = SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// List renders rows with a selection cursor, for single-column pickers.
func List(rows []string, selected int) string {
	var b strings.Builder
	for i, row := range rows {
		if i == selected {
			b.WriteString(SelectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TitleBar renders the screen title with an optional right-aligned
// context string.
func TitleBar(title, context string, width int) string {
	left := TitleStyle.Render(" " + title + " ")
	if context == "" {
		return left
	}
	right := MutedStyle.Render(context)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// StatusBar renders the bottom status line.
func StatusBar(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return StatusErrorStyle.Render(message)
	}
	return StatusOKStyle.Render(message)
}

// HelpLine renders a compact key hint line ("a add · e edit · ...").
func HelpLine(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, HelpKeyStyle.Render(pairs[i])+" "+HelpDescStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, HelpDescStyle.Render(" · "))
}

// ScrollWindow returns the slice of lines visible for a viewport of
// height h scrolled to offset, plus the clamped offset.
func ScrollWindow(lines []string, offset, h int) ([]string, int) {
	if h <= 0 {
		return nil, 0
	}
	maxOffset := len(lines) - h
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + h
	if end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end], offset
}
