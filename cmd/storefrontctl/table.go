package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// table renders aligned columns for terminal output
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers, rows: make([][]string, 0)}
}

func (t *table) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

// render writes the table to out. Colour is decided by the renderer, so
// pipes and buffers receive plain text.
func (t *table) render(out io.Writer) error {
	r := lipgloss.NewRenderer(out)
	headerStyle := r.NewStyle().Bold(true).Padding(0, 1)
	rowStyle := r.NewStyle().Padding(0, 1)
	sepStyle := r.NewStyle().Faint(true)

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := lipgloss.Width(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	// room for the cell padding
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	var sb strings.Builder
	writeLine := func(cells []string, style lipgloss.Style) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			sb.WriteString(style.Width(widths[i]).Render(cell))
			if i < len(cells)-1 && i < len(widths)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeLine(t.headers, headerStyle)
	sb.WriteString(sepStyle.Render(strings.Repeat("-", total)) + "\n")
	for _, row := range t.rows {
		writeLine(row, rowStyle)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}
