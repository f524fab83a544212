package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// border is the modern box style: light lines with a separator between
// every row.
var border = lipgloss.NormalBorder()

// Render lays out rows against schema and returns the caption followed by
// the boxed table. It writes nothing. An empty rows slice renders the header
// only; a record with the wrong number of fields returns a
// *SchemaMismatchError.
func Render(caption string, schema Schema, rows []Record, opts Options) (string, error) {
	if err := schema.Validate(); err != nil {
		return "", err
	}
	if err := checkRecords(schema, rows); err != nil {
		return "", err
	}

	l := computeLayout(schema, rows, opts)

	var b strings.Builder
	b.WriteString(caption)
	b.WriteByte('\n')

	writeRule(&b, l.widths, border.TopLeft, border.MiddleTop, border.TopRight)
	writeRow(&b, l.header, l.widths, 1)
	for r := range l.rows {
		writeRule(&b, l.widths, border.MiddleLeft, border.Middle, border.MiddleRight)
		writeRow(&b, l.rows[r], l.widths, l.height(r))
	}
	writeRule(&b, l.widths, border.BottomLeft, border.MiddleBottom, border.BottomRight)

	return strings.TrimSuffix(b.String(), "\n"), nil
}

// writeRule writes one horizontal border line.
func writeRule(b *strings.Builder, widths []int, left, junction, right string) {
	b.WriteString(left)
	for c, w := range widths {
		if c > 0 {
			b.WriteString(junction)
		}
		b.WriteString(strings.Repeat(border.Top, w+2*cellPadding))
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

// writeRow writes one logical row, which spans height text lines.
func writeRow(b *strings.Builder, cells []string, widths []int, height int) {
	placed := make([][]string, len(cells))
	for c, cell := range cells {
		placed[c] = placeCell(cell, widths[c], height)
	}

	pad := strings.Repeat(" ", cellPadding)
	for line := 0; line < height; line++ {
		b.WriteString(border.Left)
		for c := range cells {
			if c > 0 {
				b.WriteString(border.Left)
			}
			b.WriteString(pad)
			b.WriteString(placed[c][line])
			b.WriteString(pad)
		}
		b.WriteString(border.Right)
		b.WriteByte('\n')
	}
}
