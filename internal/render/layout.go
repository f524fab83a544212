package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	// DefaultMaxWidth is the total table width the layout aims to stay within.
	DefaultMaxWidth = 100
	// DefaultWrapWidth is the per-cell width budget for wrappable columns.
	DefaultWrapWidth = 14

	cellPadding = 1
)

// Options tunes the layout. Zero fields fall back to the defaults.
type Options struct {
	MaxWidth  int
	WrapWidth int
}

// DefaultOptions returns the layout used by Print and Fprint.
func DefaultOptions() Options {
	return Options{MaxWidth: DefaultMaxWidth, WrapWidth: DefaultWrapWidth}
}

func (o Options) normalized() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.WrapWidth <= 0 {
		o.WrapWidth = DefaultWrapWidth
	}
	return o
}

// layout is the computed geometry of a table. Cell text in rows is already
// wrapped; widths exclude padding.
type layout struct {
	header []string
	rows   [][]string
	widths []int
}

// height returns the number of text lines the body row r occupies.
func (l *layout) height(r int) int {
	h := 1
	for _, cell := range l.rows[r] {
		if n := lipgloss.Height(cell); n > h {
			h = n
		}
	}
	return h
}

// totalWidth returns the rendered width including borders and padding.
func (l *layout) totalWidth() int {
	return tableWidth(l.widths)
}

func tableWidth(widths []int) int {
	total := len(widths) + 1
	for _, w := range widths {
		total += w + 2*cellPadding
	}
	return total
}

// computeLayout resolves cell text, wrapping and column widths for a table.
// Header cells never wrap. Wrapping only applies to multi-column schemas, and
// only to columns marked Wrap that are not link-bearing.
func computeLayout(schema Schema, rows []Record, opts Options) *layout {
	opts = opts.normalized()

	l := &layout{
		header: schema.Names(),
		rows:   make([][]string, len(rows)),
		widths: make([]int, len(schema)),
	}

	raw := make([][]string, len(rows))
	for r, row := range rows {
		raw[r] = make([]string, len(schema))
		for c, f := range row {
			raw[r][c] = Cell(f)
		}
	}

	wrappable := make([]bool, len(schema))
	budget := make([]int, len(schema))
	floor := make([]int, len(schema))
	if len(schema) > 1 {
		for c, col := range schema {
			if !col.Wrap || col.Linked {
				continue
			}
			wrappable[c] = true
			budget[c] = opts.WrapWidth
			floor[c] = lipgloss.Width(l.header[c])
			for r := range raw {
				if w := longestWord(raw[r][c]); w > floor[c] {
					floor[c] = w
				}
			}
		}
	}

	for {
		for r := range raw {
			l.rows[r] = make([]string, len(schema))
			for c, text := range raw[r] {
				if wrappable[c] {
					text = wrapCell(text, budget[c])
				}
				l.rows[r][c] = text
			}
		}
		l.measure()

		if l.totalWidth() <= opts.MaxWidth {
			return l
		}
		c := widestShrinkable(l.widths, wrappable, floor)
		if c < 0 {
			return l
		}
		budget[c] = l.widths[c] - 1
	}
}

// measure sets each column width to its widest header or body line.
func (l *layout) measure() {
	for c := range l.widths {
		l.widths[c] = lipgloss.Width(l.header[c])
	}
	for _, row := range l.rows {
		for c, cell := range row {
			if w := lipgloss.Width(cell); w > l.widths[c] {
				l.widths[c] = w
			}
		}
	}
}

// widestShrinkable picks the widest wrappable column still above its floor.
// It returns -1 when no column can give up more width.
func widestShrinkable(widths []int, wrappable []bool, floor []int) int {
	best := -1
	for c, w := range widths {
		if !wrappable[c] || w <= floor[c] {
			continue
		}
		if best < 0 || w > widths[best] {
			best = c
		}
	}
	return best
}

// wrapCell wraps text at spaces so no line exceeds limit, unless a single
// word is longer than limit, in which case that word sits on its own line.
func wrapCell(text string, limit int) string {
	if limit <= 0 || lipgloss.Width(text) <= limit {
		return text
	}
	w := wordwrap.NewWriter(limit)
	w.Breakpoints = nil
	_, _ = w.Write([]byte(text))
	_ = w.Close()
	return w.String()
}

func longestWord(text string) int {
	longest := 0
	for _, word := range strings.Fields(text) {
		if w := lipgloss.Width(word); w > longest {
			longest = w
		}
	}
	return longest
}

// placeCell centers text horizontally within width and vertically within
// height, returning exactly height lines of exactly width cells each.
func placeCell(text string, width, height int) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	block := lipgloss.PlaceVertical(height, lipgloss.Center, strings.Join(lines, "\n"))
	return strings.Split(block, "\n")
}
