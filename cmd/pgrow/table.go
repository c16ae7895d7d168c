package main

import (
	"strings"

	"github.com/cznic/mathutil"
	"github.com/squareup/pgrow/common"
	"golang.org/x/text/width"
)

const minColWidth = 5

type table struct {
	maxLineWidth int
	colWidths    []int
	border       string
}

func newTable(maxLineWidth int, cols common.Columns) *table {
	t := &table{maxLineWidth: maxLineWidth}
	t.colWidths = t.calcColumnWidths(cols)
	return t
}

func (t *table) header(cols common.Columns) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	header := t.formatLine(names)
	t.border = "+" + strings.Repeat("-", displayWidth(header)-2) + "+"
	return []string{t.border, header, t.border}
}

func (t *table) formatLine(values []string) string {
	sb := &strings.Builder{}
	sb.WriteString("|")
	for i, v := range values {
		sb.WriteRune(' ')
		cw := t.colWidths[i]
		if displayWidth(v) > cw {
			v = truncateToWidth(v, cw-2) + ".."
		}
		sb.WriteString(v)
		sb.WriteString(strings.Repeat(" ", cw-displayWidth(v)))
		sb.WriteString(" |")
	}
	return sb.String()
}

// calcColumnWidths gives fixed width types the width they need and shares what is left between the
// variable width columns. If that does not fit, every column gets the same width.
func (t *table) calcColumnWidths(cols common.Columns) []int {
	if len(cols) == 0 {
		return []int{}
	}
	colWidths := make([]int, len(cols))
	var freeCols []int
	availWidth := t.maxLineWidth - 1
	for i, col := range cols {
		w := fixedWidth(col.Type)
		if w == 0 {
			freeCols = append(freeCols, i)
			continue
		}
		w = mathutil.Max(w, displayWidth(col.Name))
		colWidths[i] = w
		availWidth -= w + 3
	}
	if availWidth < 0 {
		return t.calcEvenColWidths(len(cols))
	}
	if len(freeCols) > 0 {
		freeColWidth := availWidth/len(freeCols) - 3
		if freeColWidth < minColWidth {
			return t.calcEvenColWidths(len(cols))
		}
		for _, freeCol := range freeCols {
			colWidths[freeCol] = freeColWidth
		}
	}
	return colWidths
}

func (t *table) calcEvenColWidths(numCols int) []int {
	colWidth := mathutil.Max((t.maxLineWidth-3*numCols-1)/numCols, minColWidth)
	colWidths := make([]int, numCols)
	for i := range colWidths {
		colWidths[i] = colWidth
	}
	return colWidths
}

func fixedWidth(ty common.Type) int {
	switch ty {
	case common.TypeBool:
		return 5
	case common.TypeInt2:
		return 6
	case common.TypeInt4, common.TypeOID:
		return 11
	case common.TypeInt8:
		return 20
	case common.TypeTimestamp, common.TypeTimestampTz:
		return 26
	default:
		return 0
	}
}

// displayWidth counts terminal cells: East Asian wide and fullwidth runes take two.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func truncateToWidth(s string, max int) string {
	w := 0
	for i, r := range s {
		rw := runeWidth(r)
		if w+rw > max {
			return s[:i]
		}
		w += rw
	}
	return s
}

