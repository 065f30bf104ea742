// Package ledger writes accepted orders to a spreadsheet, one row per order.
package ledger

import (
	"fmt"
	"strings"
)

// Row is a positional ledger record:
// guest name, protein 1, protein 2, protein 3, notes, formatted total.
type Row []string

// RowWidth is the number of columns in a Row.
const RowWidth = 6

// NewRow builds a Row. Missing protein positions become empty cells so the
// columns always line up.
func NewRow(guestName string, proteins []string, notes, total string) Row {
	row := make(Row, RowWidth)
	row[0] = guestName
	for i := 0; i < 3 && i < len(proteins); i++ {
		row[1+i] = proteins[i]
	}
	row[4] = notes
	row[5] = total
	return row
}

// cells is the row as a single-row value grid.
func (r Row) cells() [][]interface{} {
	out := make([]interface{}, len(r))
	for i, v := range r {
		out[i] = v
	}
	return [][]interface{}{out}
}

// sheetRange is a parsed A1 range such as "Sheet1!A:F".
type sheetRange struct {
	sheet    string // may be quoted, e.g. 'Guest Orders'
	firstCol string
	lastCol  string
}

func parseRange(a1 string) (sheetRange, error) {
	r := sheetRange{firstCol: "A", lastCol: "F"}
	sheet, cols, found := strings.Cut(a1, "!")
	r.sheet = sheet
	if r.sheet == "" {
		return r, fmt.Errorf("range %q: sheet name is required", a1)
	}
	if !found || cols == "" {
		return r, nil
	}

	first, last, _ := strings.Cut(strings.ToUpper(cols), ":")
	first, last = columnOf(first), columnOf(last)
	if first == "" {
		return r, fmt.Errorf("range %q: invalid columns", a1)
	}
	if last == "" {
		last = first
	}
	r.firstCol, r.lastCol = first, last
	return r, nil
}

// columnOf strips row numbers: "A1" -> "A".
func columnOf(cell string) string {
	end := 0
	for end < len(cell) && cell[end] >= 'A' && cell[end] <= 'Z' {
		end++
	}
	return cell[:end]
}

// keyColumn is the range used to count occupied rows.
func (r sheetRange) keyColumn() string {
	return fmt.Sprintf("%s!%s:%s", r.sheet, r.firstCol, r.firstCol)
}

// rowRange addresses a single row, e.g. "Sheet1!A5:F5".
func (r sheetRange) rowRange(n int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", r.sheet, r.firstCol, n, r.lastCol, n)
}

func (r sheetRange) String() string {
	return fmt.Sprintf("%s!%s:%s", r.sheet, r.firstCol, r.lastCol)
}
