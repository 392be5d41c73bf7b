package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Render-ready preview and run summary
// ============================================================================
// The CLI shows the first rows of the merged table and a before/after
// summary. Both are plain string data so the ui package can style them
// without knowing about Values.
// ============================================================================

// TableData is a render-ready slice of a table.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Omitted int        `json:"omitted"` // rows not shown
}

// BuildPreview renders up to limit rows of t. limit <= 0 means all rows.
func BuildPreview(t *Table, limit int) *TableData {
	n := t.Len()
	if limit > 0 && n > limit {
		n = limit
	}
	rows := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		rows = append(rows, cells)
	}
	return &TableData{
		Headers: t.Names(),
		Rows:    rows,
		Omitted: t.Len() - n,
	}
}

// Summary describes one run: table shape before and after, and what the
// resolver did to get there.
type Summary struct {
	RowsBefore    int               `json:"rowsBefore"`
	ColumnsBefore int               `json:"columnsBefore"`
	RowsAfter     int               `json:"rowsAfter"`
	ColumnsAfter  int               `json:"columnsAfter"`
	Dropped       []string          `json:"dropped,omitempty"`
	Operators     map[string]string `json:"operators"`
	Coerced       map[string]int    `json:"coerced,omitempty"` // failed numeric cells per column
}

// Summarize builds the run summary.
func Summarize(before, after *Table, policy Policy, report CoercionReport) Summary {
	s := Summary{
		RowsBefore:    before.Len(),
		ColumnsBefore: len(before.Columns),
		RowsAfter:     after.Len(),
		ColumnsAfter:  len(after.Columns),
		Dropped:       append([]string(nil), policy.Dropped...),
		Operators:     policy.Tags(),
	}
	if report.Count() > 0 {
		s.Coerced = report.ByColumn()
	}
	return s
}

// Shape formats a row/column count the way the summary prints it.
func Shape(rows, cols int) string {
	return fmt.Sprintf("(%s rows, %d columns)", FormatInt(rows), cols)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}
