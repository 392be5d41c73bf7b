package schema

import (
	"strconv"
	"strings"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// AUTO-DISCOVERY — Column kind inference
// ============================================================================
// Raw cells arrive as strings. Each column gets one kind:
//   1. Missing tokens → null, ignored for inference
//   2. Every remaining value parses as an integer → int
//   3. Every remaining value parses as a float    → float
//   4. Otherwise                                  → text
//   5. No values at all                           → text (all null)
//
// Thousands separators are NOT stripped here: "1,000" keeps its column text
// until a numeric operator coerces it.
// ============================================================================

var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
}

// IsMissing reports whether a raw cell denotes a missing value.
func IsMissing(raw string) bool {
	return missingTokens[strings.TrimSpace(raw)]
}

// InferKind picks the kind for a column of raw cells.
func InferKind(raw []string) engine.Kind {
	intCount, floatCount, total := 0, 0, 0
	for _, s := range raw {
		if IsMissing(s) {
			continue
		}
		total++
		s = strings.TrimSpace(s)
		if isInt(s) {
			intCount++
			floatCount++
		} else if isFloat(s) {
			floatCount++
		} else {
			return engine.KindText
		}
	}
	switch {
	case total == 0:
		return engine.KindText
	case intCount == total:
		return engine.KindInt
	case floatCount == total:
		return engine.KindFloat
	}
	return engine.KindText
}

// ConvertCell converts one raw cell. A cell that does not fit kind becomes
// text, a missing cell becomes null.
func ConvertCell(raw string, kind engine.Kind) engine.Value {
	if IsMissing(raw) {
		return engine.Null()
	}
	s := strings.TrimSpace(raw)
	switch kind {
	case engine.KindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return engine.Int(n)
		}
	case engine.KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return engine.Float(f)
		}
	}
	return engine.Text(raw)
}

// DiscoverColumns infers a kind for every column of a header + rows grid
// and returns the typed table.
func DiscoverColumns(headers []string, rows [][]string) *engine.Table {
	columns := make([]engine.Column, len(headers))
	for i, h := range headers {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				raw[r] = row[i]
			}
		}
		columns[i] = engine.Column{Name: h, Kind: InferKind(raw)}
	}

	t := engine.NewTable(columns)
	t.Rows = make([][]engine.Value, 0, len(rows))
	for _, row := range rows {
		cells := make([]engine.Value, len(columns))
		for i, c := range columns {
			if i < len(row) {
				cells[i] = ConvertCell(row[i], c.Kind)
			} else {
				cells[i] = engine.Null()
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	// "Inf"/"NaN" spellings parse but are not numbers a spreadsheet meant.
	lower := strings.ToLower(s)
	return !strings.Contains(lower, "inf") && !strings.Contains(lower, "nan")
}
