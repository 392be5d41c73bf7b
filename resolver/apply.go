package resolver

import (
	"strconv"
	"strings"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// APPLY — One transformation pass from policy to merge-ready table
// ============================================================================
//   text operators    → column rendered as text (nulls stay null)
//   numeric operators → commas stripped, parsed as float; failures → null
//   drop              → column removed
// ============================================================================

// Apply returns a copy of t transformed for policy, with a report of every
// cell that failed numeric coercion. t is not modified.
func Apply(t *engine.Table, policy engine.Policy) (*engine.Table, engine.CoercionReport) {
	out := t.Clone()
	var report engine.CoercionReport

	for _, col := range policy.Dropped {
		out.DropColumn(col)
	}

	for _, cp := range policy.Columns {
		values := out.Column(cp.Column)
		if values == nil {
			continue
		}
		switch {
		case cp.Op.Kind.IsText():
			out.SetColumn(cp.Column, engine.KindText, ToText(values))
		case cp.Op.Kind.IsNumeric():
			out.SetColumn(cp.Column, engine.KindFloat, ToNumeric(cp.Column, values, &report))
		}
	}
	return out, report
}

// ToText renders every non-null value as text.
func ToText(values []engine.Value) []engine.Value {
	out := make([]engine.Value, len(values))
	for i, v := range values {
		if v.IsNull() || v.Kind == engine.KindText {
			out[i] = v
			continue
		}
		out[i] = engine.Text(v.String())
	}
	return out
}

// ToNumeric converts values to floats. Text has thousands separators
// (commas) removed before parsing; unparseable text becomes null and is
// recorded in report.
func ToNumeric(column string, values []engine.Value, report *engine.CoercionReport) []engine.Value {
	out := make([]engine.Value, len(values))
	for i, v := range values {
		switch v.Kind {
		case engine.KindNull:
			out[i] = v
		case engine.KindInt, engine.KindFloat:
			f, _ := v.Number()
			out[i] = engine.Float(f)
		default:
			f, ok := ParseNumber(v.Str)
			if !ok {
				out[i] = engine.Null()
				if report != nil && strings.TrimSpace(v.Str) != "" {
					report.Add(column, i, v.Str)
				}
				continue
			}
			out[i] = engine.Float(f)
		}
	}
	return out
}

// ParseNumber parses s as a float after stripping commas and surrounding
// whitespace. NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "nan") || strings.Contains(lower, "inf") {
		return 0, false
	}
	return f, true
}
