package engine

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// ROWMERGE ENGINE TYPES — Tables, Columns, Values
// ============================================================================
// A Table is loaded once by helpers, transformed by the resolver and consumed
// by Merge. Values carry their own kind so operators never guess.
// ============================================================================

// Kind is the dynamic type of a cell or the declared type of a column.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "null"
	}
}

// ============================================================================
// VALUE — Tagged scalar
// ============================================================================

// Value is a single cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
}

// Null returns the missing value.
func Null() Value { return Value{Kind: KindNull} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a float value. NaN is stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{Kind: KindFloat, Float: f}
}

// IsNull reports whether v is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Number returns the numeric content of v. ok is false for null and text.
func (v Value) Number() (f float64, ok bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// String renders v the way it is written to output files. Null renders empty.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	default:
		return ""
	}
}

// Compare orders values: nulls first, then numbers numerically, then text
// byte-wise. Returns -1, 0 or 1.
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 0:
		return 0
	case 1:
		return compareNumbers(a, b)
	default:
		return strings.Compare(a.Str, b.Str)
	}
}

// compareNumbers orders two numeric values exactly. Ints never pass through
// float64, so keys above 2^53 stay distinct.
func compareNumbers(a, b Value) int {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return compareInt64(a.Int, b.Int)
	case a.Kind == KindInt:
		return compareIntFloat(a.Int, b.Float)
	case b.Kind == KindInt:
		return -compareIntFloat(b.Int, a.Float)
	}
	switch {
	case a.Float < b.Float:
		return -1
	case a.Float > b.Float:
		return 1
	}
	return 0
}

// compareIntFloat compares i with f without rounding i.
func compareIntFloat(i int64, f float64) int {
	switch {
	case f >= twoTo63:
		return -1
	case f < -twoTo63:
		return 1
	}
	whole := math.Trunc(f)
	if c := compareInt64(i, int64(whole)); c != 0 {
		return c
	}
	switch frac := f - whole; {
	case frac > 0:
		return -1
	case frac < 0:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// twoTo63 is the first float64 beyond the int64 range.
const twoTo63 = float64(1 << 63)

// exactInt reports f as an int64 when f is integral and in range.
func exactInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f >= twoTo63 || f < -twoTo63 {
		return 0, false
	}
	return int64(f), true
}

func rank(v Value) int {
	switch v.Kind {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		return 1
	default:
		return 2
	}
}

// ============================================================================
// TABLE — Ordered named columns, row-major cells
// ============================================================================

// Column describes one table column.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is an in-memory table. Every row has len(Columns) cells.
type Table struct {
	Columns []Column
	Rows    [][]Value
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the named column's values, or nil if absent.
func (t *Table) Column(name string) []Value {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// SetColumn replaces the named column's kind and values in place.
// values must have one entry per row.
func (t *Table) SetColumn(name string, kind Kind, values []Value) bool {
	idx := t.Index(name)
	if idx < 0 || len(values) != len(t.Rows) {
		return false
	}
	t.Columns[idx].Kind = kind
	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return true
}

// DropColumn removes the named column in place.
func (t *Table) DropColumn(name string) bool {
	idx := t.Index(name)
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx:idx], t.Columns[idx+1:]...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:idx:idx], row[idx+1:]...)
	}
	return true
}

// AppendRow adds a row. Short rows are padded with nulls, long rows truncated.
func (t *Table) AppendRow(row []Value) {
	cells := make([]Value, len(t.Columns))
	copy(cells, row)
	for i := len(row); i < len(cells); i++ {
		cells[i] = Null()
	}
	t.Rows = append(t.Rows, cells)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([][]Value, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}
