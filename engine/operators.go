package engine

import (
	"math"
	"strings"
)

// ============================================================================
// OPERATORS — Per-column aggregation over one group's values
// ============================================================================
// An Operator is resolved once by the resolver and carried as data into
// Merge. It owns its delimiter and null predicate; nothing is read from
// package state.
// ============================================================================

// OpKind selects an aggregation behavior.
type OpKind int

const (
	OpFirst OpKind = iota
	OpCat
	OpDedupCat
	OpSplitDedupCat
	OpSum
	OpAvg
	OpMax
	OpMin
	OpDrop
)

var opTags = [...]string{
	OpFirst:         "first",
	OpCat:           "cat",
	OpDedupCat:      "ddc",
	OpSplitDedupCat: "sdc",
	OpSum:           "sum",
	OpAvg:           "avg",
	OpMax:           "max",
	OpMin:           "min",
	OpDrop:          "drop",
}

// Tag returns the short operator tag ("cat", "sum", ...).
func (k OpKind) Tag() string {
	if k < 0 || int(k) >= len(opTags) {
		return "first"
	}
	return opTags[k]
}

func (k OpKind) String() string { return k.Tag() }

// IsText reports whether the operator works on text and needs a text column.
func (k OpKind) IsText() bool {
	return k == OpCat || k == OpDedupCat || k == OpSplitDedupCat
}

// IsNumeric reports whether the operator is a numeric reduction.
func (k OpKind) IsNumeric() bool {
	return k == OpSum || k == OpAvg || k == OpMax || k == OpMin
}

// Label returns a human-readable description used in prompts and logs.
func (k OpKind) Label() string {
	switch k {
	case OpCat:
		return "Concatenating text"
	case OpDedupCat:
		return "Deduplicating then concatenating text"
	case OpSplitDedupCat:
		return "Splitting, deduplicating then concatenating text"
	case OpSum:
		return "Summing numbers"
	case OpAvg:
		return "Averaging (arithmetic mean) numbers"
	case OpMax:
		return "Taking the maximum number"
	case OpMin:
		return "Taking the minimum number"
	case OpDrop:
		return "Dropping the column"
	default:
		return "Keeping the first value"
	}
}

// Operator is a configured aggregation.
type Operator struct {
	Kind       OpKind
	Delimiter  string
	IsNullLike func(Value) bool
}

// NewOperator configures kind with the join delimiter and the default
// null-like predicate.
func NewOperator(kind OpKind, delimiter string) Operator {
	return Operator{Kind: kind, Delimiter: delimiter, IsNullLike: IsNullLike}
}

// Apply reduces one group's values, in row order, to a single value.
// It never fails: missing inputs yield null.
func (o Operator) Apply(values []Value) Value {
	switch o.Kind {
	case OpCat:
		return o.concat(values)
	case OpDedupCat:
		return o.dedupConcat(values)
	case OpSplitDedupCat:
		return o.splitDedupConcat(values)
	case OpSum:
		return reduceNumbers(values, sumOf)
	case OpAvg:
		return reduceNumbers(values, avgOf)
	case OpMax:
		return reduceNumbers(values, maxOf)
	case OpMin:
		return reduceNumbers(values, minOf)
	default:
		if len(values) == 0 {
			return Null()
		}
		return values[0]
	}
}

func (o Operator) nullLike(v Value) bool {
	if o.IsNullLike == nil {
		return IsNullLike(v)
	}
	return o.IsNullLike(v)
}

// ============================================================================
// TEXT OPERATORS
// ============================================================================

func (o Operator) concat(values []Value) Value {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return Text(strings.Join(parts, o.Delimiter))
}

// dedupConcat keeps each distinct non-null-like value once. Callers must
// not rely on token order; first appearance is what this implementation
// happens to emit.
func (o Operator) dedupConcat(values []Value) Value {
	seen := make(map[string]bool)
	var tokens []string
	for _, v := range values {
		if o.nullLike(v) {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			tokens = append(tokens, s)
		}
	}
	return Text(strings.Join(tokens, o.Delimiter))
}

func (o Operator) splitDedupConcat(values []Value) Value {
	seen := make(map[string]bool)
	var tokens []string
	for _, v := range values {
		s := v.String()
		if s == "" {
			continue
		}
		for _, part := range splitOn(s, o.Delimiter) {
			sub := Text(part)
			if o.nullLike(sub) || seen[part] {
				continue
			}
			seen[part] = true
			tokens = append(tokens, part)
		}
	}
	return Text(strings.Join(tokens, o.Delimiter))
}

func splitOn(s, delimiter string) []string {
	if delimiter == "" {
		return []string{s}
	}
	return strings.Split(s, delimiter)
}

// IsNullLike reports whether v counts as absent for deduplication: null,
// empty or whitespace-only text, "0", "nan", or an empty bracket literal
// such as "[]", "{}" or "()".
func IsNullLike(v Value) bool {
	if v.IsNull() {
		return true
	}
	s := strings.TrimSpace(v.String())
	if s == "" || s == "0" || strings.EqualFold(s, "nan") {
		return true
	}
	if len(s) >= 2 {
		l, r := s[0], s[len(s)-1]
		if (l == '[' && r == ']') || (l == '{' && r == '}') || (l == '(' && r == ')') {
			return strings.TrimSpace(s[1:len(s)-1]) == ""
		}
	}
	return false
}

// ============================================================================
// NUMERIC OPERATORS
// ============================================================================
// Reductions skip nulls and text. A group with no numbers reduces to null.

func reduceNumbers(values []Value, fn func([]float64) float64) Value {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Number(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return Null()
	}
	return Float(fn(nums))
}

func sumOf(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		total += n
	}
	return total
}

func avgOf(nums []float64) float64 {
	return sumOf(nums) / float64(len(nums))
}

func maxOf(nums []float64) float64 {
	m := math.Inf(-1)
	for _, n := range nums {
		if n > m {
			m = n
		}
	}
	return m
}

func minOf(nums []float64) float64 {
	m := math.Inf(1)
	for _, n := range nums {
		if n < m {
			m = n
		}
	}
	return m
}
