package engine

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Grouping produces SubViews (index lists into the parent view), one per
// distinct key. Aggregation runs each column's operator over a group's
// values in input row order.
// ============================================================================

// Group is the set of rows sharing one key value or key tuple.
type Group struct {
	Key  []Value
	View RecordView
}

// ============================================================================
// GROUPING
// ============================================================================

// GroupRows partitions view by the values in keyCols. With fold set, text
// key values are lower-cased first. Groups come back in first-appearance
// order; use SortGroups for key order.
func GroupRows(view RecordView, keyCols []int, fold bool) []Group {
	if len(keyCols) == 1 {
		return groupBySingle(view, keyCols[0], fold)
	}
	return groupByMulti(view, keyCols)
}

func groupBySingle(view RecordView, col int, fold bool) []Group {
	grouped := make(map[string][]int)
	keys := make(map[string]Value)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		v := view.Value(i, col)
		if fold {
			v = foldKey(v)
		}
		h := hashKey([]Value{v})
		if _, exists := grouped[h]; !exists {
			order = append(order, h)
			keys[h] = v
		}
		grouped[h] = append(grouped[h], i)
	}

	groups := make([]Group, 0, len(order))
	for _, h := range order {
		groups = append(groups, Group{
			Key:  []Value{keys[h]},
			View: newSubView(view, grouped[h]),
		})
	}
	return groups
}

// groupByMulti groups on the key tuple. Composite keys are never folded.
func groupByMulti(view RecordView, cols []int) []Group {
	grouped := make(map[string][]int)
	keys := make(map[string][]Value)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		tuple := make([]Value, len(cols))
		for j, c := range cols {
			tuple[j] = view.Value(i, c)
		}
		h := hashKey(tuple)
		if _, exists := grouped[h]; !exists {
			order = append(order, h)
			keys[h] = tuple
		}
		grouped[h] = append(grouped[h], i)
	}

	groups := make([]Group, 0, len(order))
	for _, h := range order {
		groups = append(groups, Group{
			Key:  keys[h],
			View: newSubView(view, grouped[h]),
		})
	}
	return groups
}

// hashKey encodes a key tuple as a map key. Ints are encoded exactly; an
// integral float in int64 range shares the int encoding, so Int 1 and
// float 1.0 share a group, as they compare equal.
func hashKey(tuple []Value) string {
	var b strings.Builder
	for _, v := range tuple {
		switch v.Kind {
		case KindNull:
			b.WriteString("n|")
		case KindInt:
			b.WriteString("i")
			b.WriteString(strconv.FormatInt(v.Int, 10))
			b.WriteString("|")
		case KindFloat:
			if i, ok := exactInt(v.Float); ok {
				b.WriteString("i")
				b.WriteString(strconv.FormatInt(i, 10))
			} else {
				b.WriteString("f")
				b.WriteString(strconv.FormatFloat(v.Float, 'g', -1, 64))
			}
			b.WriteString("|")
		default:
			b.WriteString("t")
			b.WriteString(strconv.Itoa(len(v.Str)))
			b.WriteString(":")
			b.WriteString(v.Str)
			b.WriteString("|")
		}
	}
	return b.String()
}

// ============================================================================
// AGGREGATION
// ============================================================================

// AggregateGroup produces one output row for g. cols lists, for each output
// column, the source column index in the view; ops holds the operator for
// non-key positions and keyPos maps key positions to their place in g.Key.
func AggregateGroup(g Group, cols []int, ops []*Operator, keyPos []int) []Value {
	row := make([]Value, len(cols))
	for i, src := range cols {
		if keyPos[i] >= 0 {
			row[i] = g.Key[keyPos[i]]
			continue
		}
		row[i] = ops[i].Apply(ColumnValues(g.View, src))
	}
	return row
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups orders groups ascending by key, comparing tuples element-wise.
func SortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		return CompareKeys(groups[i].Key, groups[j].Key) < 0
	})
}

// CompareKeys compares two key tuples lexicographically.
func CompareKeys(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
