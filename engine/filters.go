package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Key completeness filtering via RecordView
// ============================================================================
// Rows whose key has any null component never reach a group. Returns a
// SubView (index list into parent), no data copied.
// ============================================================================

// CompleteKeys returns a view of the rows whose key columns are all non-null.
// The second result is the number of rows excluded.
func CompleteKeys(view RecordView, keyCols []int) (RecordView, int) {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		complete := true
		for _, c := range keyCols {
			if view.Value(i, c).IsNull() {
				complete = false
				break
			}
		}
		if complete {
			indices = append(indices, i)
		}
	}
	if len(indices) == n {
		return view, 0
	}
	return newSubView(view, indices), n - len(indices)
}

// foldKey lower-cases text key values for case-insensitive grouping.
// Numbers are returned unchanged.
func foldKey(v Value) Value {
	if v.Kind != KindText {
		return v
	}
	return Text(strings.ToLower(v.Str))
}
