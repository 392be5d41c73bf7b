package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Row Access
// ============================================================================
// Grouping never copies rows. Groups are SubViews holding indices into the
// parent view.
//
// Implementations:
//   TableView: wraps a *Table
//   SubView:   filtered subset (indices into parent)
// ============================================================================

// RecordView provides indexed access to table rows.
type RecordView interface {
	Len() int
	Value(index int, column int) Value
	Columns() []Column
}

// ============================================================================
// TABLE VIEW
// ============================================================================

// TableView exposes a *Table as a RecordView.
type TableView struct {
	table *Table
}

// NewTableView creates a RecordView over t.
func NewTableView(t *Table) RecordView {
	return &TableView{table: t}
}

func (v *TableView) Len() int { return len(v.table.Rows) }

func (v *TableView) Value(i, col int) Value {
	if i < 0 || i >= len(v.table.Rows) || col < 0 || col >= len(v.table.Columns) {
		return Null()
	}
	return v.table.Rows[i][col]
}

func (v *TableView) Columns() []Column { return v.table.Columns }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView, in parent row order.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Value(i, col int) Value {
	if i < 0 || i >= len(v.indices) {
		return Null()
	}
	return v.parent.Value(v.indices[i], col)
}

func (v *SubView) Columns() []Column { return v.parent.Columns() }

// ColumnValues collects one column of a view, in row order.
func ColumnValues(view RecordView, col int) []Value {
	out := make([]Value, view.Len())
	for i := range out {
		out[i] = view.Value(i, col)
	}
	return out
}
