package engine

// ============================================================================
// MERGE POLICY — Column → Operator mapping
// ============================================================================
// Built by the resolver before any table mutation and read-only afterwards.
// ============================================================================

// ColumnPolicy binds one non-key column to its operator.
type ColumnPolicy struct {
	Column string
	Op     Operator
}

// Policy is the resolved merge policy for a table.
// Every non-key column appears exactly once in Columns or in Dropped.
type Policy struct {
	Columns []ColumnPolicy
	Dropped []string
}

// Lookup returns the operator for column.
func (p Policy) Lookup(column string) (Operator, bool) {
	for _, cp := range p.Columns {
		if cp.Column == column {
			return cp.Op, true
		}
	}
	return Operator{}, false
}

// IsDropped reports whether column is dropped by the policy.
func (p Policy) IsDropped(column string) bool {
	for _, d := range p.Dropped {
		if d == column {
			return true
		}
	}
	return false
}

// Tags returns column → tag, dropped columns included, for logging and
// for writing a schema file back out.
func (p Policy) Tags() map[string]string {
	out := make(map[string]string, len(p.Columns)+len(p.Dropped))
	for _, cp := range p.Columns {
		out[cp.Column] = cp.Op.Kind.Tag()
	}
	for _, d := range p.Dropped {
		out[d] = OpDrop.Tag()
	}
	return out
}

// Check verifies that p accounts for every non-key column of t exactly once
// and names no key or unknown column.
func (p Policy) Check(t *Table, key []string) error {
	isKey := make(map[string]bool, len(key))
	for _, k := range key {
		isKey[k] = true
	}
	seen := make(map[string]bool)
	mark := func(col string) error {
		if isKey[col] {
			return Configf(col, "key column cannot carry a merge policy")
		}
		if seen[col] {
			return Configf(col, "column has more than one merge policy")
		}
		seen[col] = true
		return nil
	}
	for _, cp := range p.Columns {
		if err := mark(cp.Column); err != nil {
			return err
		}
		if !t.Has(cp.Column) {
			return Configf(cp.Column, "policy names a column the table does not have")
		}
	}
	for _, d := range p.Dropped {
		if err := mark(d); err != nil {
			return err
		}
	}
	for _, c := range t.Columns {
		if !isKey[c.Name] && !seen[c.Name] {
			return Configf(c.Name, "column has no merge policy")
		}
	}
	return nil
}
