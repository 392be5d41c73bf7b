package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Group-and-merge entry point
// ============================================================================
// Entry point: Merge(table, key, policy, opts...)
//
// Pipeline:
//   1. Validate key and policy against the table
//   2. Drop rows with an incomplete key → SubView
//   3. Group rows by key (optionally case-folded)
//   4. Sort groups by key
//   5. Aggregate each retained column per group
//   6. Return the merged table
//
// The input table is read, never mutated. Coercions and drops happen in the
// resolver's transformation pass before Merge is called.
// ============================================================================

// Merge collapses t to one row per distinct key under policy.
func Merge(t *Table, key []string, policy Policy, opts ...Option) (*Table, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	keyCols, err := resolveKey(t, key, cfg.CaseInsensitive)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(t, key); err != nil {
		return nil, err
	}

	// Output layout follows the input column order; dropped columns still
	// present in t are skipped.
	var (
		outCols []Column
		srcCols []int
		ops     []*Operator
		keyPos  []int
	)
	for i, c := range t.Columns {
		if kp := indexOf(keyCols, i); kp >= 0 {
			outCols = append(outCols, c)
			srcCols = append(srcCols, i)
			ops = append(ops, nil)
			keyPos = append(keyPos, kp)
			continue
		}
		op, ok := policy.Lookup(c.Name)
		if !ok {
			continue // dropped
		}
		outCols = append(outCols, Column{Name: c.Name, Kind: resultKind(op.Kind, c.Kind)})
		srcCols = append(srcCols, i)
		ops = append(ops, &op)
		keyPos = append(keyPos, -1)
	}

	view := NewTableView(t)
	complete, excluded := CompleteKeys(view, keyCols)
	if excluded > 0 {
		log.Info("rows with an incomplete key excluded",
			zap.Int("excluded", excluded), zap.Strings("key", key))
	}

	groups := GroupRows(complete, keyCols, cfg.CaseInsensitive)
	SortGroups(groups)

	out := NewTable(outCols)
	out.Rows = make([][]Value, 0, len(groups))
	for _, g := range groups {
		out.Rows = append(out.Rows, AggregateGroup(g, srcCols, ops, keyPos))
	}

	log.Debug("merge complete",
		zap.Int("rows_in", t.Len()),
		zap.Int("groups", len(groups)),
		zap.Int("columns_out", len(outCols)))

	return out, nil
}

// resolveKey maps key column names to indices in t.
func resolveKey(t *Table, key []string, caseInsensitive bool) ([]int, error) {
	if len(key) == 0 {
		return nil, Configf("unique_key", "at least one key column is required")
	}
	if caseInsensitive && len(key) > 1 {
		return nil, Configf("case_insensitive", "case-insensitive matching supports a single key column only, got %d", len(key))
	}
	cols := make([]int, len(key))
	for i, k := range key {
		idx := t.Index(k)
		if idx < 0 {
			return nil, Configf("unique_key", "column %q not found in table", k)
		}
		if indexOf(cols[:i], idx) >= 0 {
			return nil, Configf("unique_key", "column %q listed twice", k)
		}
		cols[i] = idx
	}
	return cols, nil
}

// resultKind is the column kind an operator produces from a source kind.
func resultKind(op OpKind, src Kind) Kind {
	switch {
	case op.IsText():
		return KindText
	case op.IsNumeric():
		return KindFloat
	default:
		return src
	}
}

func indexOf(xs []int, x int) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
