package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/schema"
)

// ============================================================================
// RESOLUTION — Interactive and schema modes
// ============================================================================
// Both modes only build a Policy. Nothing here touches table cells.
// ============================================================================

// Interactive asks p about every non-key column of t, in column order.
// Empty or unrecognized answers fall back to "first".
func Interactive(ctx context.Context, t *engine.Table, key []string, p Prompter, cfg Config) (engine.Policy, error) {
	cfg = cfg.withDefaults()
	if err := checkKey(t, key); err != nil {
		return engine.Policy{}, err
	}
	isKey := keySet(key)

	var policy engine.Policy
	for i, col := range t.Columns {
		if isKey[col.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return engine.Policy{}, err
		}

		answer, err := p.Ask(ctx, BuildQuestion(t, i))
		if err != nil {
			return engine.Policy{}, fmt.Errorf("prompt for column %q: %w", col.Name, err)
		}

		kind, ok := ParseTag(answer)
		if !ok {
			cfg.Logger.Info("unrecognized answer, keeping first value",
				zap.String("column", col.Name), zap.String("answer", answer))
		}
		if cfg.OnResolved != nil {
			cfg.OnResolved(col.Name, kind, ok)
		}
		add(&policy, col.Name, kind, cfg.Delimiter)
	}

	cfg.Logger.Debug("policy resolved interactively", zap.Any("tags", policy.Tags()))
	return policy, nil
}

// FromSchema builds the policy from a schema mapping. The mapping's columns
// plus the key columns must equal the table's columns exactly, and every
// tag must be recognized.
func FromSchema(t *engine.Table, key []string, m schema.Mapping, cfg Config) (engine.Policy, error) {
	cfg = cfg.withDefaults()
	if err := checkKey(t, key); err != nil {
		return engine.Policy{}, err
	}
	if len(m) == 0 {
		return engine.Policy{}, engine.Configf("schema", "schema maps no columns")
	}
	isKey := keySet(key)

	for _, col := range m.Columns() {
		if isKey[col] {
			return engine.Policy{}, engine.Configf(col, "key column must not appear in the schema")
		}
		if !t.Has(col) {
			return engine.Policy{}, engine.Configf(col, "schema column not found in table")
		}
	}

	var policy engine.Policy
	for _, col := range t.Columns {
		if isKey[col.Name] {
			continue
		}
		tag, listed := m[col.Name]
		if !listed {
			return engine.Policy{}, engine.Configf(col.Name, "column missing from schema")
		}
		kind, ok := ParseTag(tag)
		if !ok {
			return engine.Policy{}, engine.Configf(col.Name, "unknown operator tag %q", tag)
		}
		add(&policy, col.Name, kind, cfg.Delimiter)
	}

	cfg.Logger.Debug("policy resolved from schema", zap.Any("tags", policy.Tags()))
	return policy, nil
}

func add(p *engine.Policy, column string, kind engine.OpKind, delimiter string) {
	if kind == engine.OpDrop {
		p.Dropped = append(p.Dropped, column)
		return
	}
	p.Columns = append(p.Columns, engine.ColumnPolicy{
		Column: column,
		Op:     engine.NewOperator(kind, delimiter),
	})
}

func checkKey(t *engine.Table, key []string) error {
	if len(key) == 0 {
		return engine.Configf("unique_key", "at least one key column is required")
	}
	for _, k := range key {
		if !t.Has(k) {
			return engine.Configf("unique_key", "column %q not found in table (columns: %v)", k, t.Names())
		}
	}
	return nil
}

func keySet(key []string) map[string]bool {
	set := make(map[string]bool, len(key))
	for _, k := range key {
		set[k] = true
	}
	return set
}
