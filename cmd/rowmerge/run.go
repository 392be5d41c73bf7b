package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/helpers"
	"github.com/spektr-org/rowmerge/internal/config"
	"github.com/spektr-org/rowmerge/internal/ui"
	"github.com/spektr-org/rowmerge/resolver"
	"github.com/spektr-org/rowmerge/schema"
)

// ============================================================================
// RUN — read → resolve → apply → merge → write
// ============================================================================
// Any error aborts before the output file is written.
// ============================================================================

type runner struct {
	cfg      *config.Config
	log      *zap.Logger
	out      io.Writer
	styles   ui.Styles
	prompter resolver.Prompter
	discover bool
	preview  int
}

func (r *runner) run(ctx context.Context) error {
	cfg := r.cfg
	input := helpers.NormalizeInputPath(cfg.Input)

	// ── Read ──────────────────────────────────────────────────────────────
	res, err := helpers.ReadTable(input, helpers.ReadOptions{
		Separator:     cfg.Separator,
		Encoding:      cfg.Encoding,
		BreakOnErrors: cfg.BreakOnErrors,
		Logger:        r.log,
	})
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		r.log.Warn("malformed rows skipped", zap.String("file", input), zap.Int("skipped", res.Skipped))
	}
	table := res.Table
	r.log.Info("input loaded",
		zap.String("file", input),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)))

	if r.discover {
		fmt.Fprintln(r.out, r.styles.RenderPreview(describeColumns(table)))
		return nil
	}

	// ── Resolve ───────────────────────────────────────────────────────────
	key := cfg.KeyColumns()
	policy, err := r.resolve(ctx, table, key)
	if err != nil {
		return err
	}

	// ── Apply + Merge ─────────────────────────────────────────────────────
	prepared, report := resolver.Apply(table, policy)
	for _, w := range report.Warnings {
		r.log.Debug("value not numeric, treated as empty",
			zap.String("column", w.Column), zap.Int("row", w.Row), zap.String("raw", w.Raw))
	}

	merged, err := engine.Merge(prepared, key, policy,
		engine.WithCaseInsensitiveKey(cfg.CaseInsensitive),
		engine.WithLogger(r.log),
	)
	if err != nil {
		return err
	}

	// ── Write ─────────────────────────────────────────────────────────────
	if err := helpers.WriteCSV(cfg.Output, merged); err != nil {
		return err
	}
	// The schema is only saved once the output it describes exists.
	if cfg.SaveSchema != "" {
		if err := schema.Save(cfg.SaveSchema, schema.Mapping(policy.Tags())); err != nil {
			return err
		}
		r.log.Info("schema saved", zap.String("file", cfg.SaveSchema))
	}

	summary := engine.Summarize(table, merged, policy, report)
	r.log.Info("deduplication complete",
		zap.String("output", cfg.Output),
		zap.Int("rows_before", summary.RowsBefore),
		zap.Int("rows_after", summary.RowsAfter),
		zap.Any("operators", summary.Operators))

	if r.preview > 0 {
		fmt.Fprintln(r.out, r.styles.RenderPreview(engine.BuildPreview(merged, r.preview)))
	}
	fmt.Fprint(r.out, r.styles.RenderSummary(summary))
	fmt.Fprintln(r.out, r.styles.Success.Render("Written to "+cfg.Output))
	return nil
}

func (r *runner) resolve(ctx context.Context, t *engine.Table, key []string) (engine.Policy, error) {
	rcfg := resolver.Config{Delimiter: r.cfg.ConcatDelimiter, Logger: r.log}

	if r.cfg.Schema != "" {
		m, err := schema.Load(r.cfg.Schema)
		if err != nil {
			return engine.Policy{}, err
		}
		return resolver.FromSchema(t, key, m, rcfg)
	}

	fmt.Fprint(r.out, r.styles.RenderLegend())
	rcfg.OnResolved = func(column string, kind engine.OpKind, recognized bool) {
		fmt.Fprintln(r.out, r.styles.RenderResolved(column, kind, recognized))
	}
	return resolver.Interactive(ctx, t, key, r.prompter, rcfg)
}

// describeColumns lists each column with its inferred kind and a few values.
func describeColumns(t *engine.Table) *engine.TableData {
	td := &engine.TableData{Headers: []string{"column", "kind", "examples"}}
	for i, c := range t.Columns {
		q := resolver.BuildQuestion(t, i)
		td.Rows = append(td.Rows, []string{c.Name, c.Kind.String(), strings.Join(q.Samples, " | ")})
	}
	return td
}
