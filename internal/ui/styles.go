// Package ui renders rowmerge's terminal output and asks the per-column
// questions.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/resolver"
)

// Palette
var (
	Primary = lipgloss.Color("#7c3aed")
	Muted   = lipgloss.Color("#6b7280")
	Success = lipgloss.Color("#16a34a")
	Warning = lipgloss.Color("#d97706")
	Danger  = lipgloss.Color("#dc2626")
)

// Styles holds every style the CLI prints with.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Key     lipgloss.Style
	Prompt  lipgloss.Style
	Input   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the standard styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(Muted),

		Key: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Input: lipgloss.NewStyle(),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Error: lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true),

		Border: lipgloss.NewStyle().
			Foreground(Muted),
	}
}

// RenderLegend renders the options legend shown before the first question.
func (s Styles) RenderLegend() string {
	var b strings.Builder
	b.WriteString(s.Title.Render("For each column, decide how rows with the same key are merged:"))
	b.WriteString("\n")
	for _, e := range resolver.Legend() {
		b.WriteString("  ")
		b.WriteString(s.Key.Render(fmt.Sprintf("%-9s", e.Keys)))
		b.WriteString(" ")
		b.WriteString(e.Kind.Label())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderResolved echoes the action chosen for one column.
func (s Styles) RenderResolved(column string, kind engine.OpKind, recognized bool) string {
	if !recognized {
		return s.Warning.Render(fmt.Sprintf("  %s: answer not recognized, keeping the first value", column))
	}
	return s.Muted.Render(fmt.Sprintf("  %s → %s", column, kind))
}

// RenderPreview renders the first rows of the merged table.
func (s Styles) RenderPreview(td *engine.TableData) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers(td.Headers...).
		Rows(td.Rows...)

	out := t.String()
	if td.Omitted > 0 {
		out += "\n" + s.Muted.Render(fmt.Sprintf("… %s more rows", engine.FormatInt(td.Omitted)))
	}
	return out
}

// RenderSummary renders the before/after report of one run.
func (s Styles) RenderSummary(sum engine.Summary) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Before deduplication: "))
	b.WriteString(engine.Shape(sum.RowsBefore, sum.ColumnsBefore))
	b.WriteString("\n")
	b.WriteString(s.Success.Render("After deduplication:  "))
	b.WriteString(engine.Shape(sum.RowsAfter, sum.ColumnsAfter))
	b.WriteString("\n")

	if len(sum.Dropped) > 0 {
		b.WriteString(s.Muted.Render("Dropped: " + strings.Join(sum.Dropped, ", ")))
		b.WriteString("\n")
	}

	if len(sum.Coerced) > 0 {
		cols := make([]string, 0, len(sum.Coerced))
		for c := range sum.Coerced {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			b.WriteString(s.Warning.Render(fmt.Sprintf("%s: %d values were not numeric and became empty", c, sum.Coerced[c])))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderError formats a fatal error.
func (s Styles) RenderError(err error) string {
	return s.Error.Render("error: ") + err.Error()
}
