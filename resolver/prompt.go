package resolver

import (
	"fmt"
	"strings"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// PROMPT BUILDER — Per-column question and option legend
// ============================================================================

// maxSamples bounds the sample values shown next to a question.
const maxSamples = 3

// LegendEntry is one line of the options legend.
type LegendEntry struct {
	Keys string // what to type
	Kind engine.OpKind
}

// Legend lists the accepted answers, in the order they are printed before
// the first question.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Keys: "P / cat", Kind: engine.OpCat},
		{Keys: "D / ddc", Kind: engine.OpDedupCat},
		{Keys: "S / sdc", Kind: engine.OpSplitDedupCat},
		{Keys: "L / sum", Kind: engine.OpSum},
		{Keys: "M / avg", Kind: engine.OpAvg},
		{Keys: "X / max", Kind: engine.OpMax},
		{Keys: "I / min", Kind: engine.OpMin},
		{Keys: "Q / drop", Kind: engine.OpDrop},
		{Keys: "Enter", Kind: engine.OpFirst},
	}
}

// BuildQuestion prepares the question for column idx of t.
func BuildQuestion(t *engine.Table, idx int) Question {
	col := t.Columns[idx]
	samples := sampleValues(t, idx, maxSamples)

	var b strings.Builder
	b.WriteString("Options: P cat; D ddc; S sdc; L sum; M avg; X max; I min; Q drop; Enter first ---- ")
	b.WriteString(col.Name)
	b.WriteString(fmt.Sprintf(" [%s]", col.Kind))
	if len(samples) > 0 {
		b.WriteString(fmt.Sprintf(" e.g. %s", strings.Join(quoted(samples), ", ")))
	}

	return Question{
		Column:  col.Name,
		Kind:    col.Kind,
		Samples: samples,
		Message: b.String(),
	}
}

// sampleValues returns up to n distinct non-null renderings from column idx.
func sampleValues(t *engine.Table, idx, n int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		if len(out) >= n {
			break
		}
		v := row[idx]
		if v.IsNull() {
			continue
		}
		s := v.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func quoted(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
