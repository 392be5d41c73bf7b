package resolver

import (
	"strings"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// ANSWER PARSER — Free text → operator kind
// ============================================================================
// Answers are matched case-insensitively after trimming whitespace and a
// trailing colon ("P:" reads as "p"). Single letters keep the historical
// keyboard shortcuts: P concatenate, L sum, M average, Q drop.
// ============================================================================

var synonyms = map[string]engine.OpKind{
	"first": engine.OpFirst,
	"f":     engine.OpFirst,
	"":      engine.OpFirst,

	"cat":         engine.OpCat,
	"concat":      engine.OpCat,
	"concatenate": engine.OpCat,
	"p":           engine.OpCat,
	"o":           engine.OpCat,
	"0":           engine.OpCat,

	"ddc":    engine.OpDedupCat,
	"dedupe": engine.OpDedupCat,
	"dedup":  engine.OpDedupCat,
	"d":      engine.OpDedupCat,

	"sdc":   engine.OpSplitDedupCat,
	"split": engine.OpSplitDedupCat,
	"s":     engine.OpSplitDedupCat,

	"sum": engine.OpSum,
	"l":   engine.OpSum,
	"k":   engine.OpSum,

	"avg":     engine.OpAvg,
	"mean":    engine.OpAvg,
	"average": engine.OpAvg,
	"m":       engine.OpAvg,
	"n":       engine.OpAvg,

	"max": engine.OpMax,
	"x":   engine.OpMax,

	"min": engine.OpMin,
	"i":   engine.OpMin,

	"drop":   engine.OpDrop,
	"remove": engine.OpDrop,
	"delete": engine.OpDrop,
	"q":      engine.OpDrop,
	"a":      engine.OpDrop,
	"w":      engine.OpDrop,
}

// ParseTag interprets an answer or schema tag. Unrecognized input yields
// OpFirst with ok=false; the empty answer is a recognized OpFirst.
func ParseTag(answer string) (kind engine.OpKind, ok bool) {
	s := strings.ToLower(strings.TrimSpace(answer))
	s = strings.TrimSpace(strings.TrimSuffix(s, ":"))
	kind, ok = synonyms[s]
	if !ok {
		return engine.OpFirst, false
	}
	return kind, true
}
