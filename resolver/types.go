package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// RESOLVER — Column → operator policy, from a person or from a schema file
// ============================================================================
// The resolver is the only component that talks to the user. It receives
// the table's columns and the key, asks (or reads) one tag per non-key
// column, and returns an engine.Policy. It never mutates the table: Apply
// performs coercions and drops in one separate pass.
// ============================================================================

// Prompter asks the user how to merge one column and returns the raw answer.
type Prompter interface {
	Ask(ctx context.Context, question Question) (string, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, question Question) (string, error)

func (f PrompterFunc) Ask(ctx context.Context, q Question) (string, error) { return f(ctx, q) }

// Question is what the prompter shows for one column.
type Question struct {
	Column  string
	Kind    engine.Kind
	Samples []string // a few distinct non-null values, for context
	Message string   // one-line prompt text
}

// Config holds resolver configuration.
type Config struct {
	Delimiter string      // join delimiter handed to text operators
	Logger    *zap.Logger // nil → no logging
	// OnResolved is called after each interactive answer, e.g. to echo the
	// chosen action. May be nil.
	OnResolved func(column string, kind engine.OpKind, recognized bool)
}

// DefaultDelimiter is the text join delimiter when none is configured.
const DefaultDelimiter = ", "

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
