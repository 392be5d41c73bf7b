package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// ERRORS — Fatal configuration/parse errors and non-fatal coercion warnings
// ============================================================================

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("parse error")
)

// ConfigurationError reports missing or inconsistent run configuration,
// including a bad schema source. Always fatal, raised before grouping.
type ConfigurationError struct {
	Field  string // option or schema entry at fault, may be empty
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Configf builds a ConfigurationError with a formatted reason.
func Configf(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ParseError reports input that could not be tokenized while error
// tolerance is disabled.
type ParseError struct {
	Path string
	Line int // 1-based input line, 0 if unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// CoercionWarning records a cell that failed numeric coercion and became null.
type CoercionWarning struct {
	Column string
	Row    int
	Raw    string
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("%s[%d]: %q is not a number", w.Column, w.Row, w.Raw)
}

// CoercionReport collects the warnings of one transformation pass.
type CoercionReport struct {
	Warnings []CoercionWarning
}

// Add records a warning.
func (r *CoercionReport) Add(column string, row int, raw string) {
	r.Warnings = append(r.Warnings, CoercionWarning{Column: column, Row: row, Raw: raw})
}

// Count returns the number of warnings.
func (r *CoercionReport) Count() int { return len(r.Warnings) }

// ByColumn counts warnings per column.
func (r *CoercionReport) ByColumn() map[string]int {
	out := make(map[string]int)
	for _, w := range r.Warnings {
		out[w.Column]++
	}
	return out
}
