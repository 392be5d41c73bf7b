package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/schema"
)

// ============================================================================
// CSV HELPER — Parses delimited text into an engine.Table
// ============================================================================
// Consumer points at a file; this helper decodes it, tokenizes it and infers
// column kinds via schema.DiscoverColumns. Spreadsheets go through xlsx.go.
// ============================================================================

// ReadOptions control how an input file is read.
type ReadOptions struct {
	Separator     string // single character; "" means ","
	Encoding      string // e.g. "utf-8", "iso-8859-1"; "" means utf-8
	BreakOnErrors bool   // true: malformed rows are a ParseError; false: skipped
	Logger        *zap.Logger
}

// ReadResult is a loaded table plus what was skipped on the way.
type ReadResult struct {
	Table   *engine.Table
	Skipped int // malformed rows dropped while BreakOnErrors was false
}

// NormalizeInputPath appends ".csv" when path names neither a CSV nor an
// XLSX file.
func NormalizeInputPath(path string) string {
	lower := strings.ToLower(path)
	if strings.Contains(lower, ".csv") || strings.Contains(lower, ".xlsx") {
		return path
	}
	return path + ".csv"
}

// ReadTable loads path as CSV, or as XLSX when the extension says so.
func ReadTable(path string, opts ReadOptions) (*ReadResult, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return ParseCSV(f, path, opts)
}

// ParseCSV tokenizes r. name labels errors.
func ParseCSV(r io.Reader, name string, opts ReadOptions) (*ReadResult, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sep, err := SeparatorRune(opts.Separator)
	if err != nil {
		return nil, err
	}
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(enc.NewDecoder().Reader(r))
	reader.Comma = sep
	reader.FieldsPerRecord = 0 // header width is enforced for every row

	// Read header
	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &engine.ParseError{Path: name, Err: errors.New("input has no header row")}
		}
		return nil, &engine.ParseError{Path: name, Line: 1, Err: err}
	}
	headers = cleanHeaders(headers)
	if err := checkHeaders(headers); err != nil {
		return nil, &engine.ParseError{Path: name, Line: 1, Err: err}
	}

	// Read rows
	var rows [][]string
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			if opts.BreakOnErrors {
				return nil, &engine.ParseError{Path: name, Line: line, Err: err}
			}
			opts.Logger.Warn("skipping malformed row", zap.String("file", name), zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return &ReadResult{Table: schema.DiscoverColumns(headers, rows), Skipped: skipped}, nil
}

// SeparatorRune validates a field separator.
func SeparatorRune(sep string) (rune, error) {
	if sep == "" {
		return ',', nil
	}
	if sep == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(sep)
	if size != len(sep) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, engine.Configf("separator", "must be a single character other than quote or newline, got %q", sep)
	}
	return r, nil
}

// LookupEncoding resolves an encoding name. Empty and utf-8 variants
// decode as UTF-8 with a leading BOM removed.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, engine.Configf("encoding", "unsupported encoding %q", name)
	}
	return enc, nil
}

func cleanHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func checkHeaders(headers []string) error {
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		if h == "" {
			return fmt.Errorf("column %d has an empty name", i+1)
		}
		if seen[h] {
			return fmt.Errorf("duplicate column name %q", h)
		}
		seen[h] = true
	}
	return nil
}
