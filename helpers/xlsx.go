package helpers

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/schema"
)

// ReadXLSX loads the first sheet of a workbook. The first row is the header.
// Rows wider than the header are malformed: an error when BreakOnErrors is
// set, skipped otherwise.
func ReadXLSX(path string, opts ReadOptions) (*ReadResult, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &engine.ParseError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &engine.ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &engine.ParseError{Path: path, Err: fmt.Errorf("sheet %q: %w", sheets[0], err)}
	}
	if len(grid) == 0 {
		return nil, &engine.ParseError{Path: path, Err: errors.New("input has no header row")}
	}

	headers := cleanHeaders(grid[0])
	if err := checkHeaders(headers); err != nil {
		return nil, &engine.ParseError{Path: path, Line: 1, Err: err}
	}

	var rows [][]string
	skipped := 0
	for i, row := range grid[1:] {
		if len(row) > len(headers) && !trailingEmpty(row[len(headers):]) {
			line := i + 2
			err := fmt.Errorf("row has %d cells, header has %d", len(row), len(headers))
			if opts.BreakOnErrors {
				return nil, &engine.ParseError{Path: path, Line: line, Err: err}
			}
			opts.Logger.Warn("skipping malformed row", zap.String("file", path), zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return &ReadResult{Table: schema.DiscoverColumns(headers, rows), Skipped: skipped}, nil
}

func trailingEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
