package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// CSV OUTPUT — Header row plus one row per group
// ============================================================================

// EncodeCSV writes t to w: header first, then rows. Nulls are empty cells.
func EncodeCSV(w io.Writer, t *engine.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes t to path. The file appears only once fully written: a
// failed run leaves no partial output behind.
func WriteCSV(path string, t *engine.Table) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rowmerge-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = EncodeCSV(tmp, t); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
