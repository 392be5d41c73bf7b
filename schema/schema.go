package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/rowmerge/engine"
)

// ============================================================================
// SCHEMA — Declarative column → operator tag mapping
// ============================================================================
// A schema file lets a run skip interactive prompting. It is a flat object:
//
//	{"Name": "first", "Notes": "ddc", "Revenue": "sum", "Internal ID": "drop"}
//
// Key columns are not listed. Tags are resolved by the resolver package.
// ============================================================================

// Mapping is a column name → operator tag mapping.
type Mapping map[string]string

// Columns returns the mapped column names, sorted.
func (m Mapping) Columns() []string {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Load reads a schema file. JSON is the default format; .yaml and .yml
// files are read as YAML. A missing, empty or malformed file is a
// ConfigurationError.
func Load(path string) (Mapping, error) {
	if path == "" {
		return nil, engine.Configf("schema", "no schema path given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, engine.Configf("schema", "schema file %s does not exist", path)
		}
		return nil, engine.Configf("schema", "failed to read schema file: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, engine.Configf("schema", "schema file %s is empty", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return Parse(data)
	}
}

// Parse decodes a JSON schema object.
func Parse(data []byte) (Mapping, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, engine.Configf("schema", "invalid JSON: %v", err)
	}
	return fromRaw(raw)
}

func parseYAML(data []byte) (Mapping, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, engine.Configf("schema", "invalid YAML: %v", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]interface{}) (Mapping, error) {
	if len(raw) == 0 {
		return nil, engine.Configf("schema", "schema maps no columns")
	}
	m := make(Mapping, len(raw))
	for col, v := range raw {
		tag, ok := v.(string)
		if !ok {
			return nil, engine.Configf(col, "tag must be a string, got %T", v)
		}
		m[col] = tag
	}
	return m, nil
}

// Save writes m as indented JSON, for reusing an interactive session's
// answers on the next run.
func Save(path string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}
