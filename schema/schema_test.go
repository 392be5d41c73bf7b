package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/rowmerge/engine"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "schema.json", `{"Owner": "ddc", "Revenue": "sum", "Notes": "drop"}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Mapping{"Owner": "ddc", "Revenue": "sum", "Notes": "drop"}, m)
	assert.Equal(t, []string{"Notes", "Owner", "Revenue"}, m.Columns())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "schema.yaml", "Owner: cat\nRevenue: avg\n")

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Mapping{"Owner": "cat", "Revenue": "avg"}, m)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"empty file", func(t *testing.T) string { return writeFile(t, "empty.json", "  \n") }},
		{"invalid json", func(t *testing.T) string { return writeFile(t, "bad.json", "{not json") }},
		{"empty object", func(t *testing.T) string { return writeFile(t, "obj.json", "{}") }},
		{"non-string tag", func(t *testing.T) string { return writeFile(t, "num.json", `{"a": 3}`) }},
		{"json array", func(t *testing.T) string { return writeFile(t, "arr.json", `["a"]`) }},
		{"invalid yaml", func(t *testing.T) string { return writeFile(t, "bad.yml", "a: [b") }},
		{"no path", func(t *testing.T) string { return "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrConfiguration)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.json")
	in := Mapping{"Owner": "first", "Tags": "sdc"}

	require.NoError(t, Save(path, in))
	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
