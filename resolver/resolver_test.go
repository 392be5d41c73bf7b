package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/schema"
)

func sampleTable() *engine.Table {
	t := engine.NewTable([]engine.Column{
		{Name: "id", Kind: engine.KindInt},
		{Name: "tags", Kind: engine.KindText},
		{Name: "price", Kind: engine.KindText},
		{Name: "junk", Kind: engine.KindText},
	})
	t.AppendRow([]engine.Value{engine.Int(1), engine.Text("a"), engine.Text("1,000"), engine.Text("x")})
	t.AppendRow([]engine.Value{engine.Int(1), engine.Text("b"), engine.Text("2,000"), engine.Text("y")})
	t.AppendRow([]engine.Value{engine.Int(2), engine.Null(), engine.Text("bad"), engine.Text("z")})
	return t
}

func scripted(answers map[string]string) (Prompter, *[]string) {
	var asked []string
	return PrompterFunc(func(ctx context.Context, q Question) (string, error) {
		asked = append(asked, q.Column)
		return answers[q.Column], nil
	}), &asked
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want engine.OpKind
		ok   bool
	}{
		{"", engine.OpFirst, true},
		{"first", engine.OpFirst, true},
		{"P", engine.OpCat, true},
		{" p: ", engine.OpCat, true},
		{"cat", engine.OpCat, true},
		{"D", engine.OpDedupCat, true},
		{"ddc", engine.OpDedupCat, true},
		{"S", engine.OpSplitDedupCat, true},
		{"L", engine.OpSum, true},
		{"SUM", engine.OpSum, true},
		{"M", engine.OpAvg, true},
		{"mean", engine.OpAvg, true},
		{"X", engine.OpMax, true},
		{"I", engine.OpMin, true},
		{"Q", engine.OpDrop, true},
		{"drop", engine.OpDrop, true},
		{"banana", engine.OpFirst, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTag(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLegendCoversEveryTag(t *testing.T) {
	for _, e := range Legend() {
		for _, key := range strings.Split(e.Keys, " / ") {
			if key == "Enter" {
				key = ""
			}
			got, ok := ParseTag(key)
			assert.True(t, ok, key)
			assert.Equal(t, e.Kind, got, key)
		}
	}
}

func TestBuildQuestion(t *testing.T) {
	q := BuildQuestion(sampleTable(), 1)
	assert.Equal(t, "tags", q.Column)
	assert.Equal(t, engine.KindText, q.Kind)
	assert.Equal(t, []string{"a", "b"}, q.Samples)
	assert.Contains(t, q.Message, "tags [text]")
	assert.Contains(t, q.Message, `"a", "b"`)
}

func TestInteractive(t *testing.T) {
	p, asked := scripted(map[string]string{"tags": "D", "price": "l", "junk": "q"})
	var echoed []string
	cfg := Config{
		Delimiter: "; ",
		OnResolved: func(column string, kind engine.OpKind, recognized bool) {
			echoed = append(echoed, column+"="+kind.Tag())
		},
	}

	policy, err := Interactive(context.Background(), sampleTable(), []string{"id"}, p, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"tags", "price", "junk"}, *asked)
	assert.Equal(t, []string{"tags=ddc", "price=sum", "junk=drop"}, echoed)
	assert.Equal(t, []string{"junk"}, policy.Dropped)

	op, ok := policy.Lookup("tags")
	require.True(t, ok)
	assert.Equal(t, engine.OpDedupCat, op.Kind)
	assert.Equal(t, "; ", op.Delimiter)
}

func TestInteractiveDefaultsToFirst(t *testing.T) {
	p, _ := scripted(map[string]string{"tags": "", "price": "whatever"})
	var unrecognized []string
	cfg := Config{OnResolved: func(column string, _ engine.OpKind, recognized bool) {
		if !recognized {
			unrecognized = append(unrecognized, column)
		}
	}}

	policy, err := Interactive(context.Background(), sampleTable(), []string{"id"}, p, cfg)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tags": "first", "price": "first", "junk": "first"}, policy.Tags())
	assert.Equal(t, []string{"price"}, unrecognized)
}

func TestInteractiveErrors(t *testing.T) {
	tbl := sampleTable()

	_, err := Interactive(context.Background(), tbl, []string{"nope"}, nil, Config{})
	assert.ErrorIs(t, err, engine.ErrConfiguration)

	boom := errors.New("terminal gone")
	failing := PrompterFunc(func(context.Context, Question) (string, error) { return "", boom })
	_, err = Interactive(context.Background(), tbl, []string{"id"}, failing, Config{})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, asked := scripted(nil)
	_, err = Interactive(ctx, tbl, []string{"id"}, p, Config{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *asked)
}

func TestFromSchema(t *testing.T) {
	m := schema.Mapping{"tags": "sdc", "price": "avg", "junk": "drop"}
	policy, err := FromSchema(sampleTable(), []string{"id"}, m, Config{Delimiter: ", "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tags": "sdc", "price": "avg", "junk": "drop"}, policy.Tags())
	require.NoError(t, policy.Check(sampleTable(), []string{"id"}))
}

func TestFromSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		m    schema.Mapping
	}{
		{"empty", schema.Mapping{}},
		{"unknown tag", schema.Mapping{"tags": "cat", "price": "median", "junk": "drop"}},
		{"key in schema", schema.Mapping{"id": "first", "tags": "cat", "price": "sum", "junk": "drop"}},
		{"unknown column", schema.Mapping{"tags": "cat", "price": "sum", "junk": "drop", "extra": "cat"}},
		{"missing column", schema.Mapping{"tags": "cat", "price": "sum"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSchema(sampleTable(), []string{"id"}, tt.m, Config{})
			assert.ErrorIs(t, err, engine.ErrConfiguration)
		})
	}
}

func TestApply(t *testing.T) {
	in := sampleTable()
	policy, err := FromSchema(in, []string{"id"}, schema.Mapping{"tags": "cat", "price": "sum", "junk": "drop"}, Config{})
	require.NoError(t, err)

	out, report := Apply(in, policy)

	assert.Equal(t, []string{"id", "tags", "price"}, out.Names())
	assert.Equal(t, engine.KindFloat, out.Columns[2].Kind)
	assert.Equal(t, []engine.Value{engine.Float(1000), engine.Float(2000), engine.Null()}, out.Column("price"))
	assert.Equal(t, []engine.Value{engine.Text("a"), engine.Text("b"), engine.Null()}, out.Column("tags"))

	require.Equal(t, 1, report.Count())
	assert.Equal(t, engine.CoercionWarning{Column: "price", Row: 2, Raw: "bad"}, report.Warnings[0])

	// the input keeps its shape and cells
	assert.Equal(t, 4, len(in.Columns))
	assert.Equal(t, engine.Text("1,000"), in.Rows[0][2])

	merged, err := engine.Merge(out, []string{"id"}, policy)
	require.NoError(t, err)
	sum, ok := merged.Rows[0][2].Number()
	require.True(t, ok)
	assert.Equal(t, 3000.0, sum)
	assert.True(t, merged.Rows[1][2].IsNull())
}

func TestReductionsAfterCoercion(t *testing.T) {
	var report engine.CoercionReport
	values := ToNumeric("price", []engine.Value{engine.Text("1,000"), engine.Text("2,000"), engine.Text("bad")}, &report)
	assert.Equal(t, 1, report.Count())

	want := map[engine.OpKind]float64{engine.OpSum: 3000, engine.OpAvg: 1500, engine.OpMax: 2000, engine.OpMin: 1000}
	for kind, w := range want {
		got, ok := engine.NewOperator(kind, ", ").Apply(values).Number()
		require.True(t, ok, kind.Tag())
		assert.Equal(t, w, got, kind.Tag())
	}
}

func TestToTextAndToNumeric(t *testing.T) {
	assert.Equal(t,
		[]engine.Value{engine.Text("7"), engine.Text("2.5"), engine.Null()},
		ToText([]engine.Value{engine.Int(7), engine.Float(2.5), engine.Null()}))

	var report engine.CoercionReport
	got := ToNumeric("c", []engine.Value{engine.Int(3), engine.Text(" 1,234.5 "), engine.Text(""), engine.Text("NaN")}, &report)
	assert.Equal(t, []engine.Value{engine.Float(3), engine.Float(1234.5), engine.Null(), engine.Null()}, got)
	assert.Equal(t, 1, report.Count())
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber("1,000")
	assert.True(t, ok)
	assert.Equal(t, 1000.0, f)

	for _, s := range []string{"", "abc", "inf", "-Infinity", "nan"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, s)
	}
}
