package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/resolver"
)

func TestLinePrompter_ReadsOneAnswerPerQuestion(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("sum\n\nq"), &out)
	ctx := context.Background()

	a, err := p.Ask(ctx, resolver.Question{Column: "price", Message: "price?"})
	require.NoError(t, err)
	assert.Equal(t, "sum", a)

	a, err = p.Ask(ctx, resolver.Question{Column: "note", Message: "note?"})
	require.NoError(t, err)
	assert.Equal(t, "", a)

	a, err = p.Ask(ctx, resolver.Question{Column: "id", Message: "id?"})
	require.NoError(t, err)
	assert.Equal(t, "q", a)

	_, err = p.Ask(ctx, resolver.Question{Column: "extra", Message: "extra?"})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	assert.Contains(t, out.String(), "price?\n> ")
	assert.Contains(t, out.String(), "note?\n> ")
}

func TestLinePrompter_StripsCRLF(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("ddc\r\n"), io.Discard)
	a, err := p.Ask(context.Background(), resolver.Question{Column: "c"})
	require.NoError(t, err)
	assert.Equal(t, "ddc", a)
}

func TestLinePrompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewLinePrompter(strings.NewReader("sum\n"), io.Discard)
	_, err := p.Ask(ctx, resolver.Question{Column: "c"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestQuestionModel_EnterSubmits(t *testing.T) {
	m := newQuestionModel(resolver.Question{Column: "price", Message: "price?"}, DefaultStyles())
	for _, r := range "sum" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(questionModel)
	}
	assert.Contains(t, m.View(), "price?")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(questionModel)
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.False(t, m.aborted)
	assert.Equal(t, "sum", m.answer)
	assert.Equal(t, "", m.View())
}

func TestQuestionModel_EscAborts(t *testing.T) {
	m := newQuestionModel(resolver.Question{Column: "price"}, DefaultStyles())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(questionModel)
	assert.True(t, m.aborted)
}

func TestRenderLegend_ListsEveryOperator(t *testing.T) {
	out := DefaultStyles().RenderLegend()
	for _, e := range resolver.Legend() {
		assert.Contains(t, out, e.Keys)
		assert.Contains(t, out, e.Kind.Label())
	}
}

func TestRenderPreview(t *testing.T) {
	td := &engine.TableData{
		Headers: []string{"id", "total"},
		Rows:    [][]string{{"a", "3"}, {"b", "4"}},
		Omitted: 1200,
	}
	out := DefaultStyles().RenderPreview(td)
	for _, s := range []string{"id", "total", "a", "3", "b", "4", "1,200 more rows"} {
		assert.Contains(t, out, s)
	}
}

func TestRenderSummary(t *testing.T) {
	sum := engine.Summary{
		RowsBefore:    1500,
		ColumnsBefore: 4,
		RowsAfter:     2,
		ColumnsAfter:  3,
		Dropped:       []string{"junk"},
		Coerced:       map[string]int{"price": 1},
	}
	out := DefaultStyles().RenderSummary(sum)
	assert.Contains(t, out, "(1,500 rows, 4 columns)")
	assert.Contains(t, out, "(2 rows, 3 columns)")
	assert.Contains(t, out, "Dropped: junk")
	assert.Contains(t, out, "price: 1 values were not numeric")
}

func TestRenderResolved(t *testing.T) {
	s := DefaultStyles()
	assert.Contains(t, s.RenderResolved("price", engine.OpSum, true), "price → sum")
	assert.Contains(t, s.RenderResolved("price", engine.OpFirst, false), "not recognized")
}
