package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/spektr-org/rowmerge/resolver"
)

// ErrAborted is returned when the user cancels a question.
var ErrAborted = errors.New("aborted by user")

// NewPrompter picks the terminal prompter when in is a terminal and the
// line prompter otherwise, so piped answers keep working.
func NewPrompter(in *os.File, out io.Writer, styles Styles) resolver.Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &TerminalPrompter{In: in, Out: out, Styles: styles}
	}
	return NewLinePrompter(in, out)
}

// ============================================================================
// TERMINAL PROMPTER — One bubbletea program per question
// ============================================================================

// TerminalPrompter asks each question with an inline text input.
type TerminalPrompter struct {
	In     io.Reader
	Out    io.Writer
	Styles Styles
}

// Ask implements resolver.Prompter.
func (p *TerminalPrompter) Ask(ctx context.Context, q resolver.Question) (string, error) {
	m := newQuestionModel(q, p.Styles)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	qm := final.(questionModel)
	if qm.aborted {
		return "", ErrAborted
	}
	return qm.answer, nil
}

type questionModel struct {
	question resolver.Question
	styles   Styles
	input    textinput.Model
	answer   string
	done     bool
	aborted  bool
}

func newQuestionModel(q resolver.Question, styles Styles) questionModel {
	ti := textinput.New()
	ti.Placeholder = "Enter keeps the first value"
	ti.Focus()
	ti.Prompt = "> "
	ti.CharLimit = 32
	ti.Width = 40
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Input

	return questionModel{question: q, styles: styles, input: ti}
}

func (m questionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.answer = m.input.Value()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m questionModel) View() string {
	if m.done {
		return ""
	}
	return m.styles.Muted.Render(m.question.Message) + "\n" + m.input.View() + "\n"
}

// ============================================================================
// LINE PROMPTER — Plain reads for pipes and redirected input
// ============================================================================

// LinePrompter prints each question and reads one line per answer.
type LinePrompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewLinePrompter creates a LinePrompter over r and w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{r: bufio.NewReader(r), w: w}
}

// Ask implements resolver.Prompter. A final line without a newline is still
// an answer; end of input with nothing read is an error.
func (p *LinePrompter) Ask(ctx context.Context, q resolver.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(p.w, "%s\n> ", q.Message); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no answer for column %q: %w", q.Column, io.ErrUnexpectedEOF)
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
