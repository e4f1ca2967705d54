package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	markStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	messageStyle  = lipgloss.NewStyle().Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Terminal renders questions with bubbletea.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal returns a Terminal prompter. in should be a TTY.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, q Question) (string, error) {
	p := tea.NewProgram(newModel(q),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return "", fmt.Errorf("%w: %v", ErrAborted, err)
		}
		return "", fmt.Errorf("running prompt %q: %w", q.ID, err)
	}
	m, ok := final.(model)
	if !ok || m.aborted || !m.done {
		return "", ErrAborted
	}
	return m.answer, nil
}

type model struct {
	q       Question
	input   textinput.Model
	cursor  int
	answer  string
	done    bool
	aborted bool
}

func newModel(q Question) model {
	m := model{q: q, cursor: q.DefaultIndex()}
	if q.Kind == Input {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = q.Default
		ti.Focus()
		m.input = ti
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.q.Kind == Input {
		return textinput.Blink
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.answer = m.current()
			m.done = true
			return m, tea.Quit
		}

		if m.q.Kind == Select {
			switch key.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.q.Choices)-1 {
					m.cursor++
				}
			}
			return m, nil
		}
	}

	if m.q.Kind == Input {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) current() string {
	if m.q.Kind == Select {
		if len(m.q.Choices) == 0 {
			return ""
		}
		return m.q.Choices[m.cursor].Value
	}
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		return v
	}
	return m.q.Default
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(markStyle.Render("?") + " " + messageStyle.Render(m.q.Message) + " ")

	if m.done {
		b.WriteString(answerStyle.Render(m.q.Label(m.answer)) + "\n")
		return b.String()
	}
	if m.aborted {
		b.WriteString("\n")
		return b.String()
	}

	if m.q.Kind == Input {
		b.WriteString(m.input.View() + "\n")
		return b.String()
	}

	b.WriteString(hintStyle.Render("(use arrow keys)") + "\n")
	for i, c := range m.q.Choices {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("❯ "+c.Label) + "\n")
		} else {
			b.WriteString("  " + c.Label + "\n")
		}
	}
	return b.String()
}
