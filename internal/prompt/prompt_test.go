package prompt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var natureQuestion = Question{
	ID:      "nature",
	Kind:    Select,
	Message: "What is the nature of this package?",
	Default: "script",
	Choices: []Choice{
		{Value: "script", Label: "script"},
		{Value: "library", Label: "library"},
	},
}

var nameQuestion = Question{
	ID:      "name",
	Kind:    Input,
	Message: "What is the name of this package?",
	Default: "widget",
}

func TestQuestion_Validate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		q       Question
		answer  string
		want    string
		wantErr bool
	}{
		"select by value":         {q: natureQuestion, answer: "library", want: "library"},
		"select case-insensitive": {q: natureQuestion, answer: " Script ", want: "script"},
		"select invalid":          {q: natureQuestion, answer: "app", wantErr: true},
		"input is trimmed":        {q: nameQuestion, answer: "  tool ", want: "tool"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.q.Validate(tt.answer)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "script, library")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	got, err := Defaults{}.Ask(context.Background(), nameQuestion)
	require.NoError(t, err)
	assert.Equal(t, "widget", got)

	q := natureQuestion
	q.Default = ""
	got, err = Defaults{}.Ask(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "script", got)
}

func TestPreset(t *testing.T) {
	t.Parallel()

	var asked []string
	next := PrompterFunc(func(_ context.Context, q Question) (string, error) {
		asked = append(asked, q.ID)
		return "from-next", nil
	})
	p := NewPreset(map[string]string{"nature": "library"}, next)

	got, err := p.Ask(context.Background(), natureQuestion)
	require.NoError(t, err)
	assert.Equal(t, "library", got)

	got, err = p.Ask(context.Background(), nameQuestion)
	require.NoError(t, err)
	assert.Equal(t, "from-next", got)
	assert.Equal(t, []string{"name"}, asked)

	_, err = NewPreset(nil, nil).Ask(context.Background(), nameQuestion)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestLine_Ask(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		q      Question
		input  string
		want   string
		output string
	}{
		"input default on empty line": {q: nameQuestion, input: "\n", want: "widget", output: "? What is the name of this package? (widget): "},
		"input typed":                 {q: nameQuestion, input: "gadget\n", want: "gadget"},
		"select default":              {q: natureQuestion, input: "\n", want: "script", output: "  2) library"},
		"select by number":            {q: natureQuestion, input: "2\n", want: "library"},
		"select by value":             {q: natureQuestion, input: "library\n", want: "library"},
		"select retries on invalid":   {q: natureQuestion, input: "7\nlibrary\n", want: "library", output: `"7" is not a valid choice`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			got, err := NewLine(strings.NewReader(tt.input), &out).Ask(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), tt.output)
		})
	}
}

func TestLine_AbortsOnEOF(t *testing.T) {
	t.Parallel()

	_, err := NewLine(strings.NewReader(""), &bytes.Buffer{}).Ask(context.Background(), nameQuestion)
	assert.ErrorIs(t, err, ErrAborted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewLine(strings.NewReader("x\n"), &bytes.Buffer{}).Ask(ctx, nameQuestion)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestModel_Select(t *testing.T) {
	t.Parallel()

	m := newModel(natureQuestion)
	assert.Contains(t, m.View(), "❯ script")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, next.View(), "❯ library")

	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	final := next.(model)
	assert.True(t, final.done)
	assert.Equal(t, "library", final.answer)
	assert.Contains(t, final.View(), "library")
}

func TestModel_SelectVimKeys(t *testing.T) {
	t.Parallel()

	m := newModel(natureQuestion)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "script", next.(model).answer)
}

func TestModel_Input(t *testing.T) {
	t.Parallel()

	m := newModel(nameQuestion)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "widget", next.(model).answer)

	m = newModel(nameQuestion)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tool")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "tool", next.(model).answer)
}

func TestModel_Abort(t *testing.T) {
	t.Parallel()

	for name, key := range map[string]tea.KeyType{"ctrl+c": tea.KeyCtrlC, "esc": tea.KeyEsc} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			next, cmd := newModel(natureQuestion).Update(tea.KeyMsg{Type: key})
			require.NotNil(t, cmd)
			assert.True(t, next.(model).aborted)
		})
	}
}
