// Package prompt asks the operator questions. The flow only sees the Prompter
// interface; implementations render with bubbletea on a terminal, read lines
// from a pipe, or answer from flags.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAborted is returned when the operator cancels a prompt (Ctrl+C, Esc, EOF).
var ErrAborted = errors.New("prompt aborted")

// Kind selects how a question is answered.
type Kind int

const (
	// Input takes free text.
	Input Kind = iota
	// Select picks one of Choices.
	Select
)

// Choice is one option of a Select question.
type Choice struct {
	Value string
	Label string
}

// Question is a single prompt.
type Question struct {
	// ID names the question for presets and logs, e.g. "nature".
	ID      string
	Kind    Kind
	Message string
	// Default is the text for Input questions or a choice Value for Select.
	Default string
	Choices []Choice
}

// Prompter asks one question and returns the answer. For Select questions the
// answer is the chosen Choice.Value.
type Prompter interface {
	Ask(ctx context.Context, q Question) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, q Question) (string, error)

// Ask calls f.
func (f PrompterFunc) Ask(ctx context.Context, q Question) (string, error) {
	return f(ctx, q)
}

// Values returns the choice values in order.
func (q Question) Values() []string {
	values := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		values[i] = c.Value
	}
	return values
}

// DefaultIndex returns the index of the default choice, or 0.
func (q Question) DefaultIndex() int {
	for i, c := range q.Choices {
		if c.Value == q.Default {
			return i
		}
	}
	return 0
}

// Validate checks that answer is acceptable for q and returns it normalized.
// Select answers may be given as a choice value or label, case-insensitively.
func (q Question) Validate(answer string) (string, error) {
	if q.Kind == Input {
		return strings.TrimSpace(answer), nil
	}
	answer = strings.TrimSpace(answer)
	for _, c := range q.Choices {
		if strings.EqualFold(answer, c.Value) || strings.EqualFold(answer, c.Label) {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", answer, strings.Join(q.Values(), ", "))
}

// Label returns the label of the choice with the given value, or the value itself.
func (q Question) Label(value string) string {
	for _, c := range q.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// Defaults answers every question with its default.
type Defaults struct{}

// Ask returns q's default; for Select questions without one, the first choice.
func (Defaults) Ask(_ context.Context, q Question) (string, error) {
	if q.Kind == Select && len(q.Choices) > 0 {
		return q.Choices[q.DefaultIndex()].Value, nil
	}
	return q.Default, nil
}
