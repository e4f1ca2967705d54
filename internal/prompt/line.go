package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line asks questions as plain text lines. It is used when stdin is not a terminal.
type Line struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLine returns a Line prompter reading answers from in.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{scanner: bufio.NewScanner(in), out: out}
}

// Ask implements Prompter. Select questions accept a choice number, value or
// label and are asked again on invalid input. End of input aborts.
func (l *Line) Ask(ctx context.Context, q Question) (string, error) {
	if q.Kind == Input {
		if q.Default != "" {
			fmt.Fprintf(l.out, "? %s (%s): ", q.Message, q.Default)
		} else {
			fmt.Fprintf(l.out, "? %s: ", q.Message)
		}
		line, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		if line == "" {
			return q.Default, nil
		}
		return line, nil
	}

	fmt.Fprintf(l.out, "? %s\n", q.Message)
	for i, c := range q.Choices {
		fmt.Fprintf(l.out, "  %d) %s\n", i+1, c.Label)
	}
	def := q.DefaultIndex()

	for {
		fmt.Fprintf(l.out, "  Answer [1-%d] (%d): ", len(q.Choices), def+1)
		line, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		if line == "" {
			return q.Choices[def].Value, nil
		}
		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(q.Choices) {
			return q.Choices[n-1].Value, nil
		}
		if v, vErr := q.Validate(line); vErr == nil {
			return v, nil
		}
		fmt.Fprintf(l.out, "  %q is not a valid choice\n", line)
	}
}

func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAborted, err)
	}
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrAborted, err)
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(l.scanner.Text()), nil
}
