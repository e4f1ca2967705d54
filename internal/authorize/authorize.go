// Package authorize runs the command that grants the local package manager
// read access to the internal registry.
package authorize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/sknups/pkginit/internal/logging"
)

// ErrNoCommand is returned when the runner has nothing to execute.
var ErrNoCommand = errors.New("authorization command is empty")

// Error reports a failed authorization command.
type Error struct {
	Command  []string
	ExitCode int
	Output   string
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with status %d", strings.Join(e.Command, " "), e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Runner executes the authorization command.
type Runner struct {
	// Command is the argv to execute, e.g. ["npm", "run", "auth"].
	Command []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// Stdout and Stderr receive the command's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Spinner shows a spinner on Stdout while the command runs. Output is then
	// buffered and only replayed to Stderr when the command fails.
	Spinner    bool
	SpinnerSet int

	log *slog.Logger
}

// NewRunner returns a Runner for command that streams output to stdout and stderr.
func NewRunner(command []string, stdout, stderr io.Writer) *Runner {
	return &Runner{
		Command: command,
		Stdout:  stdout,
		Stderr:  stderr,
		log:     logging.New("authorize"),
	}
}

// CommandLine returns the command as a single display string.
func (r *Runner) CommandLine() string {
	return strings.Join(r.Command, " ")
}

// Authorize runs the command and waits for it to finish.
func (r *Runner) Authorize(ctx context.Context) error {
	if len(r.Command) == 0 {
		return ErrNoCommand
	}
	log := r.log
	if log == nil {
		log = logging.New("authorize")
	}

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var captured bytes.Buffer
	var s *spinner.Spinner
	if r.Spinner {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
		s = spinner.New(spinner.CharSets[r.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(r.writer(r.Stdout)))
		s.Suffix = " " + r.CommandLine()
		s.Start()
	} else {
		cmd.Stdout = r.writer(r.Stdout)
		cmd.Stderr = r.writer(r.Stderr)
	}

	log.Debug("running authorization command", slog.Any("argv", r.Command), slog.String("dir", r.Dir))
	start := time.Now()
	err := cmd.Run()
	if s != nil {
		s.Stop()
	}
	log.Debug("authorization command finished", slog.Duration("elapsed", time.Since(start)), slog.Any("error", err))

	if err == nil {
		return nil
	}

	authErr := &Error{Command: r.Command, Output: captured.String(), Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		authErr.ExitCode = exitErr.ExitCode()
	}
	if r.Spinner && captured.Len() > 0 {
		fmt.Fprint(r.writer(r.Stderr), captured.String())
	}
	return authErr
}

func (r *Runner) writer(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
