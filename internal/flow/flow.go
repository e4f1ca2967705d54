package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/logging"
	"github.com/sknups/pkginit/internal/manifest"
	"github.com/sknups/pkginit/internal/notice"
	"github.com/sknups/pkginit/internal/output"
	"github.com/sknups/pkginit/internal/prompt"
	"github.com/sknups/pkginit/internal/template"
)

// RemoteSource returns the trimmed URL of the repository's remote.
type RemoteSource func() (string, error)

// ManifestWriter persists manifest mutations and the entry point.
// *manifest.Writer implements it.
type ManifestWriter interface {
	Apply(m manifest.Mutation) error
	WriteEntryPoint(source string) error
	EntryPointPath() string
}

// Authorizer runs the registry authorization command.
// *authorize.Runner implements it.
type Authorizer interface {
	Authorize(ctx context.Context) error
	CommandLine() string
}

// Options configures a Flow.
type Options struct {
	TrustedOrganisation string
	Remote              RemoteSource
	Prompter            prompt.Prompter
	Writer              ManifestWriter
	Authorizer          Authorizer
	Notices             notice.Formatter
	Printer             *output.Printer
}

// Result describes a completed run.
type Result struct {
	Context  git.RepoContext
	Answers  Answers
	Executed []Command
}

// Flow runs the project configuration state machine once.
type Flow struct {
	opts Options
	log  *slog.Logger
}

// New returns a Flow.
func New(opts Options) *Flow {
	return &Flow{opts: opts, log: logging.New("flow")}
}

// Run executes the flow from Init to Done. Commands are executed as soon as
// they are emitted, so on error every command before the failing one has
// taken effect. The returned Result reflects the progress made.
func (f *Flow) Run(ctx context.Context) (Result, error) {
	var res Result

	url, err := f.opts.Remote()
	if err != nil {
		return res, err
	}
	rc, err := git.DeriveRepoContext(url)
	if err != nil {
		return res, err
	}
	res.Context = rc
	if ok, reason := rc.Conventional(); !ok {
		f.log.Warn("unexpected remote URL shape; derived names may be wrong",
			slog.String("url", rc.URL), slog.String("reason", reason))
	}
	f.log.Debug("repository context",
		slog.String("repository", rc.Repository),
		slog.String("organisation", rc.Organisation),
		slog.String("default_name", rc.DefaultName))

	state := Init
	for state != Done {
		if q, ok := QuestionFor(state, rc); ok {
			answer, err := f.opts.Prompter.Ask(ctx, q)
			if err != nil {
				return res, fmt.Errorf("question %q: %w", q.ID, err)
			}
			if res.Answers, err = Record(state, res.Answers, answer); err != nil {
				return res, err
			}
		}

		next, cmds, err := Transition(state, res.Answers, rc, f.opts.TrustedOrganisation)
		if err != nil {
			return res, err
		}
		f.log.Debug("transition", slog.String("from", state.String()), slog.String("to", next.String()), slog.Int("commands", len(cmds)))

		for _, cmd := range cmds {
			if err := f.execute(ctx, rc, cmd); err != nil {
				return res, err
			}
			res.Executed = append(res.Executed, cmd)
		}
		state = next
	}
	return res, nil
}

func (f *Flow) execute(ctx context.Context, rc git.RepoContext, cmd Command) error {
	switch c := cmd.(type) {
	case WriteManifest:
		if err := f.opts.Writer.Apply(c.Mutation); err != nil {
			return err
		}
		f.printer().Success("manifest", c.Mutation.String())

	case WriteEntryPoint:
		source, err := template.For(c.Nature)
		if err != nil {
			return err
		}
		if err := f.opts.Writer.WriteEntryPoint(source); err != nil {
			return err
		}
		f.printer().Success("entry point", fmt.Sprintf("%s (%s)", f.opts.Writer.EntryPointPath(), c.Nature))

	case Authorize:
		f.printer().Executing(f.opts.Authorizer.CommandLine(), "to authorize downloads from the internal registry...")
		if err := f.opts.Authorizer.Authorize(ctx); err != nil {
			return err
		}
		f.printer().Success("authorized", f.opts.Authorizer.CommandLine())

	case PrintNotice:
		f.printer().Raw(f.opts.Notices.Format(c.Variable, c.Repository))

	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
	return nil
}

func (f *Flow) printer() *output.Printer {
	if f.opts.Printer == nil {
		f.opts.Printer = output.NewPrinter(io.Discard, output.Symbols{})
	}
	return f.opts.Printer
}
