package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sknups/pkginit/internal/authorize"
	"github.com/sknups/pkginit/internal/config"
	clierrors "github.com/sknups/pkginit/internal/errors"
	"github.com/sknups/pkginit/internal/flow"
	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/manifest"
	"github.com/sknups/pkginit/internal/notice"
	"github.com/sknups/pkginit/internal/prompt"
)

// flowFlags preset answers to the flow's questions.
type flowFlags struct {
	name         string
	nature       string
	scope        string
	internalDeps bool
	yes          bool
}

func (f *flowFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "project name (default: repository name)")
	fl.StringVar(&f.nature, "nature", "", "project nature: script or library")
	fl.StringVar(&f.scope, "scope", "", "library scope in the trusted organisation: internal or public")
	fl.BoolVar(&f.internalDeps, "internal-deps", false, "the project depends on internal packages")
	fl.BoolVarP(&f.yes, "yes", "y", false, "accept the default for every question not preset by a flag")
}

// presets validates the flags that were set and returns the answers keyed by
// question ID.
func (f *flowFlags) presets(cmd *cobra.Command) (map[string]string, error) {
	answers := map[string]string{}
	changed := cmd.Flags().Changed

	if changed("name") {
		answers[flow.QuestionName] = strings.TrimSpace(f.name)
	}

	choices := []struct {
		flag  string
		value string
		q     prompt.Question
	}{
		{"nature", f.nature, flow.NatureQuestion},
		{"scope", f.scope, flow.ScopeQuestion},
	}
	for _, c := range choices {
		if !changed(c.flag) {
			continue
		}
		v, err := c.q.Validate(c.value)
		if err != nil {
			return nil, clierrors.InvalidPreset(c.flag, c.value, c.q.Values())
		}
		answers[c.q.ID] = v
	}

	if changed("internal-deps") {
		answers[flow.QuestionInternalDeps] = "no"
		if f.internalDeps {
			answers[flow.QuestionInternalDeps] = "yes"
		}
	}
	return answers, nil
}

func (f *flowFlags) prompter(env *environment, presets map[string]string) prompt.Prompter {
	var next prompt.Prompter
	switch {
	case f.yes:
		next = prompt.Defaults{}
	case env.interactive:
		next = prompt.NewTerminal(env.stdin, env.stdout)
	default:
		next = prompt.NewLine(env.stdin, env.stdout)
	}
	return prompt.NewPreset(presets, next)
}

func runInit(cmd *cobra.Command, env *environment, g *globalOptions, f *flowFlags) error {
	// Presets are checked before anything is loaded or written.
	presets, err := f.presets(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(env, g)
	if err != nil {
		return err
	}

	manifestPath := config.Resolve(env.workDir, cfg.ManifestPath)
	symbols := newPrinter(env).Symbols()

	runner := authorize.NewRunner(cfg.AuthCommand, env.stdout, env.stderr)
	runner.Dir = env.workDir
	runner.Spinner = env.caps.IsTTY
	runner.SpinnerSet = symbols.SpinnerSet

	fl := flow.New(flow.Options{
		TrustedOrganisation: cfg.TrustedOrganisation,
		Remote: func() (string, error) {
			return git.RemoteURL(env.workDir, cfg.Remote)
		},
		Prompter:   f.prompter(env, presets),
		Writer:     manifest.NewWriter(env.fs, manifestPath, config.Resolve(env.workDir, cfg.EntryPointPath)),
		Authorizer: runner,
		Notices: notice.Formatter{
			InfrastructureURL: cfg.InfrastructureURL,
			VariablePrefix:    cfg.NoticeVariablePrefix,
		},
		Printer: newPrinter(env),
	})

	if _, err := fl.Run(cmd.Context()); err != nil {
		return classifyFlowError(err, cfg, manifestPath)
	}
	return nil
}

// classifyFlowError maps domain errors to CLIErrors with remediation.
func classifyFlowError(err error, cfg *config.Configuration, manifestPath string) error {
	var (
		lookupErr   *git.RemoteLookupError
		mismatchErr *manifest.StructureMismatchError
		entryErr    *manifest.EntryPointError
		authErr     *authorize.Error
	)

	switch {
	case errors.Is(err, prompt.ErrAborted):
		return clierrors.PromptAborted(err)
	case errors.As(err, &lookupErr), errors.Is(err, git.ErrRemoteNotFound), errors.Is(err, git.ErrEmptyURL):
		return clierrors.RemoteLookupFailure(cfg.Remote, err)
	case errors.As(err, &mismatchErr):
		return clierrors.ManifestStructureMismatch(manifestPath, mismatchErr.Key, err)
	case errors.Is(err, manifest.ErrSyntax), errors.Is(err, manifest.ErrNotObject):
		return clierrors.ManifestInvalid(manifestPath, err)
	case errors.As(err, &authErr), errors.Is(err, authorize.ErrNoCommand):
		return clierrors.AuthorizationFailure(cfg.AuthCommand, err)
	case errors.As(err, &entryErr):
		return clierrors.EntryPointWriteFailure(entryErr.Path, entryErr.Err)
	case errors.Is(err, fs.ErrNotExist):
		return clierrors.ManifestNotFound(manifestPath, err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}
