package flow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/manifest"
	"github.com/sknups/pkginit/internal/notice"
	"github.com/sknups/pkginit/internal/output"
	"github.com/sknups/pkginit/internal/prompt"
	"github.com/sknups/pkginit/internal/template"
	"github.com/sknups/pkginit/internal/testutil"
)

const (
	manifestPath   = "/work/package.json"
	entryPointPath = "/work/index.js"
)

func init() {
	color.NoColor = true
}

// scripted answers questions by ID and records the order they were asked in.
// Unanswered questions take their default.
type scripted struct {
	answers map[string]string
	asked   []string
	abortOn string
}

func (s *scripted) Ask(ctx context.Context, q prompt.Question) (string, error) {
	s.asked = append(s.asked, q.ID)
	if q.ID == s.abortOn {
		return "", prompt.ErrAborted
	}
	if v, ok := s.answers[q.ID]; ok {
		return v, nil
	}
	return prompt.Defaults{}.Ask(ctx, q)
}

// recordingAuthorizer counts calls and remembers how much output had been
// printed when it ran.
type recordingAuthorizer struct {
	out      *bytes.Buffer
	calls    int
	outputAt int
	err      error
}

func (a *recordingAuthorizer) Authorize(context.Context) error {
	a.calls++
	a.outputAt = a.out.Len()
	return a.err
}

func (a *recordingAuthorizer) CommandLine() string { return "npm run auth" }

type harness struct {
	fs     afero.Fs
	out    *bytes.Buffer
	prompt *scripted
	auth   *recordingAuthorizer
	flow   *Flow
}

func newHarness(t *testing.T, url string, answers map[string]string) *harness {
	t.Helper()
	return newHarnessWithManifest(t, url, answers, testutil.TemplateManifest)
}

func newHarnessWithManifest(t *testing.T, url string, answers map[string]string, manifestText string) *harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, manifestPath, []byte(manifestText), 0o644))

	h := &harness{
		fs:     fs,
		out:    &bytes.Buffer{},
		prompt: &scripted{answers: answers},
	}
	h.auth = &recordingAuthorizer{out: h.out}
	h.flow = New(Options{
		TrustedOrganisation: trusted,
		Remote:              func() (string, error) { return url, nil },
		Prompter:            h.prompt,
		Writer:              manifest.NewWriter(fs, manifestPath, entryPointPath),
		Authorizer:          h.auth,
		Notices: notice.Formatter{
			InfrastructureURL: "https://github.com/sknups/sknups-terraform/blob/main/main.tf",
			VariablePrefix:    "npm_",
		},
		Printer: output.NewPrinter(h.out, output.SelectSymbols(output.TerminalCapabilities{})),
	})
	return h
}

func (h *harness) manifest(t *testing.T) *manifest.Object {
	t.Helper()
	doc, err := manifest.NewWriter(h.fs, manifestPath, entryPointPath).Load()
	require.NoError(t, err)
	return doc
}

func (h *harness) lookup(t *testing.T, path ...string) any {
	t.Helper()
	v, ok := h.manifest(t).Scalar(path...)
	require.True(t, ok, "manifest has no %s", strings.Join(path, "."))
	return v
}

func (h *harness) entryPoint(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(h.fs, entryPointPath)
	require.NoError(t, err)
	return string(data)
}

func mustTemplate(t *testing.T, n template.Nature) string {
	t.Helper()
	src, err := template.For(n)
	require.NoError(t, err)
	return src
}

func TestFlow_ScriptForeignOrganisation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/acme/tool.git", map[string]string{
		QuestionName:   "tool",
		QuestionNature: "script",
	})

	res, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "@acme/tool", h.lookup(t, "name"))
	assert.Equal(t, true, h.lookup(t, "private"))
	assert.Equal(t, "git+https://github.com/acme/tool.git", h.lookup(t, "repository", "url"))
	assert.Equal(t, mustTemplate(t, template.Script), h.entryPoint(t))
	assert.Equal(t, []string{QuestionName, QuestionNature}, h.prompt.asked)
	assert.Zero(t, h.auth.calls)
	assert.Equal(t, "acme/tool", res.Context.Repository)
	assert.NotContains(t, h.out.String(), "Terraform")
}

func TestFlow_LibraryTrustedInternalWithDependencies(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", map[string]string{
		QuestionNature:       "library",
		QuestionScope:        "internal",
		QuestionInternalDeps: "yes",
	})

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "@sknups-internal/widget", h.lookup(t, "name"))
	assert.Equal(t, false, h.lookup(t, "private"))
	assert.Equal(t, mustTemplate(t, template.Library), h.entryPoint(t))
	assert.Equal(t, []string{QuestionName, QuestionNature, QuestionScope, QuestionInternalDeps}, h.prompt.asked)

	out := h.out.String()
	assert.Equal(t, 1, h.auth.calls)
	assert.Equal(t, 1, strings.Count(out, "internal_writer_repositories"))
	noticeAt := strings.Index(out, "npm_internal_writer_repositories = [")
	require.GreaterOrEqual(t, noticeAt, 0)
	assert.Greater(t, noticeAt, h.auth.outputAt, "notice must follow authorization")
	assert.Contains(t, out[noticeAt:], `"sknups/widget"`)
	assert.Contains(t, out, `Running "npm run auth" to authorize downloads from the internal registry...`)
}

func TestFlow_LibraryTrustedPublic(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", map[string]string{
		QuestionName:   "widget",
		QuestionNature: "library",
		QuestionScope:  "public",
	})

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "@sknups/widget", h.lookup(t, "name"))
	assert.NotContains(t, h.prompt.asked, QuestionInternalDeps)
	assert.Contains(t, h.out.String(), "npm_public_writer_repositories = [\n  \"sknups/widget\"\n]")
	assert.Zero(t, h.auth.calls)
}

func TestFlow_LibraryTrustedInternalWithoutDependencies(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", map[string]string{
		QuestionNature:       "library",
		QuestionScope:        "internal",
		QuestionInternalDeps: "no",
	})

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, h.auth.calls)
	assert.Equal(t, 1, strings.Count(h.out.String(), "npm_internal_writer_repositories"))
}

func TestFlow_ScriptTrusted(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		depends    string
		wantCalls  int
		wantNotice bool
	}{
		"with internal dependencies":    {depends: "yes", wantCalls: 1, wantNotice: true},
		"without internal dependencies": {depends: "no"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, "https://github.com/sknups/nightly-job.git", map[string]string{
				QuestionNature:       "script",
				QuestionInternalDeps: tt.depends,
			})

			_, err := h.flow.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, "@sknups-internal/nightly-job", h.lookup(t, "name"))
			assert.Equal(t, true, h.lookup(t, "private"))
			assert.Equal(t, tt.wantCalls, h.auth.calls)
			assert.Equal(t, tt.wantNotice, strings.Contains(h.out.String(), "npm_internal_reader_repositories"))
			assert.NotContains(t, h.prompt.asked, QuestionScope)
		})
	}
}

func TestFlow_LibraryForeignOrganisation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/acme/lib.git", map[string]string{
		QuestionNature: "library",
	})

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "@acme/lib", h.lookup(t, "name"))
	assert.Equal(t, false, h.lookup(t, "private"))
	assert.Equal(t, []string{QuestionName, QuestionNature}, h.prompt.asked)
}

func TestFlow_Idempotent(t *testing.T) {
	t.Parallel()

	answers := map[string]string{
		QuestionNature:       "library",
		QuestionScope:        "internal",
		QuestionInternalDeps: "yes",
	}
	h := newHarness(t, "https://github.com/sknups/widget.git", answers)

	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)
	first, err := afero.ReadFile(h.fs, manifestPath)
	require.NoError(t, err)

	h.prompt.asked = nil
	_, err = h.flow.Run(context.Background())
	require.NoError(t, err)
	second, err := afero.ReadFile(h.fs, manifestPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 2, h.auth.calls)
}

func TestFlow_PreservesUntouchedKeys(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/acme/tool.git", nil)
	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	doc := h.manifest(t)
	assert.Equal(t, []string{"name", "version", "private", "main", "repository", "scripts"}, doc.Keys())
	assert.Equal(t, "git", h.lookup(t, "repository", "type"))
}

func TestFlow_StructureMismatch(t *testing.T) {
	t.Parallel()

	const broken = `{
  "name": "template",
  "repository": 5
}
`
	h := newHarnessWithManifest(t, "https://github.com/acme/tool.git", nil, broken)

	res, err := h.flow.Run(context.Background())

	var mismatch *manifest.StructureMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "repository", mismatch.Key)
	assert.Empty(t, res.Executed)

	data, err := afero.ReadFile(h.fs, manifestPath)
	require.NoError(t, err)
	assert.Equal(t, broken, string(data))
	exists, err := afero.Exists(h.fs, entryPointPath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFlow_AuthorizationFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", map[string]string{
		QuestionNature:       "library",
		QuestionScope:        "internal",
		QuestionInternalDeps: "yes",
	})
	authErr := errors.New("exit status 1")
	h.auth.err = authErr

	res, err := h.flow.Run(context.Background())
	require.ErrorIs(t, err, authErr)

	assert.NotContains(t, h.out.String(), "internal_writer_repositories")
	assert.Equal(t, "@sknups-internal/widget", h.lookup(t, "name"))
	assert.Len(t, res.Executed, 4)
}

func TestFlow_PromptAbort(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", nil)
	h.prompt.abortOn = QuestionNature

	res, err := h.flow.Run(context.Background())
	require.ErrorIs(t, err, prompt.ErrAborted)

	assert.Empty(t, res.Executed)
	data, err := afero.ReadFile(h.fs, manifestPath)
	require.NoError(t, err)
	assert.Equal(t, testutil.TemplateManifest, string(data))
}

func TestFlow_AbortAfterWrites(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/sknups/widget.git", map[string]string{QuestionNature: "library"})
	h.prompt.abortOn = QuestionScope

	res, err := h.flow.Run(context.Background())
	require.ErrorIs(t, err, prompt.ErrAborted)

	assert.Len(t, res.Executed, 3)
	assert.Equal(t, false, h.lookup(t, "private"))
	assert.Equal(t, "template", h.lookup(t, "name"))
}

func TestFlow_RemoteFailure(t *testing.T) {
	t.Parallel()

	lookupErr := &git.RemoteLookupError{Dir: "/work", Remote: "origin", Err: git.ErrRemoteNotFound}
	p := &scripted{}
	f := New(Options{
		TrustedOrganisation: trusted,
		Remote:              func() (string, error) { return "", lookupErr },
		Prompter:            p,
	})

	_, err := f.Run(context.Background())
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)
	assert.Empty(t, p.asked)

	f = New(Options{Remote: func() (string, error) { return "  ", nil }, Prompter: p})
	_, err = f.Run(context.Background())
	assert.ErrorIs(t, err, git.ErrEmptyURL)
}

func TestFlow_ProgressLines(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "https://github.com/acme/tool.git", nil)
	_, err := h.flow.Run(context.Background())
	require.NoError(t, err)

	out := h.out.String()
	assert.Contains(t, out, `[OK] manifest: repository.url = "git+https://github.com/acme/tool.git"`)
	assert.Contains(t, out, "[OK] manifest: private = true")
	assert.Contains(t, out, "[OK] entry point: /work/index.js (script)")
	assert.Contains(t, out, `[OK] manifest: name = "@acme/tool"`)
}
