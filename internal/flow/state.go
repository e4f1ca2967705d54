// Package flow asks the project questions and turns the answers into manifest
// writes, an entry point, registry authorization and operator notices.
//
// The flow is a finite-state machine. Transition is a pure function from the
// current state, the answers so far and the repository context to the next
// state plus the commands to execute; Flow drives it with a Prompter and
// executes the commands in order.
package flow

import (
	"fmt"

	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/manifest"
	"github.com/sknups/pkginit/internal/notice"
	"github.com/sknups/pkginit/internal/prompt"
	"github.com/sknups/pkginit/internal/template"
)

// State is a step of the flow.
type State int

const (
	Init State = iota
	AskName
	AskNature
	HandleScript
	HandleLibrary
	AskScope
	AskScriptDependency
	AskLibraryDependency
	Done
)

var stateNames = map[State]string{
	Init:                 "Init",
	AskName:              "AskName",
	AskNature:            "AskNature",
	HandleScript:         "HandleScript",
	HandleLibrary:        "HandleLibrary",
	AskScope:             "AskScope",
	AskScriptDependency:  "AskScriptDependency",
	AskLibraryDependency: "AskLibraryDependency",
	Done:                 "Done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Scope is the publication scope of a library from the trusted organisation.
type Scope string

const (
	ScopeInternal Scope = "internal"
	ScopePublic   Scope = "public"
)

// Tag returns the package scope for the trusted organisation,
// e.g. "@sknups-internal" or "@sknups".
func (s Scope) Tag(trusted string) string {
	if s == ScopeInternal {
		return "@" + trusted + "-internal"
	}
	return "@" + trusted
}

// Answers accumulates the operator's choices.
type Answers struct {
	Name              string
	Nature            template.Nature
	Scope             Scope
	DependsOnInternal bool
}

// Command is a side effect emitted by Transition.
type Command interface {
	fmt.Stringer
	command()
}

// WriteManifest applies one mutation to the manifest.
type WriteManifest struct {
	Mutation manifest.Mutation
}

// WriteEntryPoint overwrites the entry point with the template for Nature.
type WriteEntryPoint struct {
	Nature template.Nature
}

// Authorize runs the registry authorization command.
type Authorize struct{}

// PrintNotice prints the authorization notice for Variable (a base name such
// as notice.InternalWriterRepositories) and Repository.
type PrintNotice struct {
	Variable   string
	Repository string
}

func (WriteManifest) command()   {}
func (WriteEntryPoint) command() {}
func (Authorize) command()       {}
func (PrintNotice) command()     {}

func (c WriteManifest) String() string   { return "manifest " + c.Mutation.String() }
func (c WriteEntryPoint) String() string { return "entry point " + string(c.Nature) }
func (Authorize) String() string         { return "authorize" }
func (c PrintNotice) String() string     { return "notice " + c.Variable + " " + c.Repository }

// Question IDs. Flags preset answers by these IDs.
const (
	QuestionName         = "name"
	QuestionNature       = "nature"
	QuestionScope        = "scope"
	QuestionInternalDeps = "internal-deps"
)

const (
	answerNo  = "no"
	answerYes = "yes"
)

// NatureQuestion asks for the project nature.
var NatureQuestion = prompt.Question{
	ID:      QuestionNature,
	Kind:    prompt.Select,
	Message: "Are you creating a script, or a library?",
	Default: string(template.Script),
	Choices: []prompt.Choice{
		{Value: string(template.Script), Label: "script (standalone program)"},
		{Value: string(template.Library), Label: "library (npm package)"},
	},
}

// ScopeQuestion asks whether a library is published publicly.
var ScopeQuestion = prompt.Question{
	ID:      QuestionScope,
	Kind:    prompt.Select,
	Message: "Are you publishing to the public internet?",
	Default: string(ScopeInternal),
	Choices: []prompt.Choice{
		{Value: string(ScopeInternal), Label: "no, internal"},
		{Value: string(ScopePublic), Label: "yes, public"},
	},
}

// ScriptDependencyQuestion asks whether a script uses internal packages.
var ScriptDependencyQuestion = dependencyQuestion("Do you depend on internal packages?")

// LibraryDependencyQuestion asks whether an internal library uses other internal packages.
var LibraryDependencyQuestion = dependencyQuestion("Do you depend on [other] internal packages?")

func dependencyQuestion(message string) prompt.Question {
	return prompt.Question{
		ID:      QuestionInternalDeps,
		Kind:    prompt.Select,
		Message: message,
		Default: answerNo,
		Choices: []prompt.Choice{
			{Value: answerNo, Label: "no"},
			{Value: answerYes, Label: "yes"},
		},
	}
}

// NameQuestion asks for the package name, defaulting to the repository name.
func NameQuestion(defaultName string) prompt.Question {
	return prompt.Question{
		ID:      QuestionName,
		Kind:    prompt.Input,
		Message: "What is the project name?",
		Default: defaultName,
	}
}

// QuestionFor returns the question asked in state s, if any.
func QuestionFor(s State, rc git.RepoContext) (prompt.Question, bool) {
	switch s {
	case AskName:
		return NameQuestion(rc.DefaultName), true
	case AskNature:
		return NatureQuestion, true
	case AskScope:
		return ScopeQuestion, true
	case AskScriptDependency:
		return ScriptDependencyQuestion, true
	case AskLibraryDependency:
		return LibraryDependencyQuestion, true
	default:
		return prompt.Question{}, false
	}
}

// Record stores the answer to the question of state s.
func Record(s State, a Answers, answer string) (Answers, error) {
	q, ok := QuestionFor(s, git.RepoContext{})
	if !ok {
		return a, fmt.Errorf("state %s asks no question", s)
	}
	value, err := q.Validate(answer)
	if err != nil {
		return a, fmt.Errorf("answer to %q: %w", q.ID, err)
	}

	switch s {
	case AskName:
		a.Name = value
	case AskNature:
		a.Nature = template.Nature(value)
	case AskScope:
		a.Scope = Scope(value)
	case AskScriptDependency, AskLibraryDependency:
		a.DependsOnInternal = value == answerYes
	}
	return a, nil
}

// Transition returns the state after s and the commands to execute on the
// way, given the answers recorded so far. trusted is the trusted organisation.
func Transition(s State, a Answers, rc git.RepoContext, trusted string) (State, []Command, error) {
	switch s {
	case Init:
		return AskName, nil, nil

	case AskName:
		return AskNature, nil, nil

	case AskNature:
		switch a.Nature {
		case template.Script:
			return HandleScript, nil, nil
		case template.Library:
			return HandleLibrary, nil, nil
		}
		return s, nil, fmt.Errorf("unknown nature %q", a.Nature)

	case HandleScript:
		cmds := []Command{
			WriteManifest{manifest.SetRepositoryURL(rc.GitURL())},
			WriteManifest{manifest.SetPrivate(true)},
			WriteEntryPoint{template.Script},
		}
		if rc.Organisation != trusted {
			return Done, append(cmds, WriteManifest{manifest.SetName(foreignName(rc, a))}), nil
		}
		// Scripts are never published, so they always live in the internal scope.
		cmds = append(cmds, WriteManifest{manifest.SetName(ScopeInternal.Tag(trusted) + "/" + a.Name)})
		return AskScriptDependency, cmds, nil

	case AskScriptDependency:
		if !a.DependsOnInternal {
			return Done, nil, nil
		}
		return Done, []Command{
			Authorize{},
			PrintNotice{Variable: notice.InternalReaderRepositories, Repository: rc.Repository},
		}, nil

	case HandleLibrary:
		cmds := []Command{
			WriteManifest{manifest.SetRepositoryURL(rc.GitURL())},
			WriteManifest{manifest.SetPrivate(false)},
			WriteEntryPoint{template.Library},
		}
		if rc.Organisation != trusted {
			return Done, append(cmds, WriteManifest{manifest.SetName(foreignName(rc, a))}), nil
		}
		return AskScope, cmds, nil

	case AskScope:
		switch a.Scope {
		case ScopeInternal:
			return AskLibraryDependency, []Command{
				WriteManifest{manifest.SetName(ScopeInternal.Tag(trusted) + "/" + a.Name)},
			}, nil
		case ScopePublic:
			return Done, []Command{
				WriteManifest{manifest.SetName(ScopePublic.Tag(trusted) + "/" + a.Name)},
				PrintNotice{Variable: notice.PublicWriterRepositories, Repository: rc.Repository},
			}, nil
		}
		return s, nil, fmt.Errorf("unknown scope %q", a.Scope)

	case AskLibraryDependency:
		var cmds []Command
		if a.DependsOnInternal {
			cmds = append(cmds, Authorize{})
		}
		cmds = append(cmds, PrintNotice{Variable: notice.InternalWriterRepositories, Repository: rc.Repository})
		return Done, cmds, nil

	case Done:
		return Done, nil, nil
	}
	return s, nil, fmt.Errorf("unknown state %s", s)
}

func foreignName(rc git.RepoContext, a Answers) string {
	return "@" + rc.Organisation + "/" + a.Name
}
