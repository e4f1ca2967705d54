// Package health checks that a repository is ready for pkginit. It inspects
// the git remote, the manifest, the entry point and the authorization command
// without modifying anything, and returns a structured report used by the
// 'pkginit check' command.
package health

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/afero"

	"github.com/sknups/pkginit/internal/git"
	"github.com/sknups/pkginit/internal/manifest"
	"github.com/sknups/pkginit/internal/output"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Failed returns the number of failed checks.
func (r *HealthReport) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

// Options describes what to check. Paths must already be resolved.
type Options struct {
	Dir                 string
	Remote              string
	TrustedOrganisation string
	ManifestPath        string
	EntryPointPath      string
	AuthCommand         []string
	FS                  afero.Fs
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(opts Options) *HealthReport {
	report := &HealthReport{Passed: true}
	add := func(checks ...CheckResult) {
		for _, c := range checks {
			report.Checks = append(report.Checks, c)
			if !c.Passed {
				report.Passed = false
			}
		}
	}

	add(CheckRemote(opts.Dir, opts.Remote, opts.TrustedOrganisation)...)
	add(CheckManifest(opts.FS, opts.ManifestPath))
	add(CheckEntryPoint(opts.FS, opts.EntryPointPath))

	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	add(CheckAuthCommand(opts.AuthCommand, lookPath))

	return report
}

// CheckRemote reads the remote URL and reports the derived repository.
// A URL that is not https://github.com/<org>/<name>.git fails, because the
// names derived from it would be wrong.
func CheckRemote(dir, remote, trusted string) []CheckResult {
	name := "remote " + remote
	rc, err := git.Resolve(dir, remote)
	if err != nil {
		return []CheckResult{{Name: name, Message: err.Error()}}
	}

	results := []CheckResult{{Name: name, Passed: true, Message: rc.URL}}
	if ok, reason := rc.Conventional(); !ok {
		return append(results, CheckResult{Name: "repository", Message: reason})
	}

	trust := "other organisation"
	if rc.Organisation == trusted {
		trust = "trusted organisation"
	}
	return append(results, CheckResult{
		Name:    "repository",
		Passed:  true,
		Message: fmt.Sprintf("%s (%s)", rc.Repository, trust),
	})
}

// CheckManifest validates the keys pkginit writes.
func CheckManifest(fsys afero.Fs, path string) CheckResult {
	res, err := manifest.ValidateFile(fsys, path)
	if err != nil {
		return CheckResult{Name: "manifest", Message: err.Error()}
	}
	if !res.Valid {
		issues := make([]string, len(res.Issues))
		for i, issue := range res.Issues {
			issues[i] = issue.String()
		}
		return CheckResult{Name: "manifest", Message: strings.Join(issues, "; ")}
	}
	return CheckResult{Name: "manifest", Passed: true, Message: path}
}

// CheckEntryPoint reports whether the entry point exists. It is overwritten
// by the flow, so a missing file passes.
func CheckEntryPoint(fsys afero.Fs, path string) CheckResult {
	msg := path
	if exists, _ := afero.Exists(fsys, path); !exists {
		msg += " (will be created)"
	}
	return CheckResult{Name: "entry point", Passed: true, Message: msg}
}

// CheckAuthCommand checks that the authorization executable is on PATH.
func CheckAuthCommand(command []string, lookPath func(string) (string, error)) CheckResult {
	if len(command) == 0 {
		return CheckResult{Name: "authorization command", Message: "not configured"}
	}
	path, err := lookPath(command[0])
	if err != nil {
		return CheckResult{Name: "authorization command", Message: err.Error()}
	}
	return CheckResult{Name: "authorization command", Passed: true, Message: path}
}

// PrintReport writes one status line per check.
func PrintReport(p *output.Printer, report *HealthReport) {
	for _, check := range report.Checks {
		if check.Passed {
			p.Success(check.Name, check.Message)
		} else {
			p.Failure(check.Name, check.Message)
		}
	}
}
