package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the pkginit CLI.
// These templates ensure consistent, actionable error messages.

// RemoteLookupFailure is returned when the git remote URL cannot be read.
// The flow never starts in this case.
func RemoteLookupFailure(remote string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("cannot read the URL of git remote %q: %v", remote, err),
		Remediation: []string{
			"Run pkginit from inside the repository you want to initialize",
			fmt.Sprintf("Check the remote with: git config --get remote.%s.url", remote),
			fmt.Sprintf("Add it with: git remote add %s https://github.com/<org>/<name>.git", remote),
		},
		Cause: err,
	}
}

// ManifestNotFound is returned when the manifest file does not exist.
func ManifestNotFound(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("manifest not found: %s", path),
		Remediation: []string{
			"Run pkginit from the root of a project created from the template",
			"Or set manifest_path in .pkginit.yml",
		},
		Cause: err,
	}
}

// EntryPointWriteFailure is returned when the entry point cannot be written.
func EntryPointWriteFailure(path string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("cannot write entry point %s: %v", path, err),
		Remediation: []string{
			"Create the directory that holds it, or set entry_point_path in .pkginit.yml",
			"Manifest writes made before this one have been kept",
		},
		Cause: err,
	}
}

// ManifestStructureMismatch is returned when a manifest key cannot be written
// because an enclosing key is not an object.
func ManifestStructureMismatch(path, key string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("%s: %v", path, err),
		Remediation: []string{
			fmt.Sprintf("Make %q an object in %s, e.g. \"%s\": {}", key, path, key),
			"Writes made before this one have been kept",
		},
		Cause: err,
	}
}

// ManifestInvalid is returned when the manifest cannot be parsed.
func ManifestInvalid(path string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("manifest %s is not valid JSON: %v", path, err),
		Remediation: []string{
			"Fix the syntax error and run pkginit again",
		},
		Cause: err,
	}
}

// AuthorizationFailure is returned when the registry authorization command fails.
func AuthorizationFailure(command []string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("authorization command %q failed: %v", strings.Join(command, " "), err),
		Remediation: []string{
			fmt.Sprintf("Run %q manually to see its output", strings.Join(command, " ")),
			"Check that you are logged in to the cloud CLI the command relies on",
			"Manifest and entry point changes made before this step have been kept",
		},
		Cause: err,
	}
}

// PromptAborted is returned when the operator cancels a prompt.
func PromptAborted(err error) *CLIError {
	return &CLIError{
		Category: Aborted,
		Message:  "aborted",
		Remediation: []string{
			"Changes made before the prompt was cancelled have been kept",
		},
		Cause: err,
	}
}

// InvalidPreset is returned when a flag presets an answer outside the question's choices.
func InvalidPreset(flag, value string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid value %q for --%s", value, flag),
		fmt.Sprintf("pkginit --%s <%s>", flag, strings.Join(valid, "|")),
		fmt.Sprintf("Valid values: %s", strings.Join(valid, ", ")),
	)
}

// ConfigLoadFailure is returned when configuration cannot be loaded or validated.
func ConfigLoadFailure(err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("loading configuration: %v", err),
		Remediation: []string{
			"Check .pkginit.yml and ~/.config/pkginit/config.yml",
			"Check PKGINIT_* environment variables",
		},
		Cause: err,
	}
}
