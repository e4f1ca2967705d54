// Package git reads repository metadata for pkginit. It uses the go-git library
// to open the repository containing the working directory and read the URL of
// a configured remote, which is the same value `git config --get remote.origin.url`
// prints, without requiring the git CLI.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted when none is configured.
const DefaultRemote = "origin"

// ErrRemoteNotFound is returned when the repository has no remote with the requested name.
var ErrRemoteNotFound = errors.New("remote not configured")

// RemoteLookupError reports why the remote URL could not be read.
type RemoteLookupError struct {
	Dir    string
	Remote string
	Err    error
}

func (e *RemoteLookupError) Error() string {
	return fmt.Sprintf("reading remote.%s.url in %s: %v", e.Remote, e.Dir, e.Err)
}

func (e *RemoteLookupError) Unwrap() error { return e.Err }

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// RemoteURL returns the first URL configured for the named remote of the
// repository containing dir, trimmed of surrounding whitespace.
// An empty remote name means DefaultRemote.
func RemoteURL(dir, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}

	repo, err := openRepo(dir)
	if err != nil {
		return "", &RemoteLookupError{Dir: dir, Remote: remote, Err: err}
	}

	r, err := repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			err = ErrRemoteNotFound
		}
		return "", &RemoteLookupError{Dir: dir, Remote: remote, Err: err}
	}

	urls := r.Config().URLs
	if len(urls) == 0 || strings.TrimSpace(urls[0]) == "" {
		return "", &RemoteLookupError{Dir: dir, Remote: remote, Err: ErrRemoteNotFound}
	}

	url := strings.TrimSpace(urls[0])
	logDebug("[git] RemoteURL: %s = %s", remote, url)
	return url, nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}
