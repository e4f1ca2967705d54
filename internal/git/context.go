package git

import (
	"errors"
	"strings"
)

// Literal shape expected of a remote URL: https://github.com/<org>/<name>.git
const (
	HostPrefix = "https://github.com/"
	Suffix     = ".git"
)

// ErrEmptyURL is returned when there is no URL to derive a context from.
var ErrEmptyURL = errors.New("remote URL is empty")

// RepoContext is the repository identity derived from a remote URL.
// It is computed once at startup and never modified.
type RepoContext struct {
	// URL is the remote URL exactly as configured.
	URL string
	// Repository is URL without HostPrefix and Suffix, e.g. "sknups/drop-links".
	Repository string
	// Organisation is the first path segment of Repository.
	Organisation string
	// DefaultName is the second path segment of Repository.
	DefaultName string
}

// DeriveRepoContext strips the literal HostPrefix and Suffix from url and splits
// the remainder on "/". URLs of any other shape (SSH, other hosts, no .git
// suffix) are not rejected; their derived fields are whatever the split yields.
// Use Conventional to detect that case.
func DeriveRepoContext(url string) (RepoContext, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return RepoContext{}, ErrEmptyURL
	}

	repository := strings.TrimSuffix(strings.TrimPrefix(url, HostPrefix), Suffix)
	segments := strings.Split(repository, "/")

	ctx := RepoContext{
		URL:          url,
		Repository:   repository,
		Organisation: segments[0],
	}
	if len(segments) > 1 {
		ctx.DefaultName = segments[1]
	}
	return ctx, nil
}

// Conventional reports whether the URL had the expected
// https://github.com/<org>/<name>.git shape, and if not, why.
func (c RepoContext) Conventional() (bool, string) {
	switch {
	case isSSHURL(c.URL):
		return false, "SSH remote URLs are not parsed; expected " + HostPrefix + "<org>/<name>" + Suffix
	case !strings.HasPrefix(c.URL, HostPrefix):
		return false, "remote URL does not start with " + HostPrefix
	case !strings.HasSuffix(c.URL, Suffix):
		return false, "remote URL does not end with " + Suffix
	case strings.Count(c.Repository, "/") != 1 || c.Organisation == "" || c.DefaultName == "":
		return false, "remote URL path is not <org>/<name>"
	}
	return true, ""
}

// GitURL is the value written to the manifest's repository.url.
func (c RepoContext) GitURL() string {
	return "git+" + c.URL
}

// Resolve reads the remote URL of the repository containing dir and derives its context.
func Resolve(dir, remote string) (RepoContext, error) {
	url, err := RemoteURL(dir, remote)
	if err != nil {
		return RepoContext{}, err
	}
	return DeriveRepoContext(url)
}
