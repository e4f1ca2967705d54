package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// TemplateManifest is package.json as shipped by the JavaScript project template.
const TemplateManifest = `{
  "name": "template",
  "version": "0.0.0",
  "private": true,
  "main": "index.js",
  "repository": {
    "type": "git",
    "url": "git+https://github.com/sknups/template.git"
  },
  "scripts": {
    "auth": "npx google-artifactregistry-auth",
    "test": "jest"
  }
}
`

// InitRepo creates a git repository in a temp dir with the given remotes.
func InitRepo(t *testing.T, remotes map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	for name, url := range remotes {
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
			t.Fatalf("creating remote %s: %v", name, err)
		}
	}
	return dir
}

// InitProject creates a repository with an "origin" remote and the template
// package.json at its root, and returns the directory.
func InitProject(t *testing.T, originURL string) string {
	t.Helper()

	dir := InitRepo(t, map[string]string{"origin": originURL})
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(TemplateManifest), 0o644); err != nil {
		t.Fatalf("writing package.json: %v", err)
	}
	return dir
}
