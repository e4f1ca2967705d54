// Package template holds the entry point sources written for each project nature.
package template

import (
	_ "embed"
	"fmt"
)

// Nature is the shape of the project being initialized.
type Nature string

const (
	// Script is a standalone program that runs when executed.
	Script Nature = "script"
	// Library is a publishable package that exports a namespace.
	Library Nature = "library"
)

var (
	//go:embed templates/script.js
	scriptSource string

	//go:embed templates/library.js
	librarySource string
)

// ParseNature validates a nature name.
func ParseNature(s string) (Nature, error) {
	switch n := Nature(s); n {
	case Script, Library:
		return n, nil
	default:
		return "", fmt.Errorf("unknown project nature %q (want %q or %q)", s, Script, Library)
	}
}

// For returns the entry point source for nature. The templates are static
// and do not mention the project name.
func For(nature Nature) (string, error) {
	switch nature {
	case Script:
		return scriptSource, nil
	case Library:
		return librarySource, nil
	default:
		return "", fmt.Errorf("no entry point template for nature %q", nature)
	}
}
