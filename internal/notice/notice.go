// Package notice formats the instructions printed to the operator when a
// repository has to be granted registry access in the infrastructure code.
package notice

import (
	"fmt"
	"strings"
)

// Infrastructure variables that list repositories allowed to use the registries.
const (
	InternalReaderRepositories = "internal_reader_repositories"
	InternalWriterRepositories = "internal_writer_repositories"
	PublicWriterRepositories   = "public_writer_repositories"
)

const rule = "--------------------------------------------------------------------------------"

// Formatter renders authorization notices for one infrastructure file.
type Formatter struct {
	// InfrastructureURL points at the file the operator must edit.
	InfrastructureURL string
	// VariablePrefix is prepended to every variable name, e.g. "npm_".
	VariablePrefix string
}

// Variable returns the full variable name for a base name.
func (f Formatter) Variable(base string) string {
	return f.VariablePrefix + base
}

// Format returns the notice for adding repository to the variable with the given base name.
func (f Formatter) Format(base, repository string) string {
	return FormatAuthorizationNotice(f.InfrastructureURL, f.Variable(base), repository)
}

// FormatAuthorizationNotice renders the fixed notice block. The result starts
// with an empty line and ends with a newline.
func FormatAuthorizationNotice(infrastructureURL, variable, repository string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("To authorize GitHub Workflows you must modify this Terraform:\n")
	sb.WriteString(infrastructureURL)
	sb.WriteString("\n\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "%s = [\n", variable)
	fmt.Fprintf(&sb, "  %q\n", repository)
	sb.WriteString("]\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}
