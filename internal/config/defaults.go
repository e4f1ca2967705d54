package config

// GetDefaultConfigTemplate returns a commented project config template
// listing every option with its default.
func GetDefaultConfigTemplate() string {
	return `# pkginit configuration
# Precedence: PKGINIT_* env > .pkginit.yml > ~/.config/pkginit/config.yml > defaults

trusted_organisation: sknups          # Organisation offered internal/public scoping
remote: origin                        # Git remote identifying the repository

manifest_path: package.json           # Relative to the working directory
entry_point_path: index.js            # Overwritten with the script or library template

auth_command: [npm, run, auth]        # Registry credential bootstrap
notice_variable_prefix: npm_          # e.g. npm_internal_reader_repositories
infrastructure_url: https://github.com/sknups/sknups-terraform/blob/main/main.tf

log_level: warn                       # debug | info | warn | error
log_format: text                      # text | json
`
}

// GetDefaults returns the default configuration values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"trusted_organisation":   "sknups",
		"remote":                 "origin",
		"manifest_path":          "package.json",
		"entry_point_path":       "index.js",
		"auth_command":           []string{"npm", "run", "auth"},
		"notice_variable_prefix": "npm_",
		"infrastructure_url":     "https://github.com/sknups/sknups-terraform/blob/main/main.tf",
		"log_level":              "warn",
		"log_format":             "text",
	}
}
