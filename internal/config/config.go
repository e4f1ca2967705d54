// Package config provides hierarchical configuration for pkginit using koanf.
// Configuration is loaded with priority: environment variables (PKGINIT_*) >
// project config (.pkginit.yml, or .pkginit.json) > user config
// (~/.config/pkginit/config.yml) > defaults.
//
// Every value the flow treats as a constant (the trusted organisation, file
// paths, the authorization command) lives here so it can be replaced in tests.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration.
const EnvPrefix = "PKGINIT_"

// Configuration represents the pkginit CLI configuration.
type Configuration struct {
	// TrustedOrganisation is the GitHub organisation whose projects get the
	// internal/public scoping questions and registry authorization.
	TrustedOrganisation string `koanf:"trusted_organisation" yaml:"trusted_organisation" validate:"required"`

	// Remote is the git remote whose URL identifies the repository.
	Remote string `koanf:"remote" yaml:"remote" validate:"required"`

	// ManifestPath and EntryPointPath are resolved against the working directory.
	ManifestPath   string `koanf:"manifest_path" yaml:"manifest_path" validate:"required"`
	EntryPointPath string `koanf:"entry_point_path" yaml:"entry_point_path" validate:"required"`

	// AuthCommand bootstraps registry credentials; argv form.
	// PKGINIT_AUTH_COMMAND="npm run auth" is split on whitespace.
	AuthCommand []string `koanf:"auth_command" yaml:"auth_command" validate:"min=1,dive,required"`

	// NoticeVariablePrefix is prepended to the infrastructure variable names
	// printed in authorization notices, e.g. "npm_" gives npm_public_writer_repositories.
	NoticeVariablePrefix string `koanf:"notice_variable_prefix" yaml:"notice_variable_prefix"`

	// InfrastructureURL is the infrastructure-as-code file the operator must edit.
	InfrastructureURL string `koanf:"infrastructure_url" yaml:"infrastructure_url" validate:"required,url"`

	LogLevel  string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `koanf:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// WorkDir is the directory project config and relative paths are resolved
	// against (default: current directory).
	WorkDir string
	// ProjectConfigPath overrides the project config path (default: <WorkDir>/.pkginit.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: UserConfigPath())
	UserConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts, warningWriter); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config. YAML is preferred; the JSON
// form is read only when no YAML file exists, with a warning if both do.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions, warningWriter io.Writer) error {
	if opts.ProjectConfigPath != "" {
		if !fileExists(opts.ProjectConfigPath) {
			return fmt.Errorf("project config %s: %w", opts.ProjectConfigPath, os.ErrNotExist)
		}
		return loadByExtension(k, opts.ProjectConfigPath)
	}

	yamlPath := ProjectConfigPath(opts.WorkDir)
	jsonPath := ProjectJSONConfigPath(opts.WorkDir)
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if jsonExists && !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s ignored, using %s\n", jsonPath, yamlPath)
		}
	case jsonExists:
		if err := loadJSONConfig(k, jsonPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
	}
	return nil
}

func loadByExtension(k *koanf.Koanf, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return loadJSONConfig(k, path, "project")
	}
	return loadYAMLConfig(k, path, "project")
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, normalizes and validates
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: PKGINIT_TRUSTED_ORGANISATION -> trusted_organisation
// PKGINIT_AUTH_COMMAND="npm run auth" becomes an argv slice; config files
// give auth_command as a list and are never split.
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "auth_command" {
		return key, strings.Fields(value)
	}
	return key, value
}

// Resolve returns path joined to dir unless path is absolute.
func Resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
