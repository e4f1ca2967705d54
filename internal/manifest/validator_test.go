package manifest

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input       string
		wantValid   bool
		wantPath    string
		wantKeyword string
	}{
		"template manifest": {
			input:     templateManifest,
			wantValid: true,
		},
		"repository without url": {
			input:     `{"repository": {"type": "git"}}`,
			wantValid: true,
		},
		"missing repository": {
			input:       `{"name": "x"}`,
			wantKeyword: "required",
		},
		"repository is a string": {
			input:       `{"repository": "github:acme/tool"}`,
			wantPath:    "/repository",
			wantKeyword: "type",
		},
		"private is a string": {
			input:       `{"repository": {}, "private": "yes"}`,
			wantPath:    "/private",
			wantKeyword: "type",
		},
		"url is a number": {
			input:       `{"repository": {"url": 1}}`,
			wantPath:    "/repository/url",
			wantKeyword: "type",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			result, err := Validate([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid, "issues: %v", result.Issues)
			if tt.wantValid {
				return
			}
			require.NotEmpty(t, result.Issues)
			assert.Equal(t, tt.wantPath, result.Issues[0].Path)
			assert.Equal(t, tt.wantKeyword, result.Issues[0].Keyword)
			assert.NotEmpty(t, result.Issues[0].Message)
		})
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Validate([]byte(`{"name":`))
	assert.Error(t, err)
}

func TestValidateFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/p/package.json", []byte(`{"repository": {}}`), 0o644))

	result, err := ValidateFile(fsys, "/p/package.json")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	_, err = ValidateFile(fsys, "/p/missing.json")
	assert.Error(t, err)
}

func TestValidationIssue_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/private: wrong type", ValidationIssue{Path: "/private", Message: "wrong type"}.String())
	assert.Equal(t, "missing property", ValidationIssue{Message: "missing property"}.String())
}
