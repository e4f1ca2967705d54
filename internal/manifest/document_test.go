package manifest

import (
	"testing"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateManifest = `{
  "name": "@sknups/template",
  "version": "0.1.0",
  "description": "Template & starter",
  "type": "module",
  "main": "index.js",
  "private": true,
  "scripts": {
    "auth": "npx google-artifactregistry-auth",
    "test": "node --test"
  },
  "repository": {
    "type": "git",
    "url": ""
  },
  "keywords": [],
  "files": [
    "index.js",
    "src"
  ],
  "engines": {
    "node": ">=18"
  },
  "timeout": 1500
}
`

func TestDecodeEncode_RoundTripPreservesText(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(templateManifest))
	require.NoError(t, err)

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, templateManifest, string(out))
}

func TestDecode_PreservesKeyOrder(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"z": 1, "a": {"y": true, "b": null}, "m": "x"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())
	nested, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.(*Object).Keys())
}

func TestDecode_NestedMembers(t *testing.T) {
	t.Parallel()

	var doc *Object
	require.NotPanics(t, func() {
		var err error
		doc, err = Decode([]byte(`{"name":"x","repository":{"url":"u"},"files":["a",{"b":1}]}`))
		require.NoError(t, err)
	})

	name, ok := doc.Scalar("name")
	require.True(t, ok)
	assert.Equal(t, "x", name)
	url, ok := doc.Scalar("repository", "url")
	require.True(t, ok)
	assert.Equal(t, "u", url)
	assert.Equal(t, []string{"name", "repository", "files"}, doc.Keys())
}

func TestDecode_DuplicateNamesLastWins(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"a": 1, "b": 2, "a": "last"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, doc.Keys())
	got, ok := doc.Scalar("a")
	require.True(t, ok)
	assert.Equal(t, "last", got)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input  string
		notObj bool
	}{
		"empty input":      {input: ""},
		"truncated":        {input: `{"name": "x"`},
		"top-level array":  {input: `[1, 2]`, notObj: true},
		"top-level string": {input: `"package"`, notObj: true},
		"trailing garbage": {input: `{"a": 1} {"b": 2}`},
		"invalid UTF-8":    {input: "{\"a\": \"\xff\"}"},
		"invalid literal":  {input: `{"a": tru}`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			if tt.notObj {
				assert.ErrorIs(t, err, ErrNotObject)
			} else {
				assert.ErrorIs(t, err, ErrSyntax)
			}
		})
	}
}

func TestObject_SetAppendsNewKeys(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"b": 1, "a": 2}`))
	require.NoError(t, err)

	doc.Set("a", "replaced")
	doc.Set("c", false)

	assert.Equal(t, []string{"b", "a", "c"}, doc.Keys())
	assert.Equal(t, 3, doc.Len())

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"replaced\",\n  \"c\": false\n}\n", string(out))
}

func TestObject_Scalar(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"name": "x", "private": true, "timeout": 1500, "main": null, "repository": {"url": "u"}}`))
	require.NoError(t, err)
	doc.Set("added", "plain")

	tests := map[string]struct {
		path   []string
		want   any
		wantOK bool
	}{
		"string":        {path: []string{"name"}, want: "x", wantOK: true},
		"boolean":       {path: []string{"private"}, want: true, wantOK: true},
		"number":        {path: []string{"timeout"}, want: float64(1500), wantOK: true},
		"null":          {path: []string{"main"}, want: nil, wantOK: true},
		"nested":        {path: []string{"repository", "url"}, want: "u", wantOK: true},
		"set in memory": {path: []string{"added"}, want: "plain", wantOK: true},
		"object":        {path: []string{"repository"}},
		"missing":       {path: []string{"version"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := doc.Scalar(tt.path...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObject_Lookup(t *testing.T) {
	t.Parallel()

	doc, err := Decode([]byte(`{"repository": {"url": "git+https://x"}, "private": true}`))
	require.NoError(t, err)

	v, ok := doc.Lookup("repository", "url")
	require.True(t, ok)
	assert.Equal(t, jsontext.Value(`"git+https://x"`), v)

	_, ok = doc.Lookup("private", "nested")
	assert.False(t, ok)

	_, ok = doc.Lookup("missing")
	assert.False(t, ok)
}

func TestEncode_EmptyContainers(t *testing.T) {
	t.Parallel()

	doc := NewObject()
	doc.Set("repository", NewObject())
	doc.Set("keywords", []any{})

	out, err := Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"repository\": {},\n  \"keywords\": []\n}\n", string(out))
}

func TestEncode_UnsupportedValue(t *testing.T) {
	t.Parallel()

	doc := NewObject()
	doc.Set("count", 3)

	_, err := Encode(doc)
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value   any
		present bool
		want    string
	}{
		"missing":     {present: false, want: "missing"},
		"object":      {value: NewObject(), present: true, want: "object"},
		"array":       {value: []any{}, present: true, want: "array"},
		"raw number":  {value: jsontext.Value(`5`), present: true, want: "number"},
		"raw string":  {value: jsontext.Value(`"x"`), present: true, want: "string"},
		"raw boolean": {value: jsontext.Value(`false`), present: true, want: "boolean"},
		"raw null":    {value: jsontext.Value(`null`), present: true, want: "null"},
		"go string":   {value: "x", present: true, want: "string"},
		"go bool":     {value: true, present: true, want: "boolean"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, kindOf(tt.value, tt.present))
		})
	}
}
