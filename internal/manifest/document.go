package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Indent is the indentation used when writing the manifest.
const Indent = "  "

var (
	// ErrSyntax wraps JSON syntax errors found while decoding a manifest.
	ErrSyntax = errors.New("invalid JSON")
	// ErrNotObject is returned when the manifest's top-level value is not a JSON object.
	ErrNotObject = errors.New("manifest is not a JSON object")
)

// Object is a JSON object that remembers the order of its members.
// Member values are *Object, []any, string, bool, nil, or a raw
// jsontext.Value for scalars carried over unchanged from the source file.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Get returns the member value for key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set assigns key. New keys are appended after the existing members.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Keys returns member names in document order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Lookup descends through nested objects and returns the value at path.
func (o *Object) Lookup(path ...string) (any, bool) {
	var cur any = o
	for _, key := range path {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}
		if cur, ok = obj.Get(key); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Scalar returns the value at path decoded to a Go string, bool, float64 or
// nil. It reports false when path is missing or names an object or array.
func (o *Object) Scalar(path ...string) (any, bool) {
	v, ok := o.Lookup(path...)
	if !ok {
		return nil, false
	}
	switch v := v.(type) {
	case string, bool, nil:
		return v, true
	case jsontext.Value:
		var out any
		if err := json.Unmarshal(v, &out); err != nil {
			return nil, false
		}
		return out, true
	default:
		return nil, false
	}
}

// Decode parses manifest text. The top-level value must be an object.
// A repeated member name keeps its first position and its last value.
func Decode(data []byte) (*Object, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data), jsontext.AllowDuplicateNames(true))

	if dec.PeekKind() != '{' {
		if _, err := dec.ReadValue(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}
		return nil, ErrNotObject
	}

	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	if _, err := dec.ReadValue(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level object")
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	return v.(*Object), nil
}

func decodeValue(dec *jsontext.Decoder) (any, error) {
	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		obj := NewObject()
		for dec.PeekKind() != '}' {
			tok, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			// tok is invalidated by the next read
			name := tok.String()
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(name, val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		arr := []any{}
		for dec.PeekKind() != ']' {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil

	default:
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		// raw aliases the decoder buffer
		return append(jsontext.Value(nil), raw...), nil
	}
}

// Encode renders the document with two-space indentation and a trailing newline.
func Encode(doc *Object) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent(Indent))
	if err := encodeValue(enc, doc); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *jsontext.Encoder, v any) error {
	switch v := v.(type) {
	case *Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, key := range v.keys {
			if err := enc.WriteToken(jsontext.String(key)); err != nil {
				return err
			}
			if err := encodeValue(enc, v.values[key]); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case []any:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, elem := range v {
			if err := encodeValue(enc, elem); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case jsontext.Value:
		return enc.WriteValue(v)
	case string:
		return enc.WriteToken(jsontext.String(v))
	case bool:
		return enc.WriteToken(jsontext.Bool(v))
	case nil:
		return enc.WriteToken(jsontext.Null)
	default:
		return fmt.Errorf("unsupported manifest value of type %T", v)
	}
}

// kindOf names the JSON kind of a member value for error messages.
func kindOf(v any, present bool) string {
	if !present {
		return "missing"
	}
	switch v := v.(type) {
	case *Object:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case nil:
		return "null"
	case jsontext.Value:
		switch v.Kind() {
		case '"':
			return "string"
		case '0':
			return "number"
		case 't', 'f':
			return "boolean"
		case 'n':
			return "null"
		}
	}
	return fmt.Sprintf("%T", v)
}
