package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Manifest keys written by pkginit.
const (
	KeyName       = "name"
	KeyPrivate    = "private"
	KeyRepository = "repository"
	KeyURL        = "url"
)

// ErrEmptyPath is returned when a mutation has no keys.
var ErrEmptyPath = errors.New("mutation path is empty")

// StructureMismatchError is returned when a mutation path descends through a
// member that is not an object. The document is not modified.
type StructureMismatchError struct {
	Path  []string
	Key   string // the intermediate key that is not an object
	Found string // JSON kind found at Key, or "missing"
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("cannot set %s: %q is %s, not an object", strings.Join(e.Path, "."), e.Key, e.Found)
}

// Mutation is an absolute assignment of Value at the key path Path.
// Build mutations with the typed constructors below.
type Mutation struct {
	Path  []string
	Value any // string or bool
}

// SetRepositoryURL sets repository.url. The repository object must already exist.
func SetRepositoryURL(url string) Mutation {
	return Mutation{Path: []string{KeyRepository, KeyURL}, Value: url}
}

// SetPrivate sets the top-level private flag.
func SetPrivate(private bool) Mutation {
	return Mutation{Path: []string{KeyPrivate}, Value: private}
}

// SetName sets the top-level package name.
func SetName(name string) Mutation {
	return Mutation{Path: []string{KeyName}, Value: name}
}

// Key returns the dotted path, e.g. "repository.url".
func (m Mutation) Key() string {
	return strings.Join(m.Path, ".")
}

// String renders the mutation as `key = value` with the value in JSON form.
func (m Mutation) String() string {
	switch v := m.Value.(type) {
	case string:
		return m.Key() + " = " + strconv.Quote(v)
	case bool:
		return m.Key() + " = " + strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%s = %v", m.Key(), v)
	}
}

// ApplyTo assigns the value in doc. Every key except the last must name an
// existing object; otherwise a *StructureMismatchError is returned and doc is
// left untouched.
func (m Mutation) ApplyTo(doc *Object) error {
	if len(m.Path) == 0 {
		return ErrEmptyPath
	}
	switch m.Value.(type) {
	case string, bool:
	default:
		return fmt.Errorf("cannot set %s: unsupported value type %T", m.Key(), m.Value)
	}

	cur := doc
	for _, key := range m.Path[:len(m.Path)-1] {
		v, ok := cur.Get(key)
		next, isObject := v.(*Object)
		if !isObject {
			return &StructureMismatchError{
				Path:  append([]string(nil), m.Path...),
				Key:   key,
				Found: kindOf(v, ok),
			}
		}
		cur = next
	}

	cur.Set(m.Path[len(m.Path)-1], m.Value)
	return nil
}
