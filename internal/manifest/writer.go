package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sknups/pkginit/internal/logging"
)

const defaultFileMode fs.FileMode = 0o644

// Writer applies mutations to the manifest file and overwrites the entry point.
// It holds no document state: every Apply reads the file, mutates it and writes it back.
type Writer struct {
	fs             afero.Fs
	manifestPath   string
	entryPointPath string
	log            *slog.Logger
}

// NewWriter returns a Writer for the given paths on fsys.
func NewWriter(fsys afero.Fs, manifestPath, entryPointPath string) *Writer {
	return &Writer{
		fs:             fsys,
		manifestPath:   manifestPath,
		entryPointPath: entryPointPath,
		log:            logging.New("manifest"),
	}
}

// ManifestPath returns the manifest file path.
func (w *Writer) ManifestPath() string { return w.manifestPath }

// EntryPointPath returns the entry point file path.
func (w *Writer) EntryPointPath() string { return w.entryPointPath }

// Load reads and decodes the manifest.
func (w *Writer) Load() (*Object, error) {
	data, err := afero.ReadFile(w.fs, w.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", w.manifestPath, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", w.manifestPath, err)
	}
	return doc, nil
}

// Apply loads the manifest, applies m and writes the whole document back.
// When m cannot be applied nothing is written.
func (w *Writer) Apply(m Mutation) error {
	doc, err := w.Load()
	if err != nil {
		return err
	}

	if err := m.ApplyTo(doc); err != nil {
		return fmt.Errorf("%s: %w", w.manifestPath, err)
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(w.fs, w.manifestPath, data); err != nil {
		return fmt.Errorf("writing manifest %s: %w", w.manifestPath, err)
	}

	w.log.Debug("manifest updated", slog.String("key", m.Key()), slog.Any("value", m.Value))
	return nil
}

// WriteEntryPoint replaces the entry point file with source.
func (w *Writer) WriteEntryPoint(source string) error {
	if err := writeFileAtomic(w.fs, w.entryPointPath, []byte(source)); err != nil {
		return &EntryPointError{Path: w.entryPointPath, Err: err}
	}
	w.log.Debug("entry point written", slog.String("path", w.entryPointPath), slog.Int("bytes", len(source)))
	return nil
}

// EntryPointError reports a failed entry point write. Manifest writes made
// before it are kept.
type EntryPointError struct {
	Path string
	Err  error
}

func (e *EntryPointError) Error() string {
	return fmt.Sprintf("writing entry point %s: %v", e.Path, e.Err)
}

func (e *EntryPointError) Unwrap() error { return e.Err }

// writeFileAtomic writes data to a temp file next to path and renames it over
// path, so path always holds either the old or the new complete content.
// The existing file mode is kept.
func writeFileAtomic(fsys afero.Fs, path string, data []byte) (err error) {
	mode := defaultFileMode
	if info, statErr := fsys.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fsys.Chmod(tmpName, mode); err != nil {
		return err
	}
	return fsys.Rename(tmpName, path)
}
