// Package attachment stores claim photos in the uploads directory.
//
// Files are named after the claim's uuid, so a claim has at most one stored
// attachment per extension and a retried upload overwrites the earlier copy.
package attachment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExt is used when the uploaded name has no extension.
const DefaultExt = ".jpg"

// ErrTooLarge is returned when an upload exceeds the size limit.
var ErrTooLarge = errors.New("attachment too large")

// ErrInvalidName is returned for names that would escape the uploads dir.
var ErrInvalidName = errors.New("invalid attachment name")

// Store writes attachments under a single directory.
type Store struct {
	dir      string
	maxBytes int64
}

// New returns a Store rooted at dir. A non-positive maxBytes disables the
// size limit.
func New(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

// Dir returns the directory attachments are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r to <claimUUID><ext> and returns the stored file name.
//
// The extension is taken from originalName. Content is written to a
// temporary file and renamed into place, so a failed or oversized upload
// leaves nothing behind.
func (s *Store) Save(claimUUID, originalName string, r io.Reader) (string, error) {
	name := claimUUID + extension(originalName)
	if err := checkName(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op after rename

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}

	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return "", fmt.Errorf("save attachment: %w", err)
	}
	return name, nil
}

// Path returns the absolute location of a stored attachment.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Delete removes a stored attachment. A missing file is not an error.
func (s *Store) Delete(name string) error {
	if name == "" {
		return nil
	}
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete attachment %s: %w", name, err)
	}
	return nil
}

func extension(originalName string) string {
	ext := filepath.Ext(filepath.Base(originalName))
	if ext == "" || ext == "." {
		return DefaultExt
	}
	return ext
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
