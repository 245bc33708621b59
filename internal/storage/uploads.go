// Package storage keeps uploaded files on local disk under server-generated keys.
//
// Client file names never reach the file system: every object is stored as
// <uuid><ext>, where ext is derived from the sniffed content type or, failing
// that, a sanitized extension of the client name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const maxExtLen = 8

var (
	ErrInvalidKey = errors.New("invalid storage key")

	keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}(\.[a-z0-9]{1,8})?$`)

	extByContentType = map[string]string{
		"image/png":    ".png",
		"image/jpeg":   ".jpg",
		"image/gif":    ".gif",
		"image/webp":   ".webp",
		"image/bmp":    ".bmp",
		"image/x-icon": ".ico",
		"image/avif":   ".avif",
	}
)

// Object describes a stored file.
type Object struct {
	Key  string
	Size int64
}

// Store writes objects into a single directory.
type Store struct {
	dir    string
	newKey func() string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, newKey: uuid.NewString}, nil
}

// Dir returns the directory objects are stored in.
func (s *Store) Dir() string { return s.dir }

// Save streams r to a temp file and renames it to a fresh key once fully written.
func (s *Store) Save(ctx context.Context, ext string, r io.Reader) (Object, error) {
	key := s.newKey() + ext
	if !keyPattern.MatchString(key) {
		return Object{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Object{}, fmt.Errorf("write upload: %w", err)
	}
	if err = ctx.Err(); err != nil {
		return Object{}, err
	}
	if err = os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		return Object{}, fmt.Errorf("store upload: %w", err)
	}
	return Object{Key: key, Size: n}, nil
}

// Remove deletes the object stored under key. Missing objects are ignored.
func (s *Store) Remove(key string) error {
	p, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// Path returns the file path of key after checking it is a key this store generates.
func (s *Store) Path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key), nil
}

// Ext picks the stored extension: the canonical one for a known image
// content type, otherwise the sanitized extension of the client file name.
func Ext(contentType, clientName string) string {
	if ext, ok := extByContentType[contentType]; ok {
		return ext
	}
	return SanitizeExt(clientName)
}

// SanitizeExt returns the lower-cased extension of the base of name if it is
// 1-8 ASCII letters or digits, including the dot, and "" otherwise.
func SanitizeExt(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), "."))
	if ext == "" || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}

// DisplayName reduces a client file name to its base for display.
func DisplayName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}
