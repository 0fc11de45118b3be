// Package cas is a content-addressed, zstd-compressed blob store. The
// compiler uses it to cache output keyed by the hash of its input.
package cas

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Key returns the SHA-256 hash of the given parts, in hex.
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// path returns the sharded file path for a hash: <dir>/<first2>/<rest>.zst
func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash[:2], hash[2:]+".zst")
}

// Put stores content under hash. If the entry already exists, this is a no-op.
func (s *Store) Put(hash string, content []byte) error {
	if len(hash) < 3 {
		return fmt.Errorf("invalid hash %q", hash)
	}
	p := s.path(hash)
	if _, err := os.Stat(p); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("creating CAS directory: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return fmt.Errorf("compressing CAS content: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	// Write then rename so a concurrent reader never sees a partial entry.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating CAS temp file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing CAS file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing CAS file: %w", err)
	}
	return nil
}

// Get retrieves content by hash. A missing entry is reported with ok=false
// and no error.
func (s *Store) Get(hash string) (content []byte, ok bool, err error) {
	if len(hash) < 3 {
		return nil, false, fmt.Errorf("invalid hash %q", hash)
	}
	f, err := os.Open(s.path(hash))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading CAS file %s: %w", hash, err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, false, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing CAS file %s: %w", hash, err)
	}
	return data, true, nil
}
