package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Decode reads plain standard-JSON output from r.
func Decode(r io.Reader) (*Output, error) {
	var out Output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding compiler output: %w", err)
	}
	return &out, nil
}

// Load reads compiler output from disk. Files ending in .zst are
// zstd-compressed.
func Load(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return Decode(f)
	}

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	return Decode(r)
}

// Save writes compiler output to disk, compressing it when the path ends in .zst.
func Save(path string, out *Output) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating artifact file: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		if err := json.NewEncoder(f).Encode(out); err != nil {
			return fmt.Errorf("writing artifact: %w", err)
		}
		return nil
	}

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed artifact: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}
