// Package compiler drives solc in standard-JSON mode to produce the
// documentation artifact.
package compiler

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jcdickinson/soldoc/internal/artifact"
	"github.com/jcdickinson/soldoc/internal/cas"
)

// DefaultPath is the solc binary looked up on PATH.
const DefaultPath = "solc"

// Solc invokes a solc binary.
type Solc struct {
	Path       string
	Remappings []string
	Optimize   bool
	// BasePath is the directory source keys are relative to, and the
	// compiler's import base. Defaults to the working directory.
	BasePath string
	// Cache, when set, holds compiler output keyed by binary and input.
	Cache *cas.Store
}

// Input is the standard-JSON compiler input.
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

type Source struct {
	Content string `json:"content"`
}

type Settings struct {
	Remappings      []string                       `json:"remappings,omitempty"`
	Optimizer       Optimizer                      `json:"optimizer"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type Optimizer struct {
	Enabled bool `json:"enabled"`
}

func (s *Solc) basePath() string {
	if s.BasePath == "" {
		return "."
	}
	return s.BasePath
}

// BuildInput collects every .sol file under root. Source keys are
// slash-separated paths relative to the base path, so a root of "src"
// yields keys like "src/Token.sol". A relative root is resolved against the
// base path; an absolute root is used as is.
func (s *Solc) BuildInput(root string) (*Input, error) {
	base := s.basePath()
	dir := filepath.Join(base, root)
	if filepath.IsAbs(root) {
		dir = root
		abs, err := filepath.Abs(base)
		if err != nil {
			return nil, fmt.Errorf("resolving base path: %w", err)
		}
		base = abs
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.sol", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .sol files under %s", dir)
	}
	sort.Strings(matches)

	sources := make(map[string]Source, len(matches))
	for _, m := range matches {
		full := filepath.Join(dir, filepath.FromSlash(m))
		content, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		rel, err := filepath.Rel(base, full)
		if err != nil {
			return nil, fmt.Errorf("relativizing %s: %w", full, err)
		}
		sources[filepath.ToSlash(rel)] = Source{Content: string(content)}
	}

	return &Input{
		Language: "Solidity",
		Sources:  sources,
		Settings: Settings{
			Remappings: s.Remappings,
			Optimizer:  Optimizer{Enabled: s.Optimize},
			OutputSelection: map[string]map[string][]string{
				"*": {"*": {"abi", "devdoc", "userdoc"}},
			},
		},
	}, nil
}

// Compile compiles every source under root and decodes the output. Compiler
// diagnostics are returned in the output untouched; Validate decides whether
// they are fatal.
func (s *Solc) Compile(ctx context.Context, root string) (*artifact.Output, error) {
	input, err := s.BuildInput(root)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding compiler input: %w", err)
	}

	bin := s.Path
	if bin == "" {
		bin = DefaultPath
	}

	var key string
	if s.Cache != nil {
		digest, err := binaryDigest(bin)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", bin, err)
		}
		key = cas.Key(digest, payload)
		data, ok, err := s.Cache.Get(key)
		if err != nil {
			slog.Warn("compile cache read failed", "error", err)
		} else if ok {
			slog.Debug("compile cache hit", "key", key[:12])
			return artifact.Decode(bytes.NewReader(data))
		}
	}

	cmd := exec.CommandContext(ctx, bin, "--standard-json", "--base-path", s.basePath())
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running solc", "path", bin, "sources", len(input.Sources))
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", bin, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", bin, err)
	}

	out, err := artifact.Decode(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Put(key, stdout.Bytes()); err != nil {
			slog.Warn("compile cache write failed", "error", err)
		}
	}
	return out, nil
}

// binaryDigest hashes the contents of the compiler binary found for bin, so
// replacing solc in place invalidates earlier cache entries.
func binaryDigest(bin string) ([]byte, error) {
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", resolved, err)
	}
	return h.Sum(nil), nil
}
