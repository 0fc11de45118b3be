// Package book writes the mdBook configuration that sits next to the
// generated documentation tree.
package book

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the mdBook configuration file name.
const ConfigFile = "book.toml"

// DefaultSrc is the source directory mdBook uses when book.toml names none.
const DefaultSrc = "src"

type Book struct {
	Title   string   `toml:"title,omitempty"`
	Authors []string `toml:"authors"`
	Src     string   `toml:"src"`
}

type Config struct {
	Book Book `toml:"book"`
}

// SrcDir returns the book's source directory.
func (c Config) SrcDir() string {
	if c.Book.Src == "" {
		return DefaultSrc
	}
	return c.Book.Src
}

// ForDocDir returns the book root and configuration for a documentation
// directory. The doc directory becomes the book's src.
func ForDocDir(docDir, title string, authors []string) (string, Config) {
	clean := filepath.Clean(docDir)
	if authors == nil {
		authors = []string{}
	}
	return filepath.Dir(clean), Config{Book: Book{
		Title:   title,
		Authors: authors,
		Src:     filepath.ToSlash(filepath.Base(clean)),
	}}
}

// Ensure writes book.toml under root unless one already exists. It reports
// whether a file was written.
func Ensure(root string, cfg Config) (bool, error) {
	path := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encoding book config: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return false, fmt.Errorf("creating book root: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// Read loads the book.toml under root.
func Read(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", ConfigFile, err)
	}
	return &cfg, nil
}
