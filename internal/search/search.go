// Package search ranks sections of the generated documentation against a
// keyword query.
package search

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const headingWeight = 5

type Result struct {
	URI     string  `json:"uri"`
	Path    string  `json:"path"`
	Heading string  `json:"heading"`
	Score   float32 `json:"score"`
	Snippet string  `json:"snippet"`
}

type Searcher struct {
	docDir  string
	scheme  string
	exclude map[string]bool
}

// NewSearcher searches the Markdown files under docDir. Result URIs are the
// document path without .md, prefixed with scheme. Files named in exclude
// (relative, slash-separated) are skipped.
func NewSearcher(docDir, scheme string, exclude ...string) *Searcher {
	ex := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		ex[e] = true
	}
	return &Searcher{docDir: docDir, scheme: scheme, exclude: ex}
}

// Search scores every section by how often the query terms occur in it,
// weighting heading matches. Every term must occur somewhere in a section
// for it to match. Results are ordered by score, then path and position.
func (s *Searcher) Search(query string, limit int) ([]Result, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = 20
	}
	slog.Debug("search", "query", query, "limit", limit, "dir", s.docDir)

	type hit struct {
		Result
		order int
	}
	var hits []hit
	err := filepath.WalkDir(s.docDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		rel, err := filepath.Rel(s.docDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if s.exclude[rel] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		name := strings.TrimSuffix(rel, ".md")
		for i, sec := range SplitSections(string(data)) {
			score := scoreSection(sec, terms)
			if score == 0 {
				continue
			}
			hits = append(hits, hit{
				Result: Result{
					URI:     s.scheme + name,
					Path:    name,
					Heading: sec.Heading,
					Score:   score,
					Snippet: truncate(sec.Text, 200),
				},
				order: i,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", s.docDir, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Path != hits[j].Path {
			return hits[i].Path < hits[j].Path
		}
		return hits[i].order < hits[j].order
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = h.Result
	}
	return results, nil
}

func scoreSection(sec Section, terms []string) float32 {
	heading := strings.ToLower(sec.Heading)
	body := strings.ToLower(sec.Text)
	var score float32
	for _, term := range terms {
		n := strings.Count(body, term)
		if n == 0 {
			return 0
		}
		score += float32(n)
		if strings.Contains(heading, term) {
			score += headingWeight
		}
	}
	return score
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
