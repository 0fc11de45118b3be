package docs

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jcdickinson/soldoc/internal/artifact"
)

// ErrPathInvariant means a file accepted by the source filter could not be
// turned into a document name. The filter and the stripping logic disagree.
var ErrPathInvariant = errors.New("source path does not match the source root")

// DefaultExtension is the source-file extension stripped from document names.
const DefaultExtension = ".sol"

// SourceFilter matches compiler file paths that live under the source root.
type SourceFilter struct {
	root    string
	pattern string
}

// NewSourceFilter returns a filter for every file below root, recursively.
// A root of "." matches every relative path.
func NewSourceFilter(root string) (*SourceFilter, error) {
	root = path.Clean(filepath.ToSlash(root))
	pattern := root + "/**/*"
	if root == "." {
		pattern = "**/*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid source root glob %q", pattern)
	}
	return &SourceFilter{root: root, pattern: pattern}, nil
}

// Root returns the cleaned source root.
func (f *SourceFilter) Root() string { return f.root }

// Match reports whether file is under the source root.
func (f *SourceFilter) Match(file string) bool {
	ok, err := doublestar.Match(f.pattern, file)
	return err == nil && ok
}

// FileGroup is the set of contracts declared in one source file.
type FileGroup struct {
	Name      string
	Contracts []artifact.Triple
}

// GroupFiles keeps the contracts whose file matches filter, names each file
// by stripping the root prefix and ext, and returns the groups ordered by
// name. Contracts keep their encounter order inside a group.
func GroupFiles(triples []artifact.Triple, filter *SourceFilter, ext string) ([]FileGroup, error) {
	byName := make(map[string]*FileGroup)
	var names []string
	for _, t := range triples {
		if !filter.Match(t.File) {
			continue
		}
		name, err := documentName(t.File, filter.root, ext)
		if err != nil {
			return nil, err
		}
		g, ok := byName[name]
		if !ok {
			g = &FileGroup{Name: name}
			byName[name] = g
			names = append(names, name)
		}
		g.Contracts = append(g.Contracts, t)
	}

	sort.Strings(names)
	groups := make([]FileGroup, len(names))
	for i, n := range names {
		groups[i] = *byName[n]
	}
	return groups, nil
}

func documentName(file, root, ext string) (string, error) {
	rel, ok := file, true
	if root != "." {
		rel, ok = strings.CutPrefix(file, root+"/")
	}
	if !ok {
		return "", fmt.Errorf("%w: %s lacks prefix %s/", ErrPathInvariant, file, root)
	}
	name, ok := strings.CutSuffix(rel, ext)
	if !ok {
		return "", fmt.Errorf("%w: %s lacks extension %s", ErrPathInvariant, file, ext)
	}
	return name, nil
}

// BuildFileDocs builds one FileDoc per group, keeping group order.
func BuildFileDocs(groups []FileGroup) ([]FileDoc, error) {
	docs := make([]FileDoc, 0, len(groups))
	for _, g := range groups {
		doc := FileDoc{Name: g.Name}
		for _, t := range g.Contracts {
			cd, err := NewContractDoc(t.Name, t.Contract)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.File, err)
			}
			doc.Contracts = append(doc.Contracts, cd)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
