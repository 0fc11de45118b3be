package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/soldoc/internal/artifact"
	"github.com/jcdickinson/soldoc/internal/markdown"
	"golang.org/x/sync/errgroup"
)

// Options configures a Generator.
type Options struct {
	SrcDir      string
	OutDir      string
	Extension   string
	Jobs        int
	FrontMatter bool
}

// Document is a rendered document ready to be written.
type Document struct {
	Name    string
	Path    string
	Content string
}

// Result describes a completed run.
type Result struct {
	Documents   []Document
	SummaryPath string
}

// Generator builds and writes the documentation tree for one compiler output.
// It holds no state between runs.
type Generator struct {
	opts     Options
	filter   *SourceFilter
	renderer *Renderer
	logger   *slog.Logger
}

// NewGenerator validates opts and prepares the renderer.
func NewGenerator(opts Options, logger *slog.Logger) (*Generator, error) {
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	filter, err := NewSourceFilter(opts.SrcDir)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Generator{opts: opts, filter: filter, renderer: renderer, logger: logger}, nil
}

// Build validates the compiler output and returns one FileDoc per source
// file under the source root, ordered by name.
func (g *Generator) Build(out *artifact.Output) ([]FileDoc, error) {
	if err := out.Validate(); err != nil {
		return nil, err
	}
	groups, err := GroupFiles(out.ContractsWithFiles(), g.filter, g.opts.Extension)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("grouped source files", "root", g.filter.Root(), "files", len(groups))
	return BuildFileDocs(groups)
}

// Render renders every document and the summary without touching the disk.
func (g *Generator) Render(fileDocs []FileDoc) ([]Document, string, error) {
	docs := make([]Document, 0, len(fileDocs))
	names := make([]string, 0, len(fileDocs))
	for _, fd := range fileDocs {
		content, err := g.renderer.Render(fd)
		if err != nil {
			return nil, "", err
		}
		if g.opts.FrontMatter {
			content, err = markdown.AddFrontMatter(content, frontMatter(fd))
			if err != nil {
				return nil, "", fmt.Errorf("%s: %w", fd.Name, err)
			}
		}
		docs = append(docs, Document{
			Name:    fd.Name,
			Path:    filepath.Join(g.opts.OutDir, filepath.FromSlash(fd.Name)+".md"),
			Content: content,
		})
		names = append(names, fd.Name)
	}
	return docs, BuildSummary(names).Markdown(), nil
}

func frontMatter(fd FileDoc) map[string]string {
	names := make([]string, len(fd.Contracts))
	for i, c := range fd.Contracts {
		names[i] = c.Name
	}
	return map[string]string{
		"title":     fd.Name,
		"contracts": strings.Join(names, ", "),
	}
}

// Generate runs the whole pipeline and writes the documents followed by the
// summary. Everything is built and rendered before the first write. Documents
// written before a failure are left in place.
func (g *Generator) Generate(ctx context.Context, out *artifact.Output) (*Result, error) {
	fileDocs, err := g.Build(out)
	if err != nil {
		return nil, err
	}
	docs, summary, err := g.Render(fileDocs)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating doc directory %s: %w", g.opts.OutDir, err)
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)
	for _, d := range docs {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			return writeFile(d.Path, d.Content)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(g.opts.OutDir, SummaryFile)
	if err := writeFile(summaryPath, summary); err != nil {
		return nil, err
	}

	g.logger.Info("generated documentation", "dir", g.opts.OutDir, "documents", len(docs))
	return &Result{Documents: docs, SummaryPath: summaryPath}, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
