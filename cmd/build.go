package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jcdickinson/soldoc/internal/artifact"
	"github.com/jcdickinson/soldoc/internal/book"
	"github.com/jcdickinson/soldoc/internal/cas"
	"github.com/jcdickinson/soldoc/internal/compiler"
	"github.com/jcdickinson/soldoc/internal/config"
	"github.com/jcdickinson/soldoc/internal/docs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the project and write its documentation",
	Example: `  soldoc build
  soldoc build --src contracts --out site/src --jobs 8
  soldoc build --artifact out/solc.json
  soldoc build --watch`,
	Run: runBuild,
}

var (
	buildArtifact     string
	buildSaveArtifact string
	buildCached       bool
	buildNoCache      bool
	buildWatch        bool
)

func init() {
	buildCmd.Flags().StringVar(&buildArtifact, "artifact", "", "read standard-JSON compiler output from a file instead of running solc (.zst for compressed)")
	buildCmd.Flags().StringVar(&buildSaveArtifact, "save-artifact", "", "also write the compiler output to this file (.zst to compress)")
	buildCmd.Flags().BoolVar(&buildCached, "cached", false, "reuse the compiler output from the previous build")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "always run solc, ignoring the compile cache")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when sources change")

	buildCmd.Flags().IntP("jobs", "j", 0, "parallel document writes (default 4)")
	buildCmd.Flags().String("solc", "", "solc binary (default \"solc\")")
	buildCmd.Flags().Bool("front-matter", false, "prepend YAML front matter to each document")
	buildCmd.Flags().Bool("book", false, "write book.toml next to the documentation directory if missing")
	viper.BindPFlag("jobs", buildCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("solc.path", buildCmd.Flags().Lookup("solc"))
	viper.BindPFlag("output.front_matter", buildCmd.Flags().Lookup("front-matter"))
	viper.BindPFlag("book.enabled", buildCmd.Flags().Lookup("book"))
}

// errFrozenWatch rejects watch mode over compiler output that never changes.
var errFrozenWatch = errors.New("--watch recompiles sources and cannot be combined with --artifact or --cached")

func checkBuildFlags(watch bool, artifactPath string, cached bool) error {
	if watch && (artifactPath != "" || cached) {
		return errFrozenWatch
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) {
	if err := checkBuildFlags(buildWatch, buildArtifact, buildCached); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}
	cfg := loadConfig()

	if buildWatch {
		if err := runWatch(cfg); err != nil {
			slog.Error("watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	res, err := build(context.Background(), cfg, buildArtifact, buildCached)
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d documents to %s\n", len(res.Documents), cfg.Out)
}

// sourceRoot returns src relative to the working directory, which is the
// compiler base path. Compiler file keys are relative to it, so the source
// filter has to be too.
func sourceRoot(src string) (string, error) {
	if !filepath.IsAbs(src) {
		return src, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving source root: %w", err)
	}
	rel, err := filepath.Rel(wd, src)
	if err != nil {
		return "", fmt.Errorf("resolving source root: %w", err)
	}
	return rel, nil
}

// build runs one full documentation pass.
func build(ctx context.Context, cfg *config.Config, artifactPath string, cached bool) (*docs.Result, error) {
	src, err := sourceRoot(cfg.Src)
	if err != nil {
		return nil, err
	}

	out, err := compilerOutput(ctx, cfg, src, artifactPath, cached)
	if err != nil {
		return nil, err
	}

	if buildSaveArtifact != "" {
		if err := artifact.Save(buildSaveArtifact, out); err != nil {
			return nil, err
		}
		slog.Debug("saved artifact", "path", buildSaveArtifact)
	}

	gen, err := docs.NewGenerator(docs.Options{
		SrcDir:      src,
		OutDir:      cfg.Out,
		Extension:   cfg.Extension,
		Jobs:        cfg.Jobs,
		FrontMatter: cfg.Output.FrontMatter,
	}, slog.Default())
	if err != nil {
		return nil, err
	}

	res, err := gen.Generate(ctx, out)
	if err != nil {
		return nil, err
	}

	if cfg.Book.Enabled {
		if err := ensureBook(cfg); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ensureBook writes book.toml if it is missing, and warns when an existing
// one points mdBook somewhere other than the documentation directory.
func ensureBook(cfg *config.Config) error {
	root, bookCfg := book.ForDocDir(cfg.Out, cfg.Book.Title, cfg.Book.Authors)
	written, err := book.Ensure(root, bookCfg)
	if err != nil {
		return err
	}
	if written {
		slog.Info("wrote book config", "dir", root)
		return nil
	}

	existing, err := book.Read(root)
	if err != nil {
		return err
	}
	if existing.SrcDir() != bookCfg.SrcDir() {
		slog.Warn("existing book config does not point at the documentation",
			"file", filepath.Join(root, book.ConfigFile), "src", existing.SrcDir(), "docs", bookCfg.SrcDir())
	}
	return nil
}

func compilerOutput(ctx context.Context, cfg *config.Config, src, artifactPath string, cached bool) (*artifact.Output, error) {
	switch {
	case artifactPath != "":
		return artifact.Load(artifactPath)
	case cached:
		return artifact.Load(config.ArtifactCachePath())
	}

	solc := &compiler.Solc{
		Path:       cfg.Solc.Path,
		Remappings: cfg.Solc.Remappings,
		Optimize:   cfg.Solc.Optimize,
	}
	if !buildNoCache {
		solc.Cache = cas.New(config.CASDir())
	}
	out, err := solc.Compile(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", src, err)
	}

	if err := artifact.Save(config.ArtifactCachePath(), out); err != nil {
		slog.Warn("failed to cache compiler output", "error", err)
	}
	return out, nil
}
