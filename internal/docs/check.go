package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/soldoc/internal/markdown"
)

// LinkStatus classifies one summary link.
type LinkStatus int

const (
	LinkOK LinkStatus = iota
	// LinkDirectory points at a directory page that does not exist as a
	// file. mdBook creates these as empty chapters.
	LinkDirectory
	LinkDangling
)

type CheckedLink struct {
	markdown.Link
	Status LinkStatus
}

// CheckSummary reads SUMMARY.md under docDir and resolves every link in it
// against the doc directory. External links are ignored.
func CheckSummary(docDir string) ([]CheckedLink, error) {
	data, err := os.ReadFile(filepath.Join(docDir, SummaryFile))
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}

	var checked []CheckedLink
	for _, link := range markdown.Links(string(data)) {
		dest := link.Destination
		if strings.Contains(dest, "://") || strings.HasPrefix(dest, "#") {
			continue
		}
		if i := strings.IndexByte(dest, '#'); i >= 0 {
			dest = dest[:i]
		}
		checked = append(checked, CheckedLink{Link: link, Status: linkStatus(docDir, dest)})
	}
	return checked, nil
}

func linkStatus(docDir, dest string) LinkStatus {
	target := filepath.Join(docDir, filepath.FromSlash(dest))
	if _, err := os.Stat(target); err == nil {
		return LinkOK
	} else if !errors.Is(err, fs.ErrNotExist) {
		return LinkDangling
	}
	dir := strings.TrimSuffix(target, ".md")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return LinkDirectory
	}
	return LinkDangling
}

// Dangling filters links whose target is missing.
func Dangling(links []CheckedLink) []CheckedLink {
	var out []CheckedLink
	for _, l := range links {
		if l.Status == LinkDangling {
			out = append(out, l)
		}
	}
	return out
}
