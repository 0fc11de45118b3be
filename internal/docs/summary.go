package docs

import (
	"fmt"
	"path"
	"strings"
)

// SummaryFile is the name of the outline written at the documentation root.
const SummaryFile = "SUMMARY.md"

// SummaryEntry is one line of the outline.
type SummaryEntry struct {
	Depth int
	Label string
	Link  string
}

// Summary is a nested list of links to the generated documents.
type Summary []SummaryEntry

// BuildSummary walks sorted document names and emits a directory entry the
// first time a file's parent directory differs from the last announced one,
// followed by the file entry. Only the most recent directory is remembered:
// a grandparent that never is an immediate parent gets no line of its own.
func BuildSummary(names []string) Summary {
	var (
		summary     Summary
		currentBase string
	)
	for _, name := range names {
		parent := path.Dir(name)
		if parent == "." {
			parent = ""
		}
		if parent != "" && !strings.HasPrefix(currentBase, parent) {
			currentBase = parent
			summary = append(summary, SummaryEntry{
				Depth: depth(parent),
				Label: path.Base(parent),
				Link:  parent + ".md",
			})
		}
		summary = append(summary, SummaryEntry{
			Depth: depth(name),
			Label: path.Base(name),
			Link:  name + ".md",
		})
	}
	return summary
}

func depth(p string) int {
	return strings.Count(p, "/")
}

// Markdown renders the summary as an indented Markdown list, four spaces per level.
func (s Summary) Markdown() string {
	var b strings.Builder
	for _, e := range s {
		fmt.Fprintf(&b, "%s- [%s](%s)\n", strings.Repeat(" ", e.Depth*4), e.Label, e.Link)
	}
	return b.String()
}
