package search

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// Section is a heading-delimited slice of a document. Text includes the
// heading line.
type Section struct {
	Heading string
	Level   int
	Text    string
}

// SplitSections splits markdown at every top-level heading using the parsed
// AST, so '#' lines inside fenced code are not mistaken for headings.
// Content before the first heading becomes a section with Level 0.
func SplitSections(markdown string) []Section {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil
	}

	doc := gm.Parse([]byte(markdown), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	type heading struct {
		offset int
		level  int
		text   string
	}
	var headings []heading
	for _, child := range doc.GetChildren() {
		h, ok := child.(*ast.Heading)
		if !ok {
			continue
		}
		last := -1
		if len(headings) > 0 {
			last = headings[len(headings)-1].offset
		}
		if offset := findHeadingOffset(markdown, h.Level, last); offset >= 0 {
			headings = append(headings, heading{offset: offset, level: h.Level, text: extractNodeText(h)})
		}
	}

	if len(headings) == 0 {
		return []Section{{Text: markdown}}
	}

	var sections []Section
	if intro := strings.TrimSpace(markdown[:headings[0].offset]); intro != "" {
		sections = append(sections, Section{Text: intro})
	}
	for i, h := range headings {
		end := len(markdown)
		if i+1 < len(headings) {
			end = headings[i+1].offset
		}
		sections = append(sections, Section{
			Heading: h.text,
			Level:   h.level,
			Text:    strings.TrimSpace(markdown[h.offset:end]),
		})
	}
	return sections
}

// findHeadingOffset returns the byte offset of the next line after `after`
// that starts with a heading of the given level, or -1.
func findHeadingOffset(src string, level, after int) int {
	prefix := strings.Repeat("#", level) + " "
	inFence := false
	for i := after + 1; i < len(src); i++ {
		// Must be at line start
		if i > 0 && src[i-1] != '\n' {
			continue
		}
		if strings.HasPrefix(src[i:], "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(src[i:], prefix) {
			return i
		}
	}
	return -1
}

// extractNodeText recursively extracts text content from an AST node.
func extractNodeText(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil && leaf.Literal != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}
