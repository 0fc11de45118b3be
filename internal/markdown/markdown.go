package markdown

import (
	"fmt"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// Link is a Markdown link with its rendered text and destination.
type Link struct {
	Text        string
	Destination string
}

// Links parses src and returns every link in document order.
func Links(src string) []Link {
	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	var links []Link
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			links = append(links, Link{
				Text:        linkText(link),
				Destination: string(link.Destination),
			})
		}
		return ast.GoToNext
	})
	return links
}

func linkText(link *ast.Link) string {
	var b strings.Builder
	ast.WalkFunc(link, func(node ast.Node, entering bool) ast.WalkStatus {
		if leaf := node.AsLeaf(); entering && leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

// AddFrontMatter prepends a YAML front-matter block with the given fields.
// Keys are emitted in sorted order.
func AddFrontMatter(src string, fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return src, nil
	}

	data, err := yaml.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(src)
	return b.String(), nil
}
