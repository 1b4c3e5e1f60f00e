package bookdoc

import (
	"fmt"
	"os"

	"github.com/dgallion1/bookgest/internal/hierarchy"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// openMarkdown treats a Markdown file as a single-page book whose TOC is
// derived from the heading structure. The raw source is kept as the page
// text so heading lines remain findable by the segmenter.
func openMarkdown(path string) (Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var toc []hierarchy.TOCEntry
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		toc = append(toc, hierarchy.TOCEntry{
			Level: heading.Level,
			Title: string(heading.Text(src)),
			Page:  1,
		})
	}

	return &memDoc{pages: []string{string(src)}, toc: toc}, nil
}
