package bookdoc

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/bookgest/internal/hierarchy"
	"github.com/fumiama/go-docx"
)

// openDOCX treats a .docx file as a single-page book. Heading-styled
// paragraphs supply the TOC metadata; all paragraphs, headings included,
// are joined into the page text so the segmenter can locate them.
func openDOCX(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var toc []hierarchy.TOCEntry
	var page strings.Builder
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if level := headingLevel(para); level > 0 {
			toc = append(toc, hierarchy.TOCEntry{Level: level, Title: text, Page: 1})
		}
		if page.Len() > 0 {
			page.WriteString("\n")
		}
		page.WriteString(text)
	}

	return &memDoc{pages: []string{page.String()}, toc: toc}, nil
}

func headingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level, names := range headingStyles {
		for _, name := range names {
			if strings.EqualFold(style, name) {
				return level + 1
			}
		}
	}
	return 0
}

var headingStyles = [][]string{
	{"Heading1", "heading 1"},
	{"Heading2", "heading 2"},
	{"Heading3", "heading 3"},
	{"Heading4", "heading 4"},
	{"Heading5", "heading 5"},
	{"Heading6", "heading 6"},
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
