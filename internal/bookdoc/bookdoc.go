// Package bookdoc provides page-addressable access to book documents: page
// count, per-page plain text in page order, and table-of-contents metadata.
package bookdoc

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/bookgest/internal/hierarchy"
)

// Document is the capability the extraction pipeline consumes. Page numbers
// are 1-based.
type Document interface {
	PageCount() int
	PageText(n int) (string, error)
	TOC() ([]hierarchy.TOCEntry, error)
	Close() error
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".txt":      true,
}

// Open returns the appropriate document backend for a file path.
func Open(path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return openPDF(path)
	case ".md", ".markdown":
		return openMarkdown(path)
	case ".docx":
		return openDOCX(path)
	case ".html", ".htm":
		return openHTML(path)
	case ".txt":
		return openText(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FullText joins the page texts from startPage (1-based) through the last
// page with newlines. Pages that fail to extract are skipped.
func FullText(d Document, startPage int) string {
	if startPage < 1 {
		startPage = 1
	}
	var buf strings.Builder
	for n := startPage; n <= d.PageCount(); n++ {
		text, err := d.PageText(n)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}
	return buf.String()
}

// memDoc serves backends that materialize their pages and TOC up front.
type memDoc struct {
	pages []string
	toc   []hierarchy.TOCEntry
}

func (d *memDoc) PageCount() int { return len(d.pages) }

func (d *memDoc) PageText(n int) (string, error) {
	if n < 1 || n > len(d.pages) {
		return "", fmt.Errorf("page %d out of range (1..%d)", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

func (d *memDoc) TOC() ([]hierarchy.TOCEntry, error) { return d.toc, nil }

func (d *memDoc) Close() error { return nil }
