package bookdoc

import (
	"fmt"
	"os"

	"github.com/dgallion1/bookgest/internal/hierarchy"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfDoc reads page text through ledongthuc/pdf and the outline (the TOC
// metadata) through pdfcpu's bookmark API.
type pdfDoc struct {
	path   string
	file   *os.File
	reader *pdflib.Reader
}

func openPDF(path string) (Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfDoc{path: path, file: f, reader: reader}, nil
}

func (d *pdfDoc) PageCount() int {
	return d.reader.NumPage()
}

func (d *pdfDoc) PageText(n int) (string, error) {
	if n < 1 || n > d.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range (1..%d)", n, d.reader.NumPage())
	}
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", n, err)
	}
	return text, nil
}

func (d *pdfDoc) TOC() ([]hierarchy.TOCEntry, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf for outline: %w", err)
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf outline: %w", err)
	}

	var toc []hierarchy.TOCEntry
	flattenBookmarks(bms, 1, &toc)
	return toc, nil
}

func flattenBookmarks(bms []pdfcpu.Bookmark, level int, out *[]hierarchy.TOCEntry) {
	for _, bm := range bms {
		*out = append(*out, hierarchy.TOCEntry{
			Level: level,
			Title: bm.Title,
			Page:  bm.PageFrom,
		})
		flattenBookmarks(bm.Kids, level+1, out)
	}
}

func (d *pdfDoc) Close() error {
	return d.file.Close()
}
