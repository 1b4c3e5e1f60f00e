package bookdoc

import (
	"fmt"
	"os"
	"strings"
)

// openText treats a plain text file as a book with form-feed page breaks and
// no TOC metadata. The hierarchy built from it is empty; the pipeline warns
// and produces a degraded artifact.
func openText(path string) (Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	pages := strings.Split(string(src), "\f")
	return &memDoc{pages: pages}, nil
}
