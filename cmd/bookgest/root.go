package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bookgest",
	Short: "Extract the chapter/section/subsection structure of a book",
	Long: `bookgest converts a page-addressable book (PDF, Markdown, DOCX, HTML)
into a hierarchical text tree. The tree skeleton comes from the document's
table-of-contents metadata; each node's text is located in the extracted
full text by heading search, or taken from its declared page range.`,
}

func init() {
	rootCmd.Version = "0.2.0"
	rootCmd.SetVersionTemplate("bookgest {{.Version}}\n")
}
