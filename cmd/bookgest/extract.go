package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/bookgest/internal/bookdoc"
	"github.com/dgallion1/bookgest/internal/chunker"
	"github.com/dgallion1/bookgest/internal/hierarchy"
	"github.com/dgallion1/bookgest/internal/pagerange"
	"github.com/dgallion1/bookgest/internal/segment"
	"github.com/spf13/cobra"
)

var (
	outPath          string
	chunksPath       string
	startPage        int
	chapterWord      string
	mode             string
	fromStart        bool
	fallbackRawTitle bool
	attachOrphans    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <book-file>",
	Short: "Extract structured content from a book into a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewTextHandler(os.Stderr, nil))

		if mode != "search" && mode != "pages" {
			return fmt.Errorf("invalid mode %q (want search or pages)", mode)
		}

		doc, err := bookdoc.Open(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		toc, err := doc.TOC()
		if err != nil {
			log.Warn("table of contents unavailable", "error", err)
		}
		tree, _ := hierarchy.Build(toc, hierarchy.Options{
			ChapterWord:      chapterWord,
			FallbackRawTitle: fallbackRawTitle,
			AttachOrphans:    attachOrphans,
		}, log)

		switch mode {
		case "pages":
			pagerange.Extract(doc, tree, log)
		default:
			text := bookdoc.FullText(doc, startPage)
			seg := segment.New(segment.Options{
				ChapterWord: chapterWord,
				FromStart:   fromStart,
			}, log)
			seg.Run(text, tree)
		}

		data, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return fmt.Errorf("serialize structure: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		log.Info("saved structured content", "path", outPath)

		if chunksPath != "" {
			chunks := chunker.ChunkBook(tree, chunker.DefaultConfig())
			if chunks == nil {
				chunks = []chunker.Chunk{}
			}
			data, err := json.MarshalIndent(chunks, "", "  ")
			if err != nil {
				return fmt.Errorf("serialize chunks: %w", err)
			}
			if err := os.WriteFile(chunksPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", chunksPath, err)
			}
			log.Info("saved chunks", "path", chunksPath, "count", len(chunks))
		}

		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&outPath, "out", "o", "structured_book_content.json", "Output JSON file")
	extractCmd.Flags().StringVar(&chunksPath, "chunks", "", "Also write breadcrumbed chunks to this JSON file")
	extractCmd.Flags().IntVar(&startPage, "start-page", 1, "1-based page where body text extraction begins")
	extractCmd.Flags().StringVar(&chapterWord, "chapter-word", hierarchy.DefaultChapterWord, "Localized chapter word expected in headings")
	extractCmd.Flags().StringVar(&mode, "mode", "search", "Text assignment mode: search (heading search) or pages (page ranges)")
	extractCmd.Flags().BoolVar(&fromStart, "from-start", false, "Search every heading from the start of the text (legacy behavior)")
	extractCmd.Flags().BoolVar(&fallbackRawTitle, "fallback-raw-title", false, "Keep digit-less chapter titles, keyed by their raw title")
	extractCmd.Flags().BoolVar(&attachOrphans, "attach-orphans", false, "Give orphan subsections an implicit, untitled parent section")

	rootCmd.AddCommand(extractCmd)
}
