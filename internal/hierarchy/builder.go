package hierarchy

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Options controls TOC parsing. The two policy knobs cover behaviors that
// differed between historical variants of this pipeline; both default to the
// strict choice (drop with a warning).
type Options struct {
	// ChapterWord is the localized word that may prefix a chapter title,
	// e.g. "Chapter" or "Глава". Matching is case-insensitive and the word
	// is optional in TOC titles.
	ChapterWord string

	// FallbackRawTitle keeps a level-1 entry whose title carries no digits,
	// keyed by its cleaned raw title. When false such entries are dropped.
	FallbackRawTitle bool

	// AttachOrphans creates an implicit, untitled parent section for a
	// subsection that arrives with no current section, keyed by the
	// subsection's numbering minus its last group. When false orphans are
	// dropped.
	AttachOrphans bool
}

// DefaultChapterWord is used when Options.ChapterWord is empty.
const DefaultChapterWord = "Chapter"

var (
	sectionRe    = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+(.*)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanTitle collapses whitespace runs to single spaces and trims the ends.
func CleanTitle(title string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
}

// Build derives the hierarchy skeleton from ordered TOC entries. Every parse
// failure is non-fatal: the entry is dropped (or the documented fallback
// applied), a warning is logged and returned, and the walk continues.
func Build(toc []TOCEntry, opts Options, log *slog.Logger) (*Tree, []string) {
	if log == nil {
		log = slog.Default()
	}
	word := opts.ChapterWord
	if word == "" {
		word = DefaultChapterWord
	}
	chapterRe := regexp.MustCompile(`(?i)^(?:` + regexp.QuoteMeta(word) + `\s*)?(\d+)\.?\s*(.*)`)

	tree := NewTree()
	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Warn(msg)
		warnings = append(warnings, msg)
	}

	var currentChapter *Chapter
	var currentSection *Section

	for _, entry := range toc {
		// Clean before matching: TOC titles can carry internal line breaks.
		raw := CleanTitle(entry.Title)
		switch {
		case entry.Level == 1:
			m := chapterRe.FindStringSubmatch(raw)
			if m == nil || m[1] == "" {
				if opts.FallbackRawTitle {
					currentChapter = tree.AddChapter(raw, raw, entry.Page-1)
					currentSection = nil
					continue
				}
				warn("unrecognized chapter format: %q", entry.Title)
				continue
			}
			currentChapter = tree.AddChapter(m[1], m[2], entry.Page-1)
			currentSection = nil

		case entry.Level == 2 || entry.Level == 3:
			if currentChapter == nil {
				warn("section %q appears before any chapter", entry.Title)
				continue
			}
			m := sectionRe.FindStringSubmatch(raw)
			if m == nil {
				warn("unrecognized section format: %q", entry.Title)
				continue
			}
			id, title := m[1], m[2]
			switch strings.Count(id, ".") {
			case 0, 1:
				currentSection = currentChapter.AddSection(id, title, entry.Page-1)
			case 2:
				if currentSection == nil {
					if !opts.AttachOrphans {
						warn("subsection %q has no current section", entry.Title)
						continue
					}
					parent := id[:strings.LastIndex(id, ".")]
					currentSection = currentChapter.AddSection(parent, "", entry.Page-1)
				}
				currentSection.AddSubsection(id, title, entry.Page-1)
			default:
				warn("invalid numbering shape %q in %q", id, entry.Title)
			}

		default:
			// Outline depths beyond three levels are out of scope.
		}
	}

	return tree, warnings
}
