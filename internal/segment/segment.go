// Package segment slices a book's extracted full text into per-node spans by
// locating each hierarchy node's heading with a pattern search.
package segment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/bookgest/internal/hierarchy"
)

// Options controls heading search.
type Options struct {
	// ChapterWord is the localized word expected before a chapter number in
	// the body text, e.g. "Chapter" or "Глава".
	ChapterWord string

	// FromStart searches the whole text for every heading instead of
	// starting at the cursor. This replicates the legacy behavior, where a
	// duplicate heading string earlier in the text (a running header, a TOC
	// page) can shadow the true occurrence.
	FromStart bool
}

// Segmenter walks a hierarchy tree in declaration order and attaches text
// spans to its nodes.
type Segmenter struct {
	opts Options
	log  *slog.Logger
}

// New returns a segmenter. A nil logger falls back to slog.Default.
func New(opts Options, log *slog.Logger) *Segmenter {
	if log == nil {
		log = slog.Default()
	}
	if opts.ChapterWord == "" {
		opts.ChapterWord = hierarchy.DefaultChapterWord
	}
	return &Segmenter{opts: opts, log: log}
}

// state threads the cursor and the active context through the walk. The
// active context trails the most recently matched node by one step: the span
// closing out at node N's heading is node N-1's body. A nil active context is
// the front-matter sentinel whose text is discarded.
type state struct {
	text   string
	cursor int
	active hierarchy.Node
}

// Run locates every node's heading and assigns spans in place. It returns
// the warnings for every heading that could not be located.
func (s *Segmenter) Run(text string, tree *hierarchy.Tree) []string {
	st := &state{text: text}
	var warnings []string

	for _, ch := range tree.Chapters {
		s.visit(st, chapterPattern(s.opts.ChapterWord, ch.ID, ch.Title), ch, "chapter", ch.ID, &warnings)
		for _, sec := range ch.Sections {
			s.visit(st, headingPattern(sec.ID, sec.Title), sec, "section", sec.ID, &warnings)
			for _, sub := range sec.Subsections {
				s.visit(st, headingPattern(sub.ID, sub.Title), sub, "subsection", sub.ID, &warnings)
			}
		}
	}

	// Whatever follows the last located heading belongs to it, even when the
	// tail is whitespace-only (a defined text with length zero).
	if st.cursor < len(st.text) && st.active != nil {
		st.active.SetText(st.text[st.cursor:])
	}

	return warnings
}

// visit performs the per-node step: find the heading, close out the span of
// the previously active node, advance the cursor past the heading and make
// this node active. A miss leaves the cursor and active context untouched so
// the children resume from the same position.
func (s *Segmenter) visit(st *state, pattern string, node hierarchy.Node, kind, id string, warnings *[]string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		msg := fmt.Sprintf("%s %q: bad heading pattern: %v", kind, id, err)
		s.log.Warn(msg)
		*warnings = append(*warnings, msg)
		return
	}

	start, end, ok := s.find(st, re)
	if !ok {
		msg := fmt.Sprintf("%s %q heading not found in text", kind, id)
		s.log.Warn(msg)
		*warnings = append(*warnings, msg)
		return
	}

	if start > st.cursor {
		span := st.text[st.cursor:start]
		if strings.TrimSpace(span) != "" && st.active != nil {
			st.active.SetText(span)
		}
	}
	st.cursor = end
	st.active = node
}

// find returns the heading match bounds as absolute offsets.
func (s *Segmenter) find(st *state, re *regexp.Regexp) (start, end int, ok bool) {
	if s.opts.FromStart {
		loc := re.FindStringIndex(st.text)
		if loc == nil {
			return 0, 0, false
		}
		return loc[0], loc[1], true
	}
	loc := re.FindStringIndex(st.text[st.cursor:])
	if loc == nil {
		return 0, 0, false
	}
	return st.cursor + loc[0], st.cursor + loc[1], true
}

// chapterPattern matches the localized chapter word, the chapter numeral and
// the title, with the title's internal whitespace loosened. The numbering in
// the body may carry a trailing period ("Глава 1. Введение") that the
// normalized id does not.
func chapterPattern(word, id, title string) string {
	return `(?i)` + regexp.QuoteMeta(word) + `\s*` + regexp.QuoteMeta(id) + `\.?\s*` + loosen(title)
}

// headingPattern matches a section or subsection heading: the dotted id, an
// optional trailing period, whitespace, then the loosened title.
func headingPattern(id, title string) string {
	return `(?i)` + regexp.QuoteMeta(id) + `\.?\s*` + loosen(title)
}

// loosen escapes regex metacharacters in a title and relaxes its internal
// whitespace to match any run of whitespace, including line breaks inserted
// by page extraction.
func loosen(title string) string {
	quoted := regexp.QuoteMeta(title)
	return whitespaceRun.ReplaceAllString(quoted, `\s*`)
}

var whitespaceRun = regexp.MustCompile(`\s+`)
