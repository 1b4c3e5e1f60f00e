// Package pagerange assigns node text from declared start pages instead of
// heading search: each node receives the newline-joined text of the pages
// between its start page and the next sibling's start page.
package pagerange

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/bookgest/internal/bookdoc"
	"github.com/dgallion1/bookgest/internal/hierarchy"
)

// Extract populates text/length for every node in the tree from its page
// range. Chapter ranges end at the start of chapter id+1; section and
// subsection ranges end at the numerically next sibling, clamped to the
// parent's range.
func Extract(doc bookdoc.Document, tree *hierarchy.Tree, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}

	for _, ch := range tree.Chapters {
		chEnd := nextChapterStart(tree, ch, doc.PageCount())
		ch.SetText(pageSpan(doc, ch.StartPage, chEnd))
		log.Info("extracted chapter pages", "chapter", ch.ID, "title", ch.Title)

		for _, sec := range ch.Sections {
			secEnd := min(nextSiblingStart(sectionStarts(ch), sec.ID, chEnd), chEnd)
			sec.SetText(pageSpan(doc, sec.StartPage, secEnd))

			for _, sub := range sec.Subsections {
				subEnd := min(nextSiblingStart(subsectionStarts(sec), sub.ID, secEnd), secEnd)
				sub.SetText(pageSpan(doc, sub.StartPage, subEnd))
			}
		}
	}
}

// nextChapterStart finds the start page of the chapter whose id is the
// current numeral plus one, falling back to the document page count. A
// non-numeric chapter id (the raw-title fallback policy) has no numeric
// successor.
func nextChapterStart(tree *hierarchy.Tree, ch *hierarchy.Chapter, pageCount int) int {
	n, err := strconv.Atoi(ch.ID)
	if err != nil {
		return pageCount
	}
	next := tree.Chapter(strconv.Itoa(n + 1))
	if next == nil {
		return pageCount
	}
	return next.StartPage
}

type idStart struct {
	id    string
	start int
}

func sectionStarts(ch *hierarchy.Chapter) []idStart {
	out := make([]idStart, 0, len(ch.Sections))
	for _, sec := range ch.Sections {
		out = append(out, idStart{sec.ID, sec.StartPage})
	}
	return out
}

func subsectionStarts(sec *hierarchy.Section) []idStart {
	out := make([]idStart, 0, len(sec.Subsections))
	for _, sub := range sec.Subsections {
		out = append(out, idStart{sub.ID, sub.StartPage})
	}
	return out
}

// nextSiblingStart sorts the siblings by their dotted numbering and returns
// the start page of the one following id, or the default end when id is last
// or cannot be compared.
func nextSiblingStart(siblings []idStart, id string, defaultEnd int) int {
	sortByNumbering(siblings)
	for i, s := range siblings {
		if s.id == id {
			if i+1 < len(siblings) {
				return siblings[i+1].start
			}
			return defaultEnd
		}
	}
	return defaultEnd
}

func sortByNumbering(siblings []idStart) {
	slices.SortFunc(siblings, func(a, b idStart) int {
		return compareNumbering(a.id, b.id)
	})
}

// compareNumbering orders dotted numbering keys numerically group by group:
// "2.10" sorts after "2.9".
func compareNumbering(a, b string) int {
	ga, gb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(ga) && i < len(gb); i++ {
		na, _ := strconv.Atoi(ga[i])
		nb, _ := strconv.Atoi(gb[i])
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return len(ga) - len(gb)
}

// pageSpan joins the text of zero-based pages [start, end).
func pageSpan(doc bookdoc.Document, start, end int) string {
	if end > doc.PageCount() {
		end = doc.PageCount()
	}
	var buf strings.Builder
	for p := start; p < end; p++ {
		text, err := doc.PageText(p + 1)
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
