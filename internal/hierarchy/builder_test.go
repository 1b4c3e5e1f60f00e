package hierarchy

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuild_ChapterParsing(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 1. Introduction", Page: 5},
		{Level: 1, Title: "chapter 2 Motion", Page: 20},
		{Level: 1, Title: "3. Waves", Page: 41},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got, _, _ := tree.Counts(); got != 3 {
		t.Fatalf("expected 3 chapters, got %d", got)
	}

	cases := []struct {
		id    string
		title string
		page  int
	}{
		{"1", "Introduction", 4},
		{"2", "Motion", 19},
		{"3", "Waves", 40},
	}
	for _, c := range cases {
		ch := tree.Chapter(c.id)
		if ch == nil {
			t.Fatalf("chapter %q not found", c.id)
		}
		if ch.Title != c.title {
			t.Errorf("chapter %q: expected title %q, got %q", c.id, c.title, ch.Title)
		}
		if ch.StartPage != c.page {
			t.Errorf("chapter %q: expected zero-based start page %d, got %d", c.id, c.page, ch.StartPage)
		}
	}
}

func TestBuild_LocalizedChapterWord(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "глава 4 Основы механики", Page: 60},
	}
	tree, warnings := Build(toc, Options{ChapterWord: "Глава"}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	ch := tree.Chapter("4")
	if ch == nil {
		t.Fatal("chapter 4 not found")
	}
	if ch.Title != "Основы механики" {
		t.Errorf("expected title %q, got %q", "Основы механики", ch.Title)
	}
}

func TestBuild_DigitOnlyChapterTitle(t *testing.T) {
	toc := []TOCEntry{{Level: 1, Title: "7", Page: 100}}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	ch := tree.Chapter("7")
	if ch == nil {
		t.Fatal("chapter 7 not found")
	}
	if ch.Title != "" {
		t.Errorf("expected empty title, got %q", ch.Title)
	}
}

func TestBuild_TitleWhitespaceCleaning(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 2.   The   Law\n of Motion ", Page: 12},
	}
	tree, _ := Build(toc, Options{}, discardLogger())

	ch := tree.Chapter("2")
	if ch == nil {
		t.Fatal("chapter 2 not found")
	}
	if ch.Title != "The Law of Motion" {
		t.Errorf("expected cleaned title %q, got %q", "The Law of Motion", ch.Title)
	}
}

func TestBuild_UnrecognizedChapterDropped(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Appendix", Page: 300},
		{Level: 1, Title: "Chapter 1 Real", Page: 5},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if chapters, _, _ := tree.Counts(); chapters != 1 {
		t.Errorf("expected 1 chapter, got %d", chapters)
	}
}

func TestBuild_FallbackRawTitlePolicy(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "  Appendix  A ", Page: 300},
		{Level: 2, Title: "1.1 Tables", Page: 301},
	}
	tree, warnings := Build(toc, Options{FallbackRawTitle: true}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	ch := tree.Chapter("Appendix A")
	if ch == nil {
		t.Fatal("expected fallback chapter keyed by cleaned raw title")
	}
	if ch.Title != "Appendix A" {
		t.Errorf("expected title %q, got %q", "Appendix A", ch.Title)
	}
	// The fallback chapter still accepts sections.
	if ch.Section("1.1") == nil {
		t.Error("expected section 1.1 under fallback chapter")
	}
}

func TestBuild_SectionAndSubsectionShapes(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 3 Dynamics", Page: 40},
		{Level: 2, Title: "3.1 Forces", Page: 41},
		{Level: 3, Title: "3.1.1 Net force", Page: 42},
		{Level: 2, Title: "3.2. Friction", Page: 50},
		{Level: 3, Title: "3.2.1 Static", Page: 51},
		{Level: 3, Title: "3.2.2 Kinetic", Page: 53},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	chapters, sections, subsections := tree.Counts()
	if chapters != 1 || sections != 2 || subsections != 3 {
		t.Fatalf("expected 1/2/3 nodes, got %d/%d/%d", chapters, sections, subsections)
	}

	sec := tree.Chapter("3").Section("3.2")
	if sec == nil {
		t.Fatal("section 3.2 not found")
	}
	if sec.Title != "Friction" {
		t.Errorf("expected title %q, got %q", "Friction", sec.Title)
	}
	if sec.StartPage != 49 {
		t.Errorf("expected zero-based start page 49, got %d", sec.StartPage)
	}
	if sec.Subsection("3.2.2") == nil {
		t.Error("subsection 3.2.2 not found")
	}
}

func TestBuild_ShapeOverridesLevel(t *testing.T) {
	// The dotted-id shape decides placement, not the declared outline level.
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 5 Heat", Page: 80},
		{Level: 2, Title: "5.1 Temperature", Page: 81},
		{Level: 2, Title: "5.1.1 Scales", Page: 82},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if tree.Chapter("5").Section("5.1").Subsection("5.1.1") == nil {
		t.Error("expected level-2 entry with a double-dotted id placed as a subsection")
	}
}

func TestBuild_InvalidNumberingShapeDropped(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 1 One", Page: 1},
		{Level: 2, Title: "1.2.3.4 Too deep", Page: 2},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if _, sections, subsections := tree.Counts(); sections != 0 || subsections != 0 {
		t.Errorf("expected entry dropped, got %d sections %d subsections", sections, subsections)
	}
}

func TestBuild_SectionBeforeChapterDropped(t *testing.T) {
	toc := []TOCEntry{
		{Level: 2, Title: "1.1 Early", Page: 2},
		{Level: 1, Title: "Chapter 1 One", Page: 1},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if _, sections, _ := tree.Counts(); sections != 0 {
		t.Errorf("expected 0 sections, got %d", sections)
	}
}

func TestBuild_OrphanSubsectionDropped(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 3 Three", Page: 20},
		// Subsection directly under the chapter: no current section.
		{Level: 3, Title: "3.1.1 Stray", Page: 21},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if _, sections, subsections := tree.Counts(); sections != 0 || subsections != 0 {
		t.Errorf("expected orphan dropped, got %d sections %d subsections", sections, subsections)
	}
}

func TestBuild_AttachOrphansCreatesImplicitSection(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 3 Three", Page: 20},
		{Level: 3, Title: "3.1.1 Stray", Page: 21},
		{Level: 3, Title: "3.1.2 Second stray", Page: 23},
	}
	tree, warnings := Build(toc, Options{AttachOrphans: true}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	sec := tree.Chapter("3").Section("3.1")
	if sec == nil {
		t.Fatal("expected implicit section 3.1")
	}
	if sec.Title != "" {
		t.Errorf("expected implicit section to be untitled, got %q", sec.Title)
	}
	if sec.StartPage != 20 {
		t.Errorf("expected implicit section to start at the orphan's page, got %d", sec.StartPage)
	}
	if sec.Subsection("3.1.1") == nil || sec.Subsection("3.1.2") == nil {
		t.Error("expected both strays under the implicit section")
	}
}

func TestBuild_DeepLevelsIgnored(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 1 One", Page: 1},
		{Level: 4, Title: "1.1.1.1 Ignored", Page: 2},
		{Level: 0, Title: "Cover", Page: 1},
	}
	tree, warnings := Build(toc, Options{}, discardLogger())

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	chapters, sections, subsections := tree.Counts()
	if chapters != 1 || sections != 0 || subsections != 0 {
		t.Errorf("expected only the chapter, got %d/%d/%d", chapters, sections, subsections)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	toc := []TOCEntry{
		{Level: 1, Title: "Chapter 1 One", Page: 1},
		{Level: 2, Title: "1.1 A", Page: 2},
		{Level: 3, Title: "1.1.1 B", Page: 3},
	}
	t1, w1 := Build(toc, Options{}, discardLogger())
	t2, w2 := Build(toc, Options{}, discardLogger())

	c1, s1, u1 := t1.Counts()
	c2, s2, u2 := t2.Counts()
	if c1 != c2 || s1 != s2 || u1 != u2 {
		t.Errorf("expected identical counts, got %d/%d/%d vs %d/%d/%d", c1, s1, u1, c2, s2, u2)
	}
	if len(w1) != len(w2) {
		t.Errorf("expected identical warnings, got %v vs %v", w1, w2)
	}
}
