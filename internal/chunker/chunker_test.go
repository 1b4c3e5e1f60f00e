package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/bookgest/internal/hierarchy"
)

func TestChunkBook_SmallChapterFitsOneChunk(t *testing.T) {
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("1", "Intro", 0)
	ch.SetText(strings.Repeat("word ", 200)) // ~266 tokens, above MinChunk

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestChunkBook_LargeSectionRequiresSplitting(t *testing.T) {
	// ~3000 words -> ~3990 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)

	tree := hierarchy.NewTree()
	ch := tree.AddChapter("2", "Dynamics", 10)
	sec := ch.AddSection("2.1", "Friction", 11)
	sec.SetText(largeText)

	cfg := Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     10,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}

	// Verify sequential indexing.
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}

	// Verify no chunk exceeds the target size by a large margin.
	// (Due to paragraph/sentence boundaries, slight overflows are expected.)
	for i, c := range chunks {
		tokens := EstimateTokens(c.Text)
		// Allow 2x the target as a generous ceiling.
		if tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkBook_BreadcrumbPropagation(t *testing.T) {
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("3", "Waves", 40)
	sec := ch.AddSection("3.2", "Interference", 45)
	sub := sec.AddSubsection("3.2.1", "Two slits", 47)
	sub.SetText(strings.Repeat("content ", 200))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	bc := chunks[0].Breadcrumb
	want := []string{"3 Waves", "3.2 Interference", "3.2.1 Two slits"}
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
	if chunks[0].StartPage != 48 {
		t.Errorf("expected 1-based start page 48, got %d", chunks[0].StartPage)
	}
}

func TestChunkBook_BreadcrumbIsolation(t *testing.T) {
	// Breadcrumbs from sibling sections must not leak into each other.
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("1", "One", 0)
	a := ch.AddSection("1.1", "A", 1)
	a.SetText(strings.Repeat("alpha ", 200))
	b := ch.AddSection("1.2", "B", 2)
	b.SetText(strings.Repeat("beta ", 200))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if got := chunks[0].Breadcrumb[len(chunks[0].Breadcrumb)-1]; got != "1.1 A" {
		t.Errorf("chunk 0 breadcrumb tail: expected %q, got %q", "1.1 A", got)
	}
	if got := chunks[1].Breadcrumb[len(chunks[1].Breadcrumb)-1]; got != "1.2 B" {
		t.Errorf("chunk 1 breadcrumb tail: expected %q, got %q", "1.2 B", got)
	}
}

func TestChunkBook_MinChunkFiltering(t *testing.T) {
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("1", "Tiny", 0)
	ch.SetText("Hi")

	cfg := Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkBook_EmptyTree(t *testing.T) {
	chunks := ChunkBook(hierarchy.NewTree(), DefaultConfig())
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkBook_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("1", "Doc", 0)
	ch.SetText(strings.Repeat("word ", 200))

	chunks := ChunkBook(tree, Config{})
	if len(chunks) < 1 {
		t.Errorf("expected at least 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestChunkBook_UnlocatedNodeContributesNothing(t *testing.T) {
	// A chapter whose heading was never found has no text; its located
	// section still chunks with a full breadcrumb.
	tree := hierarchy.NewTree()
	ch := tree.AddChapter("4", "Missing", 60)
	sec := ch.AddSection("4.1", "Found", 61)
	sec.SetText(strings.Repeat("leaf content ", 100))

	cfg := Config{
		ChunkSize:    2000,
		ChunkOverlap: 100,
		MinChunk:     10,
	}
	chunks := ChunkBook(tree, cfg)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := []string{"4 Missing", "4.1 Found"}
	bc := chunks[0].Breadcrumb
	if len(bc) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], bc[i])
		}
	}
}
