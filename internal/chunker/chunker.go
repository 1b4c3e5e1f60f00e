// Package chunker cuts the segmented book tree into sized, breadcrumbed text
// chunks for downstream consumers.
package chunker

import (
	"strings"

	"github.com/dgallion1/bookgest/internal/hierarchy"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// Chunk is a sized text segment with its position in the book hierarchy.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"` // e.g. ["3 Dynamics", "3.2 Friction"]
	StartPage  int      `json:"start_page"` // 1-based page the node begins on
}

// ChunkBook walks the tree in declaration order and chunks every node that
// received text. Nodes whose headings were never located contribute nothing.
func ChunkBook(tree *hierarchy.Tree, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var chunks []Chunk
	index := 0

	for _, ch := range tree.Chapters {
		crumb := []string{label(ch.ID, ch.Title)}
		index = emit(&chunks, ch, crumb, ch.StartPage, cfg, index)
		for _, sec := range ch.Sections {
			secCrumb := append(crumb[:1:1], label(sec.ID, sec.Title))
			index = emit(&chunks, sec, secCrumb, sec.StartPage, cfg, index)
			for _, sub := range sec.Subsections {
				subCrumb := append(secCrumb[:2:2], label(sub.ID, sub.Title))
				index = emit(&chunks, sub, subCrumb, sub.StartPage, cfg, index)
			}
		}
	}

	return chunks
}

func label(id, title string) string {
	if title == "" {
		return id
	}
	return id + " " + title
}

// emit chunks a single node's text, if any, appending to chunks and
// returning the next index.
func emit(chunks *[]Chunk, node hierarchy.Node, breadcrumb []string, startPage int, cfg Config, index int) int {
	text, ok := node.Text()
	if !ok {
		return index
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return index
	}

	tokens := EstimateTokens(text)
	if tokens <= cfg.ChunkSize {
		if tokens >= cfg.MinChunk {
			*chunks = append(*chunks, Chunk{
				Text:       text,
				Index:      index,
				Breadcrumb: copyBreadcrumb(breadcrumb),
				StartPage:  startPage + 1,
			})
			index++
		}
		return index
	}

	for _, part := range splitText(text, cfg.ChunkSize, cfg.ChunkOverlap) {
		if EstimateTokens(part) >= cfg.MinChunk {
			*chunks = append(*chunks, Chunk{
				Text:       part,
				Index:      index,
				Breadcrumb: copyBreadcrumb(breadcrumb),
				StartPage:  startPage + 1,
			})
			index++
		}
	}
	return index
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// A single paragraph above the target is split further by sentences.
		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	// Approximate: 1.33 tokens per word.
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
