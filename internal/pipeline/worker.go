package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/bookgest/internal/artifact"
	"github.com/dgallion1/bookgest/internal/bookdoc"
	"github.com/dgallion1/bookgest/internal/chunker"
	"github.com/dgallion1/bookgest/internal/config"
	"github.com/dgallion1/bookgest/internal/hierarchy"
	"github.com/dgallion1/bookgest/internal/pagerange"
	"github.com/dgallion1/bookgest/internal/segment"
)

// Worker processes a single book job: open the document, build the hierarchy
// from its TOC, attach text spans, chunk, and persist the artifacts.
type Worker struct {
	store    *artifact.Store
	log      *slog.Logger
	cfg      config.Config
	chunkCfg chunker.Config
}

func NewWorker(store *artifact.Store, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		store: store,
		log:   log,
		cfg:   cfg,
		chunkCfg: chunker.Config{
			ChunkSize:    cfg.DefaultChunkSize,
			ChunkOverlap: cfg.DefaultChunkOverlap,
			MinChunk:     100,
		},
	}
}

// Process runs the full extraction pipeline for a job. Parse warnings are
// non-fatal and accumulate on the job; only I/O failures fail the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	fail := func(phase string, err error) {
		log.Error(phase+" failed", "error", err)
		job.AddWarnings(fmt.Sprintf("%s: %s", phase, err))
		job.SetStatus(StatusFailed, phase)
	}

	// Phase 1: open the document. The backends need a file on disk.
	job.SetStatus(StatusParsing, "parsing")
	path, cleanup, err := writeTempFile(job.Filename, job.FileData())
	if err != nil {
		fail("parsing", err)
		return
	}
	defer cleanup()

	doc, err := bookdoc.Open(path)
	if err != nil {
		fail("parsing", err)
		return
	}
	defer doc.Close()

	if ctx.Err() != nil {
		fail("parsing", ctx.Err())
		return
	}

	// Phase 2: hierarchy skeleton from TOC metadata.
	job.SetStatus(StatusStructuring, "structuring")
	toc, err := doc.TOC()
	if err != nil {
		log.Warn("table of contents unavailable", "error", err)
		job.AddWarnings(fmt.Sprintf("table of contents unavailable: %s", err))
	}
	if len(toc) == 0 {
		job.AddWarnings("document has no table of contents")
	}
	tree, warnings := hierarchy.Build(toc, hierarchy.Options{
		ChapterWord:      job.ChapterWord,
		FallbackRawTitle: w.cfg.FallbackRawTitle,
		AttachOrphans:    w.cfg.AttachOrphans,
	}, log)
	job.AddWarnings(warnings...)

	// Phase 3: attach text spans.
	job.SetStatus(StatusSegmenting, "segmenting")
	switch job.Mode {
	case "pages":
		pagerange.Extract(doc, tree, log)
	default:
		text := bookdoc.FullText(doc, job.StartPage)
		seg := segment.New(segment.Options{
			ChapterWord: job.ChapterWord,
			FromStart:   w.cfg.SearchFromStart,
		}, log)
		job.AddWarnings(seg.Run(text, tree)...)
	}

	// Phase 4: derived chunks.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.ChunkBook(tree, w.chunkCfg)
	chapters, sections, subsections := tree.Counts()
	job.SetCounts(chapters, sections, subsections, len(chunks))
	log.Info("book processed",
		"chapters", chapters,
		"sections", sections,
		"subsections", subsections,
		"chunks", len(chunks),
	)

	// Phase 5: persist artifacts.
	job.SetStatus(StatusStoring, "storing")
	structureJSON, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		fail("storing", err)
		return
	}
	if err := w.store.Put(job.DocID, artifact.Structure, structureJSON); err != nil {
		fail("storing", err)
		return
	}

	if chunks == nil {
		chunks = []chunker.Chunk{}
	}
	chunksJSON, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		fail("storing", err)
		return
	}
	if err := w.store.Put(job.DocID, artifact.Chunks, chunksJSON); err != nil {
		fail("storing", err)
		return
	}

	if job.WarningCount() > 0 {
		job.SetStatus(StatusDegraded, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// writeTempFile materializes upload bytes under the original extension so
// backend dispatch works on the temp path.
func writeTempFile(filename string, data []byte) (string, func(), error) {
	ext := filepath.Ext(filename)
	tmp, err := os.CreateTemp("", "bookgest-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
