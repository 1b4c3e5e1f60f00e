package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	BookgestAPIKey string

	// Artifact storage
	DataDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Extraction defaults
	StartPage   int    // 1-based page where body text extraction begins
	ChapterWord string // localized chapter word, e.g. "Chapter" or "Глава"
	SegmentMode string // "search" (heading search) or "pages" (page ranges)

	// Policy knobs
	SearchFromStart  bool // legacy: search headings from the text start
	FallbackRawTitle bool // keep digit-less chapter titles keyed by raw title
	AttachOrphans    bool // give orphan subsections an implicit parent section

	// Chunking defaults
	DefaultChunkSize    int
	DefaultChunkOverlap int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		BookgestAPIKey: os.Getenv("BOOKGEST_API_KEY"),

		DataDir: envOr("DATA_DIR", "./data"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		StartPage:   envInt("START_PAGE", 1),
		ChapterWord: envOr("CHAPTER_WORD", "Chapter"),
		SegmentMode: envOr("SEGMENT_MODE", "search"),

		SearchFromStart:  envBool("SEARCH_FROM_START", false),
		FallbackRawTitle: envBool("CHAPTER_FALLBACK_RAW_TITLE", false),
		AttachOrphans:    envBool("ATTACH_ORPHAN_SUBSECTIONS", false),

		DefaultChunkSize:    envInt("DEFAULT_CHUNK_SIZE", 1500),
		DefaultChunkOverlap: envInt("DEFAULT_CHUNK_OVERLAP", 200),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.StartPage <= 0 {
		cfg.StartPage = 1
	}
	if cfg.SegmentMode != "search" && cfg.SegmentMode != "pages" {
		cfg.SegmentMode = "search"
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1500
	}
	if cfg.DefaultChunkOverlap <= 0 {
		cfg.DefaultChunkOverlap = 200
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BookgestAPIKey == "" {
		return fmt.Errorf("BOOKGEST_API_KEY is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
