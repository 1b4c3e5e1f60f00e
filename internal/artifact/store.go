// Package artifact persists the per-book JSON artifacts produced by the
// pipeline (the structured tree and the derived chunks) on disk.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Artifact file names.
const (
	Structure = "structure.json"
	Chunks    = "chunks.json"
)

// Store is a disk-backed artifact store keyed by document id.
type Store struct {
	dir string
}

// NewStore creates the base directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put writes one named artifact for a document, replacing any previous one.
// The write goes through a temp file and a rename so readers never observe a
// partial artifact.
func (s *Store) Put(docID, name string, data []byte) error {
	docDir, err := s.docDir(docID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return fmt.Errorf("create doc dir: %w", err)
	}

	tmp, err := os.CreateTemp(docDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(docDir, name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Get reads one named artifact for a document.
func (s *Store) Get(docID, name string) ([]byte, error) {
	docDir, err := s.docDir(docID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(docDir, name))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// Exists reports whether the document has the named artifact.
func (s *Store) Exists(docID, name string) bool {
	docDir, err := s.docDir(docID)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(docDir, name))
	return err == nil
}

// List returns the document ids that have at least one artifact, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes all artifacts for a document.
func (s *Store) Delete(docID string) error {
	docDir, err := s.docDir(docID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(docDir); err != nil {
		return fmt.Errorf("delete artifacts: %w", err)
	}
	return nil
}

// docDir rejects ids that could escape the base directory.
func (s *Store) docDir(docID string) (string, error) {
	if docID == "" || strings.ContainsAny(docID, `/\`) || strings.Contains(docID, "..") {
		return "", fmt.Errorf("invalid doc id: %q", docID)
	}
	return filepath.Join(s.dir, docID), nil
}
