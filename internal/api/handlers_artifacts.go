package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/bookgest/internal/artifact"
	"github.com/go-chi/chi/v5"
)

// handleListBooks lists the document ids with stored artifacts.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.orchestrator.ArtifactStore().List()
	if err != nil {
		jsonError(w, "failed to list books: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"books": ids})
}

// handleStructure serves the structured tree artifact for a book.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, chi.URLParam(r, "docID"), artifact.Structure)
}

// handleChunks serves the derived chunks artifact for a book.
func (s *Server) handleChunks(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, chi.URLParam(r, "docID"), artifact.Chunks)
}

func (s *Server) serveArtifact(w http.ResponseWriter, docID, name string) {
	store := s.orchestrator.ArtifactStore()
	if !store.Exists(docID, name) {
		jsonError(w, "book not found", http.StatusNotFound)
		return
	}
	data, err := store.Get(docID, name)
	if err != nil {
		jsonError(w, "failed to read artifact: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDeleteBook removes all artifacts for a book.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.ArtifactStore().Delete(docID); err != nil {
		jsonError(w, "failed to delete book: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}
