package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/go-chi/chi/v5"
)

// documentBody is the payload of PUT /api/documents/{key}. A missing
// version overwrites unconditionally; 0 only creates.
type documentBody struct {
	Content string `json:"content"`
	Version *int64 `json:"version"`
}

// sectionBody is the payload of PUT /api/documents/{key}/sections/{id}.
type sectionBody struct {
	Content string `json:"content"`
	Version *int64 `json:"version"`
}

func expectedVersion(v *int64) int64 {
	if v == nil {
		return store.AnyVersion
	}
	return *v
}

// handleListDocuments lists stored documents without their content.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.editor.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]any{
			"key":        d.Key,
			"version":    d.Version,
			"bytes":      len(d.Content),
			"updated_at": d.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.editor.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var body documentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := s.editor.Put(r.Context(), chi.URLParam(r, "key"), body.Content, expectedVersion(body.Version))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	code := http.StatusOK
	if doc.Version == 1 {
		code = http.StatusCreated
	}
	writeJSON(w, code, map[string]any{"key": doc.Key, "version": doc.Version})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.editor.Delete(r.Context(), key); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "deleted": true})
}

// handleOutline returns the document outline as XML (default) or JSON.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	o, err := s.editor.Outline(r.Context(), key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(o.Version, 10)))
	switch format := r.URL.Query().Get("format"); format {
	case "", "xml":
		out, err := outline.RenderXML(o.Tree, r.URL.Query().Get("indent") == "true")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write(out)
	case "json":
		writeJSON(w, http.StatusOK, map[string]any{
			"key":     o.Key,
			"version": o.Version,
			"outline": outline.Markup(o.Tree),
		})
	default:
		jsonError(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
	}
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	id, err := doctree.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sec, err := s.editor.Section(r.Context(), chi.URLParam(r, "key"), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handlePutSection(w http.ResponseWriter, r *http.Request) {
	id, err := doctree.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var body sectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	key := chi.URLParam(r, "key")
	res, err := s.editor.ReplaceSection(r.Context(), key, id, body.Content, expectedVersion(body.Version))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"key":     key,
		"version": res.Document.Version,
		"outline": outline.Markup(res.Tree),
	})
}

// handlePreview renders posted text without storing it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	html, err := s.editor.Preview(body.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}
