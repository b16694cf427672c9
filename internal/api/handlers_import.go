package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/importer"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	job, code, err := s.newImportJob(header.Filename, file, r.FormValue("key"), r.FormValue("overwrite") == "true")
	if err != nil {
		jsonError(w, err.Error(), code)
		return
	}
	job.Title = r.FormValue("title")

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"doc_key":  job.DocKey,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/import/%s/status", job.ID),
	})
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleBatchImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	overwrite := r.FormValue("overwrite") == "true"

	var results []map[string]any
	for _, fh := range files {
		job, err := s.openImportJob(fh, overwrite)
		if err == nil {
			err = s.orchestrator.Submit(job)
		}
		if err != nil {
			results = append(results, map[string]any{
				"filename": sanitizeFilename(fh.Filename),
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, map[string]any{
			"filename": job.Filename,
			"job_id":   job.ID,
			"doc_key":  job.DocKey,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/import/%s/status", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

func (s *Server) openImportJob(fh *multipart.FileHeader, overwrite bool) (*pipeline.Job, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()
	job, _, err := s.newImportJob(fh.Filename, f, "", overwrite)
	return job, err
}

// newImportJob validates an upload and wraps it in a queued job. The
// returned status code describes a validation failure.
func (s *Server) newImportJob(name string, r io.Reader, key string, overwrite bool) (*pipeline.Job, int, error) {
	filename := sanitizeFilename(name)
	if !importer.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	if key == "" {
		key = docKeyFromFilename(filename)
	}
	if !store.ValidKey(key) {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid document key %q", key)
	}

	// Read file data.
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	return pipeline.NewJob(key, filename, data, overwrite), 0, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}

// docKeyFromFilename derives a document key from an upload name:
// "My Notes.md" becomes "my-notes".
func docKeyFromFilename(filename string) string {
	base := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	var b strings.Builder
	dash := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	key := b.String()
	if len(key) > 128 {
		key = key[:128]
	}
	key = strings.Trim(key, "-._")
	if key == "" {
		return "document"
	}
	return key
}
