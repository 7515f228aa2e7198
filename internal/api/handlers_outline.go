package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
	"github.com/go-chi/chi/v5"
)

// uploadError carries the HTTP status a rejected upload maps to.
type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), formErrorStatus(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, data, uerr := s.readUpload(file, header.Filename)
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.code)
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": pollURL(job.ID),
	})
}

func (s *Server) handleBatchOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), formErrorStatus(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": sanitizeFilename(fh.Filename),
				"error":    "failed to open file",
			})
			continue
		}
		filename, data, uerr := s.readUpload(f, fh.Filename)
		f.Close()
		if uerr != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    uerr.msg,
			})
			continue
		}

		job := pipeline.NewJob(filename, data)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": pollURL(job.ID),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"jobs": results})
}

// handleSyncOutline runs one document inline and returns the rendered result.
func (s *Server) handleSyncOutline(w http.ResponseWriter, r *http.Request) {
	format, maxLevel, err := outputOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), formErrorStatus(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, data, uerr := s.readUpload(file, header.Filename)
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.code)
		return
	}

	a, err := s.orchestrator.RunOnce(r.Context(), filename, data)
	switch {
	case errors.Is(err, pipeline.ErrDeadline):
		jsonError(w, err.Error(), http.StatusGatewayTimeout)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.writeResult(w, format, a.Result.UpTo(maxLevel))
}

func (s *Server) handleOutlineStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleOutlineResult(w http.ResponseWriter, r *http.Request) {
	format, maxLevel, err := outputOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, ok := s.finishedResult(w, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	s.writeResult(w, format, res.UpTo(maxLevel))
}

func (s *Server) handleOutlineTree(w http.ResponseWriter, r *http.Request) {
	res, ok := s.finishedResult(w, chi.URLParam(r, "jobID"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctree.Build(res))
}

// finishedResult looks up a completed job, writing the error response when
// there is none.
func (s *Server) finishedResult(w http.ResponseWriter, jobID string) (outline.Result, bool) {
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return outline.Result{}, false
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		msg := "job failed"
		if len(snap.Progress.Errors) > 0 {
			msg = "job failed: " + strings.Join(snap.Progress.Errors, "; ")
		}
		jsonError(w, msg, http.StatusUnprocessableEntity)
		return outline.Result{}, false
	default:
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return outline.Result{}, false
	}
	res, ok := job.Result()
	if !ok {
		jsonError(w, "result unavailable", http.StatusInternalServerError)
		return outline.Result{}, false
	}
	return res, true
}

// outputOptions reads the format and max_level query parameters.
// max_level defaults to H4, which keeps every entry.
func outputOptions(r *http.Request) (render.Format, outline.Level, error) {
	q := r.URL.Query()
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		return "", 0, err
	}
	maxLevel := outline.LevelH4
	if v := q.Get("max_level"); v != "" {
		if err := maxLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return "", 0, err
		}
		if maxLevel < outline.LevelH1 {
			return "", 0, fmt.Errorf("max_level must be one of H1..H4, got %q", v)
		}
	}
	return format, maxLevel, nil
}

func (s *Server) writeResult(w http.ResponseWriter, format render.Format, res outline.Result) {
	w.Header().Set("Content-Type", render.ContentType(format))
	if err := render.Write(w, format, res); err != nil {
		s.log.Error("render failed", "format", format, "error", err)
	}
}

// readUpload sanitizes the name, enforces size limits and checks that PDFs
// are readable and within the page limit.
func (s *Server) readUpload(f multipart.File, name string) (string, []byte, *uploadError) {
	filename := sanitizeFilename(name)
	if !parser.IsSupportedExtension(filename) {
		return filename, nil, &uploadError{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
	}

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return filename, nil, &uploadError{"failed to read file", http.StatusInternalServerError}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return filename, nil, &uploadError{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		pages, err := parser.PDFPageCount(data)
		if err != nil {
			return filename, nil, &uploadError{err.Error(), http.StatusBadRequest}
		}
		if s.cfg.MaxPages > 0 && pages > s.cfg.MaxPages {
			return filename, nil, &uploadError{fmt.Sprintf("pdf has %d pages, limit is %d", pages, s.cfg.MaxPages), http.StatusRequestEntityTooLarge}
		}
	}
	return filename, data, nil
}

func pollURL(jobID string) string {
	return fmt.Sprintf("/api/outline/%s/status", jobID)
}

// formErrorStatus maps a multipart parse error to 413 when the body limit
// was hit.
func formErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
