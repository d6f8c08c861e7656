package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/jarvault/internal/common"
	"github.com/dmitrijs2005/jarvault/internal/hashx"
	"github.com/dmitrijs2005/jarvault/internal/server/services"
)

// maxMemory is the multipart budget kept in memory; larger parts spill to
// temp files.
const maxMemory = 32 << 20

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) uploadJar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: form field 'file' is required", common.ErrorValidation))
		return
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	jar, err := s.jars.Upload(r.Context(), fh.Filename, f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jar)
}

func (s *HTTPServer) uploadJarsBulk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", common.ErrorValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: no files provided, use 'files' or 'file' fields", common.ErrorValidation))
		return
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		defer f.Close()
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Content: f})
	}

	created, err := s.jars.UploadBulk(r.Context(), uploads)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) listJars(w http.ResponseWriter, r *http.Request) {
	list, err := s.jars.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getJar(w http.ResponseWriter, r *http.Request) {
	jar, err := s.jars.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jar)
}

func (s *HTTPServer) downloadJar(w http.ResponseWriter, r *http.Request) {
	jar, f, err := s.jars.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	h := w.Header()
	h.Set("Content-Type", common.JarContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": jar.Name}))
	h.Set("ETag", strconv.Quote(jar.SHA256))
	if fi, err := f.Stat(); err == nil {
		h.Set("Content-Length", strconv.FormatInt(fi.Size(), 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.CopyBuffer(w, f, make([]byte, hashx.ChunkSize)); err != nil {
		// Headers are gone; all we can do is note it.
		s.logger.Warn(r.Context(), "download interrupted", "id", jar.ID, "error", err)
	}
}

func (s *HTTPServer) deleteJar(w http.ResponseWriter, r *http.Request) {
	err := s.jars.Delete(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("password"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorGone):
		return http.StatusGone
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorPasswordRequired):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		if !errors.Is(err, common.ErrorMisconfigured) {
			msg = common.ErrorInternal.Error()
		}
	}
	writeJSON(w, status, errorBody{Error: msg})
}
