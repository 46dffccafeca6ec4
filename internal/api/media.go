package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/mabuhanifa/aahaar-backend/internal/media"
)

// maxUploadBytes caps proof uploads at 25 MiB.
const maxUploadBytes = 25 << 20

// MediaHandler handles proof upload and download endpoints.
type MediaHandler struct {
	Media *media.Service
}

// Upload handles POST /api/media. Multipart form with a "file" part and
// a donation_id or task_id field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file part required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "reading upload")
		return
	}

	donationID := parseOptionalID(r.FormValue("donation_id"))
	taskID := parseOptionalID(r.FormValue("task_id"))

	var uploadedBy *int64
	if claims := GetClaims(r.Context()); claims != nil {
		uploadedBy = &claims.UserID
	}

	m, err := h.Media.Upload(r.Context(), header.Filename, data, donationID, taskID, uploadedBy)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}

// Get handles GET /api/media/{id}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	m, err := h.Media.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, m)
}

// File handles GET /api/media/{id}/file, serving the raw bytes.
func (h *MediaHandler) File(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	data, mime, err := h.Media.Data(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func parseOptionalID(value string) *int64 {
	if value == "" {
		return nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
