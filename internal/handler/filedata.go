package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
	"github.com/templui/tagbox/internal/validation"
)

// multipartMemory is how much of a multipart body is kept in memory before
// parts spill to temporary files
const multipartMemory = 32 << 20

type fileDataHandler struct {
	uploadService *service.UploadService
	fileService   *service.FileService
	maxUploadSize int64
}

func NewFileDataHandler(uploadService *service.UploadService, fileService *service.FileService, maxUploadSize int64) *fileDataHandler {
	return &fileDataHandler{
		uploadService: uploadService,
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
	}
}

// Upload stores a multipart "file" part and links the tags given in the
// optional "tags" field, a JSON array of {"name", "description", "color"}.
func (h *fileDataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the tags field and multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+maxJSONBody)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	err = validation.ValidateUpload(header, h.maxUploadSize)
	if err != nil {
		badRequest(w, err)
		return
	}

	var specs []model.TagSpec
	if raw := r.FormValue("tags"); raw != "" {
		err = json.Unmarshal([]byte(raw), &specs)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "tags must be a JSON array of objects with a name")
			return
		}
	}

	uploaded, err := h.uploadService.UploadWithTags(r.Context(), ctxkeys.UserID(r.Context()), header.Filename, file, specs)
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, uploaded)
}

// Content returns one file with its bytes base64 encoded
func (h *fileDataHandler) Content(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	content, err := h.fileService.Content(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, content)
}

// Contents returns every file of the caller with its bytes base64 encoded
func (h *fileDataHandler) Contents(w http.ResponseWriter, r *http.Request) {
	contents, err := h.fileService.Contents(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, contents)
}

// Download streams a file as an attachment under its display name
func (h *fileDataHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	file, rc, err := h.fileService.Open(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Warn("download interrupted", "error", err, "file_id", file.ID)
	}
}
