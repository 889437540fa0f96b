package handler

import (
	"fmt"
	"net/http"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

type fileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *fileHandler {
	return &fileHandler{fileService: fileService}
}

func (h *fileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.Files(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, files)
}

func (h *fileHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	file, err := h.fileService.ByID(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, file)
}

func (h *fileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var update service.FileUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		badRequest(w, err)
		return
	}

	file, err := h.fileService.Update(r.Context(), ctxkeys.UserID(r.Context()), id, update)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, file)
}

// Delete removes the file, its tag links and its stored content
func (h *fileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	err = h.fileService.Delete(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("file %d deleted", id))
}

func (h *fileHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.fileService.Search(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("query"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, matches)
}

func (h *fileHandler) ByType(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.ByType(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("type"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, files)
}
