package handler

import (
	"fmt"
	"net/http"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

type fileTagHandler struct {
	fileTagService *service.FileTagService
}

func NewFileTagHandler(fileTagService *service.FileTagService) *fileTagHandler {
	return &fileTagHandler{fileTagService: fileTagService}
}

type linkRequest struct {
	FileID int64 `json:"id_file"`
	TagID  int64 `json:"id_tag"`
}

func (h *fileTagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}

	fileTag, err := h.fileTagService.Link(r.Context(), ctxkeys.UserID(r.Context()), req.FileID, req.TagID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, fileTag)
}

func (h *fileTagHandler) ByFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	fileTags, err := h.fileTagService.ByFile(r.Context(), ctxkeys.UserID(r.Context()), fileID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondList(w, fileTags, fmt.Sprintf("no tags found for file %d", fileID))
}

func (h *fileTagHandler) ByTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	fileTags, err := h.fileTagService.ByTag(r.Context(), ctxkeys.UserID(r.Context()), tagID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondList(w, fileTags, fmt.Sprintf("no files found for tag %d", tagID))
}

func (h *fileTagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	err = h.fileTagService.Delete(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("association %d deleted", id))
}

func (h *fileTagHandler) DeleteByFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	_, err = h.fileTagService.DeleteByFile(r.Context(), ctxkeys.UserID(r.Context()), fileID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("tags for file %d deleted", fileID))
}

func (h *fileTagHandler) DeleteByTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	n, err := h.fileTagService.DeleteByTag(r.Context(), ctxkeys.UserID(r.Context()), tagID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, fmt.Sprintf("no files found for tag %d", tagID))
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("files for tag %d unlinked", tagID))
}
