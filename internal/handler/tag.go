package handler

import (
	"fmt"
	"net/http"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

type tagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *tagHandler {
	return &tagHandler{tagService: tagService}
}

// Create returns the caller's existing tag of the same name instead of a duplicate
func (h *tagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var spec model.TagSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		badRequest(w, err)
		return
	}

	tag, err := h.tagService.CreateOrReuse(r.Context(), ctxkeys.UserID(r.Context()), spec)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, tag)
}

func (h *tagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.Tags(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondList(w, tags, "no tags found")
}

func (h *tagHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	tag, err := h.tagService.ByID(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tag)
}

func (h *tagHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.tagService.Search(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("query"))
	if err != nil {
		fail(w, r, err)
		return
	}
	respondList(w, matches, "no tags match the query")
}

func (h *tagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var update service.TagUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		badRequest(w, err)
		return
	}

	tag, err := h.tagService.Update(r.Context(), ctxkeys.UserID(r.Context()), id, update)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, tag)
}

// Delete removes the tag from every file, then the tag itself
func (h *tagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	err = h.tagService.Delete(r.Context(), ctxkeys.UserID(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, fmt.Sprintf("tag %d deleted", id))
}
