package handler

import (
	"net/http"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

type userHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *userHandler {
	return &userHandler{userService: userService}
}

// Me returns the authenticated account
func (h *userHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *userHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update service.UserUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.userService.Update(r.Context(), ctxkeys.UserID(r.Context()), update)
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, user)
}

func (h *userHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "account deleted")
}
