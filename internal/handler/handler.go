package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

// maxJSONBody caps JSON request bodies; uploads have their own limit
const maxJSONBody = 1 << 20

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is required")
	}
	if err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// fail maps a service error to a status code and a message that is safe to
// show. Missing and foreign resources both answer 403 so ids cannot be enumerated.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotFound):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		respond.Error(w, http.StatusConflict, "email already exists")
	case errors.Is(err, service.ErrConflict):
		respond.Error(w, http.StatusConflict, "a tag with this name already exists")
	case errors.Is(err, service.ErrStorageWrite):
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respond.Error(w, http.StatusInternalServerError, "failed to store file")
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func badRequest(w http.ResponseWriter, err error) {
	respond.Error(w, http.StatusBadRequest, err.Error())
}

// respondList answers 404 with notFound when items is empty
func respondList[T any](w http.ResponseWriter, items []T, notFound string) {
	if len(items) == 0 {
		respond.Error(w, http.StatusNotFound, notFound)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}
