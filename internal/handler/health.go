package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/templui/tagbox/internal/respond"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthHandler struct {
	db          Pinger
	promHandler http.Handler
}

func NewHealthHandler(db Pinger) *healthHandler {
	return &healthHandler{
		db:          db,
		promHandler: promhttp.Handler(),
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// Health answers 200 while the database responds and 503 otherwise
func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "ok",
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "fail"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respond.JSON(w, status, resp)
}

func (h *healthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
