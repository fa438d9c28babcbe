// Package httpserver exposes the operational HTTP surface: health,
// Prometheus metrics, and read-only failure bay inspection.
package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"anchor/internal/failure"
	"anchor/pkg/derrors"
)

// listLimit caps how many records a single bay listing returns.
const listLimit = 200

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// OpsHandler serves /healthz, /metrics, and the bay inspection endpoints.
type OpsHandler struct {
	bays   failure.Store
	logger *slog.Logger
}

// NewOpsHandler wires the ops routes. bays may be nil, in which case the
// bay endpoints report service unavailable.
func NewOpsHandler(bays failure.Store, logger *slog.Logger) *OpsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpsHandler{bays: bays, logger: logger}
}

// Router returns the chi router for the ops server.
func (h *OpsHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/bays", h.listBays)
	r.Get("/bays/{bay}", h.listRecords)

	return r
}

func (h *OpsHandler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OpsHandler) listBays(w http.ResponseWriter, r *http.Request) {
	if h.bays == nil {
		h.writeError(w, http.StatusServiceUnavailable, "bay store not configured")
		return
	}
	names, err := h.bays.Bays(r.Context())
	if err != nil {
		h.logger.Error("list bays", "error", err)
		h.writeError(w, http.StatusInternalServerError, "list bays")
		return
	}

	type baySummary struct {
		Bay   string `json:"bay"`
		Count int    `json:"count"`
	}
	out := make([]baySummary, 0, len(names))
	for _, name := range names {
		count, err := h.bays.Count(r.Context(), name)
		if err != nil {
			h.logger.Error("count bay", "bay", name, "error", err)
			h.writeError(w, http.StatusInternalServerError, "count bay")
			return
		}
		out = append(out, baySummary{Bay: name, Count: count})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *OpsHandler) listRecords(w http.ResponseWriter, r *http.Request) {
	if h.bays == nil {
		h.writeError(w, http.StatusServiceUnavailable, "bay store not configured")
		return
	}
	bay := chi.URLParam(r, "bay")
	records, err := h.bays.List(r.Context(), bay, listLimit)
	if err != nil {
		if derrors.HasCode(err, derrors.CodeNotFound) {
			h.writeError(w, http.StatusNotFound, "unknown bay")
			return
		}
		h.logger.Error("list bay records", "bay", bay, "error", err)
		h.writeError(w, http.StatusInternalServerError, "list bay records")
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *OpsHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

func (h *OpsHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
