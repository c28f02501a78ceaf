package stats

import (
	"encoding/json"
	"net/http"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler exposes the dashboard counters and the per-service chart data.
type Handler struct {
	agg    *Aggregator
	logger *logging.Logger
}

// NewHandler creates the stats handler.
func NewHandler(agg *Aggregator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{agg: agg, logger: logger}
}

// GetStats handles GET /admin/stats, recomputing on every load.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	snapshot, err := h.agg.Recompute(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err)
		http.Error(w, "failed to compute stats", http.StatusBadGateway)
		return
	}
	writeJSON(w, snapshot)
}

// AnalyticsResponse wraps the chart rows.
type AnalyticsResponse struct {
	Services []ServiceStats `json:"services"`
}

// GetAnalytics handles GET /admin/analytics, recomputing on every load.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	if _, err := h.agg.Recompute(r.Context(), sess); err != nil {
		h.logger.Error("failed to compute analytics", "error", err)
		http.Error(w, "failed to compute analytics", http.StatusBadGateway)
		return
	}
	writeJSON(w, AnalyticsResponse{Services: h.agg.ByService()})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
