package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bscmoz/consultoria-platform/internal/observability/metrics"
	"github.com/bscmoz/consultoria-platform/internal/whatsapp"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler handles the public intake form endpoint.
type Handler struct {
	repo           Repository
	metrics        *metrics.LeadMetrics
	whatsAppNumber string
	logger         *logging.Logger
}

// NewHandler creates the intake handler.
func NewHandler(repo Repository, m *metrics.LeadMetrics, whatsAppNumber string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:           repo,
		metrics:        m,
		whatsAppNumber: whatsAppNumber,
		logger:         logger,
	}
}

// CreateLead handles POST /api/leads. The submission is validated before any
// round trip, source is pinned to the landing form tag regardless of what the
// caller sends, and backend failures answer with the WhatsApp fallback rather
// than the raw error.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode intake request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pedido inválido."})
		return
	}

	req.Source = SourceLanding

	if err := h.repo.Create(r.Context(), nil, &req); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		h.logger.Error("failed to create lead", "error", err, "source", req.Source)
		h.metrics.ObserveBackendError("insert")
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":    "Não foi possível enviar. Experimente contactar via WhatsApp.",
			"whatsapp": whatsapp.EnquiryLink(h.whatsAppNumber, req.Service, req.Name),
		})
		return
	}

	h.logger.Info("lead created", "source", req.Source, "service", req.Service)
	h.metrics.ObserveCreated(req.Source)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Obrigado! Seu pedido foi enviado."})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
