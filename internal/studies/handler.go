package studies

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler handles HTTP requests for studies.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new studies handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListStudies handles GET /api/studies and GET /admin/studies.
func (h *Handler) ListStudies(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	list, err := h.repo.List(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to list studies", "error", err)
		http.Error(w, "failed to list studies", http.StatusBadGateway)
		return
	}
	if list == nil {
		list = []Study{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"studies": list, "count": len(list)})
}

// PublishStudy handles POST /admin/studies.
func (h *Handler) PublishStudy(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, _ := auth.SessionFromContext(r.Context())
	if err := h.repo.Publish(r.Context(), sess, &req); err != nil {
		if errors.Is(err, ErrMissingFields) {
			http.Error(w, "Título e conteúdo são obrigatórios.", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to publish study", "error", err)
		http.Error(w, "failed to publish study", http.StatusBadGateway)
		return
	}

	h.logger.Info("study published", "title", req.Title)
	w.WriteHeader(http.StatusCreated)
}
