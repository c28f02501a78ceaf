package cases

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler handles HTTP requests for cases.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new cases handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListCases handles GET /api/cases and GET /admin/cases.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	list, err := h.repo.List(r.Context(), sess)
	if err != nil {
		h.logger.Error("failed to list cases", "error", err)
		http.Error(w, "failed to list cases", http.StatusBadGateway)
		return
	}
	if list == nil {
		list = []Case{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"cases": list, "count": len(list)})
}

// CreateCase handles POST /admin/cases.
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess, _ := auth.SessionFromContext(r.Context())
	if err := h.repo.Create(r.Context(), sess, &req); err != nil {
		if errors.Is(err, ErrMissingTitle) || errors.Is(err, ErrMissingDescription) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create case", "error", err)
		http.Error(w, "failed to create case", http.StatusBadGateway)
		return
	}

	h.logger.Info("case created", "title", req.Title)
	w.WriteHeader(http.StatusCreated)
}

// DeleteCase handles DELETE /admin/cases/{caseID}.
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "caseID")
	sess, _ := auth.SessionFromContext(r.Context())
	if err := h.repo.Delete(r.Context(), sess, id); err != nil {
		h.logger.Error("failed to delete case", "error", err, "case_id", id)
		http.Error(w, "failed to delete case", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
