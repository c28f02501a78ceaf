package triage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/internal/observability/metrics"
	"github.com/bscmoz/consultoria-platform/internal/whatsapp"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Handler exposes the triage view over the admin API.
type Handler struct {
	view    *View
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

// NewHandler creates the triage handler.
func NewHandler(view *View, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{view: view, metrics: m, logger: logger}
}

// ListResponse is the triage list payload.
type ListResponse struct {
	Leads  []leads.Lead `json:"leads"`
	Count  int          `json:"count"`
	Status string       `json:"status"`
	Search string       `json:"search"`
}

// ListLeads handles GET /admin/leads?status=&search=. Every call re-fetches
// with the requested filter.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	filter := leads.ListFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	list, err := h.view.SetFilter(r.Context(), sess, filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		h.metrics.ObserveBackendError("select")
		http.Error(w, "failed to list leads", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Leads:  list,
		Count:  len(list),
		Status: h.view.Filter().Status,
		Search: h.view.Filter().Search,
	})
}

// DetailResponse is the expanded-row payload: contact detail, the offered
// actions and the outbound messaging link.
type DetailResponse struct {
	Lead         leads.Lead `json:"lead"`
	Expanded     bool       `json:"expanded"`
	Actions      []Action   `json:"actions,omitempty"`
	WhatsAppLink string     `json:"whatsapp_link,omitempty"`
}

// ToggleLead handles GET /admin/leads/{leadID}: it expands the row, or
// collapses it when called again.
func (h *Handler) ToggleLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	lead, ok := h.view.Lookup(id)
	if !ok {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}

	expanded := h.view.Toggle(id)
	resp := DetailResponse{Lead: lead, Expanded: expanded}
	if expanded {
		resp.Actions = AvailableActions(lead)
		resp.WhatsAppLink = whatsapp.LeadLink(lead.Phone, lead.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

type statusRequest struct {
	Status leads.Status `json:"status"`
}

// UpdateStatus handles PATCH /admin/leads/{leadID}/status with a contacted or
// converted target.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sess := sessionFrom(r)
	var err error
	switch req.Status {
	case leads.StatusContacted:
		err = h.view.MarkContacted(r.Context(), sess, id)
	case leads.StatusConverted:
		err = h.view.MarkConverted(r.Context(), sess, id)
	default:
		http.Error(w, "status must be contacted or converted", http.StatusUnprocessableEntity)
		return
	}

	if err != nil {
		var uerr *dataclient.UpdateError
		if errors.As(err, &uerr) && errors.Is(uerr.Err, dataclient.ErrNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, leads.ErrClosedLead) {
			http.Error(w, "closed leads cannot change status", http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to update lead status", "error", err, "lead_id", id, "status", req.Status)
		h.metrics.ObserveBackendError("update")
		http.Error(w, "failed to update lead", http.StatusBadGateway)
		return
	}

	h.logger.Info("lead status updated", "lead_id", id, "status", req.Status)
	h.metrics.ObserveTransition(string(req.Status))
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

// DeleteLead handles DELETE /admin/leads/{leadID}?confirm=true. The confirm
// flag is mandatory; deletes are irreversible.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leadID")
	confirmed := r.URL.Query().Get("confirm") == "true"

	sess := sessionFrom(r)
	if err := h.view.Delete(r.Context(), sess, id, confirmed); err != nil {
		if errors.Is(err, ErrConfirmationRequired) {
			http.Error(w, "confirmation required", http.StatusBadRequest)
			return
		}
		var derr *dataclient.DeleteError
		if errors.As(err, &derr) && errors.Is(derr.Err, dataclient.ErrNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete lead", "error", err, "lead_id", id)
		h.metrics.ObserveBackendError("delete")
		http.Error(w, "failed to delete lead", http.StatusBadGateway)
		return
	}

	h.logger.Info("lead deleted", "lead_id", id)
	h.metrics.ObserveDelete()
	w.WriteHeader(http.StatusNoContent)
}

func sessionFrom(r *http.Request) *dataclient.Session {
	sess, _ := auth.SessionFromContext(r.Context())
	return sess
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
