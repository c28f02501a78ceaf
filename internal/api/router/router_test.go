package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bscmoz/consultoria-platform/internal/auth"
	"github.com/bscmoz/consultoria-platform/internal/cases"
	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/internal/stats"
	"github.com/bscmoz/consultoria-platform/internal/studies"
	"github.com/bscmoz/consultoria-platform/internal/triage"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

const testSecret = "test-session-secret"

// newTestRouter wires the full stack over an in-memory backend.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	client := dataclient.NewMemoryClient()
	client.RegisterUser("admin@bsc.co.mz", "senha-forte")

	leadRepo := leads.NewRepository(client)
	view := triage.NewView(leadRepo, logger)
	agg := stats.NewAggregator(leadRepo, logger)
	gate := auth.NewGate(client, logger)
	gate.Resolve(nil)

	return New(&Config{
		Logger:         logger,
		IntakeHandler:  leads.NewHandler(leadRepo, nil, "258840000000", logger),
		TriageHandler:  triage.NewHandler(view, nil, logger),
		StatsHandler:   stats.NewHandler(agg, logger),
		CasesHandler:   cases.NewHandler(cases.NewRepository(client), logger),
		StudiesHandler: studies.NewHandler(studies.NewRepository(client), logger),
		AuthHandler:    auth.NewHandler(gate, testSecret, logger),
		SessionSecret:  testSecret,
	})
}

func adminToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "staff-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("unexpected body: %q", got)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/leads"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/admin/analytics"},
		{http.MethodPost, "/admin/cases"},
		{http.MethodPost, "/admin/studies"},
	}
	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestPublicRoutesOpen(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/cases", "/api/studies"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestIntakeThroughTriage(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(leads.CreateLeadRequest{
		Name:    "Ana Macamo",
		Email:   "ana@example.com",
		Phone:   "+258 84 123 4567",
		Message: "Preciso de um plano de negócio.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("intake: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	token := adminToken(t)
	req = httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("triage list: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var list triage.ListResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("expected 1 lead, got %d", list.Count)
	}
	lead := list.Leads[0]
	if lead.Name != "Ana Macamo" || lead.Status != leads.StatusNew {
		t.Errorf("unexpected lead: %+v", lead)
	}
	if lead.Service != leads.DefaultService {
		t.Errorf("expected default service, got %q", lead.Service)
	}

	// Move it through the pipeline.
	patch := bytes.NewReader([]byte(`{"status":"contacted"}`))
	req = httptest.NewRequest(http.MethodPatch, "/admin/leads/"+lead.ID+"/status", patch)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", w.Code)
	}
	var snap stats.Snapshot
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if snap.Total != 1 || snap.Contacted != 1 || snap.New != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	body := bytes.NewReader([]byte(`{"email":"admin@bsc.co.mz","password":"senha-forte"}`))
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body = bytes.NewReader([]byte(`{"email":"admin@bsc.co.mz","password":"errada"}`))
	req = httptest.NewRequest(http.MethodPost, "/auth/login", body)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", w.Code)
	}
}
