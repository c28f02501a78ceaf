package studies

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

func TestPublishRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     PublishRequest
		wantErr error
	}{
		{name: "valid", req: PublishRequest{Title: "Mercado informal", Content: "..."}},
		{name: "missing title", req: PublishRequest{Content: "..."}, wantErr: ErrMissingFields},
		{name: "missing content", req: PublishRequest{Title: "t"}, wantErr: ErrMissingFields},
		{name: "whitespace only", req: PublishRequest{Title: " ", Content: "\t"}, wantErr: ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepository_Publish_SetsSubmissionTime(t *testing.T) {
	published := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	repo := NewRepository(dataclient.NewMemoryClient())
	repo.now = func() time.Time { return published }

	err := repo.Publish(context.Background(), nil, &PublishRequest{
		Title:   "Mercado informal em Maputo",
		Content: "Conteúdo do estudo.",
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	list, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 study, got %d", len(list))
	}
	if !list[0].CreatedAt.Equal(published) {
		t.Errorf("expected created_at %v, got %v", published, list[0].CreatedAt)
	}
}

func TestRepository_List_NewestFirst(t *testing.T) {
	repo := NewRepository(dataclient.NewMemoryClient())
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}

	for _, title := range []string{"Primeiro", "Segundo", "Terceiro"} {
		if err := repo.Publish(context.Background(), nil, &PublishRequest{Title: title, Content: "c"}); err != nil {
			t.Fatalf("Publish %q failed: %v", title, err)
		}
	}

	list, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var got []string
	for _, s := range list {
		got = append(got, s.Title)
	}
	want := []string{"Terceiro", "Segundo", "Primeiro"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestHandler_PublishStudy(t *testing.T) {
	repo := NewRepository(dataclient.NewMemoryClient())
	handler := NewHandler(repo, logging.Default())

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(PublishRequest{Title: "só título"})
		req := httptest.NewRequest(http.MethodPost, "/admin/studies", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PublishStudy(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
		if got := w.Body.String(); got != "Título e conteúdo são obrigatórios.\n" {
			t.Errorf("unexpected body: %q", got)
		}
	})

	t.Run("published", func(t *testing.T) {
		body, _ := json.Marshal(PublishRequest{Title: "t", Content: "c"})
		req := httptest.NewRequest(http.MethodPost, "/admin/studies", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.PublishStudy(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
		}
		list, _ := repo.List(context.Background(), nil)
		if len(list) != 1 {
			t.Errorf("expected 1 study stored, got %d", len(list))
		}
	})
}
