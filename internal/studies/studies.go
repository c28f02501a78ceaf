// Package studies publishes article write-ups. Studies are append-only from
// this surface: they can be created and listed, never edited or deleted.
package studies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
)

// Table is the backend table holding studies.
const Table = "studies"

// ErrMissingFields is returned when title or content is empty.
var ErrMissingFields = errors.New("title and content are required")

// Study is a published article.
type Study struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishRequest is the admin editor's submission.
type PublishRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks the submission.
func (r *PublishRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Content) == "" {
		return ErrMissingFields
	}
	return nil
}

// Repository defines typed operations over the studies table.
type Repository interface {
	Publish(ctx context.Context, sess *dataclient.Session, req *PublishRequest) error
	List(ctx context.Context, sess *dataclient.Session) ([]Study, error)
}

// ClientRepository stores studies in the hosted backend.
type ClientRepository struct {
	client dataclient.Client
	now    func() time.Time
}

// NewRepository builds a repository over the data client.
func NewRepository(client dataclient.Client) *ClientRepository {
	return &ClientRepository{client: client, now: time.Now}
}

// Publish validates and inserts a study. Unlike leads and cases, created_at
// is supplied at submission time rather than store-assigned.
func (r *ClientRepository) Publish(ctx context.Context, sess *dataclient.Session, req *PublishRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return r.client.Insert(ctx, sess, Table, map[string]any{
		"title":      req.Title,
		"content":    req.Content,
		"created_at": r.now().UTC().Format(time.RFC3339),
	})
}

// List fetches studies, most recent first.
func (r *ClientRepository) List(ctx context.Context, sess *dataclient.Session) ([]Study, error) {
	raw, err := r.client.Select(ctx, sess, Table, dataclient.Query{
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	var out []Study
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &dataclient.FetchError{Table: Table, Err: fmt.Errorf("decode rows: %w", err)}
	}
	return out, nil
}
