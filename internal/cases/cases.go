// Package cases manages the short success-story summaries shown on the
// landing page. A case is immutable once created; fixing one means delete and
// recreate.
package cases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
)

// Table is the backend table holding cases.
const Table = "cases"

var (
	// ErrMissingTitle is returned when the title is empty.
	ErrMissingTitle = errors.New("title is required")

	// ErrMissingDescription is returned when the description is empty.
	ErrMissingDescription = errors.New("description is required")
)

// Case is a short success-story summary.
type Case struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCaseRequest is the admin editor's submission.
type CreateCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the submission.
func (r *CreateCaseRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrMissingDescription
	}
	return nil
}

// Repository defines typed operations over the cases table.
type Repository interface {
	Create(ctx context.Context, sess *dataclient.Session, req *CreateCaseRequest) error
	List(ctx context.Context, sess *dataclient.Session) ([]Case, error)
	Delete(ctx context.Context, sess *dataclient.Session, id string) error
}

// ClientRepository stores cases in the hosted backend.
type ClientRepository struct {
	client dataclient.Client
}

// NewRepository builds a repository over the data client.
func NewRepository(client dataclient.Client) *ClientRepository {
	return &ClientRepository{client: client}
}

// Create validates and inserts a case; id and created_at are store-assigned.
func (r *ClientRepository) Create(ctx context.Context, sess *dataclient.Session, req *CreateCaseRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return r.client.Insert(ctx, sess, Table, map[string]any{
		"title":       req.Title,
		"description": req.Description,
	})
}

// List fetches cases, most recent first.
func (r *ClientRepository) List(ctx context.Context, sess *dataclient.Session) ([]Case, error) {
	raw, err := r.client.Select(ctx, sess, Table, dataclient.Query{
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		return nil, err
	}
	var out []Case
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &dataclient.FetchError{Table: Table, Err: fmt.Errorf("decode rows: %w", err)}
	}
	return out, nil
}

// Delete removes a case permanently.
func (r *ClientRepository) Delete(ctx context.Context, sess *dataclient.Session, id string) error {
	return r.client.Delete(ctx, sess, Table, id)
}
