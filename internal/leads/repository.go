package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
)

// Table is the backend table holding leads.
const Table = "leads"

// Repository defines typed operations over the leads table. The repository is
// the sole writer of lead records; views and aggregators only read and
// re-fetch.
type Repository interface {
	Create(ctx context.Context, sess *dataclient.Session, req *CreateLeadRequest) error
	List(ctx context.Context, sess *dataclient.Session, filter ListFilter) ([]Lead, error)
	SetStatus(ctx context.Context, sess *dataclient.Session, id string, status Status) error
	Delete(ctx context.Context, sess *dataclient.Session, id string) error
}

// ClientRepository stores leads in the hosted backend.
type ClientRepository struct {
	client dataclient.Client
}

// NewRepository builds a repository over the data client.
func NewRepository(client dataclient.Client) *ClientRepository {
	return &ClientRepository{client: client}
}

// Create validates and inserts a lead. Status is always stored as new and the
// id and timestamps are store-assigned; callers re-fetch to observe the row.
func (r *ClientRepository) Create(ctx context.Context, sess *dataclient.Session, req *CreateLeadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	service := strings.TrimSpace(req.Service)
	if service == "" {
		service = DefaultService
	}
	record := map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"phone":   req.Phone,
		"service": service,
		"message": req.Message,
		"source":  req.Source,
		"status":  StatusNew,
	}
	return r.client.Insert(ctx, sess, Table, record)
}

// List fetches leads ordered most recent first, equality-filtered by status
// at the backend (none for "all") and reduced in memory by the search text.
func (r *ClientRepository) List(ctx context.Context, sess *dataclient.Session, filter ListFilter) ([]Lead, error) {
	q := dataclient.Query{OrderBy: "created_at", Descending: true}
	if filter.Status != "" && filter.Status != StatusAll {
		q.Eq = &dataclient.Filter{Column: "status", Value: filter.Status}
	}

	raw, err := r.client.Select(ctx, sess, Table, q)
	if err != nil {
		return nil, err
	}

	var all []Lead
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, &dataclient.FetchError{Table: Table, Err: fmt.Errorf("decode rows: %w", err)}
	}

	if filter.Search == "" {
		return all, nil
	}
	matched := make([]Lead, 0, len(all))
	for _, l := range all {
		if filter.matchesSearch(l) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

// SetStatus moves a lead to contacted or converted after checking the
// transition policy against the stored row. Writing the status it already has
// is a no-op the backend accepts.
func (r *ClientRepository) SetStatus(ctx context.Context, sess *dataclient.Session, id string, status Status) error {
	current, err := r.getByID(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := ValidateTransition(current.Status, status); err != nil {
		return err
	}
	return r.client.Update(ctx, sess, Table, id, map[string]any{"status": status})
}

// Delete removes a lead permanently. Confirmation is the caller's duty; the
// repository performs the write unconditionally.
func (r *ClientRepository) Delete(ctx context.Context, sess *dataclient.Session, id string) error {
	return r.client.Delete(ctx, sess, Table, id)
}

func (r *ClientRepository) getByID(ctx context.Context, sess *dataclient.Session, id string) (*Lead, error) {
	raw, err := r.client.Select(ctx, sess, Table, dataclient.Query{
		Eq: &dataclient.Filter{Column: "id", Value: id},
	})
	if err != nil {
		return nil, err
	}
	var rows []Lead
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, &dataclient.FetchError{Table: Table, Err: fmt.Errorf("decode rows: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &dataclient.UpdateError{Table: Table, Err: dataclient.ErrNotFound}
	}
	return &rows[0], nil
}
