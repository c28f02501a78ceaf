// Package triage models the admin screen where staff review, contact and
// convert leads. The view keeps its own last-fetched snapshot and re-fetches
// after every filter change or mutation; it never writes leads itself beyond
// issuing repository commands.
package triage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Action is an affordance offered on an expanded lead row.
type Action string

const (
	ActionMarkContacted Action = "mark_contacted"
	ActionMarkConverted Action = "mark_converted"
	ActionDelete        Action = "delete"
)

// ErrConfirmationRequired is returned when a delete arrives without the
// explicit confirmation flag. Deletes are irreversible and never retried.
var ErrConfirmationRequired = errors.New("delete requires confirmation")

// UpdateFunc is notified after every successful mutation so derived views
// (the stats cards) can recompute.
type UpdateFunc func(ctx context.Context, sess *dataclient.Session)

// View holds the triage screen state: the active filter, the last-fetched
// lead snapshot and the currently expanded row.
type View struct {
	repo   leads.Repository
	logger *logging.Logger

	onUpdate UpdateFunc

	// seq guards against overlapping fetches: a response is applied only
	// when its sequence number is still the latest issued.
	seq atomic.Uint64

	mu         sync.Mutex
	filter     leads.ListFilter
	snapshot   []leads.Lead
	expandedID string
}

// NewView creates a triage view showing all leads.
func NewView(repo leads.Repository, logger *logging.Logger) *View {
	if logger == nil {
		logger = logging.Default()
	}
	return &View{
		repo:   repo,
		logger: logger,
		filter: leads.ListFilter{Status: leads.StatusAll},
	}
}

// OnUpdate registers the hook fired after successful mutations.
func (v *View) OnUpdate(fn UpdateFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onUpdate = fn
}

// Filter returns the active filter.
func (v *View) Filter() leads.ListFilter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Leads returns a copy of the last-applied snapshot.
func (v *View) Leads() []leads.Lead {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]leads.Lead, len(v.snapshot))
	copy(out, v.snapshot)
	return out
}

// SetFilter changes the status filter and search text and re-fetches.
func (v *View) SetFilter(ctx context.Context, sess *dataclient.Session, filter leads.ListFilter) ([]leads.Lead, error) {
	if filter.Status == "" {
		filter.Status = leads.StatusAll
	}
	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return v.Refresh(ctx, sess)
}

// Refresh re-fetches the lead list for the active filter. If a newer refresh
// was issued while this one was in flight, the stale response is discarded
// and the fresher snapshot is returned instead.
func (v *View) Refresh(ctx context.Context, sess *dataclient.Session) ([]leads.Lead, error) {
	seq := v.seq.Add(1)
	filter := v.Filter()

	list, err := v.repo.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq.Load() {
		v.logger.Debug("discarding stale lead fetch", "seq", seq)
		out := make([]leads.Lead, len(v.snapshot))
		copy(out, v.snapshot)
		return out, nil
	}
	v.snapshot = list
	out := make([]leads.Lead, len(list))
	copy(out, list)
	return out, nil
}

// Toggle expands the given row, or collapses it when it is already expanded.
// It reports whether the row is expanded afterwards.
func (v *View) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.expandedID == id {
		v.expandedID = ""
		return false
	}
	v.expandedID = id
	return true
}

// Expanded returns the id of the expanded row, if any.
func (v *View) Expanded() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.expandedID
}

// Lookup finds a lead in the current snapshot.
func (v *View) Lookup(id string) (leads.Lead, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, l := range v.snapshot {
		if l.ID == id {
			return l, true
		}
	}
	return leads.Lead{}, false
}

// AvailableActions lists the affordances for a lead: marking a status it
// already has is hidden, delete is always offered.
func AvailableActions(l leads.Lead) []Action {
	var actions []Action
	if l.Status != leads.StatusContacted {
		actions = append(actions, ActionMarkContacted)
	}
	if l.Status != leads.StatusConverted {
		actions = append(actions, ActionMarkConverted)
	}
	return append(actions, ActionDelete)
}

// MarkContacted moves a lead to contacted, then re-fetches and notifies.
func (v *View) MarkContacted(ctx context.Context, sess *dataclient.Session, id string) error {
	return v.setStatus(ctx, sess, id, leads.StatusContacted)
}

// MarkConverted moves a lead to converted, then re-fetches and notifies.
func (v *View) MarkConverted(ctx context.Context, sess *dataclient.Session, id string) error {
	return v.setStatus(ctx, sess, id, leads.StatusConverted)
}

func (v *View) setStatus(ctx context.Context, sess *dataclient.Session, id string, status leads.Status) error {
	if err := v.repo.SetStatus(ctx, sess, id, status); err != nil {
		return err
	}
	v.afterMutation(ctx, sess)
	return nil
}

// Delete removes a lead after an explicit confirmation, then re-fetches and
// notifies.
func (v *View) Delete(ctx context.Context, sess *dataclient.Session, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := v.repo.Delete(ctx, sess, id); err != nil {
		return err
	}
	v.mu.Lock()
	if v.expandedID == id {
		v.expandedID = ""
	}
	v.mu.Unlock()
	v.afterMutation(ctx, sess)
	return nil
}

// afterMutation re-fetches the list and fires the update hook. A failed
// re-fetch leaves the previous snapshot in place until the next successful
// one; the transient disagreement is tolerated.
func (v *View) afterMutation(ctx context.Context, sess *dataclient.Session) {
	if _, err := v.Refresh(ctx, sess); err != nil {
		v.logger.Error("failed to refresh leads after mutation", "error", err)
	}
	v.mu.Lock()
	fn := v.onUpdate
	v.mu.Unlock()
	if fn != nil {
		fn(ctx, sess)
	}
}
