package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// stubRepo scripts repository behavior per test.
type stubRepo struct {
	listFn      func(filter leads.ListFilter) ([]leads.Lead, error)
	setStatusFn func(id string, status leads.Status) error
	deleteFn    func(id string) error
}

func (s *stubRepo) Create(ctx context.Context, sess *dataclient.Session, req *leads.CreateLeadRequest) error {
	return nil
}

func (s *stubRepo) List(ctx context.Context, sess *dataclient.Session, filter leads.ListFilter) ([]leads.Lead, error) {
	return s.listFn(filter)
}

func (s *stubRepo) SetStatus(ctx context.Context, sess *dataclient.Session, id string, status leads.Status) error {
	if s.setStatusFn == nil {
		return nil
	}
	return s.setStatusFn(id, status)
}

func (s *stubRepo) Delete(ctx context.Context, sess *dataclient.Session, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(id)
}

func lead(id, name string, status leads.Status) leads.Lead {
	return leads.Lead{ID: id, Name: name, Email: name + "@example.com", Phone: "84123", Status: status}
}

func TestView_SetFilterRefetches(t *testing.T) {
	var gotFilter leads.ListFilter
	repo := &stubRepo{listFn: func(filter leads.ListFilter) ([]leads.Lead, error) {
		gotFilter = filter
		return []leads.Lead{lead("1", "Ana", leads.StatusNew)}, nil
	}}
	view := NewView(repo, logging.Default())

	list, err := view.SetFilter(context.Background(), nil, leads.ListFilter{Status: "new", Search: "ana"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "new", gotFilter.Status)
	assert.Equal(t, "ana", gotFilter.Search)

	// Empty status defaults to all.
	_, err = view.SetFilter(context.Background(), nil, leads.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, leads.StatusAll, gotFilter.Status)
}

func TestView_StaleResponseDiscarded(t *testing.T) {
	view := (*View)(nil)
	fresh := []leads.Lead{lead("2", "Bruno", leads.StatusNew)}
	stale := []leads.Lead{lead("1", "Ana", leads.StatusNew)}

	repo := &stubRepo{}
	first := true
	repo.listFn = func(leads.ListFilter) ([]leads.Lead, error) {
		if first {
			first = false
			// A newer refresh is issued and completes while this
			// response is still in flight.
			_, err := view.Refresh(context.Background(), nil)
			require.NoError(t, err)
			return stale, nil
		}
		return fresh, nil
	}
	view = NewView(repo, logging.Default())

	got, err := view.Refresh(context.Background(), nil)
	require.NoError(t, err)

	// The outer (older) response must not overwrite the fresher snapshot.
	assert.Equal(t, fresh, got)
	assert.Equal(t, fresh, view.Leads())
}

func TestView_ToggleExpandCollapse(t *testing.T) {
	repo := &stubRepo{listFn: func(leads.ListFilter) ([]leads.Lead, error) {
		return []leads.Lead{lead("1", "Ana", leads.StatusNew)}, nil
	}}
	view := NewView(repo, logging.Default())
	_, err := view.Refresh(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, view.Toggle("1"))
	assert.Equal(t, "1", view.Expanded())
	assert.False(t, view.Toggle("1"))
	assert.Empty(t, view.Expanded())
}

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		status leads.Status
		want   []Action
	}{
		{leads.StatusNew, []Action{ActionMarkContacted, ActionMarkConverted, ActionDelete}},
		{leads.StatusContacted, []Action{ActionMarkConverted, ActionDelete}},
		{leads.StatusConverted, []Action{ActionMarkContacted, ActionDelete}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableActions(lead("1", "Ana", tt.status)))
		})
	}
}

func TestView_MarkContacted_RefetchesAndNotifies(t *testing.T) {
	listCalls := 0
	var wroteStatus leads.Status
	repo := &stubRepo{
		listFn: func(leads.ListFilter) ([]leads.Lead, error) {
			listCalls++
			return []leads.Lead{lead("1", "Ana", leads.StatusContacted)}, nil
		},
		setStatusFn: func(id string, status leads.Status) error {
			wroteStatus = status
			return nil
		},
	}
	view := NewView(repo, logging.Default())

	notified := 0
	view.OnUpdate(func(context.Context, *dataclient.Session) { notified++ })

	require.NoError(t, view.MarkContacted(context.Background(), nil, "1"))
	assert.Equal(t, leads.StatusContacted, wroteStatus)
	assert.Equal(t, 1, listCalls, "mutation must trigger a re-fetch")
	assert.Equal(t, 1, notified, "mutation must notify the stats hook")
}

func TestView_MutationFailure_DoesNotNotify(t *testing.T) {
	repo := &stubRepo{
		listFn: func(leads.ListFilter) ([]leads.Lead, error) { return nil, nil },
		setStatusFn: func(string, leads.Status) error {
			return &dataclient.UpdateError{Table: leads.Table, Err: dataclient.ErrNotFound}
		},
	}
	view := NewView(repo, logging.Default())

	notified := false
	view.OnUpdate(func(context.Context, *dataclient.Session) { notified = true })

	err := view.MarkConverted(context.Background(), nil, "missing")
	require.Error(t, err)
	assert.False(t, notified)
}

func TestView_DeleteRequiresConfirmation(t *testing.T) {
	deleted := false
	repo := &stubRepo{
		listFn:   func(leads.ListFilter) ([]leads.Lead, error) { return nil, nil },
		deleteFn: func(string) error { deleted = true; return nil },
	}
	view := NewView(repo, logging.Default())

	err := view.Delete(context.Background(), nil, "1", false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.False(t, deleted)

	require.NoError(t, view.Delete(context.Background(), nil, "1", true))
	assert.True(t, deleted)
}

func TestView_DeleteCollapsesExpandedRow(t *testing.T) {
	repo := &stubRepo{listFn: func(leads.ListFilter) ([]leads.Lead, error) {
		return []leads.Lead{lead("1", "Ana", leads.StatusNew)}, nil
	}}
	view := NewView(repo, logging.Default())
	_, err := view.Refresh(context.Background(), nil)
	require.NoError(t, err)

	view.Toggle("1")
	require.NoError(t, view.Delete(context.Background(), nil, "1", true))
	assert.Empty(t, view.Expanded())
}

func TestView_RefreshError(t *testing.T) {
	repo := &stubRepo{listFn: func(leads.ListFilter) ([]leads.Lead, error) {
		return nil, &dataclient.FetchError{Table: leads.Table, Err: errors.New("down")}
	}}
	view := NewView(repo, logging.Default())

	_, err := view.Refresh(context.Background(), nil)
	var ferr *dataclient.FetchError
	assert.ErrorAs(t, err, &ferr)
}
