// Package stats derives the dashboard counters and the per-service chart data
// from the current lead set. Aggregates are recomputed by re-scanning the
// full set on every load; nothing here is persisted.
package stats

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bscmoz/consultoria-platform/internal/dataclient"
	"github.com/bscmoz/consultoria-platform/internal/leads"
	"github.com/bscmoz/consultoria-platform/pkg/logging"
)

// Snapshot holds the four dashboard counters. Closed leads count toward Total
// but toward no displayed bucket.
type Snapshot struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Contacted int `json:"contacted"`
	Converted int `json:"converted"`
}

// Compute tallies the counters over a full unfiltered lead set.
func Compute(list []leads.Lead) Snapshot {
	s := Snapshot{Total: len(list)}
	for _, l := range list {
		switch l.Status {
		case leads.StatusNew:
			s.New++
		case leads.StatusContacted:
			s.Contacted++
		case leads.StatusConverted:
			s.Converted++
		}
	}
	return s
}

// ServiceStats is one chart row: status tallies for a single service.
type ServiceStats struct {
	Service   string `json:"service"`
	New       int    `json:"new"`
	Contacted int    `json:"contacted"`
	Converted int    `json:"converted"`
}

// GroupByService groups leads by exact service string, with no case or
// whitespace normalization. Closed leads increment nothing and silently drop
// out of the chart. Rows come back in first-appearance order.
func GroupByService(list []leads.Lead) []ServiceStats {
	index := make(map[string]int)
	var rows []ServiceStats
	for _, l := range list {
		i, ok := index[l.Service]
		if !ok {
			i = len(rows)
			index[l.Service] = i
			rows = append(rows, ServiceStats{Service: l.Service})
		}
		switch l.Status {
		case leads.StatusNew:
			rows[i].New++
		case leads.StatusContacted:
			rows[i].Contacted++
		case leads.StatusConverted:
			rows[i].Converted++
		}
	}
	return rows
}

// Aggregator fetches the full lead set independently of the triage filter and
// keeps the latest computed aggregates. The triage view calls Recompute after
// every successful mutation.
type Aggregator struct {
	repo   leads.Repository
	logger *logging.Logger

	// Same staleness rule as the triage view: only the latest issued
	// recompute may apply its result.
	seq atomic.Uint64

	mu       sync.Mutex
	snapshot Snapshot
	services []ServiceStats
}

// NewAggregator creates an aggregator over the lead repository.
func NewAggregator(repo leads.Repository, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{repo: repo, logger: logger}
}

// Recompute re-fetches every lead and rebuilds both aggregates.
func (a *Aggregator) Recompute(ctx context.Context, sess *dataclient.Session) (Snapshot, error) {
	seq := a.seq.Add(1)

	list, err := a.repo.List(ctx, sess, leads.ListFilter{Status: leads.StatusAll})
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Compute(list)
	services := GroupByService(list)

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.seq.Load() {
		a.logger.Debug("discarding stale stats fetch", "seq", seq)
		return a.snapshot, nil
	}
	a.snapshot = snapshot
	a.services = services
	return snapshot, nil
}

// Snapshot returns the last computed counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshot
}

// ByService returns the last computed chart rows.
func (a *Aggregator) ByService() []ServiceStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ServiceStats, len(a.services))
	copy(out, a.services)
	return out
}
