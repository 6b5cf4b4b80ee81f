// Package store owns the query lifecycle state: the active query, its
// result or error, the selected result tab, and the bounded submission
// history. All mutation goes through Store's operations; readers get
// immutable snapshots. The store is injected wherever it is needed, never
// held as a package global.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
)

// Status is the query lifecycle state. The machine is
// Idle → Loading → {Success, Error} → Loading → …; Loading is always the
// immediate predecessor of Success or Error.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Tab identifies a result presentation tab.
type Tab int

const (
	TabText Tab = iota
	TabTable
	TabChart
)

func (t Tab) String() string {
	switch t {
	case TabText:
		return "text"
	case TabTable:
		return "table"
	case TabChart:
		return "chart"
	}
	return "unknown"
}

// HistoryCapacity bounds the submission history ring.
const HistoryCapacity = 10

var (
	// ErrEmptyQuery rejects blank submissions.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrQueryInFlight rejects a submission while one is loading.
	// Surfaces as a "please wait" condition; nothing is queued.
	ErrQueryInFlight = errors.New("a query is already running, please wait")
)

// querier is the gateway surface the store needs.
type querier interface {
	Query(ctx context.Context, query string) (contract.QueryResult, error)
}

// Snapshot is an immutable copy of the store's state.
type Snapshot struct {
	Query     string
	Status    Status
	Result    *contract.QueryResult
	Err       string
	ActiveTab Tab
	History   []contract.HistoryEntry // newest first
}

// Store is the authoritative state container for one console session.
type Store struct {
	mu        sync.Mutex
	gw        querier
	logger    *slog.Logger
	now       func() time.Time
	query     string
	status    Status
	result    *contract.QueryResult
	errMsg    string
	activeTab Tab
	history   *ring

	listenerMu sync.RWMutex
	listeners  map[chan struct{}]struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the history timestamp source in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store backed by the given gateway.
func New(gw querier, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		gw:        gw,
		logger:    logger,
		now:       time.Now,
		history:   newRing(HistoryCapacity),
		listeners: make(map[chan struct{}]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns an immutable snapshot of the current state.
func (s *Store) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Query:     s.query,
		Status:    s.status,
		Result:    s.result,
		Err:       s.errMsg,
		ActiveTab: s.activeTab,
		History:   s.history.newestFirst(),
	}
}

// Submit runs one query through the full lifecycle. It fails fast when
// the query is blank or another submission is in flight; neither case
// mutates state or reaches the network. The gateway call happens
// synchronously; callers wanting concurrency wrap Submit in a goroutine.
// Exactly one history entry is recorded per accepted submission.
func (s *Store) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}

	s.mu.Lock()
	if s.status == StatusLoading {
		s.mu.Unlock()
		return ErrQueryInFlight
	}
	s.query = query
	s.status = StatusLoading
	s.errMsg = ""
	s.mu.Unlock()
	s.broadcast()

	s.logger.Debug("submitting query", "query", query)
	result, err := s.gw.Query(ctx, query)

	s.mu.Lock()
	entry := contract.HistoryEntry{Query: query, Timestamp: s.now()}
	if err != nil {
		s.status = StatusError
		s.result = nil
		s.errMsg = gateway.UserMessage(err)
		entry.Error = s.errMsg
	} else {
		s.status = StatusSuccess
		s.result = &result
		entry.Success = true
		// A new result may lack data for the selected tab; fall back to
		// the first populated one so the console never shows a dead tab.
		s.activeTab = ResolveTab(s.activeTab, &result)
	}
	s.history.push(entry)
	s.mu.Unlock()
	s.broadcast()

	return err
}

// SetDraft updates the draft query text without side effects. Ignored
// while a submission is in flight so the active query stays untouched.
func (s *Store) SetDraft(query string) {
	s.mu.Lock()
	if s.status != StatusLoading {
		s.query = query
	}
	s.mu.Unlock()
}

// Clear resets the result, error and query text and returns to Idle.
// History is preserved.
func (s *Store) Clear() {
	s.mu.Lock()
	s.query = ""
	s.result = nil
	s.errMsg = ""
	s.status = StatusIdle
	s.mu.Unlock()
	s.broadcast()
}

// SelectTab switches the active tab. Selecting a tab with no data is a
// no-op and returns false.
func (s *Store) SelectTab(tab Tab) bool {
	s.mu.Lock()
	if !TabAvailable(tab, s.result) {
		s.mu.Unlock()
		return false
	}
	changed := s.activeTab != tab
	s.activeTab = tab
	s.mu.Unlock()
	if changed {
		s.broadcast()
	}
	return true
}

// History returns the submission history, newest first.
func (s *Store) History() []contract.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.newestFirst()
}

// TabAvailable reports whether a tab has content for the given result.
func TabAvailable(tab Tab, res *contract.QueryResult) bool {
	switch tab {
	case TabText:
		return res.HasText()
	case TabTable:
		return res.HasTable()
	case TabChart:
		return res.HasChart()
	}
	return false
}

// ResolveTab keeps the active tab when it still has data, otherwise
// falls back to the first available in order text, table, chart.
func ResolveTab(active Tab, res *contract.QueryResult) Tab {
	if TabAvailable(active, res) {
		return active
	}
	for _, tab := range []Tab{TabText, TabTable, TabChart} {
		if TabAvailable(tab, res) {
			return tab
		}
	}
	return TabText
}
