package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wealthlens-labs/wealthlens/internal/contract"
	"github.com/wealthlens-labs/wealthlens/internal/gateway"
	"github.com/wealthlens-labs/wealthlens/internal/testutil"
)

// stubQuerier returns canned results and counts calls. When block is
// set, Query waits until the channel is closed.
type stubQuerier struct {
	calls  atomic.Int64
	result contract.QueryResult
	err    error
	block  chan struct{}
}

func (q *stubQuerier) Query(ctx context.Context, query string) (contract.QueryResult, error) {
	q.calls.Add(1)
	if q.block != nil {
		<-q.block
	}
	return q.result, q.err
}

func textResult(text string) contract.QueryResult {
	return contract.QueryResult{TextResponse: text, Timestamp: time.Now()}
}

func tableOnlyResult() contract.QueryResult {
	return contract.QueryResult{
		Table: contract.TableData{
			Columns: []string{"Client Name"},
			Rows:    []contract.Row{{"Client Name": contract.ParseCell("Priya Shah")}},
		},
		Timestamp: time.Now(),
	}
}

func TestSubmit_Lifecycle(t *testing.T) {
	q := &stubQuerier{result: textResult("answer")}
	s := New(q, testutil.NewTestLogger(t))

	require.Equal(t, StatusIdle, s.State().Status)

	err := s.Submit(context.Background(), "  top portfolios  ")
	require.NoError(t, err)

	snap := s.State()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, "top portfolios", snap.Query, "query is trimmed")
	require.NotNil(t, snap.Result)
	assert.Equal(t, "answer", snap.Result.TextResponse)
	assert.Empty(t, snap.Err)
	require.Len(t, snap.History, 1)
	assert.True(t, snap.History[0].Success)
}

func TestSubmit_EmptyQuery(t *testing.T) {
	q := &stubQuerier{}
	s := New(q, testutil.NewTestLogger(t))

	err := s.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, StatusIdle, s.State().Status, "failed-fast submit must not change state")
	assert.Equal(t, int64(0), q.calls.Load())
	assert.Empty(t, s.History(), "rejected submissions are not recorded")
}

func TestSubmit_Failure(t *testing.T) {
	q := &stubQuerier{err: &gateway.Error{Kind: gateway.KindApplication, Message: "cannot answer that"}}
	s := New(q, testutil.NewTestLogger(t))

	err := s.Submit(context.Background(), "weird question")
	require.Error(t, err)

	snap := s.State()
	assert.Equal(t, StatusError, snap.Status)
	assert.Nil(t, snap.Result)
	assert.Equal(t, "cannot answer that", snap.Err)
	require.Len(t, snap.History, 1)
	assert.False(t, snap.History[0].Success)
	assert.Equal(t, "cannot answer that", snap.History[0].Error)
}

func TestSubmit_WhileLoading(t *testing.T) {
	q := &stubQuerier{result: textResult("slow answer"), block: make(chan struct{})}
	s := New(q, testutil.NewTestLogger(t))

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "first question") }()

	// Wait until the first submission reaches Loading.
	require.Eventually(t, func() bool {
		return s.State().Status == StatusLoading
	}, time.Second, time.Millisecond)

	err := s.Submit(context.Background(), "second question")
	assert.ErrorIs(t, err, ErrQueryInFlight)
	assert.Equal(t, "first question", s.State().Query, "concurrent submit must not touch the active query")
	assert.Equal(t, int64(1), q.calls.Load(), "no second network call")

	close(q.block)
	require.NoError(t, <-done)

	snap := s.State()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Len(t, snap.History, 1, "rejected submit leaves no history entry")
}

func TestSubmit_ErrorThenSuccess(t *testing.T) {
	q := &stubQuerier{err: errors.New("down")}
	s := New(q, testutil.NewTestLogger(t))

	require.Error(t, s.Submit(context.Background(), "q1"))
	assert.Equal(t, StatusError, s.State().Status)

	q.err = nil
	q.result = textResult("recovered")
	require.NoError(t, s.Submit(context.Background(), "q2"))

	snap := s.State()
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Empty(t, snap.Err, "prior error is cleared on the next submission")
	require.Len(t, snap.History, 2)
	assert.Equal(t, "q2", snap.History[0].Query, "history is newest first")
}

func TestHistory_BoundedAtCapacity(t *testing.T) {
	q := &stubQuerier{result: textResult("ok")}
	s := New(q, testutil.NewTestLogger(t))

	for i := 1; i <= HistoryCapacity+1; i++ {
		require.NoError(t, s.Submit(context.Background(), fmt.Sprintf("question %d", i)))
	}

	history := s.History()
	require.Len(t, history, HistoryCapacity)
	assert.Equal(t, "question 11", history[0].Query, "newest entry is at index 0")
	for _, e := range history {
		assert.NotEqual(t, "question 1", e.Query, "oldest entry is evicted")
	}
}

func TestClear(t *testing.T) {
	q := &stubQuerier{result: textResult("answer")}
	s := New(q, testutil.NewTestLogger(t))
	require.NoError(t, s.Submit(context.Background(), "question"))

	s.Clear()

	snap := s.State()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Err)
	assert.Len(t, snap.History, 1, "clear must not touch history")
}

func TestSetDraft(t *testing.T) {
	q := &stubQuerier{block: make(chan struct{})}
	s := New(q, testutil.NewTestLogger(t))

	s.SetDraft("partial quest")
	assert.Equal(t, "partial quest", s.State().Query)

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background(), "real question") }()
	require.Eventually(t, func() bool {
		return s.State().Status == StatusLoading
	}, time.Second, time.Millisecond)

	s.SetDraft("ignored while loading")
	assert.Equal(t, "real question", s.State().Query)

	close(q.block)
	<-done
}

func TestSelectTab_RejectsUnavailable(t *testing.T) {
	q := &stubQuerier{result: tableOnlyResult()}
	s := New(q, testutil.NewTestLogger(t))
	require.NoError(t, s.Submit(context.Background(), "show clients"))

	assert.False(t, s.SelectTab(TabChart), "chart tab has no data")
	assert.True(t, s.SelectTab(TabTable))
	assert.Equal(t, TabTable, s.State().ActiveTab)
}

func TestSubmit_TabFallsBackWhenDataMissing(t *testing.T) {
	q := &stubQuerier{result: textResult("has text")}
	s := New(q, testutil.NewTestLogger(t))
	require.NoError(t, s.Submit(context.Background(), "q1"))
	require.True(t, s.SelectTab(TabText))

	// Next result has only table data; active tab must fall back.
	q.result = tableOnlyResult()
	require.NoError(t, s.Submit(context.Background(), "q2"))
	assert.Equal(t, TabTable, s.State().ActiveTab)
}

func TestResolveTab_Order(t *testing.T) {
	res := tableOnlyResult()
	assert.Equal(t, TabTable, ResolveTab(TabChart, &res))
	assert.Equal(t, TabTable, ResolveTab(TabTable, &res))
	assert.Equal(t, TabText, ResolveTab(TabChart, nil), "no result defaults to text")
}

func TestSubscribe_PingsOnTransitions(t *testing.T) {
	q := &stubQuerier{result: textResult("ok")}
	s := New(q, testutil.NewTestLogger(t))

	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	require.NoError(t, s.Submit(context.Background(), "question"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change ping received after submit")
	}
}
