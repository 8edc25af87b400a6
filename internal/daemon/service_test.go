package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgy583/account-book/internal/ledger"
	"github.com/mgy583/account-book/internal/model"
)

type fakeSource struct {
	mu   sync.Mutex
	snap ledger.Snapshot
	err  error
}

func (f *fakeSource) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeSource) Snapshot() ledger.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) set(orders []model.Order, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = ledger.Snapshot{Orders: orders, ServerTotal: len(orders), Loaded: true}
	f.err = err
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

func newTestService(src Source) *Service {
	s := New(Config{BaseURL: "http://books.test/api", Interval: 10 * time.Second}, src, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestDiffSnapshots(t *testing.T) {
	delta := diffSnapshots(Snapshot{Orders: 10, MonthOrders: 3}, Snapshot{Orders: 12, MonthOrders: 2})
	assert.Equal(t, 2, delta.Orders)
	assert.Equal(t, -1, delta.MonthOrders)
	assert.False(t, delta.isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, &fakeSource{}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollOnce_PublishesOnlyOnChange(t *testing.T) {
	src := &fakeSource{}
	src.set([]model.Order{
		{ID: "1", Amount: 10, Currency: "CNY", Date: "2025-06-01"},
		{ID: "2", Amount: 5, Currency: "USD", Date: "2025-05-01"},
	}, nil)
	s := newTestService(src)

	ch := make(chan Event, 4)
	unsubscribe := s.Subscribe(ch)
	defer unsubscribe()

	s.PollOnce(context.Background())
	first := <-ch
	assert.Equal(t, "snapshot", first.Type)
	assert.Equal(t, 2, first.Snapshot.Orders)
	assert.Equal(t, 1, first.Snapshot.MonthOrders)
	require.Len(t, first.Snapshot.ThisMonth, 1)
	assert.Equal(t, "CNY", first.Snapshot.ThisMonth[0].Group)

	s.PollOnce(context.Background())
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for unchanged snapshot: %+v", ev)
	default:
	}

	src.set(append(src.Snapshot().Orders, model.Order{ID: "3", Amount: 1, Currency: "CNY", Date: "2025-06-14"}), nil)
	s.PollOnce(context.Background())
	ev := <-ch
	assert.Equal(t, "orders_delta", ev.Type)
	assert.Equal(t, 1, ev.Delta.Orders)
	assert.Equal(t, 1, ev.Delta.MonthOrders)
	assert.Equal(t, int64(3), s.Status().PollCount)
}

func TestPollOnce_RecordsError(t *testing.T) {
	src := &fakeSource{}
	src.set(nil, errors.New("request failed: 500"))
	s := newTestService(src)

	s.PollOnce(context.Background())

	st := s.Status()
	assert.Equal(t, "request failed: 500", st.LastError)
	assert.Zero(t, st.EventCount)
}

func TestRouter_Status(t *testing.T) {
	src := &fakeSource{}
	src.set([]model.Order{{ID: "1", Amount: 3, Currency: "CNY", Date: "2025-06-02"}}, nil)
	s := newTestService(src)
	s.PollOnce(context.Background())

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "http://books.test/api", st.BaseURL)
	assert.Equal(t, 1, st.Summary.Orders)
	assert.Equal(t, 1, st.EventCount)

	health, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
