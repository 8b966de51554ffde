package webseek

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
	"github.com/ollachat/ollachat/internal/kv"
)

type mockCacheStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newMockCacheStore() *mockCacheStore {
	return &mockCacheStore{data: map[string][]byte{}}
}

func (m *mockCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, kv.ErrKeyNotFound
}

func (m *mockCacheStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type mockSearcher struct {
	out   string
	ok    bool
	calls int
}

func (m *mockSearcher) SearchWeb(_ context.Context, _ string, _ *domain.Location) (string, bool) {
	m.calls++
	return m.out, m.ok
}

func TestCachedSearcher_MissThenHit(t *testing.T) {
	inner := &mockSearcher{out: "[1] t\nsnippet", ok: true}
	store := newMockCacheStore()
	c := NewCachedSearcher(inner, store, time.Minute, nil, zap.NewNop())

	got, ok := c.SearchWeb(context.Background(), "query", nil)
	if !ok || got != inner.out {
		t.Fatalf("miss path: got (%q, %v)", got, ok)
	}
	if inner.calls != 1 {
		t.Fatalf("expected one inner call, got %d", inner.calls)
	}

	got, ok = c.SearchWeb(context.Background(), "query", nil)
	if !ok || got != inner.out {
		t.Fatalf("hit path: got (%q, %v)", got, ok)
	}
	if inner.calls != 1 {
		t.Errorf("hit must not call the inner searcher, calls=%d", inner.calls)
	}
}

func TestCachedSearcher_ExhaustionNotCached(t *testing.T) {
	inner := &mockSearcher{out: "", ok: false}
	store := newMockCacheStore()
	c := NewCachedSearcher(inner, store, time.Minute, nil, zap.NewNop())

	if _, ok := c.SearchWeb(context.Background(), "query", nil); ok {
		t.Fatal("expected no results")
	}
	if store.sets != 0 {
		t.Error("exhaustion must not be cached")
	}

	c.SearchWeb(context.Background(), "query", nil)
	if inner.calls != 2 {
		t.Errorf("second call must retry the chain, calls=%d", inner.calls)
	}
}

func TestCachedSearcher_StoreErrorsDegradeToMiss(t *testing.T) {
	inner := &mockSearcher{out: "[1] t\nsnippet", ok: true}
	store := newMockCacheStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	c := NewCachedSearcher(inner, store, time.Minute, nil, zap.NewNop())

	got, ok := c.SearchWeb(context.Background(), "query", nil)
	if !ok || got != inner.out {
		t.Fatalf("cache failure must fall through to the chain, got (%q, %v)", got, ok)
	}
}

func TestCachedSearcher_KeyIncludesCity(t *testing.T) {
	inner := &mockSearcher{out: "[1] t\nsnippet", ok: true}
	store := newMockCacheStore()
	c := NewCachedSearcher(inner, store, time.Minute, nil, zap.NewNop())

	c.SearchWeb(context.Background(), "weather", &domain.Location{City: "Paris"})
	c.SearchWeb(context.Background(), "weather", &domain.Location{City: "Lyon"})

	if inner.calls != 2 {
		t.Errorf("different cities must not share a cache entry, calls=%d", inner.calls)
	}
}
