package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"scraper/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMirror struct {
	mu     sync.Mutex
	saved  []domain.Task
	err    error
	closed bool
}

func (f *fakeMirror) Name() string { return "fake" }

func (f *fakeMirror) SaveTask(_ context.Context, task domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, task)
	return f.err
}

func (f *fakeMirror) Ping(context.Context) error { return nil }

func (f *fakeMirror) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestReplicator_ForwardsInOrder(t *testing.T) {
	good := &fakeMirror{}
	failing := &fakeMirror{err: errors.New("unavailable")}
	rep := NewReplicator([]Mirror{failing, good}, 16, zap.NewNop())
	store := NewMemoryStore(rep)

	task := store.Create(testRequest(), time.Now())
	_, err := store.Update(task.ID, func(t *domain.Task) error { return t.Start(time.Now()) })
	require.NoError(t, err)
	_, err = store.Update(task.ID, func(t *domain.Task) error { return t.Fail("HTTP error: 500", time.Now()) })
	require.NoError(t, err)

	rep.Close()

	require.Len(t, good.saved, 3, "a failing mirror must not starve the others")
	assert.Equal(t, domain.StatusPending, good.saved[0].Status)
	assert.Equal(t, domain.StatusProcessing, good.saved[1].Status)
	assert.Equal(t, domain.StatusFailed, good.saved[2].Status)
	assert.True(t, good.closed)
	assert.True(t, failing.closed)
}

func TestReplicator_ObserveAfterCloseIsNoop(t *testing.T) {
	m := &fakeMirror{}
	rep := NewReplicator([]Mirror{m}, 1, zap.NewNop())
	rep.Close()
	rep.Close()

	assert.NotPanics(t, func() { rep.Observe(domain.Task{ID: "1"}) })
	assert.Empty(t, m.saved)
}

func TestRedisStore_SaveTask(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(rdb, "boot-1", time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	task := domain.NewTask("5", testRequest(), time.Now())
	require.NoError(t, task.Start(time.Now()))
	require.NoError(t, task.Complete(domain.NewResult([]domain.PageResult{
		{URL: "https://example.com", Page: 1, Format: domain.FormatText, Content: "hello"},
	}), time.Now()))

	require.NoError(t, store.SaveTask(ctx, task.Clone()))

	key := store.TaskKey("5")
	assert.Equal(t, "scraper:boot-1:task:5", key)
	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.Contains(t, raw, `"status":"completed"`)
	assert.Contains(t, raw, `"content":"hello"`)
	assert.Equal(t, time.Hour, mr.TTL(key))
}
