package storage

import (
	"context"
	"sync"
	"time"

	"scraper/internal/domain"

	"go.uber.org/zap"
)

// Mirror is an external, write-only copy of task records.
type Mirror interface {
	Name() string
	SaveTask(ctx context.Context, task domain.Task) error
	Ping(ctx context.Context) error
	Close()
}

// Replicator forwards task snapshots to every mirror from a single
// goroutine, so writers never wait on mirror I/O and per-task write order
// is preserved.
type Replicator struct {
	mirrors []Mirror
	queue   chan domain.Task
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewReplicator(mirrors []Mirror, buffer int, l *zap.Logger) *Replicator {
	r := &Replicator{
		mirrors: mirrors,
		queue:   make(chan domain.Task, buffer),
		timeout: 5 * time.Second,
		logger:  l,
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Observe queues a snapshot. When the buffer is full the snapshot is dropped;
// the in-memory store stays authoritative.
func (r *Replicator) Observe(task domain.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- task:
	default:
		r.logger.Warn("mirror queue full, dropping task snapshot",
			zap.String("task_id", task.ID), zap.String("status", string(task.Status)))
	}
}

// Mirrors returns the configured mirrors, for health reporting.
func (r *Replicator) Mirrors() []Mirror {
	return r.mirrors
}

// Close flushes queued snapshots and closes every mirror.
func (r *Replicator) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	for _, m := range r.mirrors {
		m.Close()
	}
}

func (r *Replicator) run() {
	defer close(r.done)
	for task := range r.queue {
		for _, m := range r.mirrors {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			if err := m.SaveTask(ctx, task); err != nil {
				r.logger.Error("failed to mirror task",
					zap.String("mirror", m.Name()), zap.String("task_id", task.ID), zap.Error(err))
			}
			cancel()
		}
	}
}
