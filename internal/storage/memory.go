package storage

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"scraper/internal/domain"
)

var ErrNotFound = errors.New("task not found")

// Observer is told about every new snapshot of a task, in write order.
type Observer interface {
	Observe(task domain.Task)
}

// MemoryStore is the volatile task store: the only owner of task records.
// Readers always receive deep copies taken under the lock.
type MemoryStore struct {
	mu       sync.RWMutex
	tasks    map[string]*domain.Task
	seq      atomic.Uint64
	observer Observer
}

func NewMemoryStore(observer Observer) *MemoryStore {
	return &MemoryStore{
		tasks:    make(map[string]*domain.Task),
		observer: observer,
	}
}

// Create allocates the next id and stores a pending task for req.
func (s *MemoryStore) Create(req domain.ScrapeRequest, now time.Time) domain.Task {
	id := strconv.FormatUint(s.seq.Add(1), 10)
	task := domain.NewTask(id, req, now)

	s.mu.Lock()
	s.tasks[id] = task
	snapshot := task.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// Get returns a snapshot of the task.
func (s *MemoryStore) Get(id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return task.Clone(), nil
}

// Update applies fn to the stored record under the write lock. If fn returns
// an error the record is left untouched.
func (s *MemoryStore) Update(id string, fn func(*domain.Task) error) (domain.Task, error) {
	s.mu.Lock()
	task, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return domain.Task{}, ErrNotFound
	}
	working := task.Clone()
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return task.Clone(), err
	}
	*task = working
	snapshot := task.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot, nil
}

// List returns summaries ordered by id.
func (s *MemoryStore) List() []domain.TaskSummary {
	s.mu.RLock()
	out := make([]domain.TaskSummary, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Summary())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.ParseUint(out[i].ID, 10, 64)
		b, _ := strconv.ParseUint(out[j].ID, 10, 64)
		return a < b
	})
	return out
}

// Count returns the number of tasks held.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *MemoryStore) notify(task domain.Task) {
	if s.observer != nil {
		s.observer.Observe(task)
	}
}
