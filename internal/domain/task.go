package domain

import (
	"errors"
	"fmt"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

var ErrInvalidTransition = errors.New("invalid task status transition")

// Task is one scrape request's full execution, from submission to terminal state.
type Task struct {
	ID          string        `json:"id"`
	Request     ScrapeRequest `json:"request"`
	Status      TaskStatus    `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Result      *Result       `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// NewTask returns a pending task owning a copy of req.
func NewTask(id string, req ScrapeRequest, now time.Time) *Task {
	return &Task{
		ID:        id,
		Request:   req.Clone(),
		Status:    StatusPending,
		CreatedAt: now,
	}
}

// Start moves a pending task to processing.
func (t *Task) Start(now time.Time) error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusProcessing)
	}
	t.Status = StatusProcessing
	t.StartedAt = &now
	return nil
}

// Complete records the result of a processing task.
func (t *Task) Complete(result *Result, now time.Time) error {
	if t.Status != StatusProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusCompleted)
	}
	if result == nil || result.Len() == 0 {
		return errors.New("completed task requires a non-empty result")
	}
	t.Status = StatusCompleted
	t.Result = result
	t.CompletedAt = &now
	return nil
}

// Fail records why a task stopped. Pending tasks may fail without ever starting.
func (t *Task) Fail(reason string, now time.Time) error {
	if t.Status.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, StatusFailed)
	}
	t.Status = StatusFailed
	t.Error = reason
	t.CompletedAt = &now
	return nil
}

// Clone returns a snapshot safe to hand to readers.
func (t *Task) Clone() Task {
	out := *t
	out.Request = t.Request.Clone()
	if t.StartedAt != nil {
		ts := *t.StartedAt
		out.StartedAt = &ts
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		out.CompletedAt = &ts
	}
	// Result is never mutated after Complete, so sharing it is safe.
	return out
}

// Summary drops the bulky result and error payloads.
func (t *Task) Summary() TaskSummary {
	c := t.Clone()
	return TaskSummary{
		ID:          c.ID,
		URL:         c.Request.URL,
		Format:      c.Request.Format,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		StartedAt:   c.StartedAt,
		CompletedAt: c.CompletedAt,
	}
}
