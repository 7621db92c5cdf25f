package scraper

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"scraper/internal/config"
	"scraper/internal/document"
	"scraper/internal/domain"
	"scraper/internal/extractor"
	"scraper/internal/fetcher"
	"scraper/internal/monitoring"
	"scraper/internal/pagination"
	"scraper/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotFound   = storage.ErrNotFound
	ErrNotReady   = errors.New("task result not ready")
	ErrTaskFailed = fmt.Errorf("%w: task failed", ErrNotReady)

	errStopping = errors.New("scraper is shutting down")
)

// Engine owns task lifecycles and runs them on a bounded worker pool.
type Engine struct {
	config    *config.Config
	store     *storage.MemoryStore
	fetcher   fetcher.Fetcher
	metrics   *monitoring.Metrics
	logger    *zap.Logger
	taskQueue chan string
	stopChan  chan struct{}
	stopOnce  sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	now       func() time.Time
}

func NewEngine(cfg *config.Config, s *storage.MemoryStore, f fetcher.Fetcher, m *monitoring.Metrics, l *zap.Logger) *Engine {
	workers := max(cfg.ScrapeWorkers, 1)
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		config:    cfg,
		store:     s,
		fetcher:   f,
		metrics:   m,
		logger:    l,
		taskQueue: make(chan string, max(cfg.QueueSize, workers)),
		stopChan:  make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

func (e *Engine) Start() {
	for i := 0; i < max(e.config.ScrapeWorkers, 1); i++ {
		e.wg.Add(1)
		go e.worker()
	}
}

// Stop cancels in-flight fetches and waits for the workers to exit. Tasks
// still queued stay pending.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopChan)
		e.cancel()
	})
	e.wg.Wait()
}

// Submit validates req, stores a pending task and schedules it. It never
// waits for a worker.
func (e *Engine) Submit(req domain.ScrapeRequest) (string, error) {
	req, err := domain.Normalize(req)
	if err != nil {
		return "", err
	}

	task := e.store.Create(req, e.now())
	e.metrics.IncSubmitted(string(req.Format))
	e.enqueue(task.ID)

	e.logger.Info("task accepted",
		zap.String("task_id", task.ID), zap.String("url", req.URL), zap.String("format", string(req.Format)))
	return task.ID, nil
}

func (e *Engine) enqueue(id string) {
	e.metrics.QueueDepth.Inc()
	select {
	case e.taskQueue <- id:
	default:
		// Queue is full: park the hand-off instead of blocking the submitter.
		go func() {
			select {
			case e.taskQueue <- id:
			case <-e.stopChan:
				e.metrics.QueueDepth.Dec()
			}
		}()
	}
}

// GetTask returns a snapshot of the task.
func (e *Engine) GetTask(id string) (domain.Task, error) {
	return e.store.Get(id)
}

// ListTasks returns every task summary ordered by id.
func (e *Engine) ListTasks() []domain.TaskSummary {
	return e.store.List()
}

// GetResult returns the result of a completed task.
func (e *Engine) GetResult(id string) (*domain.Result, error) {
	task, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case domain.StatusCompleted:
		return task.Result, nil
	case domain.StatusFailed:
		return nil, fmt.Errorf("%w: %s", ErrTaskFailed, task.Error)
	default:
		return nil, fmt.Errorf("%w: task is %s", ErrNotReady, task.Status)
	}
}

// TaskCount is reported by the health endpoint.
func (e *Engine) TaskCount() int {
	return e.store.Count()
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case id := <-e.taskQueue:
			e.metrics.QueueDepth.Dec()
			e.run(id)
		case <-e.stopChan:
			return
		}
	}
}

// run drives one task to a terminal state. Nothing escapes it: every error
// and panic ends up in the task record.
func (e *Engine) run(id string) {
	logger := e.logger.With(zap.String("task_id", id))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", zap.Any("panic", r))
			e.fail(id, fmt.Sprintf("internal error: %v", r))
		}
	}()

	task, err := e.store.Update(id, func(t *domain.Task) error {
		return t.Start(e.now())
	})
	if err != nil {
		logger.Error("failed to start task", zap.Error(err))
		return
	}

	pages, err := e.scrape(task.Request, logger)
	if err != nil {
		logger.Warn("task failed", zap.Error(err))
		e.fail(id, err.Error())
		return
	}

	_, err = e.store.Update(id, func(t *domain.Task) error {
		return t.Complete(domain.NewResult(pages), e.now())
	})
	if err != nil {
		logger.Error("failed to complete task", zap.Error(err))
		e.fail(id, err.Error())
		return
	}
	e.metrics.IncFinished(string(task.Request.Format), string(domain.StatusCompleted))
	logger.Info("task completed", zap.Int("pages", len(pages)))
}

func (e *Engine) fail(id, reason string) {
	task, err := e.store.Update(id, func(t *domain.Task) error {
		return t.Fail(reason, e.now())
	})
	if err != nil {
		e.logger.Error("failed to record task failure", zap.String("task_id", id), zap.Error(err))
		return
	}
	e.metrics.IncFinished(string(task.Request.Format), string(domain.StatusFailed))
}

// scrape runs the fetch, parse, extract, next-page cycle. Pages are fetched
// strictly one after another; the first error aborts the whole task. The
// politeness delay is taken once per task, before the first fetch.
func (e *Engine) scrape(req domain.ScrapeRequest, logger *zap.Logger) ([]domain.PageResult, error) {
	strategy, err := extractor.ForFormat(req.Format)
	if err != nil {
		return nil, err
	}
	if err := e.politeDelay(); err != nil {
		return nil, err
	}

	var pages []domain.PageResult
	current := req.URL
	for current != "" && len(pages) < req.MaxPages {
		pageNum := len(pages) + 1
		body, err := e.fetcher.Fetch(e.ctx, current, req.Headers)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		doc, err := document.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		page, err := strategy.Extract(doc, current, req.Selectors)
		if err != nil {
			return nil, fmt.Errorf("page %d: extraction failed: %w", pageNum, err)
		}
		page.Page = pageNum
		pages = append(pages, page)
		logger.Debug("page extracted", zap.String("url", current), zap.Int("page", pageNum))

		if req.Pagination == nil || len(pages) >= req.MaxPages {
			break
		}
		next, ok, err := pagination.Next(doc, current, *req.Pagination)
		if err != nil {
			return nil, fmt.Errorf("page %d: pagination failed: %w", pageNum, err)
		}
		if !ok {
			break
		}
		current = next
	}
	return pages, nil
}

// politeDelay sleeps a uniformly random duration in [MinDelay, MaxDelay].
func (e *Engine) politeDelay() error {
	d := e.config.MinDelay
	if spread := e.config.MaxDelay - e.config.MinDelay; spread > 0 {
		d += rand.N(spread + 1)
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-e.stopChan:
		return errStopping
	}
}
