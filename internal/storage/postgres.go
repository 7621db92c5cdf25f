package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"scraper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS scrape_tasks (
	instance_id  TEXT        NOT NULL,
	task_id      BIGINT      NOT NULL,
	url          TEXT        NOT NULL,
	format       TEXT        NOT NULL,
	status       TEXT        NOT NULL,
	error        TEXT,
	result       JSONB,
	created_at   TIMESTAMPTZ NOT NULL,
	started_at   TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	PRIMARY KEY (instance_id, task_id)
)`

// PostgresStore archives finished tasks. Only terminal snapshots are written.
type PostgresStore struct {
	db         *pgxpool.Pool
	instanceID string
}

func NewPostgresStore(ctx context.Context, connStr, instanceID string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}
	return &PostgresStore{db: db, instanceID: instanceID}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// SaveTask upserts a terminal task with its result or error.
func (s *PostgresStore) SaveTask(ctx context.Context, task domain.Task) error {
	if !task.Status.Terminal() {
		return nil
	}

	var result []byte
	if task.Result != nil {
		var err error
		if result, err = json.Marshal(task.Result); err != nil {
			return fmt.Errorf("failed to encode result of task %s: %w", task.ID, err)
		}
	}

	taskID, err := strconv.ParseInt(task.ID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q: %w", task.ID, err)
	}

	var taskErr *string
	if task.Error != "" {
		taskErr = &task.Error
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO scrape_tasks (instance_id, task_id, url, format, status, error, result, created_at, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (instance_id, task_id) DO UPDATE SET
		   status = EXCLUDED.status, error = EXCLUDED.error, result = EXCLUDED.result,
		   started_at = EXCLUDED.started_at, completed_at = EXCLUDED.completed_at`,
		s.instanceID, taskID, task.Request.URL, string(task.Request.Format), string(task.Status),
		taskErr, result, task.CreatedAt, task.StartedAt, task.CompletedAt,
	)
	return err
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
