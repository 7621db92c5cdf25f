package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scraper/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore mirrors every task snapshot into Redis with a TTL.
type RedisStore struct {
	client     *redis.Client
	instanceID string
	ttl        time.Duration
}

func NewRedisStore(addr, password string, db int, instanceID string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(rdb, instanceID, ttl)
}

func NewRedisStoreFromClient(rdb *redis.Client, instanceID string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: rdb, instanceID: instanceID, ttl: ttl}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// TaskKey is the key a task snapshot is written under.
func (s *RedisStore) TaskKey(id string) string {
	return fmt.Sprintf("scraper:%s:task:%s", s.instanceID, id)
}

// SaveTask overwrites the task's snapshot and refreshes its TTL.
func (s *RedisStore) SaveTask(ctx context.Context, task domain.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	return s.client.Set(ctx, s.TaskKey(task.ID), payload, s.ttl).Err()
}

func (s *RedisStore) Close() {
	s.client.Close()
}
