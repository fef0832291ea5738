package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"donorhub/internal/domain"
)

const taskKeyPrefix = "tasks-"

// DefaultTaskTTL bounds how long a mirrored task list may outlive its last write.
const DefaultTaskTTL = 24 * time.Hour

// kv is the subset of the go-redis API the task cache needs; *redis.Client satisfies it.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type taskCache struct {
	client kv
	ttl    time.Duration
}

// NewTaskCache mirrors task lists in Redis under "tasks-<eventId>".
func NewTaskCache(client kv, ttl time.Duration) domain.TaskCache {
	if ttl <= 0 {
		ttl = DefaultTaskTTL
	}
	return &taskCache{client: client, ttl: ttl}
}

// TaskKey returns the cache key of an event's task list.
func TaskKey(eventID int64) string {
	return fmt.Sprintf("%s%d", taskKeyPrefix, eventID)
}

func (c *taskCache) Get(ctx context.Context, eventID int64) ([]*domain.Task, bool, error) {
	raw, err := c.client.Get(ctx, TaskKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached tasks: %w", err)
	}
	var tasks []*domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, false, fmt.Errorf("decode cached tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, true, nil
}

func (c *taskCache) Set(ctx context.Context, eventID int64, tasks []*domain.Task) error {
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := c.client.Set(ctx, TaskKey(eventID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached tasks: %w", err)
	}
	return nil
}

func (c *taskCache) Delete(ctx context.Context, eventID int64) error {
	if err := c.client.Del(ctx, TaskKey(eventID)).Err(); err != nil {
		return fmt.Errorf("delete cached tasks: %w", err)
	}
	return nil
}
