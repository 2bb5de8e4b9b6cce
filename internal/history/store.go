// Package history keeps an append-only record of completed workflow
// invocations in Redis. Only finished runs are recorded; a process crash
// mid-run leaves no trace here, and no in-flight state is ever stored
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/kestrelops/liaison/internal/config"
	"github.com/kestrelops/liaison/pkg/api"
)

type (
	// Record is one completed invocation
	Record struct {
		Workflow      string            `json:"workflow"`
		CorrelationID api.CorrelationID `json:"correlation_id"`
		Result        api.Result        `json:"result"`
		FinishedAt    time.Time         `json:"finished_at"`
	}

	// Filter narrows List results. Zero values match everything
	Filter struct {
		Workflow string
		Failed   bool
	}

	// Store is the Redis-backed record store
	Store struct {
		client  *redis.Client
		prefix  string
		maxRuns int64
	}
)

var ErrRecordNotFound = errors.New("record not found")

// New connects a store using the configured Redis endpoint
func New(cfg config.HistoryConfig) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.Prefix, cfg.MaxRuns)
}

// NewWithClient wraps an existing Redis client; tests use this with
// miniredis
func NewWithClient(client *redis.Client, prefix string, maxRuns int) *Store {
	if prefix == "" {
		prefix = config.DefaultHistoryPrefix
	}
	if maxRuns <= 0 {
		maxRuns = config.DefaultMaxRuns
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		maxRuns: int64(maxRuns),
	}
}

// Record appends a completed invocation, trimming the log to the
// configured bound. Safe to call on a nil store
func (s *Store) Record(ctx context.Context, rec Record) error {
	if s == nil {
		return nil
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.listKey(), data)
	pipe.Set(ctx, s.recordKey(rec.CorrelationID), data, 0)
	if _, err = pipe.Exec(ctx); err != nil {
		return err
	}
	return s.evict(ctx)
}

// evict drops list entries past the bound along with their per-run
// record keys, so Get never serves a run that List has forgotten
func (s *Store) evict(ctx context.Context) error {
	over, err := s.client.LRange(
		ctx, s.listKey(), s.maxRuns, -1,
	).Result()
	if err != nil {
		return err
	}
	if len(over) == 0 {
		return nil
	}

	keys := make([]string, 0, len(over))
	for _, raw := range over {
		corr := gjson.Get(raw, "correlation_id").String()
		if corr != "" {
			keys = append(keys, s.recordKey(api.CorrelationID(corr)))
		}
	}

	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.LTrim(ctx, s.listKey(), 0, s.maxRuns-1)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns the most recent records matching the filter, newest first
func (s *Store) List(
	ctx context.Context, filter Filter, limit int,
) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	raw, err := s.client.LRange(ctx, s.listKey(), 0, s.maxRuns-1).Result()
	if err != nil {
		return nil, err
	}

	res := make([]Record, 0, min(limit, len(raw)))
	for _, item := range raw {
		if len(res) == limit {
			break
		}
		if !matches(item, filter) {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		res = append(res, rec)
	}
	return res, nil
}

// Get retrieves the record for one correlation id
func (s *Store) Get(
	ctx context.Context, corr api.CorrelationID,
) (*Record, error) {
	data, err := s.client.Get(ctx, s.recordKey(corr)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, corr)
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close releases the underlying Redis client
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// matches filters a raw record without a full unmarshal
func matches(raw string, filter Filter) bool {
	if filter.Workflow != "" &&
		gjson.Get(raw, "workflow").String() != filter.Workflow {
		return false
	}
	if filter.Failed && gjson.Get(raw, "result.success").Bool() {
		return false
	}
	return true
}

func (s *Store) listKey() string {
	return s.prefix + ":runs"
}

func (s *Store) recordKey(corr api.CorrelationID) string {
	return fmt.Sprintf("%s:run:%s", s.prefix, corr)
}
