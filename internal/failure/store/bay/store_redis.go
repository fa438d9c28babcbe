package bay

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"anchor/internal/failure"
)

const (
	// Redis key layout: one list per bay plus a set of known bay names.
	bayKeyPrefix = "bay:"
	bayIndexKey  = "bays"
)

// RedisStore keeps bays as Redis lists. Suited to deployments where review
// tooling drains bays continuously and postgres durability is overkill.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed bay store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, bay string, rec failure.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal failure record: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, bayKeyPrefix+bay, payload)
	pipe.SAdd(ctx, bayIndexKey, bay)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append failure record: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, bay string, limit int) ([]failure.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	raw, err := s.client.LRange(ctx, bayKeyPrefix+bay, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list bay %s: %w", bay, err)
	}
	records := make([]failure.Record, 0, len(raw))
	for _, item := range raw {
		var rec failure.Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal failure record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *RedisStore) Bays(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, bayIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list bays: %w", err)
	}
	return names, nil
}

func (s *RedisStore) Count(ctx context.Context, bay string) (int, error) {
	n, err := s.client.LLen(ctx, bayKeyPrefix+bay).Result()
	if err != nil {
		return 0, fmt.Errorf("count bay %s: %w", bay, err)
	}
	return int(n), nil
}
