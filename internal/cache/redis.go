package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wcountd/load-balancer/internal/wordcount"
)

// redisStore implements Store on a shared Redis instance. Results are
// stored as JSON with no TTL; lifetime is controlled by FlushAll only.
type redisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Store backed by the Redis instance at rawURL
// (redis://host:port form). All keys are namespaced with keyPrefix.
func NewRedisStore(rawURL, keyPrefix string) (Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &redisStore{
		client:    redis.NewClient(opts),
		keyPrefix: keyPrefix,
	}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (wordcount.Result, bool, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result wordcount.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}

	return result, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, result wordcount.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return s.client.Set(ctx, s.keyPrefix+key, data, 0).Err()
}

func (s *redisStore) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
