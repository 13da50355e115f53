package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"mindmap/diagram"
)

// DefaultPrefix namespaces the keys of a RedisStore.
const DefaultPrefix = "mindmap:"

// RedisStore keeps documents as JSON strings in Redis. Names are tracked in
// a set so List does not scan the keyspace.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis server at redisURL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: DefaultPrefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + "map:" + name
}

func (s *RedisStore) index() string {
	return s.prefix + "maps"
}

// Save stores doc under name.
func (s *RedisStore) Save(ctx context.Context, name string, doc diagram.Document) error {
	if err := CheckName(name); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(name), data, 0)
		p.SAdd(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save map %q: %w", name, err)
	}
	return nil
}

// Load returns the document saved under name.
func (s *RedisStore) Load(ctx context.Context, name string) (*diagram.Document, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}
	doc, err := diagram.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("load map %q: %w", name, err)
	}
	return doc, nil
}

// List returns the saved names in order.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved map.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, s.key(name))
		p.SRem(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete map %q: %w", name, err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	return nil
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
