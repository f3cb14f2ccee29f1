// Package redis stores session saves in Redis using go-redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cory-johannsen/donut/internal/config"
	"github.com/cory-johannsen/donut/internal/game/session"
)

// NewClient creates a client for a single Redis instance. Connections are
// established lazily; use Ping to check reachability.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// SaveStore implements session.Store on top of Redis string keys.
type SaveStore struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ session.Store = (*SaveStore)(nil)

// NewSaveStore creates a SaveStore.
//
// Precondition: client must be non-nil.
func NewSaveStore(client goredis.Cmdable, prefix string, ttl time.Duration) *SaveStore {
	return &SaveStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *SaveStore) key(id string) string { return s.prefix + id }

// Get implements session.Store.
func (s *SaveStore) Get(ctx context.Context, id string) (*session.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("reading save %q: %w", id, err)
	}
	sess, err := session.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save %q: %w", id, err)
	}
	return sess, nil
}

// Put implements session.Store. Every write refreshes the TTL.
func (s *SaveStore) Put(ctx context.Context, sess *session.Session) error {
	data, err := session.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing save %q: %w", sess.ID, err)
	}
	return nil
}

// Delete implements session.Store.
func (s *SaveStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("deleting save %q: %w", id, err)
	}
	return nil
}
