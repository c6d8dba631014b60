// Package redis stores each roster as a single JSON value in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/config"
	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/storage"
	"github.com/cory-johannsen/minidnd/internal/storage/jsonfile"
)

// indexKey is the set holding every saved roster name.
const indexKey = "rosters"

// Key returns the key a roster named name is stored under.
func Key(name string) string {
	return fmt.Sprintf("roster:%s", name)
}

// NewClient builds a client for cfg.
func NewClient(cfg config.RedisConfig) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RosterStore implements storage.RosterStore on a Redis client.
type RosterStore struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRosterStore wraps client.
//
// Precondition: client and logger must be non-nil.
func NewRosterStore(client redis.UniversalClient, logger *zap.Logger) *RosterStore {
	return &RosterStore{client: client, logger: logger}
}

// Load implements storage.RosterStore.
func (s *RosterStore) Load(ctx context.Context, name string) (character.Roster, error) {
	key := Key(name)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.Wrap("load", key, storage.ErrRosterNotFound)
	}
	if err != nil {
		return nil, storage.Wrap("load", key, err)
	}
	roster, err := jsonfile.Decode(data)
	if err != nil {
		return nil, storage.Wrap("load", key, err)
	}
	s.logger.Info("roster loaded", zap.String("key", key), zap.Int("actors", len(roster)))
	return roster, nil
}

// Save implements storage.RosterStore.
//
// Postcondition: The value and its index entry are written in one MULTI/EXEC
// transaction; neither is visible without the other.
func (s *RosterStore) Save(ctx context.Context, name string, roster character.Roster) error {
	key := Key(name)
	if roster == nil {
		roster = character.Roster{}
	}
	data, err := json.Marshal(roster)
	if err != nil {
		return storage.Wrap("save", key, fmt.Errorf("encoding roster: %w", err))
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, string(data), 0)
		pipe.SAdd(ctx, indexKey, name)
		return nil
	})
	if err != nil {
		return storage.Wrap("save", key, err)
	}
	s.logger.Info("roster saved", zap.String("key", key), zap.Int("actors", len(roster)))
	return nil
}

// Delete implements storage.RosterDeleter. The value and its index entry are
// removed in one transaction.
func (s *RosterStore) Delete(ctx context.Context, name string) error {
	key := Key(name)
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, key)
		pipe.SRem(ctx, indexKey, name)
		return nil
	})
	if err != nil {
		return storage.Wrap("delete", key, err)
	}
	if del.Val() == 0 {
		return storage.Wrap("delete", key, storage.ErrRosterNotFound)
	}
	s.logger.Info("roster deleted", zap.String("key", key))
	return nil
}

// Names implements storage.RosterLister.
func (s *RosterStore) Names(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, storage.Wrap("list", indexKey, err)
	}
	sort.Strings(names)
	return names, nil
}
