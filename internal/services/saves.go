package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/timonchiklol/console-rpg/pkg/state"
)

// roomKeyPrefix namespaces room saves in Redis.
const roomKeyPrefix = "room:"

// DefaultSaveTTL is how long an untouched room survives. Every save
// refreshes the clock.
const DefaultSaveTTL = 7 * 24 * time.Hour

// ErrRoomNotFound is returned when a room ID has no save.
var ErrRoomNotFound = errors.New("room not found")

// SaveStore persists room state between turns and process restarts.
type SaveStore interface {
	SaveRoom(ctx context.Context, room *state.RoomState) error
	LoadRoom(ctx context.Context, roomID string) (*state.RoomState, error)
	ListRooms(ctx context.Context) ([]string, error)
	DeleteRoom(ctx context.Context, roomID string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisSaveStore implements SaveStore on Redis. Rooms are stored as JSON
// under "room:<id>" with a refresh-on-write TTL.
type RedisSaveStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ SaveStore = (*RedisSaveStore)(nil)

// NewRedisSaveStore connects to Redis using a redis:// URL.
func NewRedisSaveStore(redisURL string, logger *slog.Logger) (*RedisSaveStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisSaveStore{
		client: redis.NewClient(opts),
		ttl:    DefaultSaveTTL,
		logger: logger,
	}, nil
}

// NewRedisSaveStoreFromClient wraps an existing client; tests use this with
// miniredis.
func NewRedisSaveStoreFromClient(client *redis.Client, logger *slog.Logger) *RedisSaveStore {
	return &RedisSaveStore{
		client: client,
		ttl:    DefaultSaveTTL,
		logger: logger,
	}
}

func (s *RedisSaveStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisSaveStore) SaveRoom(ctx context.Context, room *state.RoomState) error {
	room.UpdatedAt = time.Now()
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err := s.client.Set(ctx, roomKeyPrefix+room.RoomID, data, s.ttl).Err(); err != nil {
		s.logger.Error("Redis SET failed", "room_id", room.RoomID, "error", err)
		return fmt.Errorf("failed to save room: %w", err)
	}
	s.logger.Debug("Room saved", "room_id", room.RoomID)
	return nil
}

func (s *RedisSaveStore) LoadRoom(ctx context.Context, roomID string) (*state.RoomState, error) {
	data, err := s.client.Get(ctx, roomKeyPrefix+roomID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	var room state.RoomState
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room %s: %w", roomID, err)
	}
	return &room, nil
}

// ListRooms returns the IDs of all saved rooms. SCAN keeps this safe on a
// shared Redis.
func (s *RedisSaveStore) ListRooms(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), roomKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan rooms: %w", err)
	}
	return ids, nil
}

func (s *RedisSaveStore) DeleteRoom(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, roomKeyPrefix+roomID).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	s.logger.Debug("Room deleted", "room_id", roomID)
	return nil
}

func (s *RedisSaveStore) Close() error {
	return s.client.Close()
}
