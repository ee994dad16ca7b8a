// Package rooms owns the live room registry: creation, membership, and the
// per-room critical section every turn runs inside.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/timonchiklol/console-rpg/internal/services"
	"github.com/timonchiklol/console-rpg/pkg/state"
)

var (
	// ErrRoomNotFound aliases the store-level sentinel so callers need
	// only this package.
	ErrRoomNotFound = services.ErrRoomNotFound

	// ErrPlayerNotFound is returned when a player ID is not in the room.
	ErrPlayerNotFound = errors.New("player not in room")
)

// Store is the room registry. Rooms live in memory and are written through
// to the save store on every mutation; a room missing from memory is loaded
// back from persistence, so a restart does not lose running games.
//
// All mutations of one room happen under that room's lock. Different rooms
// never block each other.
type Store struct {
	saves  services.SaveStore
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*state.RoomState
	locks map[string]*sync.Mutex
}

// NewStore creates a room store backed by the given persistence layer.
func NewStore(saves services.SaveStore, logger *slog.Logger) *Store {
	return &Store{
		saves:  saves,
		logger: logger,
		rooms:  make(map[string]*state.RoomState),
		locks:  make(map[string]*sync.Mutex),
	}
}

// roomLock returns the lock for roomID, creating it lazily. Locks are never
// removed; an eight-byte mutex per room ever seen is cheaper than the
// cleanup races.
func (s *Store) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roomID] = l
	}
	return l
}

// load returns the live room, reading it back from persistence when memory
// does not have it. Callers must hold the room lock.
func (s *Store) load(ctx context.Context, roomID string) (*state.RoomState, error) {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	s.mu.Unlock()
	if ok {
		return room, nil
	}

	room, err := s.saves.LoadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.rooms[roomID] = room
	s.mu.Unlock()
	s.logger.Debug("Room restored from persistence", "room_id", roomID)
	return room, nil
}

func (s *Store) persist(ctx context.Context, room *state.RoomState) error {
	if err := s.saves.SaveRoom(ctx, room); err != nil {
		return fmt.Errorf("failed to persist room %s: %w", room.RoomID, err)
	}
	return nil
}

// Create makes a new room with the creator as host and first member.
// Room IDs are the first eight hex characters of a UUID, short enough to
// read aloud to friends.
func (s *Store) Create(ctx context.Context, hostID, hostName, language string) (*state.RoomState, error) {
	roomID := uuid.NewString()[:8]

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room := state.NewRoomState(roomID, hostID, language)
	room.Players[hostID] = &state.PlayerState{ID: hostID, Name: hostName, IsActive: true}

	if err := s.persist(ctx, room); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.rooms[roomID] = room
	s.mu.Unlock()

	s.logger.Info("Room created", "room_id", roomID, "host_id", hostID, "language", language)
	return room.Clone(), nil
}

// Join adds a player to the room. Joining a room the player is already in
// marks them active again and is otherwise a no-op, so reconnects are safe
// to retry.
func (s *Store) Join(ctx context.Context, roomID, playerID, name string) (*state.RoomState, error) {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if p := room.Player(playerID); p != nil {
		// Reconnect. The stored name wins; a different name on a retry
		// must not rename the player.
		p.IsActive = true
	} else {
		room.Players[playerID] = &state.PlayerState{ID: playerID, Name: name, IsActive: true}
		s.logger.Info("Player joined room", "room_id", roomID, "player_id", playerID)
	}

	if err := s.persist(ctx, room); err != nil {
		return nil, err
	}
	return room.Clone(), nil
}

// Leave removes a player. When the host leaves, the remaining member with
// the lowest player ID becomes host; when the last player leaves, the room
// is deleted.
func (s *Store) Leave(ctx context.Context, roomID, playerID string) error {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Player(playerID) == nil {
		return ErrPlayerNotFound
	}

	delete(room.Players, playerID)

	if len(room.Players) == 0 {
		s.mu.Lock()
		delete(s.rooms, roomID)
		s.mu.Unlock()
		if err := s.saves.DeleteRoom(ctx, roomID); err != nil {
			return err
		}
		s.logger.Info("Room deleted, last player left", "room_id", roomID)
		return nil
	}

	if room.HostID == playerID {
		room.HostID = room.PlayerIDs()[0]
		s.logger.Info("Host left, promoted new host", "room_id", roomID, "new_host_id", room.HostID)
	}
	return s.persist(ctx, room)
}

// Get returns a deep copy of the room. Callers can read it freely without
// holding any lock; mutations go through WithRoom.
func (s *Store) Get(ctx context.Context, roomID string) (*state.RoomState, error) {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return room.Clone(), nil
}

// List returns the IDs of all persisted rooms.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.saves.ListRooms(ctx)
}

// WithRoom runs fn with exclusive access to the live room and persists the
// result. This is the turn-processing critical section: while fn runs, no
// other action can touch the room. An error from fn discards nothing; fn
// must not leave the room half-mutated on error.
func (s *Store) WithRoom(ctx context.Context, roomID string, fn func(room *state.RoomState) error) error {
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.load(ctx, roomID)
	if err != nil {
		return err
	}
	if err := fn(room); err != nil {
		return err
	}
	return s.persist(ctx, room)
}
