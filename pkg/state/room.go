package state

import (
	"sort"
	"time"
)

// MessageHistoryLimit bounds a room's message history; the oldest entries
// are evicted first.
const MessageHistoryLimit = 100

// Message types stored in room history.
const (
	MessageTypePlayer = "player"
	MessageTypeDM     = "dm"
	MessageTypeSystem = "system"
)

// RoomMessage is one entry in a room's bounded message history.
type RoomMessage struct {
	ID         int         `json:"id"`
	Type       string      `json:"type"`
	Message    string      `json:"message"`
	PlayerName string      `json:"player_name,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	RollDetail *RollDetail `json:"detailed_result,omitempty"`
}

// RollDetail mirrors dice.CheckResult for history display, plus the dice
// type that was rolled.
type RollDetail struct {
	DiceType         string `json:"dice_type"`
	BaseRoll         int    `json:"base_roll"`
	AbilityModifier  int    `json:"ability_modifier"`
	ProficiencyBonus int    `json:"proficient_bonus"`
	Total            int    `json:"total"`
	Difficulty       *int   `json:"difficulty,omitempty"`
	Success          *bool  `json:"success,omitempty"`
}

// RoomState is the authoritative state of one game session. EnemyHealth is
// non-nil exactly when InCombat is true.
type RoomState struct {
	RoomID         string                  `json:"room_id"`
	HostID         string                  `json:"host_id"`
	Language       string                  `json:"language"`
	Players        map[string]*PlayerState `json:"players"`
	InCombat       bool                    `json:"in_combat"`
	EnemyName      string                  `json:"enemy_name,omitempty"`
	EnemyHealth    *int                    `json:"enemy_health,omitempty"`
	MessageHistory []RoomMessage           `json:"message_history,omitempty"`
	HasStarted     bool                    `json:"has_started"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`

	nextMessageID int
}

// NewRoomState creates an empty room.
func NewRoomState(roomID, hostID, language string) *RoomState {
	now := time.Now()
	return &RoomState{
		RoomID:    roomID,
		HostID:    hostID,
		Language:  language,
		Players:   make(map[string]*PlayerState),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Player returns the player with the given ID, or nil.
func (r *RoomState) Player(playerID string) *PlayerState {
	return r.Players[playerID]
}

// PlayerIDs returns the room's player IDs in sorted order, for
// deterministic iteration.
func (r *RoomState) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for id := range r.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetCombat enters combat against the named enemy, establishing the
// invariant that EnemyHealth is set while InCombat.
func (r *RoomState) SetCombat(enemyName string, enemyHP int) {
	hp := enemyHP
	r.InCombat = true
	r.EnemyName = enemyName
	r.EnemyHealth = &hp
}

// ClearCombat leaves combat and destroys the enemy fields. Called on every
// terminal combat transition: victory, flee, and defeat.
func (r *RoomState) ClearCombat() {
	r.InCombat = false
	r.EnemyName = ""
	r.EnemyHealth = nil
}

// AppendMessage appends a message to the bounded history, assigning it the
// next message ID, and returns that ID. When the history exceeds
// MessageHistoryLimit, the oldest entries are dropped.
func (r *RoomState) AppendMessage(msg RoomMessage) int {
	// Recover the counter after a load from persistence; the field is not
	// serialized.
	if r.nextMessageID == 0 && len(r.MessageHistory) > 0 {
		r.nextMessageID = r.MessageHistory[len(r.MessageHistory)-1].ID
	}
	r.nextMessageID++
	msg.ID = r.nextMessageID
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	r.MessageHistory = append(r.MessageHistory, msg)
	if over := len(r.MessageHistory) - MessageHistoryLimit; over > 0 {
		r.MessageHistory = append([]RoomMessage(nil), r.MessageHistory[over:]...)
	}
	r.UpdatedAt = time.Now()
	return msg.ID
}

// MessagesSince returns history entries with IDs greater than lastID, for
// incremental polling.
func (r *RoomState) MessagesSince(lastID int) []RoomMessage {
	for i, msg := range r.MessageHistory {
		if msg.ID > lastID {
			out := make([]RoomMessage, len(r.MessageHistory)-i)
			copy(out, r.MessageHistory[i:])
			return out
		}
	}
	return nil
}

// Clone returns a deep copy of the room, suitable for lock-free snapshot
// reads.
func (r *RoomState) Clone() *RoomState {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Players = make(map[string]*PlayerState, len(r.Players))
	for id, p := range r.Players {
		cp.Players[id] = p.Clone()
	}
	if r.EnemyHealth != nil {
		hp := *r.EnemyHealth
		cp.EnemyHealth = &hp
	}
	cp.MessageHistory = make([]RoomMessage, len(r.MessageHistory))
	copy(cp.MessageHistory, r.MessageHistory)
	return &cp
}
