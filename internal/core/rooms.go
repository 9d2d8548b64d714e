package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

type roomEntry struct {
	meta         *domain.Room
	participants []*domain.Participant // insertion order
	ledger       *Ledger
}

func (e *roomEntry) snapshot() []*domain.Participant {
	out := make([]*domain.Participant, len(e.participants))
	copy(out, e.participants)
	return out
}

// ClosedRoom is the final state handed back by Close, everything the
// caller needs to build the persisted session.
type ClosedRoom struct {
	Meta         *domain.Room
	Participants []domain.SessionParticipant
}

// Session builds the persisted record from the final state.
func (c *ClosedRoom) Session() *domain.Session {
	return &domain.Session{
		ID:           c.Meta.CreatedAt,
		Teacher:      c.Meta.HostIdentity,
		Participants: c.Participants,
	}
}

// RoomRegistry is the threadsafe in-memory map of open rooms. Every
// method is a single critical section, so "room became empty" and
// "close" cannot race.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomEntry
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomID]*roomEntry)}
}

// Create opens a room with its first participant and an empty ledger.
// Returns ErrRoomExists if the id is taken among currently-open rooms.
func (r *RoomRegistry) Create(id domain.RoomID, host domain.Identity, first *domain.Participant) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return nil, domain.ErrRoomExists
	}
	meta := &domain.Room{ID: id, HostIdentity: host, CreatedAt: time.Now()}
	r.rooms[id] = &roomEntry{
		meta:         meta,
		participants: []*domain.Participant{first},
		ledger:       newLedger(),
	}
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Str("host", string(host)).Msg("room created")
	return meta, nil
}

// Exists reports whether the room is open and how many participants it
// holds. Backs the pre-join existence check endpoint.
func (r *RoomRegistry) Exists(id domain.RoomID) (count int, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	if !ok {
		return 0, false
	}
	return len(e.participants), true
}

// Members returns the room's participants in insertion order.
func (r *RoomRegistry) Members(id domain.RoomID) ([]*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.snapshot(), nil
}

// AddParticipant appends to the room's ordered membership and returns the
// updated snapshot. Returns ErrNotFound if the room is gone; the caller
// surfaces that to the joining client as room-unavailable.
func (r *RoomRegistry) AddParticipant(id domain.RoomID, p *domain.Participant) ([]*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.participants = append(e.participants, p)
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Str("conn", string(p.ConnID)).Msg("participant joined")
	return e.snapshot(), nil
}

// RemoveParticipant removes the connection from the room and returns the
// remaining snapshot plus whether the room is now empty.
func (r *RoomRegistry) RemoveParticipant(id domain.RoomID, conn domain.ConnID) (remaining []*domain.Participant, empty bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	kept := e.participants[:0]
	for _, p := range e.participants {
		if p.ConnID != conn {
			kept = append(kept, p)
		}
	}
	e.participants = kept
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Str("conn", string(conn)).Int("remaining", len(kept)).Msg("participant left")
	return e.snapshot(), len(kept) == 0, nil
}

// Close atomically removes the room and returns its final state for the
// caller to persist. Returns ErrNotFound if already closed.
func (r *RoomRegistry) Close(id domain.RoomID) (*ClosedRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.rooms, id)
	log.Info().Str("module", "core.rooms").Str("room", string(id)).Msg("room closed")
	return &ClosedRoom{Meta: e.meta, Participants: e.ledger.Snapshot()}, nil
}

// IncrementScore adds delta to the identity's ledger entry in the given
// room and returns the new total. Returns ErrUnknownRoom if the room has
// no ledger (unknown or already closed).
func (r *RoomRegistry) IncrementScore(id domain.RoomID, identity domain.Identity, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rooms[id]
	if !ok {
		return 0, domain.ErrUnknownRoom
	}
	total := e.ledger.Increment(identity, delta)
	log.Debug().Str("module", "core.rooms").Str("room", string(id)).Str("identity", string(identity)).Int("total", total).Msg("score incremented")
	return total, nil
}
