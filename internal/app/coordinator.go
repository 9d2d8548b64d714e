package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

// Room ids are truncated random tokens: short enough to share by voice,
// unique enough among concurrently open rooms.
const roomIDLength = 5

const persistTimeout = 10 * time.Second

// SessionStore is the persistence sink for closed rooms.
type SessionStore interface {
	SaveSession(ctx context.Context, s *domain.Session) error
}

// Coordinator implements the room lifecycle: create, join, leave on
// disconnect, close-and-persist when the last participant leaves, plus
// the per-room score ledger. Create/join/leave run under one mutex so
// each transition and its emissions are observed in issue order; score
// increments are already atomic inside the room registry.
type Coordinator struct {
	Registry *core.Registry
	Rooms    *core.RoomRegistry
	Store    SessionStore

	mu sync.Mutex
}

func NewCoordinator(reg *core.Registry, rooms *core.RoomRegistry, store SessionStore) *Coordinator {
	return &Coordinator{Registry: reg, Rooms: rooms, Store: store}
}

// CreateRoom opens a fresh room with the caller as host and sole
// participant, then emits the room id and the singleton membership list
// back to the creator.
func (c *Coordinator) CreateRoom(conn core.SignalConnection, connID domain.ConnID, identity domain.Identity, onlyAudio bool) (domain.RoomID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Reserve the room id first; the participant row is rolled back if
	// registration fails.
	var roomID domain.RoomID
	var p *domain.Participant
	for {
		roomID = newRoomID()
		p = domain.NewParticipant(identity, connID, roomID, onlyAudio)
		if err := c.Registry.Add(p, conn); err != nil {
			return "", err
		}
		_, err := c.Rooms.Create(roomID, identity, p)
		if err == nil {
			break
		}
		if _, rerr := c.Registry.Remove(connID); rerr != nil {
			log.Warn().Err(rerr).Str("module", "app.coordinator").Str("conn", string(connID)).Msg("rollback after room id collision")
		}
		if !errors.Is(err, domain.ErrRoomExists) {
			return "", err
		}
		log.Info().Str("module", "app.coordinator").Str("room", string(roomID)).Msg("room id collision, regenerating")
	}

	sendJSON(conn, RoomIDEvent{Type: EventRoomID, RoomID: roomID})
	sendJSON(conn, RoomUpdateEvent{Type: EventRoomUpdate, ConnectedUsers: []*domain.Participant{p}})
	return roomID, nil
}

// JoinRoom adds the caller to an existing room. Every current peer gets
// a conn-prepare naming the new connection, then the whole room (joiner
// included) gets the updated membership list. The caller is expected to
// have pre-checked existence, but the race is tolerated: a vanished room
// yields ErrRoomUnavailable and no emissions.
func (c *Coordinator) JoinRoom(conn core.SignalConnection, connID domain.ConnID, identity domain.Identity, roomID domain.RoomID, onlyAudio bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.Rooms.Exists(roomID); !ok {
		return domain.ErrRoomUnavailable
	}

	p := domain.NewParticipant(identity, connID, roomID, onlyAudio)
	if err := c.Registry.Add(p, conn); err != nil {
		return err
	}
	members, err := c.Rooms.AddParticipant(roomID, p)
	if err != nil {
		// Room closed between the check and the append.
		if _, rerr := c.Registry.Remove(connID); rerr != nil {
			log.Warn().Err(rerr).Str("module", "app.coordinator").Str("conn", string(connID)).Msg("rollback after vanished room")
		}
		return domain.ErrRoomUnavailable
	}

	for _, peer := range members {
		if peer.ConnID == connID {
			continue
		}
		c.emitTo(peer.ConnID, ConnPrepareEvent{Type: EventConnPrepare, ConnUserSocketID: connID})
	}
	c.emitRoom(members, RoomUpdateEvent{Type: EventRoomUpdate, ConnectedUsers: members})
	return nil
}

// Disconnect removes the connection's participant from its room. A
// connection with no participant is a no-op: transports can report the
// same disconnect more than once. Emptying a room closes it and hands
// the final ledger snapshot to the persistence sink without blocking.
func (c *Coordinator) Disconnect(connID domain.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.Registry.Remove(connID)
	if err != nil {
		log.Debug().Str("module", "app.coordinator").Str("conn", string(connID)).Msg("disconnect for unknown connection")
		return
	}

	remaining, empty, err := c.Rooms.RemoveParticipant(p.RoomID, connID)
	if err != nil {
		// Participant without a room is an internal inconsistency;
		// treated as already-gone rather than a crash.
		log.Warn().Str("module", "app.coordinator").Str("conn", string(connID)).Str("room", string(p.RoomID)).Msg("participant had no open room")
		return
	}

	if !empty {
		c.emitRoom(remaining, UserDisconnectedEvent{Type: EventUserDisconnected, SocketID: connID})
		c.emitRoom(remaining, RoomUpdateEvent{Type: EventRoomUpdate, ConnectedUsers: remaining})
		return
	}

	closed, err := c.Rooms.Close(p.RoomID)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("room", string(p.RoomID)).Msg("empty room already closed")
		return
	}
	c.persistAsync(closed.Session())
}

// IncrementScore adds delta to the identity's score in the given room
// and returns the new total. ErrUnknownRoom when the room is not open.
func (c *Coordinator) IncrementScore(roomID domain.RoomID, identity domain.Identity, delta int) (int, error) {
	return c.Rooms.IncrementScore(roomID, identity, delta)
}

// RoomStatus reports whether the room is open and its participant count.
// Backs the pre-join existence check.
func (c *Coordinator) RoomStatus(roomID domain.RoomID) (count int, open bool) {
	return c.Rooms.Exists(roomID)
}

// persistAsync hands the session record to the store off the event path.
// The room's in-memory state is already gone, so a failed write only
// costs that room's score history and a log line.
func (c *Coordinator) persistAsync(s *domain.Session) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := c.Store.SaveSession(ctx, s); err != nil {
			log.Error().Err(err).Str("module", "app.coordinator").Time("session", s.ID).Msg("session persist failed")
			return
		}
		log.Info().Str("module", "app.coordinator").Time("session", s.ID).Int("participants", len(s.Participants)).Msg("session persisted")
	}()
}

func (c *Coordinator) emitTo(id domain.ConnID, v any) {
	conn, ok := c.Registry.Conn(id)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("conn", string(id)).Msg("emit target not routable")
		return
	}
	sendJSON(conn, v)
}

func (c *Coordinator) emitRoom(members []*domain.Participant, v any) {
	for _, m := range members {
		c.emitTo(m.ConnID, v)
	}
}

func newRoomID() domain.RoomID {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.RoomID(token[:roomIDLength])
}
