package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

// Outbound event names mirror the browser client's socket vocabulary.
const (
	EventRoomID           = "room-id"
	EventRoomUpdate       = "room-update"
	EventConnPrepare      = "conn-prepare"
	EventUserDisconnected = "user-disconnected"
	EventConnSignal       = "conn-signal"
	EventConnInit         = "conn-init"
)

type RoomIDEvent struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type RoomUpdateEvent struct {
	Type           string                `json:"type"`
	ConnectedUsers []*domain.Participant `json:"connectedUsers"`
}

// ConnPrepareEvent tells an existing peer to get ready for an incoming
// connection from connUserSocketId.
type ConnPrepareEvent struct {
	Type             string        `json:"type"`
	ConnUserSocketID domain.ConnID `json:"connUserSocketId"`
}

type UserDisconnectedEvent struct {
	Type     string        `json:"type"`
	SocketID domain.ConnID `json:"socketId"`
}

// SignalEvent carries an opaque signaling payload between two peers.
// The payload is never parsed here.
type SignalEvent struct {
	Type             string          `json:"type"`
	Signal           json.RawMessage `json:"signal"`
	ConnUserSocketID domain.ConnID   `json:"connUserSocketId"`
}

// ConnInitEvent tells a peer that connUserSocketId finished local setup
// and is ready to receive signaling data.
type ConnInitEvent struct {
	Type             string        `json:"type"`
	ConnUserSocketID domain.ConnID `json:"connUserSocketId"`
}

// sendJSON marshals and hands the frame to the connection. Delivery is
// fire-and-forget: a full send buffer only costs this one frame.
func sendJSON(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app").Msg("sendJSON marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "app").Msg("sendJSON dropped frame")
	}
}
