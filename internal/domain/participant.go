// Package domain contains entities without logic, just meta-data
package domain

import "github.com/google/uuid"

type (
	// Identity is the external user key supplied by the client. It is
	// opaque to the backend and may repeat across rooms and connections.
	Identity string

	// ConnID addresses one transport connection. The transport guarantees
	// uniqueness; everything else keys participants by it.
	ConnID string

	RoomID string
)

// Participant is one connected client's membership record within a room.
// The JSON field names mirror the browser client's expectations.
type Participant struct {
	ID        string   `json:"id"`
	Identity  Identity `json:"identity"`
	ConnID    ConnID   `json:"socketId"`
	RoomID    RoomID   `json:"roomId"`
	OnlyAudio bool     `json:"onlyAudio"`
}

// NewParticipant avoids raw struct literals in adapters and keeps
// construction obvious.
func NewParticipant(identity Identity, connID ConnID, roomID RoomID, onlyAudio bool) *Participant {
	return &Participant{
		ID:        uuid.NewString(),
		Identity:  identity,
		ConnID:    connID,
		RoomID:    roomID,
		OnlyAudio: onlyAudio,
	}
}
