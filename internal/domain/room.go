package domain

import "time"

// Room is the meta-data of one open room. Membership lives in the
// core registries, not here.
type Room struct {
	ID           RoomID
	HostIdentity Identity
	CreatedAt    time.Time
}
