package domain

import "errors"

var (
	// ErrNotFound indicates an absent room or participant. Usually a
	// benign race (late disconnect, room already closed), so callers
	// decide whether it is worth more than a debug line.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateConnection indicates a connection id that is already
	// registered. Connection ids come from the transport and are assumed
	// unique, so this one is fatal for the registration.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrRoomExists indicates a room id collision at creation time.
	// The creator regenerates the id and retries.
	ErrRoomExists = errors.New("room id already taken")

	// ErrRoomUnavailable indicates a join against a room that disappeared
	// between the existence check and the join. Surfaced to the joining
	// client; no automatic retry.
	ErrRoomUnavailable = errors.New("room is unavailable")

	// ErrUnknownRoom indicates a score operation against a room with no
	// ledger. A caller error, not a race.
	ErrUnknownRoom = errors.New("no score ledger for room")
)
