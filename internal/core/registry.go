package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

type registryEntry struct {
	Participant *domain.Participant
	Conn        SignalConnection
}

// Registry is the threadsafe in-memory map of connected participants,
// keyed by connection id. It pairs each participant record with its
// transport endpoint so the relay can check routability, and it has no
// side effects beyond itself.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.ConnID]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.ConnID]*registryEntry)}
}

// Add inserts a participant keyed by its connection id.
// Returns ErrDuplicateConnection if the id is already registered.
func (r *Registry) Add(p *domain.Participant, conn SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[p.ConnID]; ok {
		return domain.ErrDuplicateConnection
	}
	r.entries[p.ConnID] = &registryEntry{Participant: p, Conn: conn}
	log.Info().Str("module", "core.registry").Str("conn", string(p.ConnID)).Str("identity", string(p.Identity)).Msg("participant added")
	return nil
}

// Remove deletes and returns the participant for the given connection id.
// Returns ErrNotFound if absent; a connection may report disconnect more
// than once, so callers must treat that as a no-op.
func (r *Registry) Remove(id domain.ConnID) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.entries, id)
	log.Info().Str("module", "core.registry").Str("conn", string(id)).Msg("participant removed")
	return e.Participant, nil
}

func (r *Registry) Lookup(id domain.ConnID) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.Participant, true
}

// Conn returns the transport endpoint for a connection id, if routable.
func (r *Registry) Conn(id domain.ConnID) (SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.Conn, true
}
