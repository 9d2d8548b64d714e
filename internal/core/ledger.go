package core

import "github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"

// Ledger accumulates per-identity scores for one room's lifetime.
// Not threadsafe on its own: the owning RoomRegistry serializes access.
type Ledger struct {
	scores map[domain.Identity]int
	order  []domain.Identity // first-increment order, for stable snapshots
}

func newLedger() *Ledger {
	return &Ledger{scores: make(map[domain.Identity]int)}
}

// Increment adds delta to the identity's score, creating the entry at 0
// if absent, and returns the new total.
func (l *Ledger) Increment(id domain.Identity, delta int) int {
	if _, ok := l.scores[id]; !ok {
		l.order = append(l.order, id)
	}
	l.scores[id] += delta
	return l.scores[id]
}

// Snapshot returns the final (identity, score) pairs in first-increment
// order. Read once at room close to build the persisted session.
func (l *Ledger) Snapshot() []domain.SessionParticipant {
	out := make([]domain.SessionParticipant, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, domain.SessionParticipant{Identity: id, Score: l.scores[id]})
	}
	return out
}
