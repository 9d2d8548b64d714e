package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

// Relay forwards peer-introduction and signaling envelopes between
// connections. It never mutates the registry and never looks inside a
// payload. Unroutable targets are dropped silently: under normal churn
// a peer may disconnect while a signal addressed to it is in flight.
type Relay struct {
	Registry *core.Registry
}

func NewRelay(reg *core.Registry) *Relay {
	return &Relay{Registry: reg}
}

// RelaySignal forwards the opaque payload to the target, stamped with
// the sender's connection id.
func (r *Relay) RelaySignal(from, to domain.ConnID, signal json.RawMessage) {
	conn, ok := r.Registry.Conn(to)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("to", string(to)).Msg("signal target gone, dropped")
		return
	}
	sendJSON(conn, SignalEvent{Type: EventConnSignal, Signal: signal, ConnUserSocketID: from})
}

// RelayReady tells the target that the sender finished local setup and
// can receive the other side's signaling data.
func (r *Relay) RelayReady(from, to domain.ConnID) {
	conn, ok := r.Registry.Conn(to)
	if !ok {
		log.Debug().Str("module", "app.relay").Str("to", string(to)).Msg("init target gone, dropped")
		return
	}
	sendJSON(conn, ConnInitEvent{Type: EventConnInit, ConnUserSocketID: from})
}
