package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

func (ctl *Controller) handleConnSignal(connID domain.ConnID, data []byte) {
	type signalPayload struct {
		Type             string          `json:"type"`
		ConnUserSocketID string          `json:"connUserSocketId"`
		Signal           json.RawMessage `json:"signal"`
	}
	var p signalPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad conn-signal payload")
		return
	}
	ctl.Relay.RelaySignal(connID, domain.ConnID(p.ConnUserSocketID), p.Signal)
}

func (ctl *Controller) handleConnInit(connID domain.ConnID, data []byte) {
	type initPayload struct {
		Type             string `json:"type"`
		ConnUserSocketID string `json:"connUserSocketId"`
	}
	var p initPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad conn-init payload")
		return
	}
	ctl.Relay.RelayReady(connID, domain.ConnID(p.ConnUserSocketID))
}
