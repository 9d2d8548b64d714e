package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

func (ctl *Controller) handleCreateRoom(
	connID domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Type      string `json:"type"`
		Identity  string `json:"identity"`
		OnlyAudio bool   `json:"onlyAudio"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create-new-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	roomID, err := ctl.Coord.CreateRoom(conn, connID, domain.Identity(p.Identity), p.OnlyAudio)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("create room failed")
		ctl.sendError(conn, "could not create room")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(connID)).Str("room", string(roomID)).Msg("room created")
}

func (ctl *Controller) handleJoinRoom(
	connID domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type      string `json:"type"`
		Identity  string `json:"identity"`
		RoomID    string `json:"roomId"`
		OnlyAudio bool   `json:"onlyAudio"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	err := ctl.Coord.JoinRoom(conn, connID, domain.Identity(p.Identity), domain.RoomID(p.RoomID), p.OnlyAudio)
	if err != nil {
		// The client checked existence before joining, so this is the
		// check/join race; it gets a user-visible failure either way.
		if !errors.Is(err, domain.ErrRoomUnavailable) {
			log.Error().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("join room failed")
		}
		ctl.sendError(conn, "room is not available")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(connID)).Str("room", p.RoomID).Msg("joined room")
}
