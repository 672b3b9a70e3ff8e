package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type joinPayload struct {
	Type        string `json:"type"`
	RoomToken   string `json:"roomToken" validate:"required"`
	HandshakeID string `json:"handshakeId" validate:"required"`
}

func decodeJoin(data []byte) (core.JoinCommand, error) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return core.JoinCommand{}, fmt.Errorf("%w: %w", core.ErrBadPayload, err)
	}
	if err := validate.Struct(p); err != nil {
		return core.JoinCommand{}, fmt.Errorf("%w: %w", core.ErrBadPayload, err)
	}
	room, err := domain.ParseRoomToken(p.RoomToken)
	if err != nil {
		return core.JoinCommand{}, fmt.Errorf("%w: %w", core.ErrBadPayload, err)
	}
	hid, err := domain.ParseHandshakeID(p.HandshakeID)
	if err != nil {
		return core.JoinCommand{}, fmt.Errorf("%w: %w", core.ErrBadPayload, err)
	}
	return core.JoinCommand{Room: room, HandshakeID: hid}, nil
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	cmd, err := decodeJoin(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join payload")
		ctl.report(sid, conn, err)
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(cmd.Room)).Msg("join")
	ctl.report(sid, conn, ctl.Orch.Dispatch(sid, cmd))
}

// handleLeave ends the connection after the departure is announced.
func (ctl *SignalWSController) handleLeave(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.report(sid, conn, ctl.Orch.Dispatch(sid, core.LeaveCommand{}))
}
