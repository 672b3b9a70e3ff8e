package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type chatPayload struct {
	Type    string `json:"type"`
	Content string `json:"content" validate:"required"`
}

func (ctl *SignalWSController) handleChat(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	// Outside a room the state decides the outcome, before any payload
	// check or rate limit can answer.
	if ctl.Orch.Lifecycle.State(sid) != core.StateInRoom {
		ctl.report(sid, conn, ctl.Orch.Dispatch(sid, core.ChatCommand{}))
		return
	}

	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.report(sid, conn, fmt.Errorf("%w: %w", core.ErrBadPayload, err))
		return
	}
	if err := validate.Struct(p); err != nil {
		ctl.report(sid, conn, fmt.Errorf("%w: empty message", core.ErrBadPayload))
		return
	}
	if ctl.chat.MaxLength > 0 && len(p.Content) > ctl.chat.MaxLength {
		ctl.report(sid, conn, fmt.Errorf("%w: message longer than %d bytes", core.ErrBadPayload, ctl.chat.MaxLength))
		return
	}
	if !ctl.limiter.Allow(sid) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limited")
		ctl.sendJSON(conn, core.ErrorReply(core.CodeRateLimited, "slow down"))
		return
	}
	ctl.report(sid, conn, ctl.Orch.Dispatch(sid, core.ChatCommand{Content: p.Content}))
}
