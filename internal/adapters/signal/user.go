package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleAuth is the first message of a connection that opened without a
// credential.
func (ctl *SignalWSController) handleAuth(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	var p struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.report(sid, conn, fmt.Errorf("%w: %w", core.ErrAuthentication, err))
		return
	}
	if err := ctl.Orch.Dispatch(sid, core.AuthCommand{Token: auth.StripBearer(p.Token)}); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("auth failed")
		ctl.report(sid, conn, err)
		return
	}
	ctl.handleWhoAmI(sid, conn)
}

func (ctl *SignalWSController) handleWhoAmI(
	sid core.SessionID,
	conn *WsSignalConn,
) {
	user, ok := ctl.Orch.Lifecycle.User(sid)
	if !ok {
		ctl.report(sid, conn, fmt.Errorf("%w: authenticate first", core.ErrAuthentication))
		return
	}

	resp := struct {
		Type        core.EventType   `json:"type"`
		UserID      domain.UserID    `json:"userId"`
		DisplayName string           `json:"displayName"`
		RoomToken   domain.RoomToken `json:"roomToken,omitempty"`
	}{
		Type:        core.EventWhoAmI,
		UserID:      user.ID,
		DisplayName: user.Username,
	}
	if m, ok := ctl.Orch.Lifecycle.RoomOf(sid); ok {
		resp.RoomToken = m.Room
	}
	ctl.sendJSON(conn, resp)
}
