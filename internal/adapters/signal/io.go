package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("writePump channel closed")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump is the only reader of the socket, so events of one connection
// are handled in order. Any exit tears the connection down.
func (ctl *SignalWSController) readPump(sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.Disconnect(sid)
		c.Close()
	}()

	pongWait := ctl.cfg.PongWait()
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(fmt.Errorf("%w: %w", core.ErrTransport, err)).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		ctl.handleSignal(sid, c, data)
	}
}

func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.report(sid, c, core.ErrBadPayload)
		return
	}

	switch env.Type {
	case "auth":
		ctl.handleAuth(sid, c, data)
	case "join":
		ctl.handleJoin(sid, c, data)
	case "chat":
		ctl.handleChat(sid, c, data)
	case "leave":
		ctl.handleLeave(sid, c)
	case "ping":
		ctl.handlePing(c)
	case "whoami":
		ctl.handleWhoAmI(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendJSON(c, core.ErrorReply(core.CodeUnknownType, env.Type))
	}
}

// report maps a command error onto the reply the client sees. Teardown
// path errors are absorbed.
func (ctl *SignalWSController) report(sid core.SessionID, c *WsSignalConn, err error) {
	switch {
	case err == nil:
	case errors.Is(err, core.ErrAuthentication):
		ctl.sendJSON(c, core.ErrorReply(core.CodeAuthentication, "invalid or missing credentials"))
		c.Close()
	case errors.Is(err, core.ErrInvalidJoin):
		ctl.sendJSON(c, core.ErrorReply(core.CodeInvalidJoin, err.Error()))
	case errors.Is(err, core.ErrInvalidState):
		ctl.sendJSON(c, core.ErrorReply(core.CodeInvalidState, err.Error()))
	case errors.Is(err, core.ErrBadPayload):
		ctl.sendJSON(c, core.ErrorReply(core.CodeBadPayload, err.Error()))
	case errors.Is(err, core.ErrOrphanChat):
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("chat dropped, not in a room")
	default:
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("command error absorbed")
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
