package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/auth"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

type SignalWSController struct {
	Orch    *orch.Orchestrator
	cfg     config.Signal
	chat    config.Chat
	authTTL time.Duration

	limiter  *ChatRateLimiter
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Orch:    o,
		cfg:     cfg.Signal,
		chat:    cfg.Chat,
		authTTL: cfg.Auth.Timeout,
		limiter: NewChatRateLimiter(cfg.Chat.RatePerSecond, cfg.Chat.Burst),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(cfg.AllowedOrigins),
		},
	}
}

// checkOrigin allows every origin when allowed is empty.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || lo.Contains(allowed, origin)
	}
}

// WsSignalConn is the transport endpoint of one client.
// It implements core.SignalConnection.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Close stops accepting frames. The write pump flushes what is queued,
// sends a close message and closes the socket.
func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// HandleSignal upgrades the request and runs the connection until it
// closes. A credential presented with the request is checked before the
// upgrade; without one the client must send an auth message first.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	var user *domain.User
	if token := c.GetString(auth.ContextKey); token != "" {
		var err error
		user, err = ctl.Orch.Auth.Authenticate(token)
		if err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("remote", c.ClientIP()).Msg("connection refused")
			c.AbortWithStatusJSON(http.StatusUnauthorized, core.ErrorReply(core.CodeAuthentication, "invalid or expired token"))
			return
		}
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	if err := ctl.Orch.Connect(sid, conn, user); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("connect")
		_ = ws.Close()
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Bool("authenticated", user != nil).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if user == nil {
		timer := time.AfterFunc(ctl.authTTL, func() { ctl.expireUnauthenticated(sid, conn) })
		defer timer.Stop()
	}

	var wg conc.WaitGroup
	wg.Go(func() { ctl.writePump(ctx, sid, conn) })
	wg.Go(func() {
		defer cancel()
		ctl.readPump(sid, conn)
	})
	wg.Wait()
	ctl.limiter.Forget(sid)
}

func (ctl *SignalWSController) expireUnauthenticated(sid core.SessionID, conn *WsSignalConn) {
	if ctl.Orch.Lifecycle.State(sid) != core.StateUnauthenticated {
		return
	}
	log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("authentication timeout")
	ctl.sendJSON(conn, core.ErrorReply(core.CodeAuthentication, "authentication timeout"))
	conn.Close()
}
