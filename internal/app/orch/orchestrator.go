//go:generate go run go.uber.org/mock/mockgen -source=orchestrator.go -destination=../../mocks/mock_authenticator.go -package=mocks
package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Authenticator validates a connection credential.
type Authenticator interface {
	Authenticate(token string) (*domain.User, error)
}

type Orchestrator struct {
	Lifecycle *app.Lifecycle
	Rooms     *app.RoomRegistry
	Auth      Authenticator
	Policy    app.Policy
	// EchoChat also delivers chat messages back to their sender.
	EchoChat bool
}

func New(auth Authenticator, policy app.Policy, echoChat bool) *Orchestrator {
	return &Orchestrator{
		Lifecycle: app.NewLifecycle(),
		Rooms:     app.NewRoomRegistry(),
		Auth:      auth,
		Policy:    policy,
		EchoChat:  echoChat,
	}
}

// Connect registers a new connection. A non-nil user means the credential
// was already validated at connection setup.
func (o *Orchestrator) Connect(sid core.SessionID, conn core.SignalConnection, user *domain.User) error {
	if err := o.Lifecycle.Connect(sid, conn); err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return o.Lifecycle.Authenticate(sid, user)
}

// admissible matches a command kind against the connection state.
func admissible(state core.State, kind core.CommandKind) error {
	switch state {
	case core.StateClosed:
		return core.ErrClosed
	case core.StateUnauthenticated:
		if kind != core.CommandAuth {
			return fmt.Errorf("%w: authenticate first", core.ErrAuthentication)
		}
	case core.StateAuthenticated:
		switch kind {
		case core.CommandAuth:
			return fmt.Errorf("%w: already authenticated", core.ErrInvalidState)
		case core.CommandChat:
			return core.ErrOrphanChat
		}
	case core.StateInRoom:
		switch kind {
		case core.CommandAuth:
			return fmt.Errorf("%w: already authenticated", core.ErrInvalidState)
		case core.CommandJoin:
			return fmt.Errorf("%w: already in a room", core.ErrInvalidJoin)
		}
	}
	return nil
}

// Dispatch runs cmd for sid if the connection state accepts it.
func (o *Orchestrator) Dispatch(sid core.SessionID, cmd core.Command) error {
	state := o.Lifecycle.State(sid)
	if err := admissible(state, cmd.Kind()); err != nil {
		if !errors.Is(err, core.ErrOrphanChat) {
			log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("state", state.String()).Str("cmd", string(cmd.Kind())).Msg("command rejected")
		}
		return err
	}

	switch c := cmd.(type) {
	case core.AuthCommand:
		return o.Authenticate(sid, c.Token)
	case core.JoinCommand:
		return o.Join(sid, c.Room, c.HandshakeID)
	case core.ChatCommand:
		return o.Chat(sid, c.Content)
	case core.LeaveCommand:
		o.Leave(sid)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", core.ErrBadPayload, cmd.Kind())
	}
}

func (o *Orchestrator) Authenticate(sid core.SessionID, token string) error {
	user, err := o.Auth.Authenticate(token)
	if err != nil {
		return err
	}
	return o.Lifecycle.Authenticate(sid, user)
}

// Kick closes the transport of sid; teardown follows from the adapter.
func (o *Orchestrator) Kick(sid core.SessionID) {
	conn, ok := o.Lifecycle.Conn(sid)
	if !ok {
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("kick")
	conn.Close()
}

func (o *Orchestrator) applyPolicy(room domain.RoomToken, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			o.Kick(slow)
		case app.DropFrame, app.NoAction:
			log.Debug().Str("module", "orch").Str("sid", string(slow)).Str("room", string(room)).Msg("frame dropped")
		}
	}
}

// Reply encodes v and queues it for sid only.
func (o *Orchestrator) Reply(sid core.SessionID, v any) {
	conn, ok := o.Lifecycle.Conn(sid)
	if !ok {
		return
	}
	send(conn, v)
}

func send(conn core.SignalConnection, v any) {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "orch").Msg("reply dropped")
	}
}

// mustEncode is for events built from validated fields only.
func mustEncode(v any) core.Frame {
	frame, err := core.Encode(v)
	if err != nil {
		panic(err)
	}
	return frame
}
