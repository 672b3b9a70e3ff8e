package app

import (
	"fmt"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type session struct {
	mu         sync.Mutex
	state      core.State
	conn       core.SignalConnection
	user       *domain.User
	membership *domain.Membership
}

// Lifecycle owns per-connection state: identity, current room and the
// handshake id mapping. Each entry lives from Connect until Close.
type Lifecycle struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*session
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{sessions: make(map[core.SessionID]*session)}
}

func (l *Lifecycle) get(sid core.SessionID) (*session, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sessions[sid]
	return s, ok
}

// Connect registers an unauthenticated connection.
func (l *Lifecycle) Connect(sid core.SessionID, conn core.SignalConnection) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sessions[sid]; ok {
		return fmt.Errorf("session %s already connected", sid)
	}
	l.sessions[sid] = &session{state: core.StateUnauthenticated, conn: conn}
	log.Info().Str("module", "app.lifecycle").Str("sid", string(sid)).Msg("connected")
	return nil
}

// Authenticate attaches identity. Only valid once, from Unauthenticated.
func (l *Lifecycle) Authenticate(sid core.SessionID, user *domain.User) error {
	s, ok := l.get(sid)
	if !ok {
		return core.ErrUnknownSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateUnauthenticated {
		return fmt.Errorf("%w: session is %s", core.ErrAuthentication, s.state)
	}
	s.user = user
	s.state = core.StateAuthenticated
	log.Info().Str("module", "app.lifecycle").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("authenticated")
	return nil
}

// State reports StateClosed for connections that are gone.
func (l *Lifecycle) State(sid core.SessionID) core.State {
	s, ok := l.get(sid)
	if !ok {
		return core.StateClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (l *Lifecycle) User(sid core.SessionID) (*domain.User, bool) {
	s, ok := l.get(sid)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != nil
}

func (l *Lifecycle) Conn(sid core.SessionID) (core.SignalConnection, bool) {
	s, ok := l.get(sid)
	if !ok {
		return nil, false
	}
	return s.conn, true
}

// RoomOf returns the membership record of sid, if it is in a room.
func (l *Lifecycle) RoomOf(sid core.SessionID) (*domain.Membership, bool) {
	s, ok := l.get(sid)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateInRoom || s.membership == nil {
		return nil, false
	}
	return s.membership, true
}

// Join moves sid from Authenticated to InRoom. admit runs under the session
// lock after the membership record is set, so readers never observe a
// member without its record.
func (l *Lifecycle) Join(
	sid core.SessionID,
	room domain.RoomToken,
	hid domain.HandshakeID,
	admit func(conn core.SignalConnection, m *domain.Membership),
) (*domain.Membership, error) {
	s, ok := l.get(sid)
	if !ok {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidJoin, core.ErrUnknownSession)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != core.StateAuthenticated {
		return nil, fmt.Errorf("%w: session is %s", core.ErrInvalidJoin, s.state)
	}
	m := domain.NewMembership(room, hid, s.user)
	s.membership = m
	s.state = core.StateInRoom
	admit(s.conn, m)
	return m, nil
}

// Close moves sid to Closed exactly once. For a connection that was in a
// room, depart runs under the session lock with the captured membership.
// Later calls return false and do nothing.
func (l *Lifecycle) Close(sid core.SessionID, depart func(m *domain.Membership)) bool {
	s, ok := l.get(sid)
	if !ok {
		return false
	}
	s.mu.Lock()
	if s.state == core.StateClosed {
		s.mu.Unlock()
		return false
	}
	prev, m := s.state, s.membership
	s.state = core.StateClosed
	s.membership = nil
	if prev == core.StateInRoom && m != nil && depart != nil {
		depart(m)
	}
	s.mu.Unlock()

	l.mu.Lock()
	delete(l.sessions, sid)
	l.mu.Unlock()
	log.Info().Str("module", "app.lifecycle").Str("sid", string(sid)).Str("from", prev.String()).Msg("closed")
	return true
}

func (l *Lifecycle) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}
