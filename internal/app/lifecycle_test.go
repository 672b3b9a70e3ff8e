package app_test

import (
	"sync/atomic"
	"testing"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_StateMachine(t *testing.T) {
	req := require.New(t)
	l := app.NewLifecycle()
	conn := &fakeConn{}

	req.NoError(l.Connect("s1", conn))
	req.Error(l.Connect("s1", conn))
	req.Equal(core.StateUnauthenticated, l.State("s1"))

	// Join before auth is refused
	_, err := l.Join("s1", "abc", "h1", func(core.SignalConnection, *domain.Membership) {})
	req.ErrorIs(err, core.ErrInvalidJoin)

	req.NoError(l.Authenticate("s1", user("alice")))
	req.Equal(core.StateAuthenticated, l.State("s1"))
	req.ErrorIs(l.Authenticate("s1", user("alice")), core.ErrAuthentication)
	_, ok := l.RoomOf("s1")
	req.False(ok)

	var admitted core.SignalConnection
	m, err := l.Join("s1", "abc", "h1", func(c core.SignalConnection, m *domain.Membership) {
		admitted = c
		req.Equal(domain.RoomToken("abc"), m.Room)
	})
	req.NoError(err)
	req.Same(conn, admitted)
	req.Equal(domain.HandshakeID("h1"), m.HandshakeID)
	req.Equal(core.StateInRoom, l.State("s1"))

	got, ok := l.RoomOf("s1")
	req.True(ok)
	req.Equal(m, got)

	// A second join while in a room is refused
	_, err = l.Join("s1", "other", "h9", func(core.SignalConnection, *domain.Membership) {
		req.Fail("admit must not run")
	})
	req.ErrorIs(err, core.ErrInvalidJoin)

	u, ok := l.User("s1")
	req.True(ok)
	req.Equal("alice", u.Username)
}

func TestLifecycle_CloseRunsDepartOnlyForMembers(t *testing.T) {
	req := require.New(t)
	l := app.NewLifecycle()

	req.NoError(l.Connect("lobby", &fakeConn{}))
	req.NoError(l.Authenticate("lobby", user("a")))
	req.True(l.Close("lobby", func(*domain.Membership) { req.Fail("never joined") }))

	req.NoError(l.Connect("member", &fakeConn{}))
	req.NoError(l.Authenticate("member", user("b")))
	_, err := l.Join("member", "abc", "h2", func(core.SignalConnection, *domain.Membership) {})
	req.NoError(err)

	var departed *domain.Membership
	req.True(l.Close("member", func(m *domain.Membership) { departed = m }))
	req.NotNil(departed)
	req.Equal(domain.HandshakeID("h2"), departed.HandshakeID)

	req.Equal(core.StateClosed, l.State("member"))
	req.Equal(0, l.Len())
	_, ok := l.Conn("member")
	req.False(ok)
}

func TestLifecycle_ConcurrentCloseIsIdempotent(t *testing.T) {
	req := require.New(t)
	l := app.NewLifecycle()
	req.NoError(l.Connect("s1", &fakeConn{}))
	req.NoError(l.Authenticate("s1", user("a")))
	_, err := l.Join("s1", "abc", "h1", func(core.SignalConnection, *domain.Membership) {})
	req.NoError(err)

	var departs, wins atomic.Int32
	var wg conc.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Go(func() {
			if l.Close("s1", func(*domain.Membership) { departs.Add(1) }) {
				wins.Add(1)
			}
		})
	}
	wg.Wait()

	req.Equal(int32(1), departs.Load())
	req.Equal(int32(1), wins.Load())
}

func TestLifecycle_UnknownSession(t *testing.T) {
	req := require.New(t)
	l := app.NewLifecycle()

	req.Equal(core.StateClosed, l.State("ghost"))
	req.ErrorIs(l.Authenticate("ghost", user("a")), core.ErrUnknownSession)
	req.False(l.Close("ghost", nil))
	_, ok := l.User("ghost")
	req.False(ok)
}
