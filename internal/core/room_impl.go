package core

import (
	"errors"
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type roomMember struct {
	conn       SignalConnection
	membership *domain.Membership
}

// Room is a threadsafe in-memory member set. Every mutation and the
// broadcast that follows it run under one lock, so events for the same
// room never interleave.
// It never closes adapter-owned resources.
type Room struct {
	token domain.RoomToken

	mu      sync.Mutex
	members map[SessionID]*roomMember
	// closed is set once the last member leaves; a closed room is
	// never reused.
	closed bool
}

func NewRoom(token domain.RoomToken) *Room {
	return &Room{
		token:   token,
		members: make(map[SessionID]*roomMember),
	}
}

func (r *Room) Token() domain.RoomToken { return r.token }

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Admit adds sid and then, still under the room lock, sends announce to
// every member except sid and welcome(count) to sid itself. ok is false
// when the room is already closed.
func (r *Room) Admit(
	sid SessionID,
	conn SignalConnection,
	m *domain.Membership,
	announce Frame,
	welcome func(count int) Frame,
) (count int, res PublishResult, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, res, false
	}
	r.members[sid] = &roomMember{conn: conn, membership: m}
	count = len(r.members)
	log.Info().Str("module", "core.room").Str("sid", string(sid)).Str("room", string(r.token)).Str("handshake_id", string(m.HandshakeID)).Int("count", count).Msg("member added")
	if welcome != nil {
		if err := conn.TrySend(welcome(count)); err != nil {
			res.Dropped = append(res.Dropped, sid)
		}
	}
	if announce != nil {
		others := r.broadcastLocked(sid, announce, false)
		res.SendTo = others.SendTo
		res.Dropped = append(res.Dropped, others.Dropped...)
	}
	return count, res, true
}

// Depart removes sid and sends announce to the remaining members. empty
// reports that the room closed with this departure.
func (r *Room) Depart(sid SessionID, announce Frame) (res PublishResult, removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[sid]; !ok {
		return res, false, len(r.members) == 0
	}
	delete(r.members, sid)
	log.Info().Str("module", "core.room").Str("sid", string(sid)).Str("room", string(r.token)).Msg("member removed")
	if announce != nil {
		res = r.broadcastLocked(sid, announce, false)
	}
	if len(r.members) == 0 {
		r.closed = true
	}
	return res, true, r.closed
}

// Broadcast fans data out to every member; from is skipped unless
// includeSender is set.
func (r *Room) Broadcast(from SessionID, data Frame, includeSender bool) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.broadcastLocked(from, data, includeSender)
}

func (r *Room) broadcastLocked(from SessionID, data Frame, includeSender bool) PublishResult {
	res := PublishResult{}
	for sid, m := range r.members {
		if sid == from && !includeSender {
			continue
		}
		if err := m.conn.TrySend(data); err != nil {
			if !errors.Is(err, ErrBackpressure) {
				log.Debug().Err(err).Str("module", "core.room").Str("sid", string(sid)).Msg("send failed")
			}
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.token)).Str("from", string(from)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// Members returns the current member ids, leaving out excluding when it
// is non-empty.
func (r *Room) Members(excluding SessionID) []SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Filter(lo.Keys(r.members), func(sid SessionID, _ int) bool {
		return excluding == "" || sid != excluding
	})
}

// Membership returns the record the room holds for sid.
func (r *Room) Membership(sid SessionID) (*domain.Membership, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[sid]
	if !ok {
		return nil, false
	}
	return m.membership, true
}
