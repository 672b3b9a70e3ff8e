package orch

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join admits sid into room and tells the members already there about its
// handshake id. The membership is recorded before anyone is told.
func (o *Orchestrator) Join(sid core.SessionID, room domain.RoomToken, hid domain.HandshakeID) error {
	var res core.PublishResult
	announce := mustEncode(core.ParticipantJoined(hid))
	welcome := func(count int) core.Frame {
		return mustEncode(core.JoinedEvent{Type: core.EventJoined, RoomToken: room, Count: count})
	}

	_, err := o.Lifecycle.Join(sid, room, hid, func(conn core.SignalConnection, m *domain.Membership) {
		_, res = o.Rooms.Join(sid, conn, m, announce, welcome)
	})
	if err != nil {
		return err
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Int("notified", res.SendTo).Msg("joined")
	o.applyPolicy(room, res)
	return nil
}

// Disconnect tears sid down exactly once. A connection that was in a room
// announces its handshake id to the remaining members; one that never
// joined announces nothing.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	var (
		res  core.PublishResult
		room domain.RoomToken
	)
	closed := o.Lifecycle.Close(sid, func(m *domain.Membership) {
		room = m.Room
		res, _ = o.Rooms.Leave(sid, m.Room, mustEncode(core.ParticipantLeft(m.HandshakeID)))
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(m.Room)).Int("notified", res.SendTo).Msg("left room")
	})
	if !closed {
		return
	}
	if room != "" {
		o.applyPolicy(room, res)
	}
}

// Leave is an explicit leave: same teardown as a disconnect, then the
// connection is acknowledged and closed.
func (o *Orchestrator) Leave(sid core.SessionID) {
	conn, ok := o.Lifecycle.Conn(sid)
	o.Disconnect(sid)
	if !ok {
		return
	}
	send(conn, struct {
		Type core.EventType `json:"type"`
	}{Type: core.EventLeft})
	conn.Close()
}
