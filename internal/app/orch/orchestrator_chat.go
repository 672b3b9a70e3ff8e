package orch

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Chat relays content to the room of sid with the sender's display name.
// A sender without a room gets ErrOrphanChat and nothing is sent.
func (o *Orchestrator) Chat(sid core.SessionID, content string) error {
	m, ok := o.Lifecycle.RoomOf(sid)
	if !ok {
		return core.ErrOrphanChat
	}
	msg := domain.ChatMessage{SenderDisplayName: m.User.Username, Content: content}
	res, ok := o.Rooms.Broadcast(m.Room, sid, mustEncode(core.Chat(msg)), o.EchoChat)
	if !ok {
		return core.ErrOrphanChat
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(m.Room)).Int("sent_to", res.SendTo).Msg("chat")
	o.applyPolicy(m.Room, res)
	return nil
}
