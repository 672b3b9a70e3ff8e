package app

import (
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomRegistry tracks which connections belong to which room. Rooms are
// created on first join and dropped as soon as they are empty.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomToken]*core.Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.RoomToken]*core.Room)}
}

func (f *RoomRegistry) getOrCreate(token domain.RoomToken) *core.Room {
	f.mu.RLock()
	room, ok := f.rooms[token]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[token]; ok {
		return room
	}
	room = core.NewRoom(token)
	f.rooms[token] = room
	log.Info().Str("module", "app.rooms").Str("room", string(token)).Msg("room created")
	return room
}

// discard removes room only if it is still the entry for token.
func (f *RoomRegistry) discard(token domain.RoomToken, room *core.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rooms[token] == room {
		delete(f.rooms, token)
		log.Info().Str("module", "app.rooms").Str("room", string(token)).Msg("room deleted")
	}
}

func (f *RoomRegistry) Get(token domain.RoomToken) (*core.Room, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[token]
	return room, ok
}

// Join adds sid to m.Room and announces it to the members already there.
// The caller is responsible for the connection state check.
func (f *RoomRegistry) Join(
	sid core.SessionID,
	conn core.SignalConnection,
	m *domain.Membership,
	announce core.Frame,
	welcome func(count int) core.Frame,
) (int, core.PublishResult) {
	for {
		room := f.getOrCreate(m.Room)
		count, res, ok := room.Admit(sid, conn, m, announce, welcome)
		if ok {
			return count, res
		}
		// Emptied between lookup and admit.
		f.discard(m.Room, room)
	}
}

// Leave removes sid from token and announces the departure to the rest.
// It is a no-op for a connection that is not a member.
func (f *RoomRegistry) Leave(sid core.SessionID, token domain.RoomToken, announce core.Frame) (core.PublishResult, bool) {
	room, ok := f.Get(token)
	if !ok {
		return core.PublishResult{}, false
	}
	res, removed, empty := room.Depart(sid, announce)
	if empty {
		f.discard(token, room)
	}
	return res, removed
}

// Broadcast sends data to the members of token. ok is false when the room
// does not exist.
func (f *RoomRegistry) Broadcast(token domain.RoomToken, from core.SessionID, data core.Frame, includeSender bool) (core.PublishResult, bool) {
	room, ok := f.Get(token)
	if !ok {
		return core.PublishResult{}, false
	}
	return room.Broadcast(from, data, includeSender), true
}

// MembersOf returns a snapshot of the members of token, leaving out
// excluding when it is non-empty.
func (f *RoomRegistry) MembersOf(token domain.RoomToken, excluding core.SessionID) []core.SessionID {
	room, ok := f.Get(token)
	if !ok {
		return nil
	}
	return room.Members(excluding)
}

func (f *RoomRegistry) List() []core.RoomInfo {
	f.mu.RLock()
	rooms := make([]*core.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		rooms = append(rooms, r)
	}
	f.mu.RUnlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, core.RoomInfo{RoomToken: r.Token(), Count: r.MemberCount()})
	}
	return out
}

func (f *RoomRegistry) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
