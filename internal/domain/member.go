package domain

import "errors"

const MaxHandshakeIDLen = 128

var (
	ErrHandshakeIDEmpty   = errors.New("handshake id empty")
	ErrHandshakeIDTooLong = errors.New("handshake id too long")
)

// HandshakeID addresses a participant in the peer-to-peer media protocol.
// The relay only forwards it.
type HandshakeID string

func ParseHandshakeID(raw string) (HandshakeID, error) {
	if raw == "" {
		return "", ErrHandshakeIDEmpty
	}
	if len(raw) > MaxHandshakeIDLen {
		return "", ErrHandshakeIDTooLong
	}
	return HandshakeID(raw), nil
}

// Membership binds a connection to its single current room.
// No transport or lifecycle logic here.
type Membership struct {
	Room        RoomToken
	HandshakeID HandshakeID
	User        *User
}

// NewMembership avoids raw literals in adapters and keeps construction obvious.
func NewMembership(room RoomToken, hid HandshakeID, user *User) *Membership {
	return &Membership{Room: room, HandshakeID: hid, User: user}
}
