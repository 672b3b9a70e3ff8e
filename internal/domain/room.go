package domain

import "errors"

const MaxRoomTokenLen = 64

var (
	ErrRoomTokenEmpty   = errors.New("room token empty")
	ErrRoomTokenTooLong = errors.New("room token too long")
)

// RoomToken is a caller-chosen opaque room name. Rooms exist only
// while they have members.
type RoomToken string

func ParseRoomToken(raw string) (RoomToken, error) {
	if raw == "" {
		return "", ErrRoomTokenEmpty
	}
	if len(raw) > MaxRoomTokenLen {
		return "", ErrRoomTokenTooLong
	}
	return RoomToken(raw), nil
}
