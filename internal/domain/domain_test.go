package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		username string
		want     error
	}{
		{"Valid", "u1", "alice", nil},
		{"Empty id", "", "alice", ErrUserIDEmpty},
		{"Long id", strings.Repeat("i", MaxUserIDLen+1), "alice", ErrUserIDTooLong},
		{"Empty username", "u1", "", ErrUsernameEmpty},
		{"Long username", "u1", strings.Repeat("n", MaxUsernameLen+1), ErrUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.id, tt.username)
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			require.Equal(t, &User{ID: UserID(tt.id), Username: tt.username}, u)
		})
	}
}

func TestParseRoomTokenAndHandshakeID(t *testing.T) {
	req := require.New(t)

	room, err := ParseRoomToken("abc")
	req.NoError(err)
	req.Equal(RoomToken("abc"), room)
	_, err = ParseRoomToken("")
	req.ErrorIs(err, ErrRoomTokenEmpty)
	_, err = ParseRoomToken(strings.Repeat("r", MaxRoomTokenLen+1))
	req.ErrorIs(err, ErrRoomTokenTooLong)

	hid, err := ParseHandshakeID("peer-h1")
	req.NoError(err)
	req.Equal(HandshakeID("peer-h1"), hid)
	_, err = ParseHandshakeID("")
	req.ErrorIs(err, ErrHandshakeIDEmpty)
	_, err = ParseHandshakeID(strings.Repeat("h", MaxHandshakeIDLen+1))
	req.ErrorIs(err, ErrHandshakeIDTooLong)
}
