package core

import "errors"

var (
	// ErrAuthentication covers missing, invalid and expired credentials.
	ErrAuthentication = errors.New("authentication error")
	// ErrInvalidJoin is a join on a connection that is already in a room or closed.
	ErrInvalidJoin = errors.New("invalid join")
	// ErrOrphanChat is a chat from a connection with no room. Never surfaced.
	ErrOrphanChat = errors.New("chat without room")
	// ErrInvalidState is any other command the current state does not accept.
	ErrInvalidState = errors.New("invalid state")

	ErrTransport      = errors.New("transport error")
	ErrBackpressure   = errors.New("backpressure")
	ErrClosed         = errors.New("connection closed")
	ErrBadPayload     = errors.New("bad payload")
	ErrUnknownSession = errors.New("unknown session")
)
