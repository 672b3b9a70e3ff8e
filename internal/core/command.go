package core

import "github.com/dkeye/Huddle/internal/domain"

type CommandKind string

const (
	CommandAuth  CommandKind = "auth"
	CommandJoin  CommandKind = "join"
	CommandChat  CommandKind = "chat"
	CommandLeave CommandKind = "leave"
)

// Command is a decoded inbound event, matched against the
// connection state before it runs.
type Command interface {
	Kind() CommandKind
}

type AuthCommand struct {
	Token string
}

type JoinCommand struct {
	Room        domain.RoomToken
	HandshakeID domain.HandshakeID
}

type ChatCommand struct {
	Content string
}

type LeaveCommand struct{}

func (AuthCommand) Kind() CommandKind  { return CommandAuth }
func (JoinCommand) Kind() CommandKind  { return CommandJoin }
func (ChatCommand) Kind() CommandKind  { return CommandChat }
func (LeaveCommand) Kind() CommandKind { return CommandLeave }
