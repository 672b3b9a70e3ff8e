package core

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/domain"
)

type EventType string

const (
	EventJoined            EventType = "joined"
	EventParticipantJoined EventType = "participant_joined"
	EventParticipantLeft   EventType = "participant_left"
	EventChatMessage       EventType = "chat_message"
	EventLeft              EventType = "left"
	EventPong              EventType = "pong"
	EventWhoAmI            EventType = "whoami"
	EventError             EventType = "error"
)

// Error codes carried in ErrorEvent.Error.
const (
	CodeAuthentication = "authentication_error"
	CodeInvalidJoin    = "invalid_join"
	CodeInvalidState   = "invalid_state"
	CodeBadPayload     = "bad_payload"
	CodeRateLimited    = "rate_limited"
	CodeUnknownType    = "unknown_type"
)

type PresenceEvent struct {
	Type        EventType          `json:"type"`
	HandshakeID domain.HandshakeID `json:"handshakeId"`
}

type JoinedEvent struct {
	Type      EventType        `json:"type"`
	RoomToken domain.RoomToken `json:"roomToken"`
	Count     int              `json:"count"`
}

type ChatEvent struct {
	Type              EventType `json:"type"`
	SenderDisplayName string    `json:"senderDisplayName"`
	Content           string    `json:"content"`
}

type ErrorEvent struct {
	Type    EventType `json:"type"`
	Error   string    `json:"error"`
	Message string    `json:"message,omitempty"`
}

func ParticipantJoined(hid domain.HandshakeID) PresenceEvent {
	return PresenceEvent{Type: EventParticipantJoined, HandshakeID: hid}
}

func ParticipantLeft(hid domain.HandshakeID) PresenceEvent {
	return PresenceEvent{Type: EventParticipantLeft, HandshakeID: hid}
}

func Chat(msg domain.ChatMessage) ChatEvent {
	return ChatEvent{Type: EventChatMessage, SenderDisplayName: msg.SenderDisplayName, Content: msg.Content}
}

func ErrorReply(code, message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Error: code, Message: message}
}

// Encode turns an outbound event into a frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
