package domain

// ChatMessage is built on receipt, broadcast, then dropped.
type ChatMessage struct {
	SenderDisplayName string
	Content           string
}
