package core

import "github.com/dkeye/Huddle/internal/domain"

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

type RoomInfo struct {
	RoomToken domain.RoomToken `json:"roomToken"`
	Count     int              `json:"count"`
}
