package signal

import (
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"golang.org/x/time/rate"
)

// ChatRateLimiter keeps one token bucket per connection.
type ChatRateLimiter struct {
	mu       sync.Mutex
	limiters map[core.SessionID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewChatRateLimiter returns a limiter allowing perSecond messages with the
// given burst. perSecond <= 0 disables limiting.
func NewChatRateLimiter(perSecond float64, burst int) *ChatRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ChatRateLimiter{
		limiters: make(map[core.SessionID]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *ChatRateLimiter) Allow(sid core.SessionID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	l, ok := rl.limiters[sid]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[sid] = l
	}
	rl.mu.Unlock()
	return l.Allow()
}

func (rl *ChatRateLimiter) Forget(sid core.SessionID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, sid)
}
