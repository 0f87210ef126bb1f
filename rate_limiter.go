package snaprelay

import (
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per connection. It is owned by the
// event loop and is not safe for concurrent use.
type RateLimiter struct {
	clients map[ConnID]*rate.Limiter
	// Number of messages allowed per second
	mps float64
	// Number of bursts allowed
	burst int
}

func NewRateLimiter(mps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[ConnID]*rate.Limiter),
		mps:     mps,
		burst:   burst,
	}
}

func (rl *RateLimiter) addClient(id ConnID) {
	rl.clients[id] = rate.NewLimiter(rate.Limit(rl.mps), rl.burst)
}

func (rl *RateLimiter) removeClient(id ConnID) {
	delete(rl.clients, id)
}

// allow reports whether id may send a message now. Unknown connections are
// never limited.
func (rl *RateLimiter) allow(id ConnID) bool {
	l := rl.clients[id]
	if l == nil {
		return true
	}

	return l.Allow()
}
