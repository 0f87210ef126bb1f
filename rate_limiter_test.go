package snaprelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	rl.addClient("a")
	rl.addClient("b")

	assert.True(t, rl.allow("a"))
	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"), "burst exhausted")

	assert.True(t, rl.allow("b"), "buckets are per connection")

	rl.removeClient("a")
	assert.True(t, rl.allow("a"), "unknown connections are not limited")
}
