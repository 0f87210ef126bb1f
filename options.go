package snaprelay

import (
	"math"
	"time"

	"github.com/Atheer-Ganayem/SnapRelay/logsink"
)

type BackpressureStrategy int

const (
	BackpressureClose BackpressureStrategy = iota
	BackpressureDrop
)

const (
	defaultWriteWait = time.Second * 5

	DefaultReadBufferSize    = 2048
	DefaultMinFrameSize      = 9
	DefaultOutboundQueueSize = 256
	DefaultMaxMessageSize    = 1 << 20 // 1MB
)

type Options struct {
	// Receives the activity and error records. If not set nothing is logged.
	Logger *logsink.Sink

	// Size of a single read. If not set it will default to 2048 bytes.
	ReadBufferSize int
	// A read shorter than this is treated as the peer going away.
	// If not set it will default to 9 bytes. Ignored when Reassemble is set.
	MinFrameSize int
	// Number of frames that can wait to be written to one connection.
	// If not set it will default to 256.
	OutboundQueueSize int
	// Upper bound for a buffered upgrade request or frame when Reassemble is set.
	// If not set it will default to 1MB.
	MaxMessageSize int
	// 0 means there is no limit.
	MaxConnections int
	// Deadline for a single write to a peer. If not set it will default to 5 seconds.
	WriteWait time.Duration

	// Number of user messages allowed per second for each connection. 0 disables limiting.
	RateLimit float64
	// If not set it will default to RateLimit rounded up.
	RateBurst int

	// Reassemble buffers partial reads per connection until a whole upgrade
	// request or frame is available, and handles several frames arriving in
	// one read. When unset every read is handled on its own and a short read
	// counts as a disconnect.
	Reassemble bool

	// BackpressureStrategy controls what happens when a connection's outbound queue is full:
	// 	- snaprelay.BackpressureClose (default): the connection is disconnected.
	// 	- snaprelay.BackpressureDrop: the frame is dropped for that connection.
	BackpressureStrategy BackpressureStrategy
}

func (opt *Options) WithDefault() {
	if opt.Logger == nil {
		opt.Logger = logsink.Nop()
	}
	if opt.ReadBufferSize == 0 {
		opt.ReadBufferSize = DefaultReadBufferSize
	}
	if opt.MinFrameSize == 0 {
		opt.MinFrameSize = DefaultMinFrameSize
	}
	if opt.OutboundQueueSize == 0 {
		opt.OutboundQueueSize = DefaultOutboundQueueSize
	}
	if opt.MaxMessageSize == 0 {
		opt.MaxMessageSize = DefaultMaxMessageSize
	}
	if opt.WriteWait == 0 {
		opt.WriteWait = defaultWriteWait
	}
	if opt.RateLimit > 0 && opt.RateBurst == 0 {
		opt.RateBurst = int(math.Ceil(opt.RateLimit))
	}

	if !opt.BackpressureStrategy.Valid() {
		opt.BackpressureStrategy = BackpressureClose
	}
}

func (s BackpressureStrategy) Valid() bool {
	switch s {
	case BackpressureClose:
		return true
	case BackpressureDrop:
		return true
	default:
		return false
	}
}
