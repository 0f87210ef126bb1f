package snaprelay

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ConnID identifies a registered connection. It is issued at registration and
// never reused.
type ConnID string

// Conn is the session state of one accepted socket.
//
// Everything except the outbound queue is owned by the event loop. Reads and
// writes on the socket happen in the connection's own pumps.
type Conn struct {
	ID          ConnID
	RemoteAddr  net.Addr
	DisplayName string

	raw               net.Conn
	handshakeComplete bool

	// frames waiting to be written by the write pump.
	send chan []byte
	// closed when the connection is being torn down.
	done      chan struct{}
	closeOnce sync.Once
	// set once the pumps own the socket.
	pumping   bool
	writeWait time.Duration

	// partial upgrade request or frame, only used with Options.Reassemble.
	pending []byte
}

func newConn(raw net.Conn, id ConnID, opts *Options) *Conn {
	return &Conn{
		ID:         id,
		RemoteAddr: raw.RemoteAddr(),
		raw:        raw,
		send:       make(chan []byte, opts.OutboundQueueSize),
		done:       make(chan struct{}),
		writeWait:  opts.WriteWait,
	}
}

// HandshakeComplete reports whether the connection has been upgraded.
func (c *Conn) HandshakeComplete() bool {
	return c.handshakeComplete
}

func (c *Conn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// start hands the socket to the read and write pumps.
func (c *Conn) start(events chan<- event, readBufferSize int) {
	c.pumping = true
	go c.writePump()
	go c.readPump(events, readBufferSize)
}

// Close tears the connection down. Frames already queued are still written,
// within the write deadline, before the socket is closed.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if !c.pumping {
			c.raw.Close()
		}
	})
}

// fields adds the connection's identity to a log record.
func (c *Conn) fields(e *zerolog.Event) *zerolog.Event {
	e = e.Str("conn", string(c.ID))
	if c.RemoteAddr == nil {
		return e
	}

	host, port, err := net.SplitHostPort(c.RemoteAddr.String())
	if err != nil {
		return e.Str("addr", c.RemoteAddr.String())
	}
	return e.Str("ip", host).Str("port", port)
}
