package snaprelay

import (
	"net"
	"time"
)

// enqueue queues a frame for the write pump without blocking.
// Returns ErrConnClosed after Close, and ErrSlowConsumer when the queue is full.
func (c *Conn) enqueue(frame []byte) error {
	if c.isClosed() {
		return ErrConnClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// writePump drains the outbound queue to the socket until the connection is
// closed, coalescing whatever is queued into a single write.
// The socket is closed when it returns; a write error therefore surfaces to
// the event loop as a read error.
func (c *Conn) writePump() {
	defer c.raw.Close()

	bufs := make(net.Buffers, 0, 16)
	for {
		select {
		case frame := <-c.send:
			bufs = c.drain(append(bufs[:0], frame))
			if err := c.writeBuffers(bufs); err != nil {
				return
			}
			clear(bufs)
		case <-c.done:
			_ = c.writeBuffers(c.drain(bufs[:0]))
			return
		}
	}
}

func (c *Conn) drain(bufs net.Buffers) net.Buffers {
	for {
		select {
		case frame := <-c.send:
			bufs = append(bufs, frame)
		default:
			return bufs
		}
	}
}

func (c *Conn) writeBuffers(bufs net.Buffers) error {
	if len(bufs) == 0 {
		return nil
	}

	if err := c.raw.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	_, err := bufs.WriteTo(c.raw)

	return err
}
