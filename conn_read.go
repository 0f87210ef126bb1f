package snaprelay

import "bytes"

// readPump performs one bounded read at a time and reports each result to the
// event loop. It stops after the first read error or once the connection is
// closed.
func (c *Conn) readPump(events chan<- event, readBufferSize int) {
	buf := make([]byte, readBufferSize)

	for {
		n, err := c.raw.Read(buf)
		ev := event{id: c.ID, data: bytes.Clone(buf[:n]), err: err}

		if c.isClosed() {
			return
		}
		select {
		case events <- ev:
		case <-c.done:
			return
		}

		if err != nil {
			return
		}
	}
}
