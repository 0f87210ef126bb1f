package snaprelay

import (
	"errors"

	"github.com/Atheer-Ganayem/SnapRelay/logsink"
)

// broadcast queues out on every connection that completed the handshake,
// the sender included, and returns how many connections accepted it.
//
// Connections whose queue is full are handled per BackpressureStrategy; with
// BackpressureClose they are disconnected once the fan-out is done.
func (s *Server) broadcast(out OutboundMessage) int {
	frame, err := encodeMessage(out)
	if err != nil {
		s.Logger.Fault(logsink.EventPayloadDropped, err).Str("type", string(out.Type)).Send()
		return 0
	}

	n := 0
	var slow []*Conn
	for _, conn := range s.registry.All() {
		if !conn.handshakeComplete {
			continue
		}

		err := conn.enqueue(frame)
		switch {
		case err == nil:
			n++
		case errors.Is(err, ErrSlowConsumer) && s.BackpressureStrategy == BackpressureClose:
			slow = append(slow, conn)
		default:
			conn.fields(s.Logger.Fault(logsink.EventPayloadDropped, err)).Str("type", string(out.Type)).Send()
		}
	}

	for _, conn := range slow {
		s.disconnect(conn, reasonSlowConsumer)
	}

	return n
}
