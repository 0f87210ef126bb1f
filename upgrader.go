package snaprelay

import (
	"net/http"

	"github.com/Atheer-Ganayem/SnapRelay/logsink"
)

// upgrade switches c to the WebSocket protocol using its raw upgrade request.
// On success the 101 response and the handshake acknowledgment are queued, in
// that order. A request without a usable key fails with a *HandshakeError and
// leaves c un-upgraded.
func (s *Server) upgrade(c *Conn, request []byte) error {
	key, err := SecKey(request)
	if err != nil {
		return &HandshakeError{Code: http.StatusBadRequest, Err: err}
	}

	if err := c.enqueue(AppendHandshakeResponse(nil, AcceptKey(key))); err != nil {
		return err
	}
	c.handshakeComplete = true

	ack, err := encodeMessage(OutboundMessage{Type: TypeHandshake, Content: "done"})
	if err != nil {
		return err
	}

	return c.enqueue(ack)
}

// handshake upgrades c and reports whether it is still usable.
func (s *Server) handshake(c *Conn, request []byte) bool {
	if err := s.upgrade(c, request); err != nil {
		s.refuse(c, err)
		return false
	}

	c.fields(s.Logger.Record(logsink.EventHandshake)).Send()
	return true
}

// refuse answers a rejected upgrade with its HTTP status, then removes and
// closes c without any broadcast.
func (s *Server) refuse(c *Conn, err error) {
	if hErr, ok := AsHandshakeErr(err); ok {
		_ = c.enqueue(appendRejectResponse(nil, hErr.Code, hErr.Error()))
	}

	c.fields(s.Logger.Fault(logsink.EventHandshakeRejected, err)).Send()
	s.release(c)
}
