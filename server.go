package snaprelay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"

	"github.com/Atheer-Ganayem/SnapRelay/logsink"
)

// disconnect reasons, as written to the log.
const (
	reasonLogout        = "logout"
	reasonShortRead     = "short_read"
	reasonIOError       = "io_error"
	reasonSlowConsumer  = "slow_consumer"
	reasonProtocolError = "protocol_error"
)

const eventsQueueSize = 64

// event is one readiness report: either the result of an accept on the
// listener, or the result of one read on a registered connection.
type event struct {
	accepted bool
	conn     net.Conn

	id   ConnID
	data []byte
	err  error
}

// Server is a chat relay. A single goroutine, the one running Serve, owns the
// registry and every session; sockets are read and written by per-connection
// pumps that only talk to it through channels.
type Server struct {
	*Options
	registry *Registry
	router   *Router
	limiter  *RateLimiter

	events    chan event
	stopped   chan struct{}
	accepting sync.WaitGroup
}

// NewServer creates a server with the given options.
// If options is nil, then it will assign a new options with default values.
func NewServer(opts *Options) *Server {
	if opts == nil {
		opts = &Options{}
	}
	opts.WithDefault()

	registry := NewRegistry(opts)
	s := &Server{
		Options:  opts,
		registry: registry,
		router:   NewRouter(registry),
		events:   make(chan event, eventsQueueSize),
		stopped:  make(chan struct{}),
	}
	if opts.RateLimit > 0 {
		s.limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}

	return s
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve runs the event loop on ln until ctx is done, then closes the listener
// and every connection. A Server can only serve once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.Logger.Record(logsink.EventServerStart).
		Str("addr", ln.Addr().String()).
		Int("pid", os.Getpid()).
		Send()

	s.accepting.Add(1)
	go s.acceptPump(ln)

	for {
		select {
		case <-ctx.Done():
			ln.Close()
			s.shutdown()
			s.Logger.Record(logsink.EventServerStop).Str("addr", ln.Addr().String()).Send()
			return nil
		case ev := <-s.events:
			if ev.accepted {
				s.handleAccept(ev.conn, ev.err)
			} else {
				s.handleRead(ev.id, ev.data, ev.err)
			}
		}
	}
}

func (s *Server) acceptPump(ln net.Listener) {
	defer s.accepting.Done()

	for {
		raw, err := ln.Accept()
		if errors.Is(err, net.ErrClosed) {
			return
		}

		select {
		case s.events <- event{accepted: true, conn: raw, err: err}:
		case <-s.stopped:
			if raw != nil {
				raw.Close()
			}
			return
		}
	}
}

func (s *Server) handleAccept(raw net.Conn, err error) {
	if err != nil {
		s.Logger.Fault(logsink.EventAcceptFailed, err).Send()
		return
	}

	if s.MaxConnections > 0 && s.registry.Len() >= s.MaxConnections {
		s.Logger.Fault(logsink.EventAcceptFailed, ErrTooManyConnections).
			Str("addr", raw.RemoteAddr().String()).
			Send()
		raw.Close()
		return
	}

	conn := s.admit(raw)
	conn.start(s.events, s.ReadBufferSize)
}

// admit registers raw as a new connection awaiting its upgrade request.
func (s *Server) admit(raw net.Conn) *Conn {
	conn := s.registry.Register(raw)
	if s.limiter != nil {
		s.limiter.addClient(conn.ID)
	}
	conn.fields(s.Logger.Record(logsink.EventConnect)).Send()

	return conn
}

// handleRead processes the result of one read on the connection id.
func (s *Server) handleRead(id ConnID, data []byte, readErr error) {
	conn, ok := s.registry.Get(id)
	if !ok {
		// the last read of a connection that was already removed.
		if readErr != nil {
			return
		}
		s.Logger.Fault(logsink.EventPollFailed, ErrConnNotFound).Str("conn", string(id)).Send()
		return
	}

	if readErr != nil {
		reason := reasonIOError
		if errors.Is(readErr, io.EOF) {
			reason = reasonShortRead
		}
		s.disconnect(conn, reason)
		return
	}

	if s.Reassemble {
		s.reassemble(conn, data)
		return
	}

	switch {
	case len(data) < s.MinFrameSize:
		s.disconnect(conn, reasonShortRead)
	case !conn.handshakeComplete:
		s.handshake(conn, data)
	default:
		s.receive(conn, data)
	}
}

// reassemble appends data to the connection's pending bytes and handles the
// upgrade request and every frame that is now complete.
func (s *Server) reassemble(conn *Conn, data []byte) {
	conn.pending = append(conn.pending, data...)

	if !conn.handshakeComplete {
		end, ok := isCompleteRequest(conn.pending)
		if !ok {
			if len(conn.pending) > s.MaxMessageSize {
				s.refuse(conn, &HandshakeError{Code: http.StatusRequestHeaderFieldsTooLarge, Err: ErrHandshakeTooLarge})
			}
			return
		}

		request := conn.pending[:end]
		conn.pending = conn.pending[end:]
		if !s.handshake(conn, request) {
			return
		}
	}

	for len(conn.pending) > 0 {
		n, err := FrameLength(conn.pending)
		if errors.Is(err, ErrIncompleteFrame) {
			break
		}
		if err == nil && n > s.MaxMessageSize {
			err = ErrTooLargePayload
		}
		if err != nil {
			s.reject(conn, fatal(err))
			return
		}
		if len(conn.pending) < n {
			break
		}

		frame := conn.pending[:n]
		conn.pending = conn.pending[n:]
		s.receive(conn, frame)

		if _, ok := s.registry.Get(conn.ID); !ok {
			return
		}
	}

	if len(conn.pending) == 0 {
		conn.pending = nil
	}
}

// receive decodes one frame from conn and routes the message it carries.
func (s *Server) receive(conn *Conn, frame []byte) {
	payload, err := DecodeText(frame)
	if err != nil {
		s.reject(conn, err)
		return
	}

	msg, err := ParseInbound(payload)
	if err != nil {
		s.reject(conn, err)
		return
	}

	if msg.Type == TypeUser && s.limiter != nil && !s.limiter.allow(conn.ID) {
		conn.fields(s.Logger.Fault(logsink.EventRateLimited, ErrRateLimited)).Send()
		return
	}

	s.dispatch(conn, msg)

	if msg.Type == TypeLogout {
		conn.fields(s.Logger.Record(logsink.EventDisconnect)).Str("reason", reasonLogout).Send()
	}
}

// dispatch routes msg, broadcasts the response, and closes conn if routing
// removed it from the registry.
func (s *Server) dispatch(conn *Conn, msg InboundMessage) {
	out, err := s.router.Route(conn.ID, msg)
	if err != nil {
		s.reject(conn, err)
		return
	}

	s.broadcast(out)

	if _, ok := s.registry.Get(conn.ID); !ok {
		s.release(conn)
	}
}

// disconnect handles a peer that went away as an implicit logout carrying its
// current display name. A peer that never completed the handshake was never
// visible to anyone and is released silently.
func (s *Server) disconnect(conn *Conn, reason string) {
	if _, ok := s.registry.Get(conn.ID); !ok {
		return
	}

	if conn.handshakeComplete {
		s.dispatch(conn, InboundMessage{Type: TypeLogout, Content: conn.DisplayName})
	} else {
		s.release(conn)
	}

	conn.fields(s.Logger.Record(logsink.EventDisconnect)).Str("reason", reason).Send()
}

// reject logs a payload that could not be used. A fatal error also
// disconnects conn.
func (s *Server) reject(conn *Conn, err error) {
	conn.fields(s.Logger.Fault(logsink.EventPayloadDropped, err)).Send()

	if IsFatalErr(err) {
		s.disconnect(conn, reasonProtocolError)
	}
}

// release removes conn from the registry if needed and closes it.
func (s *Server) release(conn *Conn) {
	s.registry.Remove(conn.ID)
	if s.limiter != nil {
		s.limiter.removeClient(conn.ID)
	}
	conn.Close()
}

// shutdown closes every registered connection and every accepted socket
// still waiting in the events queue. The listener must already be closed.
func (s *Server) shutdown() {
	close(s.stopped)
	s.accepting.Wait()

drain:
	for {
		select {
		case ev := <-s.events:
			if ev.accepted && ev.conn != nil {
				ev.conn.Close()
			}
		default:
			break drain
		}
	}

	for _, conn := range s.registry.All() {
		s.release(conn)
	}
}
