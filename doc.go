// Package snaprelay is a single-process WebSocket chat relay.
//
// Clients connect over TCP, upgrade with a standard WebSocket handshake and
// then exchange small JSON events carried in text frames:
//
//	{"type":"login","content":"alice"}
//	{"type":"user","content":"hello"}
//	{"type":"logout","content":"alice"}
//
// Every event is answered with a broadcast to all upgraded connections, the
// sender included. Logins and logouts carry the current list of display
// names; user messages carry the sender's name.
//
// # Architecture
//
// One goroutine, the one running [Server.Serve], owns the connection registry
// and every session. Each connection has a read pump, which reports reads to
// that goroutine, and a write pump, which drains a bounded outbound queue to
// the socket. A peer that goes away, or that cannot keep up with its queue,
// is handled as if it had logged out.
//
// # Frames
//
// Only the subset of RFC 6455 the relay needs is implemented: single final
// text frames, unmasked from the server and usually masked from clients.
// Fragmentation, control frames and extensions are not supported.
package snaprelay
