package snaprelay

import (
	"net"
	"slices"

	"github.com/google/uuid"
)

// Registry is the table of live connections. It is owned by a single
// goroutine and is not safe for concurrent use.
type Registry struct {
	opts  *Options
	conns map[ConnID]*Conn
	// registration order, used for snapshots.
	order []ConnID
}

// NewRegistry creates an empty registry. If opts is nil the default options are used.
func NewRegistry(opts *Options) *Registry {
	if opts == nil {
		opts = &Options{}
	}
	opts.WithDefault()

	return &Registry{
		opts:  opts,
		conns: make(map[ConnID]*Conn),
	}
}

// Register adds raw as a new connection that has neither completed the
// handshake nor logged in.
func (r *Registry) Register(raw net.Conn) *Conn {
	conn := newConn(raw, ConnID(uuid.NewString()), r.opts)
	r.conns[conn.ID] = conn
	r.order = append(r.order, conn.ID)

	return conn
}

func (r *Registry) Get(id ConnID) (*Conn, bool) {
	conn, ok := r.conns[id]
	return conn, ok
}

// Remove deletes the entry for id and returns it. The connection is not closed.
func (r *Registry) Remove(id ConnID) (*Conn, bool) {
	conn, ok := r.conns[id]
	if !ok {
		return nil, false
	}

	delete(r.conns, id)
	r.order = slices.DeleteFunc(r.order, func(other ConnID) bool { return other == id })

	return conn, true
}

// All returns a snapshot of the registered connections.
func (r *Registry) All() []*Conn {
	conns := make([]*Conn, 0, len(r.order))
	for _, id := range r.order {
		conns = append(conns, r.conns[id])
	}

	return conns
}

// DisplayNames returns the names of the connections that have logged in.
// Names are not unique.
func (r *Registry) DisplayNames() []string {
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if name := r.conns[id].DisplayName; name != "" {
			names = append(names, name)
		}
	}

	return names
}

func (r *Registry) Len() int {
	return len(r.conns)
}
