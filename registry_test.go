package snaprelay

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(&Options{OutboundQueueSize: 8})
}

func registerPipe(t *testing.T, r *Registry) *Conn {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return r.Register(server)
}

func TestRegistryRegister(t *testing.T) {
	r := newTestRegistry(t)

	c1 := registerPipe(t, r)
	c2 := registerPipe(t, r)

	assert.Equal(t, 2, r.Len())
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.False(t, c1.HandshakeComplete())
	assert.Empty(t, c1.DisplayName)

	got, ok := r.Get(c1.ID)
	require.True(t, ok)
	assert.Same(t, c1, got)
}

func TestRegistryRemove(t *testing.T) {
	r := newTestRegistry(t)
	c1 := registerPipe(t, r)
	c2 := registerPipe(t, r)

	removed, ok := r.Remove(c1.ID)
	require.True(t, ok)
	assert.Same(t, c1, removed)
	assert.Equal(t, 1, r.Len())

	_, ok = r.Get(c1.ID)
	assert.False(t, ok)

	_, ok = r.Remove(c1.ID)
	assert.False(t, ok, "removing twice")

	assert.Equal(t, []*Conn{c2}, r.All())
}

func TestRegistryAllKeepsRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)

	var want []*Conn
	for range 5 {
		want = append(want, registerPipe(t, r))
	}
	r.Remove(want[2].ID)
	want = append(want[:2], want[3:]...)

	assert.Equal(t, want, r.All())
}

func TestRegistryDisplayNames(t *testing.T) {
	r := newTestRegistry(t)
	assert.NotNil(t, r.DisplayNames())
	assert.Empty(t, r.DisplayNames())

	alice := registerPipe(t, r)
	registerPipe(t, r) // never logs in
	bob := registerPipe(t, r)
	twin := registerPipe(t, r)

	alice.DisplayName = "alice"
	bob.DisplayName = "bob"
	twin.DisplayName = "bob"

	assert.Equal(t, []string{"alice", "bob", "bob"}, r.DisplayNames())
}
