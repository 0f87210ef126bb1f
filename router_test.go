package snaprelay

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteLogin(t *testing.T) {
	r := newTestRegistry(t)
	rt := NewRouter(r)

	var conns []*Conn
	for i := range 3 {
		c := registerPipe(t, r)
		conns = append(conns, c)

		out, err := rt.Route(c.ID, InboundMessage{Type: TypeLogin, Content: fmt.Sprintf("user%d", i)})
		require.NoError(t, err)
		assert.Equal(t, TypeLogin, out.Type)
		assert.Equal(t, fmt.Sprintf("user%d", i), out.Content)
		assert.Len(t, out.UserList, i+1)
	}

	assert.Equal(t, "user1", conns[1].DisplayName)
}

func TestRouteLoginTwiceRenames(t *testing.T) {
	r := newTestRegistry(t)
	rt := NewRouter(r)
	c := registerPipe(t, r)

	_, err := rt.Route(c.ID, InboundMessage{Type: TypeLogin, Content: "alice"})
	require.NoError(t, err)
	out, err := rt.Route(c.ID, InboundMessage{Type: TypeLogin, Content: "alicia"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alicia"}, out.UserList)
}

func TestRouteLogout(t *testing.T) {
	r := newTestRegistry(t)
	rt := NewRouter(r)
	alice := registerPipe(t, r)
	bob := registerPipe(t, r)
	alice.DisplayName = "alice"
	bob.DisplayName = "bob"

	out, err := rt.Route(alice.ID, InboundMessage{Type: TypeLogout, Content: "alice"})
	require.NoError(t, err)
	assert.Equal(t, TypeLogout, out.Type)
	assert.Equal(t, "alice", out.Content)
	assert.Equal(t, []string{"bob"}, out.UserList)

	_, ok := r.Get(alice.ID)
	assert.False(t, ok, "logout removes the sender")

	out, err = rt.Route(bob.ID, InboundMessage{Type: TypeLogout, Content: "bob"})
	require.NoError(t, err)
	assert.NotNil(t, out.UserList)
	assert.Empty(t, out.UserList)
}

func TestRouteUser(t *testing.T) {
	r := newTestRegistry(t)
	rt := NewRouter(r)
	c := registerPipe(t, r)
	c.DisplayName = "alice"

	out, err := rt.Route(c.ID, InboundMessage{Type: TypeUser, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, OutboundMessage{Type: TypeUser, From: "alice", Content: "hi"}, out)

	// a sender that never logged in relays with an empty name
	anon := registerPipe(t, r)
	out, err = rt.Route(anon.ID, InboundMessage{Type: TypeUser, Content: "hey"})
	require.NoError(t, err)
	assert.Empty(t, out.From)
}

func TestRouteErrors(t *testing.T) {
	r := newTestRegistry(t)
	rt := NewRouter(r)
	c := registerPipe(t, r)

	_, err := rt.Route(c.ID, InboundMessage{Type: "typing", Content: "x"})
	assert.ErrorIs(t, err, ErrUnknownMessageType)
	assert.Equal(t, 1, r.Len())

	_, err = rt.Route("missing", InboundMessage{Type: TypeUser, Content: "x"})
	assert.ErrorIs(t, err, ErrConnNotFound)
}
