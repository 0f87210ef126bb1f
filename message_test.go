package snaprelay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInbound(t *testing.T) {
	msg, err := ParseInbound([]byte(`{"type":"login","content":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, InboundMessage{Type: TypeLogin, Content: "alice"}, msg)

	// unknown fields are ignored, content is optional
	msg, err = ParseInbound([]byte(`{"type":"user","extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, InboundMessage{Type: TypeUser}, msg)
}

func TestParseInboundMalformed(t *testing.T) {
	for _, payload := range []string{``, `not json`, `{"type":`, `[]`, `{"content":"x"}`, `{"type":5}`} {
		_, err := ParseInbound([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, "payload %q", payload)
	}
}

func TestOutboundMessageJSON(t *testing.T) {
	tests := []struct {
		name string
		msg  OutboundMessage
		want string
	}{
		{
			name: "login",
			msg:  OutboundMessage{Type: TypeLogin, Content: "alice", UserList: []string{"alice"}},
			want: `{"type":"login","content":"alice","user_list":["alice"]}`,
		},
		{
			name: "logout with nobody left",
			msg:  OutboundMessage{Type: TypeLogout, Content: "alice"},
			want: `{"type":"logout","content":"alice","user_list":[]}`,
		},
		{
			name: "user",
			msg:  OutboundMessage{Type: TypeUser, From: "bob", Content: "hi", UserList: []string{"ignored"}},
			want: `{"type":"user","from":"bob","content":"hi"}`,
		},
		{
			name: "handshake",
			msg:  OutboundMessage{Type: TypeHandshake, Content: "done"},
			want: `{"type":"handshake","content":"done"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestEncodeMessage(t *testing.T) {
	frame, err := encodeMessage(OutboundMessage{Type: TypeUser, From: "bob", Content: "hi"})
	require.NoError(t, err)

	payload, err := DecodeText(frame)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user","from":"bob","content":"hi"}`, string(payload))
}
