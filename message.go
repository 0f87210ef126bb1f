package snaprelay

import (
	"encoding/json"
	"fmt"
)

type MessageType string

const (
	TypeLogin     MessageType = "login"
	TypeLogout    MessageType = "logout"
	TypeUser      MessageType = "user"
	TypeHandshake MessageType = "handshake"
)

// InboundMessage is a chat event sent by a client.
type InboundMessage struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
}

// OutboundMessage is what the server broadcasts in response to an event.
// UserList is only sent for login and logout, From only for user messages.
type OutboundMessage struct {
	Type     MessageType
	From     string
	Content  string
	UserList []string
}

// ParseInbound decodes a JSON payload into an InboundMessage.
// A payload that is not a JSON object, or that carries no type, is rejected
// with ErrMalformedPayload.
func ParseInbound(payload []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if msg.Type == "" {
		return msg, fmt.Errorf("%w: missing type", ErrMalformedPayload)
	}

	return msg, nil
}

func (m OutboundMessage) MarshalJSON() ([]byte, error) {
	switch m.Type {
	case TypeLogin, TypeLogout:
		users := m.UserList
		if users == nil {
			users = []string{}
		}
		return json.Marshal(struct {
			Type     MessageType `json:"type"`
			Content  string      `json:"content"`
			UserList []string    `json:"user_list"`
		}{m.Type, m.Content, users})
	case TypeUser:
		return json.Marshal(struct {
			Type    MessageType `json:"type"`
			From    string      `json:"from"`
			Content string      `json:"content"`
		}{m.Type, m.From, m.Content})
	default:
		return json.Marshal(struct {
			Type    MessageType `json:"type"`
			Content string      `json:"content"`
		}{m.Type, m.Content})
	}
}

// encodeMessage serializes and frames m, ready to be queued on a connection.
func encodeMessage(m OutboundMessage) ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return EncodeText(payload), nil
}
