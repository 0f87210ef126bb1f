package snaprelay

import "fmt"

// Router turns inbound chat events into the message every peer receives.
// Login and logout also update the sender's registry entry.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Route handles msg sent by the connection id.
//
//   - login sets the sender's display name and answers with the user list.
//   - logout removes the sender from the registry before the user list is
//     built. The caller is responsible for closing the connection.
//   - user relays the content with the sender's display name.
//
// Any other type fails with ErrUnknownMessageType and changes nothing.
func (rt *Router) Route(id ConnID, msg InboundMessage) (OutboundMessage, error) {
	sender, ok := rt.registry.Get(id)
	if !ok {
		return OutboundMessage{}, ErrConnNotFound
	}

	switch msg.Type {
	case TypeLogin:
		sender.DisplayName = msg.Content
		return OutboundMessage{
			Type:     TypeLogin,
			Content:  msg.Content,
			UserList: rt.registry.DisplayNames(),
		}, nil

	case TypeLogout:
		rt.registry.Remove(id)
		return OutboundMessage{
			Type:     TypeLogout,
			Content:  msg.Content,
			UserList: rt.registry.DisplayNames(),
		}, nil

	case TypeUser:
		return OutboundMessage{
			Type:    TypeUser,
			From:    sender.DisplayName,
			Content: msg.Content,
		}, nil

	default:
		return OutboundMessage{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}
