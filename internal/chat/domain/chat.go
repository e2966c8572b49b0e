package domain

import "fmt"

// ChatType direct or group conversation
type ChatType string

const (
	// ChatTypeContact 1 on 1 chat with a contact
	ChatTypeContact ChatType = "contact"
	// ChatTypeGroup group chat
	ChatTypeGroup ChatType = "group"
)

// ChatRef what an open chat points at
type ChatRef struct {
	Type    ChatType
	Contact *ContactView
	Group   *Group
}

// Name display name of the chat
func (r ChatRef) Name() string {
	switch r.Type {
	case ChatTypeGroup:
		return r.Group.Name
	default:
		return r.Contact.Name
	}
}

// ChatID chat key for the signed-in user
func (r ChatRef) ChatID(self ID) string {
	if r.Type == ChatTypeGroup {
		return GroupChatID(r.Group.ID)
	}
	return DirectChatID(string(self), r.Contact.PeerKey())
}

// DirectChatID contact_{min}_{max}; same value whichever side computes it
func DirectChatID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("contact_%s_%s", a, b)
}

// GroupChatID group_{id}
func GroupChatID(groupID ID) string {
	return fmt.Sprintf("group_%s", groupID)
}
