package domain

import "time"

// Contact address-book entry owned by UserID.
// ContactUserID is nil when no account matches the phone number.
type Contact struct {
	ID            ID        `json:"id,omitempty"`
	UserID        ID        `json:"userId"`
	ContactUserID *ID       `json:"contactUserId"`
	Name          string    `json:"name"`
	PhoneNumber   string    `json:"phoneNumber"`
	AddedAt       time.Time `json:"addedAt"`
}

// HasAccount the contact references a real user
func (c *Contact) HasAccount() bool {
	return c.ContactUserID != nil && *c.ContactUserID != ""
}

// PeerKey identity of the other side of a direct chat.
// Contacts without an account fall back to their phone number.
func (c *Contact) PeerKey() string {
	if c.HasAccount() {
		return string(*c.ContactUserID)
	}
	return "tel:" + c.PhoneNumber
}

// ContactView contact enriched with the referenced user's presence
type ContactView struct {
	Contact
	IsOnline bool       `json:"isOnline"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}
