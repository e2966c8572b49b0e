package domain

import "time"

// User account, keyed by phone number
type User struct {
	ID          ID        `json:"id,omitempty"`
	PhoneNumber string    `json:"phoneNumber"`
	Username    string    `json:"username"`
	IsOnline    bool      `json:"isOnline"`
	LastSeen    time.Time `json:"lastSeen"`
}

// UserPatch partial user update, nil fields are left out of the request
type UserPatch struct {
	IsOnline *bool      `json:"isOnline,omitempty"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
	Username *string    `json:"username,omitempty"`
}
