package domain

import (
	"time"

	"messenger_service/pkg"
)

// Group multi-member chat; the creator is always a member
type Group struct {
	ID          ID        `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []ID      `json:"members"`
	CreatedBy   ID        `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasMember membership check
func (g *Group) HasMember(userID ID) bool {
	return pkg.Contains(g.Members, userID)
}
