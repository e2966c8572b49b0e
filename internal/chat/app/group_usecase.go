package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	"messenger_service/pkg"
	errprocess "messenger_service/pkg/err"
)

// GroupUseCase groups the user belongs to
type GroupUseCase struct {
	groups repository.GroupRepository
	now    func() time.Time

	mu     sync.RWMutex
	cached []domain.Group
}

// NewGroupUseCase init group use case
func NewGroupUseCase(groups repository.GroupRepository) *GroupUseCase {
	return &GroupUseCase{groups: groups, now: time.Now}
}

// List every group whose members include userID
func (uc *GroupUseCase) List(ctx context.Context, userID domain.ID) ([]domain.Group, error) {
	all, err := uc.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]domain.Group, 0, len(all))
	for _, g := range all {
		if g.HasMember(userID) {
			mine = append(mine, g)
		}
	}

	uc.mu.Lock()
	uc.cached = mine
	uc.mu.Unlock()
	return mine, nil
}

// Create the creator goes first in members and appears exactly once
func (uc *GroupUseCase) Create(ctx context.Context, creator domain.ID, name, description string, members []domain.ID) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errprocess.Validation("name", "required")
	}

	selected := make([]domain.ID, 0, len(members))
	for _, m := range members {
		if m != "" && m != creator {
			selected = append(selected, m)
		}
	}
	if len(selected) == 0 {
		return nil, errprocess.Validation("members", "select at least one member")
	}

	return uc.groups.Create(ctx, &domain.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		Members:     pkg.Dedupe(append([]domain.ID{creator}, selected...)),
		CreatedBy:   creator,
		CreatedAt:   uc.now().UTC(),
	})
}

// Cached last fetched list
func (uc *GroupUseCase) Cached() []domain.Group {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.Group(nil), uc.cached...)
}

// Find cached group by id
func (uc *GroupUseCase) Find(id domain.ID) (domain.Group, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, g := range uc.cached {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Group{}, false
}

// Reset drop the cache
func (uc *GroupUseCase) Reset() {
	uc.mu.Lock()
	uc.cached = nil
	uc.mu.Unlock()
}
