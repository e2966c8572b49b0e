package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	errprocess "messenger_service/pkg/err"
	"messenger_service/pkg/format"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// ContactUseCase owner-scoped address book with presence
type ContactUseCase struct {
	contacts repository.ContactRepository
	users    repository.UserRepository
	now      func() time.Time

	mu     sync.RWMutex
	cached []domain.ContactView
}

// NewContactUseCase init contact use case
func NewContactUseCase(contacts repository.ContactRepository, users repository.UserRepository) *ContactUseCase {
	return &ContactUseCase{contacts: contacts, users: users, now: time.Now}
}

// List fetch the owner's contacts and look up each referenced user.
// A failed or missing lookup leaves the contact offline.
func (uc *ContactUseCase) List(ctx context.Context, ownerID domain.ID) ([]domain.ContactView, error) {
	contacts, err := uc.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ContactView, 0, len(contacts))
	for _, c := range contacts {
		view := domain.ContactView{Contact: c}
		if c.HasAccount() {
			user, err := uc.users.FindByID(ctx, *c.ContactUserID)
			switch {
			case err == nil:
				view.IsOnline = user.IsOnline
				lastSeen := user.LastSeen
				view.LastSeen = &lastSeen
			case !errors.Is(err, errprocess.ErrNotFound):
				logger.Log.Warn("contact presence lookup failed", zap.String("contact_id", c.ID.String()), zap.Error(err))
			}
		}
		views = append(views, view)
	}

	uc.mu.Lock()
	uc.cached = views
	uc.mu.Unlock()
	return views, nil
}

// Add create a contact for owner.
// The phone loses all whitespace, duplicates by phone are rejected and
// contactUserId points at the account registered with that phone, if any.
func (uc *ContactUseCase) Add(ctx context.Context, ownerID domain.ID, name, phone string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	phone = format.StripSpaces(phone)
	if name == "" {
		return nil, errprocess.Validation("name", "required")
	}
	if phone == "" {
		return nil, errprocess.Validation("phoneNumber", "required")
	}

	existing, err := uc.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.PhoneNumber == phone {
			return nil, &errprocess.DuplicateContactError{OwnerID: ownerID.String(), PhoneNumber: phone}
		}
	}

	contact := &domain.Contact{
		UserID:      ownerID,
		Name:        name,
		PhoneNumber: phone,
		AddedAt:     uc.now().UTC(),
	}
	user, err := uc.users.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		id := user.ID
		contact.ContactUserID = &id
	case !errors.Is(err, errprocess.ErrNotFound):
		return nil, fmt.Errorf("resolve contact user: %w", err)
	}

	return uc.contacts.Create(ctx, contact)
}

// Cached last fetched list
func (uc *ContactUseCase) Cached() []domain.ContactView {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.ContactView(nil), uc.cached...)
}

// Find cached contact by id
func (uc *ContactUseCase) Find(id domain.ID) (domain.ContactView, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, c := range uc.cached {
		if c.ID == id {
			return c, true
		}
	}
	return domain.ContactView{}, false
}

// Reset drop the cache
func (uc *ContactUseCase) Reset() {
	uc.mu.Lock()
	uc.cached = nil
	uc.mu.Unlock()
}
