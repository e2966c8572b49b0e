package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	errprocess "messenger_service/pkg/err"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// AuthUseCase login by phone number, presence and the persisted session
type AuthUseCase struct {
	users repository.UserRepository
	store repository.SessionStore
	now   func() time.Time
}

// NewAuthUseCase init auth use case
func NewAuthUseCase(users repository.UserRepository, store repository.SessionStore) *AuthUseCase {
	return &AuthUseCase{users: users, store: store, now: time.Now}
}

// Login find the user by phone or create it, mark it online and persist the session.
// An existing user keeps its stored username.
func (uc *AuthUseCase) Login(ctx context.Context, phone, username string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errprocess.Validation("username", "required")
	}
	if phone == "" {
		return nil, errprocess.Validation("phoneNumber", "required")
	}

	now := uc.now().UTC()
	user, err := uc.users.FindByPhone(ctx, phone)
	switch {
	case errors.Is(err, errprocess.ErrNotFound):
		user, err = uc.users.Create(ctx, &domain.User{
			PhoneNumber: phone,
			Username:    username,
			IsOnline:    true,
			LastSeen:    now,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		logger.Log.Info("user created", zap.String("user_id", user.ID.String()))
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	default:
		online := true
		updated, err := uc.users.Update(ctx, user.ID, domain.UserPatch{IsOnline: &online, LastSeen: &now})
		if err != nil {
			return nil, fmt.Errorf("mark online: %w", err)
		}
		user = updated
	}

	if err := uc.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

// Logout mark the user offline and forget the session.
// A failed offline update is logged only; the stored session is cleared regardless.
func (uc *AuthUseCase) Logout(ctx context.Context, userID domain.ID) error {
	online := false
	now := uc.now().UTC()
	if _, err := uc.users.Update(ctx, userID, domain.UserPatch{IsOnline: &online, LastSeen: &now}); err != nil {
		logger.Log.Warn("mark offline failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return uc.store.Clear(ctx)
}

// Heartbeat refresh lastSeen, isOnline untouched
func (uc *AuthUseCase) Heartbeat(ctx context.Context, userID domain.ID) error {
	now := uc.now().UTC()
	_, err := uc.users.Update(ctx, userID, domain.UserPatch{LastSeen: &now})
	return err
}

// Restore stored user from a previous run, nil when signed out
func (uc *AuthUseCase) Restore(ctx context.Context) (*domain.User, error) {
	user, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" {
		return nil, nil
	}
	return user, nil
}
