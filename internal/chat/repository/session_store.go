package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"messenger_service/internal/chat/domain"
	"messenger_service/pkg/database"
)

// SessionStore persisted signed-in user, one blob under a fixed key
type SessionStore interface {
	// Load nil, nil when nothing is stored
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

type fileSessionStore struct {
	path string
}

// NewFileSessionStore <dir>/<key>.json
func NewFileSessionStore(dir, key string) SessionStore {
	return &fileSessionStore{path: filepath.Join(dir, key+".json")}
}

func (s *fileSessionStore) Load(_ context.Context) (*domain.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	return &user, nil
}

func (s *fileSessionStore) Save(_ context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *fileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

type redisSessionStore struct {
	repo database.RedisRepository[domain.User]
	key  string
}

// NewRedisSessionStore the user blob kept under key, no expiry
func NewRedisSessionStore(repo database.RedisRepository[domain.User], key string) SessionStore {
	return &redisSessionStore{repo: repo, key: key}
}

func (s *redisSessionStore) Load(ctx context.Context) (*domain.User, error) {
	user, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, database.ErrRedisNil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *redisSessionStore) Save(ctx context.Context, user *domain.User) error {
	return s.repo.Set(ctx, s.key, *user, 0)
}

func (s *redisSessionStore) Clear(ctx context.Context) error {
	return s.repo.Del(ctx, s.key)
}
