package repository

import (
	"context"
	"encoding/json"
	"testing"

	"messenger_service/internal/backend/domain"
	errprocess "messenger_service/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCollections = []string{"users", "contacts", "groups", "messages"}

func TestMemoryStore_ListFiltersByStringEquality(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testCollections)

	_, err := s.Create(ctx, "messages", domain.Record{"id": "a", "chatId": "contact_1_2", "senderId": json.Number("1")})
	require.NoError(t, err)
	_, err = s.Create(ctx, "messages", domain.Record{"id": "b", "chatId": "group_9", "senderId": "1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "messages", domain.Record{"id": "c", "chatId": "contact_1_2", "senderId": "2"})
	require.NoError(t, err)

	got, err := s.List(ctx, "messages", map[string]string{"chatId": "contact_1_2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID())
	assert.Equal(t, "c", got[1].ID())

	got, err = s.List(ctx, "messages", map[string]string{"senderId": "1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.List(ctx, "messages", nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestMemoryStore_UnknownCollection(t *testing.T) {
	s := NewMemoryStore(testCollections)
	_, err := s.List(context.Background(), "posts", nil)
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestMemoryStore_PatchMergesAndKeepsID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testCollections)
	_, err := s.Create(ctx, "users", domain.Record{"id": "7", "username": "bob", "isOnline": true})
	require.NoError(t, err)

	updated, err := s.Patch(ctx, "users", "7", domain.Record{"id": "8", "isOnline": false})
	require.NoError(t, err)
	assert.Equal(t, "7", updated.ID())
	assert.Equal(t, "bob", updated["username"])
	assert.Equal(t, false, updated["isOnline"])

	got, err := s.Get(ctx, "users", "7")
	require.NoError(t, err)
	assert.Equal(t, false, got["isOnline"])

	_, err = s.Patch(ctx, "users", "99", domain.Record{"isOnline": true})
	assert.ErrorIs(t, err, errprocess.ErrNotFound)
}

func TestMemoryStore_DeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testCollections)
	for _, id := range []string{"1", "2", "3"} {
		_, err := s.Create(ctx, "groups", domain.Record{"id": id})
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, "groups", "2"))
	assert.ErrorIs(t, s.Delete(ctx, "groups", "2"), errprocess.ErrNotFound)

	got, err := s.List(ctx, "groups", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID())
	assert.Equal(t, "3", got[1].ID())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testCollections)
	created, err := s.Create(ctx, "users", domain.Record{"id": "1", "username": "alice"})
	require.NoError(t, err)
	created["username"] = "mallory"

	got, err := s.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got["username"])
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testCollections)
	_, err := s.Create(ctx, "users", domain.Record{"id": "1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "users", domain.Record{"id": json.Number("1")})
	assert.ErrorIs(t, err, errprocess.ErrValidation)
}
