package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"messenger_service/internal/chat/domain"
	errprocess "messenger_service/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newAuthUseCase() (*AuthUseCase, *MockUserRepository, *MockSessionStore) {
	users := new(MockUserRepository)
	store := new(MockSessionStore)
	uc := NewAuthUseCase(users, store)
	uc.now = func() time.Time { return fixedNow }
	return uc, users, store
}

func TestLogin_CreatesUnknownUser(t *testing.T) {
	uc, users, store := newAuthUseCase()
	ctx := context.Background()

	users.On("FindByPhone", ctx, "+33611111111").Return(nil, errprocess.NotFound("user", "+33611111111"))
	users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.PhoneNumber == "+33611111111" && u.Username == "alice" && u.IsOnline && u.LastSeen.Equal(fixedNow)
	})).Return(&domain.User{ID: "1", PhoneNumber: "+33611111111", Username: "alice", IsOnline: true}, nil)
	store.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool { return u.ID == "1" })).Return(nil)

	user, err := uc.Login(ctx, "  +33611111111 ", " alice ")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("1"), user.ID)
	users.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestLogin_ExistingUserGoesOnline(t *testing.T) {
	uc, users, store := newAuthUseCase()
	ctx := context.Background()

	existing := &domain.User{ID: "1", PhoneNumber: "+33611111111", Username: "alice"}
	users.On("FindByPhone", ctx, "+33611111111").Return(existing, nil)
	users.On("Update", ctx, domain.ID("1"), mock.MatchedBy(func(p domain.UserPatch) bool {
		return p.IsOnline != nil && *p.IsOnline && p.LastSeen != nil && p.LastSeen.Equal(fixedNow)
	})).Return(&domain.User{ID: "1", PhoneNumber: "+33611111111", Username: "alice", IsOnline: true, LastSeen: fixedNow}, nil)
	store.On("Save", ctx, mock.Anything).Return(nil)

	user, err := uc.Login(ctx, "+33611111111", "someone else")
	require.NoError(t, err)
	assert.True(t, user.IsOnline)
	assert.Equal(t, "alice", user.Username)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_RequiresBothFields(t *testing.T) {
	uc, users, _ := newAuthUseCase()

	_, err := uc.Login(context.Background(), "+33611111111", "   ")
	assert.ErrorIs(t, err, errprocess.ErrValidation)
	_, err = uc.Login(context.Background(), "", "alice")
	assert.ErrorIs(t, err, errprocess.ErrValidation)
	users.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
}

func TestLogin_TransportFailure(t *testing.T) {
	uc, users, store := newAuthUseCase()
	ctx := context.Background()
	boom := &errprocess.TransportError{Method: "GET", URL: "/users", Err: errors.New("connection refused")}
	users.On("FindByPhone", ctx, "+33611111111").Return(nil, boom)

	_, err := uc.Login(ctx, "+33611111111", "alice")
	assert.ErrorIs(t, err, errprocess.ErrTransport)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHeartbeat_OnlyTouchesLastSeen(t *testing.T) {
	uc, users, _ := newAuthUseCase()
	ctx := context.Background()

	var patches []domain.UserPatch
	users.On("Update", ctx, domain.ID("1"), mock.Anything).
		Run(func(args mock.Arguments) { patches = append(patches, args.Get(2).(domain.UserPatch)) }).
		Return(&domain.User{ID: "1", IsOnline: true}, nil)

	require.NoError(t, uc.Heartbeat(ctx, "1"))
	require.NoError(t, uc.Heartbeat(ctx, "1"))

	require.Len(t, patches, 2)
	for _, p := range patches {
		assert.Nil(t, p.IsOnline)
		require.NotNil(t, p.LastSeen)
		assert.True(t, p.LastSeen.Equal(fixedNow))
	}
}

func TestLogout_ClearsSessionEvenWhenOfflineUpdateFails(t *testing.T) {
	uc, users, store := newAuthUseCase()
	ctx := context.Background()

	users.On("Update", ctx, domain.ID("1"), mock.MatchedBy(func(p domain.UserPatch) bool {
		return p.IsOnline != nil && !*p.IsOnline
	})).Return(nil, &errprocess.TransportError{Method: "PATCH", URL: "/users/1", Err: errors.New("down")})
	store.On("Clear", ctx).Return(nil)

	require.NoError(t, uc.Logout(ctx, "1"))
	store.AssertExpectations(t)
}

func TestRestore(t *testing.T) {
	uc, _, store := newAuthUseCase()
	ctx := context.Background()

	store.On("Load", ctx).Return(nil, nil).Once()
	user, err := uc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	store.On("Load", ctx).Return(&domain.User{ID: "1", Username: "alice"}, nil).Once()
	user, err = uc.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}
