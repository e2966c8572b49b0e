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

func idPtr(id domain.ID) *domain.ID { return &id }

func TestContactList_EnrichesPresence(t *testing.T) {
	contacts := new(MockContactRepository)
	users := new(MockUserRepository)
	uc := NewContactUseCase(contacts, users)
	ctx := context.Background()

	seen := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)
	contacts.On("ListByOwner", ctx, domain.ID("1")).Return([]domain.Contact{
		{ID: "c1", UserID: "1", ContactUserID: idPtr("2"), Name: "Bob"},
		{ID: "c2", UserID: "1", ContactUserID: idPtr("3"), Name: "Gone"},
		{ID: "c3", UserID: "1", Name: "Eve", PhoneNumber: "+33633333333"},
		{ID: "c4", UserID: "1", ContactUserID: idPtr("4"), Name: "Flaky"},
	}, nil)
	users.On("FindByID", ctx, domain.ID("2")).Return(&domain.User{ID: "2", IsOnline: true, LastSeen: seen}, nil)
	users.On("FindByID", ctx, domain.ID("3")).Return(nil, errprocess.NotFound("users", "3"))
	users.On("FindByID", ctx, domain.ID("4")).Return(nil, &errprocess.TransportError{Err: errors.New("reset")})

	views, err := uc.List(ctx, "1")
	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.True(t, views[0].IsOnline)
	require.NotNil(t, views[0].LastSeen)
	assert.True(t, views[0].LastSeen.Equal(seen))
	for _, v := range views[1:] {
		assert.False(t, v.IsOnline, v.Name)
		assert.Nil(t, v.LastSeen, v.Name)
	}
	users.AssertNumberOfCalls(t, "FindByID", 3)

	cached, ok := uc.Find("c1")
	require.True(t, ok)
	assert.Equal(t, "Bob", cached.Name)
	assert.Len(t, uc.Cached(), 4)

	uc.Reset()
	assert.Empty(t, uc.Cached())
}

func TestContactAdd_RejectsDuplicatePhone(t *testing.T) {
	contacts := new(MockContactRepository)
	users := new(MockUserRepository)
	uc := NewContactUseCase(contacts, users)
	ctx := context.Background()

	contacts.On("ListByOwner", ctx, domain.ID("1")).Return([]domain.Contact{
		{ID: "c1", UserID: "1", Name: "Bob", PhoneNumber: "+33622222222"},
	}, nil)

	_, err := uc.Add(ctx, "1", "Bobby", "+33 6 22 22 22 22")
	require.Error(t, err)
	var dup *errprocess.DuplicateContactError
	assert.ErrorAs(t, err, &dup)
	assert.ErrorIs(t, err, errprocess.ErrValidation)
	contacts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactAdd_NormalisesAndResolvesAccount(t *testing.T) {
	contacts := new(MockContactRepository)
	users := new(MockUserRepository)
	uc := NewContactUseCase(contacts, users)
	ctx := context.Background()

	contacts.On("ListByOwner", ctx, domain.ID("1")).Return([]domain.Contact{}, nil)
	users.On("FindByPhone", ctx, "+33622222222").Return(&domain.User{ID: "2"}, nil)
	contacts.On("Create", ctx, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.Name == "Bob" && c.PhoneNumber == "+33622222222" && c.UserID == "1" &&
			c.ContactUserID != nil && *c.ContactUserID == "2"
	})).Return(&domain.Contact{ID: "c9", Name: "Bob"}, nil)

	created, err := uc.Add(ctx, "1", "  Bob ", " +33 6 22 22 22 22 ")
	require.NoError(t, err)
	assert.Equal(t, domain.ID("c9"), created.ID)
	contacts.AssertExpectations(t)
}

func TestContactAdd_UnknownNumberHasNoAccount(t *testing.T) {
	contacts := new(MockContactRepository)
	users := new(MockUserRepository)
	uc := NewContactUseCase(contacts, users)
	ctx := context.Background()

	contacts.On("ListByOwner", ctx, domain.ID("1")).Return([]domain.Contact{}, nil)
	users.On("FindByPhone", ctx, "+33633333333").Return(nil, errprocess.NotFound("user", "+33633333333"))
	contacts.On("Create", ctx, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.ContactUserID == nil
	})).Return(&domain.Contact{ID: "c10"}, nil)

	_, err := uc.Add(ctx, "1", "Eve", "+33633333333")
	require.NoError(t, err)
	contacts.AssertExpectations(t)
}

func TestContactAdd_Validation(t *testing.T) {
	uc := NewContactUseCase(new(MockContactRepository), new(MockUserRepository))

	_, err := uc.Add(context.Background(), "1", " ", "+33622222222")
	assert.ErrorIs(t, err, errprocess.ErrValidation)
	_, err = uc.Add(context.Background(), "1", "Bob", "   ")
	assert.ErrorIs(t, err, errprocess.ErrValidation)
}
