package repository

import (
	"context"
	"errors"
	"net/url"

	"messenger_service/internal/chat/domain"
	errprocess "messenger_service/pkg/err"
)

// backend collections
const (
	UsersCollection    = "users"
	ContactsCollection = "contacts"
	GroupsCollection   = "groups"
	MessagesCollection = "messages"
)

// UserRepository users collection
type UserRepository interface {
	// FindByPhone NotFoundError when no user has this number
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	// FindByID NotFoundError when absent
	FindByID(ctx context.Context, id domain.ID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id domain.ID, patch domain.UserPatch) (*domain.User, error)
}

// ContactRepository contacts collection
type ContactRepository interface {
	ListByOwner(ctx context.Context, ownerID domain.ID) ([]domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
}

// GroupRepository groups collection
type GroupRepository interface {
	List(ctx context.Context) ([]domain.Group, error)
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
}

// MessageRepository messages collection
type MessageRepository interface {
	ListByChat(ctx context.Context, chatID string) ([]domain.Message, error)
	ListBySender(ctx context.Context, senderID domain.ID) ([]domain.Message, error)
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	Update(ctx context.Context, id domain.ID, patch domain.MessagePatch) (*domain.Message, error)
}

func asTransport(err error, target **errprocess.TransportError) bool {
	return err != nil && errors.As(err, target)
}

type userRepository struct{ api *APIClient }

// NewUserRepository users over the REST backend
func NewUserRepository(api *APIClient) UserRepository { return &userRepository{api: api} }

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var users []domain.User
	if err := r.api.List(ctx, UsersCollection, url.Values{"phoneNumber": {phone}}, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errprocess.NotFound("user", phone)
	}
	return &users[0], nil
}

func (r *userRepository) FindByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	var user domain.User
	if err := r.api.Get(ctx, UsersCollection, id.String(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created domain.User
	if err := r.api.Create(ctx, UsersCollection, user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) Update(ctx context.Context, id domain.ID, patch domain.UserPatch) (*domain.User, error) {
	var updated domain.User
	if err := r.api.Patch(ctx, UsersCollection, id.String(), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

type contactRepository struct{ api *APIClient }

// NewContactRepository contacts over the REST backend
func NewContactRepository(api *APIClient) ContactRepository { return &contactRepository{api: api} }

func (r *contactRepository) ListByOwner(ctx context.Context, ownerID domain.ID) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	err := r.api.List(ctx, ContactsCollection, url.Values{"userId": {ownerID.String()}}, &contacts)
	return contacts, err
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	var created domain.Contact
	if err := r.api.Create(ctx, ContactsCollection, contact, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type groupRepository struct{ api *APIClient }

// NewGroupRepository groups over the REST backend
func NewGroupRepository(api *APIClient) GroupRepository { return &groupRepository{api: api} }

func (r *groupRepository) List(ctx context.Context) ([]domain.Group, error) {
	groups := []domain.Group{}
	err := r.api.List(ctx, GroupsCollection, nil, &groups)
	return groups, err
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	var created domain.Group
	if err := r.api.Create(ctx, GroupsCollection, group, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type messageRepository struct{ api *APIClient }

// NewMessageRepository messages over the REST backend
func NewMessageRepository(api *APIClient) MessageRepository { return &messageRepository{api: api} }

func (r *messageRepository) ListByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.api.List(ctx, MessagesCollection, url.Values{"chatId": {chatID}}, &messages)
	return messages, err
}

func (r *messageRepository) ListBySender(ctx context.Context, senderID domain.ID) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.api.List(ctx, MessagesCollection, url.Values{"senderId": {senderID.String()}}, &messages)
	return messages, err
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	var created domain.Message
	if err := r.api.Create(ctx, MessagesCollection, message, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *messageRepository) Update(ctx context.Context, id domain.ID, patch domain.MessagePatch) (*domain.Message, error) {
	var updated domain.Message
	if err := r.api.Patch(ctx, MessagesCollection, id.String(), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
