package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	"messenger_service/pkg/config"
	errprocess "messenger_service/pkg/err"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// ChatTab which list the sidebar shows
type ChatTab string

const (
	// TabChats direct chats, one per contact
	TabChats ChatTab = "chats"
	// TabGroups group chats
	TabGroups ChatTab = "groups"
)

// ChatListItem one row of the chat list
type ChatListItem struct {
	Type     domain.ChatType
	ID       domain.ID
	Name     string
	Subtitle string
	IsOnline bool
}

// Deps repositories and stores the App runs on
type Deps struct {
	Users    repository.UserRepository
	Contacts repository.ContactRepository
	Groups   repository.GroupRepository
	Messages repository.MessageRepository
	Sessions repository.SessionStore
	Blobs    repository.BlobStore
}

// ErrSignedOut operation needs a signed-in user
var ErrSignedOut = errors.New("not signed in")

// App wires auth, registries and the active chat, and runs the background loops
type App struct {
	cfg      config.Client
	auth     *AuthUseCase
	contacts *ContactUseCase
	groups   *GroupUseCase
	messages repository.MessageRepository
	blobs    repository.BlobStore
	notifier *Notifier

	// authMu serializes Init, Login and Logout so one session at most is started
	authMu sync.Mutex

	mu        sync.Mutex
	session   *Session
	chat      *ChatSession
	observer  MessageObserver
	refresh   *RepeatingTask
	heartbeat *RepeatingTask
}

// NewApp signed out until Init restores a session or Login succeeds
func NewApp(cfg config.Client, deps Deps, notifier *Notifier) *App {
	if notifier == nil {
		notifier = NewNotifier(cfg.NotificationTTL)
	}
	return &App{
		cfg:      cfg,
		auth:     NewAuthUseCase(deps.Users, deps.Sessions),
		contacts: NewContactUseCase(deps.Contacts, deps.Users),
		groups:   NewGroupUseCase(deps.Groups),
		messages: deps.Messages,
		blobs:    deps.Blobs,
		notifier: notifier,
	}
}

// Notifier user-facing notifications
func (a *App) Notifier() *Notifier { return a.notifier }

// OnMessages observer for chats opened from now on
func (a *App) OnMessages(fn MessageObserver) {
	a.mu.Lock()
	a.observer = fn
	a.mu.Unlock()
}

// Init resume a stored session; false when the user must log in
func (a *App) Init(ctx context.Context) (bool, error) {
	a.authMu.Lock()
	defer a.authMu.Unlock()
	if _, err := a.currentSession(); err == nil {
		return true, nil
	}

	user, err := a.auth.Restore(ctx)
	if err != nil {
		return false, a.fail("restore session", err)
	}
	if user == nil {
		return false, nil
	}
	a.start(ctx, *user)
	return true, nil
}

// Login sign in and start the background loops
func (a *App) Login(ctx context.Context, phone, username string) (*domain.User, error) {
	a.authMu.Lock()
	defer a.authMu.Unlock()

	if _, err := a.currentSession(); err == nil {
		return nil, a.fail("login", errprocess.Validation("session", "already signed in"))
	}
	user, err := a.auth.Login(ctx, phone, username)
	if err != nil {
		return nil, a.fail("login", err)
	}
	a.start(ctx, *user)
	return user, nil
}

// Logout ask confirm, then go offline and tear everything down.
// Returns false when the user declined.
func (a *App) Logout(ctx context.Context, confirm func() bool) (bool, error) {
	a.authMu.Lock()
	defer a.authMu.Unlock()

	session, err := a.currentSession()
	if err != nil {
		return false, err
	}
	if confirm != nil && !confirm() {
		return false, nil
	}

	a.stop()
	if err := a.auth.Logout(ctx, session.User().ID); err != nil {
		return true, a.fail("logout", err)
	}
	logger.Log.Info("signed out", zap.String("user_id", session.User().ID.String()))
	return true, nil
}

// Shutdown stop every loop and keep the stored session for the next run
func (a *App) Shutdown() {
	a.stop()
}

// CurrentUser signed-in user
func (a *App) CurrentUser() (domain.User, bool) {
	session, err := a.currentSession()
	if err != nil {
		return domain.User{}, false
	}
	return session.User(), true
}

// AddContact create a contact and refresh the list
func (a *App) AddContact(ctx context.Context, name, phone string) (*domain.Contact, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}
	contact, err := a.contacts.Add(ctx, session.User().ID, name, phone)
	if err != nil {
		return nil, a.fail("add contact", err)
	}
	a.notifier.Success(fmt.Sprintf("Contact %s added", contact.Name))
	a.reloadContacts(ctx, session)
	return contact, nil
}

// CreateGroup group with the signed-in user and the accounts behind contactIDs
func (a *App) CreateGroup(ctx context.Context, name, description string, contactIDs []domain.ID) (*domain.Group, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}

	members := make([]domain.ID, 0, len(contactIDs))
	for _, id := range contactIDs {
		c, ok := a.contacts.Find(id)
		if !ok {
			return nil, a.fail("create group", errprocess.NotFound("contact", id.String()))
		}
		if c.HasAccount() {
			members = append(members, *c.ContactUserID)
		}
	}

	group, err := a.groups.Create(ctx, session.User().ID, name, description, members)
	if err != nil {
		return nil, a.fail("create group", err)
	}
	a.notifier.Success(fmt.Sprintf("Group %s created", group.Name))
	a.reloadGroups(ctx, session)
	return group, nil
}

// OpenContactChat switch to the direct chat with a cached contact
func (a *App) OpenContactChat(ctx context.Context, contactID domain.ID) (*ChatSession, error) {
	contact, ok := a.contacts.Find(contactID)
	if !ok {
		return nil, a.fail("open chat", errprocess.NotFound("contact", contactID.String()))
	}
	return a.openChat(ctx, domain.ChatRef{Type: domain.ChatTypeContact, Contact: &contact},
		WithPresence(func() bool {
			current, ok := a.contacts.Find(contactID)
			return ok && current.IsOnline
		}))
}

// OpenGroupChat switch to a cached group's chat
func (a *App) OpenGroupChat(ctx context.Context, groupID domain.ID) (*ChatSession, error) {
	group, ok := a.groups.Find(groupID)
	if !ok {
		return nil, a.fail("open chat", errprocess.NotFound("group", groupID.String()))
	}
	return a.openChat(ctx, domain.ChatRef{Type: domain.ChatTypeGroup, Group: &group})
}

// CloseChat back to no active chat
func (a *App) CloseChat() {
	a.mu.Lock()
	chat := a.chat
	a.chat = nil
	a.mu.Unlock()

	if chat != nil {
		chat.Close()
	}
}

// ActiveChat open chat, nil when none
func (a *App) ActiveChat() *ChatSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chat
}

// SendText text to the active chat
func (a *App) SendText(ctx context.Context, text string) (*domain.Message, error) {
	chat, err := a.activeChat()
	if err != nil {
		return nil, err
	}
	msg, err := chat.SendText(ctx, text)
	if err != nil {
		return nil, a.fail("send message", err)
	}
	return msg, nil
}

// SendAttachment file to the active chat
func (a *App) SendAttachment(ctx context.Context, kind domain.MessageType, file repository.Attachment) (*domain.Message, error) {
	chat, err := a.activeChat()
	if err != nil {
		return nil, err
	}
	msg, err := chat.SendAttachment(ctx, kind, file)
	if err != nil {
		return nil, a.fail("send attachment", err)
	}
	return msg, nil
}

// SendVoice record and send a voice note to the active chat
func (a *App) SendVoice(ctx context.Context) (*domain.Message, error) {
	chat, err := a.activeChat()
	if err != nil {
		return nil, err
	}
	a.notifier.Info("Recording...")
	msg, err := chat.SendVoice(ctx)
	if err != nil {
		return nil, a.fail("send voice", err)
	}
	return msg, nil
}

// Contacts cached contacts with presence
func (a *App) Contacts() []domain.ContactView { return a.contacts.Cached() }

// Groups cached groups of the user
func (a *App) Groups() []domain.Group { return a.groups.Cached() }

// ChatList rows of tab whose name contains query, case-insensitive
func (a *App) ChatList(tab ChatTab, query string) []ChatListItem {
	query = strings.ToLower(strings.TrimSpace(query))
	match := func(name string) bool {
		return query == "" || strings.Contains(strings.ToLower(name), query)
	}

	var items []ChatListItem
	if tab == TabGroups {
		for _, g := range a.groups.Cached() {
			if match(g.Name) {
				items = append(items, ChatListItem{
					Type:     domain.ChatTypeGroup,
					ID:       g.ID,
					Name:     g.Name,
					Subtitle: fmt.Sprintf("%d members", len(g.Members)),
				})
			}
		}
		return items
	}

	for _, c := range a.contacts.Cached() {
		if match(c.Name) {
			items = append(items, ChatListItem{
				Type:     domain.ChatTypeContact,
				ID:       c.ID,
				Name:     c.Name,
				Subtitle: c.PhoneNumber,
				IsOnline: c.IsOnline,
			})
		}
	}
	return items
}

func (a *App) start(ctx context.Context, user domain.User) {
	session := newSession(context.Background(), user)

	a.reloadContacts(ctx, session)
	a.reloadGroups(ctx, session)

	refresh := StartRepeating(session.Context(), a.cfg.RefreshInterval, func(ctx context.Context) {
		a.reloadContacts(ctx, session)
		a.reloadGroups(ctx, session)
	})
	heartbeat := StartRepeating(session.Context(), a.cfg.HeartbeatInterval, func(ctx context.Context) {
		if err := a.auth.Heartbeat(ctx, user.ID); err != nil && ctx.Err() == nil {
			logger.Log.Warn("heartbeat failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	})

	a.mu.Lock()
	a.session = session
	a.refresh = refresh
	a.heartbeat = heartbeat
	a.mu.Unlock()

	logger.Log.Info("signed in", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))
}

// stop tear down chat, loops and session, in that order
func (a *App) stop() {
	a.mu.Lock()
	chat, refresh, heartbeat, session := a.chat, a.refresh, a.heartbeat, a.session
	a.chat, a.refresh, a.heartbeat, a.session = nil, nil, nil, nil
	a.mu.Unlock()

	if chat != nil {
		chat.Close()
	}
	refresh.Stop()
	heartbeat.Stop()
	if session != nil {
		session.close()
	}
	a.contacts.Reset()
	a.groups.Reset()
}

func (a *App) openChat(ctx context.Context, ref domain.ChatRef, opts ...ChatSessionOption) (*ChatSession, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.observer != nil {
		opts = append(opts, WithObserver(a.observer))
	}
	a.mu.Unlock()

	chat := NewChatSession(session, ref, a.messages, a.blobs, a.cfg.Chat, opts...)

	a.mu.Lock()
	prev := a.chat
	a.chat = chat
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	if err := chat.Open(ctx); err != nil {
		return chat, a.fail("load messages", err)
	}
	return chat, nil
}

func (a *App) reloadContacts(ctx context.Context, session *Session) {
	if _, err := a.contacts.List(ctx, session.User().ID); err != nil && ctx.Err() == nil {
		logger.Log.Warn("load contacts failed", zap.Error(err))
	}
}

func (a *App) reloadGroups(ctx context.Context, session *Session) {
	if _, err := a.groups.List(ctx, session.User().ID); err != nil && ctx.Err() == nil {
		logger.Log.Warn("load groups failed", zap.Error(err))
	}
}

func (a *App) currentSession() (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, ErrSignedOut
	}
	return a.session, nil
}

func (a *App) activeChat() (*ChatSession, error) {
	if _, err := a.currentSession(); err != nil {
		return nil, err
	}
	chat := a.ActiveChat()
	if chat == nil {
		return nil, a.fail("send", errprocess.Validation("chat", "no chat open"))
	}
	return chat, nil
}

// fail log, notify and return err
func (a *App) fail(op string, err error) error {
	a.notifier.Error(err.Error())
	return errprocess.Set(op, err)
}
