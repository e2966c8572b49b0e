package app

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	backendapp "messenger_service/internal/backend/app"
	backendrepo "messenger_service/internal/backend/repository"
	"messenger_service/internal/backend/router"
	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	"messenger_service/pkg/config"

	"github.com/stretchr/testify/require"
)

// testConfig client config with timings shrunk for tests
func testConfig() config.Client {
	cfg := config.DefaultClient()
	cfg.RefreshInterval = 50 * time.Millisecond
	cfg.HeartbeatInterval = 100 * time.Millisecond
	cfg.NotificationTTL = 50 * time.Millisecond
	cfg.Chat.PollInterval = 50 * time.Millisecond
	cfg.Chat.DeliveredAfter = 100 * time.Millisecond
	cfg.Chat.ReadAfter = 300 * time.Millisecond
	cfg.Chat.VoiceRecordDuration = 100 * time.Millisecond
	return cfg
}

// startBackend in-process backend on a loopback port, memory store
func startBackend(t *testing.T) string {
	t.Helper()
	uc := backendapp.NewResourceUseCase(backendrepo.NewMemoryStore(config.DefaultCollections), nil)
	r := router.New(backendapp.NewResourceHandler(uc))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = r.Listener(ln) }()
	t.Cleanup(func() { _ = r.Shutdown() })

	return "http://" + ln.Addr().String()
}

type backendRepos struct {
	users    repository.UserRepository
	contacts repository.ContactRepository
	groups   repository.GroupRepository
	messages repository.MessageRepository
}

func newRepos(baseURL string) backendRepos {
	api := repository.NewAPIClient(baseURL, nil)
	return backendRepos{
		users:    repository.NewUserRepository(api),
		contacts: repository.NewContactRepository(api),
		groups:   repository.NewGroupRepository(api),
		messages: repository.NewMessageRepository(api),
	}
}

func (r backendRepos) deps(t *testing.T) Deps {
	return Deps{
		Users:    r.users,
		Contacts: r.contacts,
		Groups:   r.groups,
		Messages: r.messages,
		Sessions: repository.NewFileSessionStore(t.TempDir(), config.DefaultSessionKey),
		Blobs:    repository.NewLocalBlobStore(),
	}
}

func seedUser(t *testing.T, r backendRepos, phone, name string, online bool) domain.User {
	t.Helper()
	u, err := r.users.Create(context.Background(), &domain.User{
		PhoneNumber: phone,
		Username:    name,
		IsOnline:    online,
		LastSeen:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return *u
}

func testSession(t *testing.T, user domain.User) *Session {
	t.Helper()
	s := newSession(context.Background(), user)
	t.Cleanup(s.close)
	return s
}

func directRef(owner, peer domain.User, online bool) domain.ChatRef {
	id := peer.ID
	return domain.ChatRef{
		Type: domain.ChatTypeContact,
		Contact: &domain.ContactView{
			Contact: domain.Contact{
				ID:            "c-" + peer.ID,
				UserID:        owner.ID,
				ContactUserID: &id,
				Name:          peer.Username,
				PhoneNumber:   peer.PhoneNumber,
			},
			IsOnline: online,
		},
	}
}

func statusOf(t *testing.T, r backendRepos, chatID string, id domain.ID) domain.MessageStatus {
	t.Helper()
	list, err := r.messages.ListByChat(context.Background(), chatID)
	require.NoError(t, err)
	for _, m := range list {
		if m.ID == id {
			return m.Status
		}
	}
	return ""
}

// callCounter counts observer calls per chat
type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) observe(chatID string, _ []domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[chatID]++
}

func (c *callCounter) count(chatID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[chatID]
}
