package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"messenger_service/internal/chat/domain"

	"github.com/cucumber/godog"
)

// messagingWorld state shared by the steps of one scenario
type messagingWorld struct {
	t     *testing.T
	repos backendRepos
	apps  map[string]*App
	sent  map[string]*domain.Message
}

func (w *messagingWorld) reset(t *testing.T) {
	w.repos = newRepos(startBackend(t))
	w.apps = map[string]*App{}
	w.sent = map[string]*domain.Message{}
}

func (w *messagingWorld) app(name string) (*App, error) {
	a, ok := w.apps[name]
	if !ok {
		return nil, fmt.Errorf("%s is not signed in", name)
	}
	return a, nil
}

func (w *messagingWorld) isSignedInWithPhone(name, phone string) error {
	a := NewApp(testConfig(), w.repos.deps(w.t), nil)
	if _, err := a.Login(context.Background(), phone, name); err != nil {
		return err
	}
	w.apps[name] = a
	return nil
}

func (w *messagingWorld) registeredOfflineUser(name, phone string) error {
	_, err := w.repos.users.Create(context.Background(), &domain.User{
		PhoneNumber: phone,
		Username:    name,
		LastSeen:    time.Now().UTC(),
	})
	return err
}

func (w *messagingWorld) addsContact(owner, name, phone string) error {
	a, err := w.app(owner)
	if err != nil {
		return err
	}
	_, err = a.AddContact(context.Background(), name, phone)
	return err
}

func (w *messagingWorld) opensChatWith(owner, contact string) error {
	a, err := w.app(owner)
	if err != nil {
		return err
	}
	for _, item := range a.ChatList(TabChats, contact) {
		if item.Name == contact {
			_, err := a.OpenContactChat(context.Background(), item.ID)
			return err
		}
	}
	return fmt.Errorf("%s has no contact %s", owner, contact)
}

func (w *messagingWorld) sends(owner, text string) error {
	a, err := w.app(owner)
	if err != nil {
		return err
	}
	msg, err := a.SendText(context.Background(), text)
	if err != nil {
		return err
	}
	w.sent[text] = msg
	return nil
}

func (w *messagingWorld) chatHoldsMessage(owner string, count int, text, status string) error {
	a, err := w.app(owner)
	if err != nil {
		return err
	}
	chat := a.ActiveChat()
	if chat == nil {
		return fmt.Errorf("%s has no open chat", owner)
	}
	list := chat.Messages()
	if len(list) != count {
		return fmt.Errorf("expected %d messages, got %d", count, len(list))
	}
	last := list[len(list)-1]
	if last.Content != text {
		return fmt.Errorf("expected %q, got %q", text, last.Content)
	}
	// the delivered promotion may already have run
	if string(last.Status) != status && last.Status != domain.StatusDelivered {
		return fmt.Errorf("expected status %s, got %s", status, last.Status)
	}
	return nil
}

func (w *messagingWorld) messageBecomes(text, status string) error {
	msg, ok := w.sent[text]
	if !ok {
		return fmt.Errorf("message %q was not sent", text)
	}

	deadline := time.Now().Add(3 * time.Second)
	var current domain.MessageStatus
	for time.Now().Before(deadline) {
		list, err := w.repos.messages.ListByChat(context.Background(), msg.ChatID)
		if err != nil {
			return err
		}
		for _, m := range list {
			if m.ID == msg.ID {
				current = m.Status
			}
		}
		if string(current) == status {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("message %q stuck at %s, want %s", text, current, status)
}

func (w *messagingWorld) seesContactOffline(owner, contact string) error {
	a, err := w.app(owner)
	if err != nil {
		return err
	}
	for _, item := range a.ChatList(TabChats, strings.ToLower(contact)) {
		if item.Name == contact {
			if item.IsOnline {
				return fmt.Errorf("%s shows as online", contact)
			}
			return nil
		}
	}
	return fmt.Errorf("%s has no contact %s", owner, contact)
}

func (w *messagingWorld) shutdown() {
	for _, a := range w.apps {
		a.Shutdown()
	}
}

func TestMessagingFeatures(t *testing.T) {
	w := &messagingWorld{t: t}

	suite := godog.TestSuite{
		ScenarioInitializer: func(s *godog.ScenarioContext) {
			s.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				w.reset(t)
				return ctx, nil
			})
			s.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
				w.shutdown()
				return ctx, err
			})

			s.Step(`^"([^"]*)" is signed in with phone "([^"]*)"$`, w.isSignedInWithPhone)
			s.Step(`^a registered user "([^"]*)" with phone "([^"]*)" who is offline$`, w.registeredOfflineUser)
			s.Step(`^"([^"]*)" adds contact "([^"]*)" with phone "([^"]*)"$`, w.addsContact)
			s.Step(`^"([^"]*)" opens the chat with "([^"]*)"$`, w.opensChatWith)
			s.Step(`^"([^"]*)" sends "([^"]*)"$`, w.sends)
			s.Step(`^the chat of "([^"]*)" holds (\d+) message "([^"]*)" with status "([^"]*)"$`, w.chatHoldsMessage)
			s.Step(`^the message "([^"]*)" becomes "([^"]*)"$`, w.messageBecomes)
			s.Step(`^"([^"]*)" sees "([^"]*)" offline in the chat list$`, w.seesContactOffline)
		},
		Options: &godog.Options{
			Paths:    []string{"./features"},
			Format:   "pretty",
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fail()
	}
}
