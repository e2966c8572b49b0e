package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"messenger_service/internal/chat/domain"
	"messenger_service/internal/chat/repository"
	"messenger_service/pkg/config"
	errprocess "messenger_service/pkg/err"
	"messenger_service/pkg/format"
	"messenger_service/pkg/logger"

	"go.uber.org/zap"
)

// ChatState lifecycle of an open chat
type ChatState int

const (
	// ChatIdle nothing loaded yet
	ChatIdle ChatState = iota
	// ChatLoading a load or send is in flight
	ChatLoading
	// ChatReady messages are current
	ChatReady
)

func (s ChatState) String() string {
	switch s {
	case ChatLoading:
		return "loading"
	case ChatReady:
		return "ready"
	default:
		return "idle"
	}
}

// MessageObserver receives the sorted messages after every reload
type MessageObserver func(chatID string, messages []domain.Message)

// Scheduler delayed callbacks bound to a lifetime
type Scheduler interface {
	After(d time.Duration, fn func(ctx context.Context))
}

// ChatSession one open chat: load, poll, send, delivery simulation
type ChatSession struct {
	self     domain.User
	ref      domain.ChatRef
	chatID   string
	messages repository.MessageRepository
	blobs    repository.BlobStore
	cfg      config.ChatConfig
	timers   Scheduler
	now      func() time.Time

	// peerOnline presence of the contact at send time
	peerOnline func() bool
	observer   MessageObserver

	ctx    context.Context
	cancel context.CancelFunc
	poll   *RepeatingTask

	mu        sync.Mutex
	state     ChatState
	loaded    bool
	list      []domain.Message
	recording bool
	closed    bool
}

// ChatSessionOption optional ChatSession setting
type ChatSessionOption func(*ChatSession)

// WithPresence override the peer presence check
func WithPresence(fn func() bool) ChatSessionOption {
	return func(s *ChatSession) { s.peerOnline = fn }
}

// WithObserver set the reload observer
func WithObserver(fn MessageObserver) ChatSessionOption {
	return func(s *ChatSession) { s.observer = fn }
}

// NewChatSession chat for session's user; nothing happens until Open
func NewChatSession(
	session *Session,
	ref domain.ChatRef,
	messages repository.MessageRepository,
	blobs repository.BlobStore,
	cfg config.ChatConfig,
	opts ...ChatSessionOption,
) *ChatSession {
	ctx, cancel := context.WithCancel(session.Context())
	s := &ChatSession{
		self:     session.User(),
		ref:      ref,
		chatID:   ref.ChatID(session.User().ID),
		messages: messages,
		blobs:    blobs,
		cfg:      cfg,
		timers:   session,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.peerOnline = func() bool {
		return ref.Type == domain.ChatTypeContact && ref.Contact != nil && ref.Contact.IsOnline
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatID derived chat key
func (s *ChatSession) ChatID() string { return s.chatID }

// Ref what the chat points at
func (s *ChatSession) Ref() domain.ChatRef { return s.ref }

// State current lifecycle state
func (s *ChatSession) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages snapshot, ascending by timestamp
func (s *ChatSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.list...)
}

// Recording a voice note is being recorded
func (s *ChatSession) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Open load the messages and start polling.
// Polling starts even when the first load fails.
func (s *ChatSession) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.poll != nil {
		s.mu.Unlock()
		return nil
	}
	s.poll = StartRepeating(s.ctx, s.cfg.PollInterval, func(ctx context.Context) {
		if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Warn("chat poll failed", zap.String("chat_id", s.chatID), zap.Error(err))
		}
	})
	s.mu.Unlock()

	return s.Reload(ctx)
}

// Close stop polling; later reloads and sends are dropped
func (s *ChatSession) Close() {
	s.mu.Lock()
	s.closed = true
	poll := s.poll
	s.mu.Unlock()

	s.cancel()
	poll.Stop()
}

// Reload fetch every message of the chat and sort them
func (s *ChatSession) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.state = ChatLoading
	s.mu.Unlock()

	list, err := s.messages.ListByChat(ctx, s.chatID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		if s.loaded {
			s.state = ChatReady
		} else {
			s.state = ChatIdle
		}
		s.mu.Unlock()
		return err
	}
	domain.SortByTimestamp(list)
	s.list = list
	s.loaded = true
	s.state = ChatReady
	snapshot := append([]domain.Message(nil), list...)
	observer := s.observer
	s.mu.Unlock()

	logger.Log.Debug("chat reloaded", zap.String("chat_id", s.chatID), zap.Int("messages", len(snapshot)))

	if observer != nil {
		observer(s.chatID, snapshot)
	}
	return nil
}

// SendText post a text message and schedule its delivery receipts
func (s *ChatSession) SendText(ctx context.Context, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errprocess.Validation("text", "empty message")
	}

	online := s.peerOnline()
	created, err := s.send(ctx, s.newMessage(domain.MessageText, text))
	if err != nil {
		return nil, err
	}

	s.timers.After(s.cfg.DeliveredAfter, func(ctx context.Context) {
		s.promote(ctx, created.ID, domain.StatusDelivered)
	})
	if online && s.ref.Type == domain.ChatTypeContact {
		s.timers.After(s.cfg.ReadAfter, func(ctx context.Context) {
			s.promote(ctx, created.ID, domain.StatusRead)
		})
	}
	return created, nil
}

// SendAttachment post an image, audio or document message.
// The file extension must be on the kind's accept list.
func (s *ChatSession) SendAttachment(ctx context.Context, kind domain.MessageType, file repository.Attachment) (*domain.Message, error) {
	if !kind.IsAttachment() {
		return nil, errprocess.Validation("type", fmt.Sprintf("%q is not an attachment type", kind))
	}
	if strings.TrimSpace(file.Name) == "" {
		return nil, errprocess.Validation("file", "no file selected")
	}
	if ext := format.FileExtension(file.Name); !kind.Accepts(ext) {
		return nil, errprocess.Validation("file", fmt.Sprintf("%s is not a valid %s file", file.Name, kind))
	}

	ref, err := s.blobs.Put(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	msg := s.newMessage(kind, ref)
	msg.FileName = file.Name
	msg.FileSize = format.FormatFileSize(file.Size)
	return s.send(ctx, msg)
}

// SendVoice record for VoiceRecordDuration then post a simulated audio note.
// Only one recording at a time.
func (s *ChatSession) SendVoice(ctx context.Context) (*domain.Message, error) {
	s.mu.Lock()
	if s.recording {
		s.mu.Unlock()
		return nil, errprocess.Validation("voice", "already recording")
	}
	s.recording = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.recording = false
		s.mu.Unlock()
	}()

	t := time.NewTimer(s.cfg.VoiceRecordDuration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	case <-t.C:
	}

	return s.send(ctx, s.newMessage(domain.MessageAudio, domain.VoicePlaceholder))
}

func (s *ChatSession) newMessage(kind domain.MessageType, content string) *domain.Message {
	return &domain.Message{
		ChatID:     s.chatID,
		SenderID:   s.self.ID,
		SenderName: s.self.Username,
		Type:       kind,
		Content:    content,
		Timestamp:  s.now().UTC(),
		Status:     domain.StatusSent,
	}
}

func (s *ChatSession) send(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errprocess.Validation("chat", "chat is closed")
	}
	s.state = ChatLoading
	s.mu.Unlock()

	created, err := s.messages.Create(ctx, msg)
	if err != nil {
		s.mu.Lock()
		if s.loaded {
			s.state = ChatReady
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("send message: %w", err)
	}

	if err := s.Reload(ctx); err != nil {
		logger.Log.Warn("reload after send failed", zap.String("chat_id", s.chatID), zap.Error(err))
	}
	return created, nil
}

// promote move messages to target according to the configured sweep
func (s *ChatSession) promote(ctx context.Context, id domain.ID, target domain.MessageStatus) {
	patch := domain.MessagePatch{Status: &target}

	if s.cfg.StatusSweep == config.SweepPrecise {
		if _, err := s.messages.Update(ctx, id, patch); err != nil {
			logger.Log.Warn("status update failed", zap.String("message_id", id.String()), zap.Error(err))
		}
	} else {
		recent, err := s.messages.ListBySender(ctx, s.self.ID)
		if err != nil {
			logger.Log.Warn("status sweep failed", zap.String("sender_id", s.self.ID.String()), zap.Error(err))
			return
		}
		if limit := s.cfg.RecentLimit; limit > 0 && len(recent) > limit {
			recent = recent[len(recent)-limit:]
		}
		for _, m := range recent {
			if m.Status == domain.StatusRead || m.Status == target {
				continue
			}
			if _, err := s.messages.Update(ctx, m.ID, patch); err != nil {
				logger.Log.Warn("status update failed", zap.String("message_id", m.ID.String()), zap.Error(err))
			}
		}
	}

	if err := s.Reload(ctx); err != nil && ctx.Err() == nil {
		logger.Log.Warn("reload after status update failed", zap.String("chat_id", s.chatID), zap.Error(err))
	}
}
