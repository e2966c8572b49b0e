package app

import (
	"sync"
	"time"
)

// NotificationKind success, error or info
type NotificationKind string

const (
	// NotifySuccess stays until replaced
	NotifySuccess NotificationKind = "success"
	// NotifyError auto-dismissed
	NotifyError NotificationKind = "error"
	// NotifyInfo auto-dismissed
	NotifyInfo NotificationKind = "info"
)

// Notification transient message for the user
type Notification struct {
	Kind NotificationKind
	Text string
	At   time.Time
}

// Notifier holds at most one notification at a time
type Notifier struct {
	ttl time.Duration

	mu          sync.Mutex
	current     *Notification
	seq         uint64
	subscribers []func(Notification)
}

// NewNotifier errors and info disappear after ttl
func NewNotifier(ttl time.Duration) *Notifier {
	return &Notifier{ttl: ttl}
}

// Subscribe fn receives every notification, on the caller's goroutine
func (n *Notifier) Subscribe(fn func(Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Notify replace the current notification
func (n *Notifier) Notify(kind NotificationKind, text string) {
	note := Notification{Kind: kind, Text: text, At: time.Now()}

	n.mu.Lock()
	n.seq++
	seq := n.seq
	n.current = &note
	subs := append([]func(Notification){}, n.subscribers...)
	n.mu.Unlock()

	if kind != NotifySuccess && n.ttl > 0 {
		time.AfterFunc(n.ttl, func() { n.dismiss(seq) })
	}
	for _, fn := range subs {
		fn(note)
	}
}

// Success persistent notification
func (n *Notifier) Success(text string) { n.Notify(NotifySuccess, text) }

// Error auto-dismissed notification
func (n *Notifier) Error(text string) { n.Notify(NotifyError, text) }

// Info auto-dismissed notification
func (n *Notifier) Info(text string) { n.Notify(NotifyInfo, text) }

// Current notification on screen, if any
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss clear whatever is shown
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}

func (n *Notifier) dismiss(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.seq == seq {
		n.current = nil
	}
}
