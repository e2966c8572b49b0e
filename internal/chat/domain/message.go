package domain

import (
	"sort"
	"time"
)

// MessageType kind of content
type MessageType string

const (
	// MessageText plain text
	MessageText MessageType = "text"
	// MessageImage image attachment
	MessageImage MessageType = "image"
	// MessageAudio audio attachment or voice note
	MessageAudio MessageType = "audio"
	// MessageDocument document attachment
	MessageDocument MessageType = "document"
)

// MessageStatus delivery state, only ever moves forward
type MessageStatus string

const (
	// StatusSent stored by the backend
	StatusSent MessageStatus = "sent"
	// StatusDelivered reached the peer
	StatusDelivered MessageStatus = "delivered"
	// StatusRead seen by the peer
	StatusRead MessageStatus = "read"
)

// VoicePlaceholder content of a simulated voice note
const VoicePlaceholder = "data:audio/wav;base64,simulated-audio-data"

// Message chat message; append-only except Status
type Message struct {
	ID         ID            `json:"id,omitempty"`
	ChatID     string        `json:"chatId"`
	SenderID   ID            `json:"senderId"`
	SenderName string        `json:"senderName"`
	Type       MessageType   `json:"type"`
	Content    string        `json:"content"`
	FileName   string        `json:"fileName,omitempty"`
	FileSize   string        `json:"fileSize,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     MessageStatus `json:"status"`
}

// MessagePatch partial message update
type MessagePatch struct {
	Status *MessageStatus `json:"status,omitempty"`
}

// SortByTimestamp ascending, equal timestamps keep their relative order
func SortByTimestamp(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}

// Attachment accept lists, by extension
var acceptedExtensions = map[MessageType]map[string]bool{
	MessageImage:    set("jpg", "jpeg", "png", "gif", "webp", "bmp", "svg", "heic"),
	MessageAudio:    set("mp3", "wav", "ogg", "m4a", "aac", "flac", "opus", "webm"),
	MessageDocument: set("pdf", "doc", "docx", "txt", "xls", "xlsx", "ppt", "pptx"),
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// IsAttachment image, audio or document
func (t MessageType) IsAttachment() bool {
	_, ok := acceptedExtensions[t]
	return ok
}

// Accepts the extension (lower case, no dot) is allowed for this attachment type
func (t MessageType) Accepts(extension string) bool {
	return acceptedExtensions[t][extension]
}
