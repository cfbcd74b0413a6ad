package chat

import (
	"errors"
	"fmt"
	"time"

	"finance-companion/internal/domain"
)

// GreetingID identifies the fixed opening message of every conversation.
const GreetingID = "greeting"

// Greeting is always the first message and is never persisted.
const Greeting = "Hi! I'm your AI financial assistant. I can help you analyze invoices, track spending, and offer investment suggestions based on live market data. What would you like to know?"

// UploadCaption is the display text for a file sent without any text.
const UploadCaption = "I've uploaded an invoice for analysis"

var (
	// ErrReplyPending is returned when a turn is started before the previous one settled.
	ErrReplyPending = errors.New("a reply is still pending for this conversation")
	// ErrEmptyMessage is returned when there is neither text nor a file.
	ErrEmptyMessage = errors.New("message has no content")
)

// Upload is a file sent along with a user turn.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// PersistenceError wraps a failed remote save, list or delete. It is only ever logged.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not %s messages: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type EventType string

const (
	EventMessageAppended EventType = "message_appended"
	EventPendingChanged  EventType = "pending_changed"
	EventNotification    EventType = "notification"
	EventCleared         EventType = "cleared"
)

// Notification is a transient toast for the client.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// Event is pushed to conversation subscribers.
type Event struct {
	Type         EventType       `json:"type"`
	Message      *domain.Message `json:"message,omitempty"`
	Pending      bool            `json:"pending"`
	Notification *Notification   `json:"notification,omitempty"`
}

func greetingMessage() domain.Message {
	return domain.Message{
		ID:        GreetingID,
		Role:      domain.RoleAssistant,
		Content:   Greeting,
		CreatedAt: time.Now().UTC(),
	}
}
