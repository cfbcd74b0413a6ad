package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Attachment struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
}

type Message struct {
	ID         string      `json:"id" db:"message_id"`
	Role       Role        `json:"role" db:"role"`
	Content    string      `json:"content" db:"content"`
	Attachment *Attachment `json:"attachment,omitempty"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type MarketQuote struct {
	Symbol        string  `json:"symbol"`
	DisplayName   string  `json:"display_name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// Image is raw image content attached to a single turn.
type Image struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type Turn struct {
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Images  []Image `json:"images,omitempty"`
}

// ConversationRequest is built fresh for every outbound provider call.
type ConversationRequest struct {
	SystemInstruction string `json:"system_instruction"`
	Turns             []Turn `json:"turns"`
}

type Profile struct {
	UserID    uuid.UUID `json:"user_id" db:"id"`
	FullName  string    `json:"full_name" db:"full_name"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
