package domain

import "time"

// Sender identifies who produced a conversation turn.
type Sender int

const (
	SenderUser Sender = iota
	SenderAssistant
	// SenderAssistantEnhanced marks answers regenerated with web search results.
	SenderAssistantEnhanced
	SenderSystem
)

// String returns the storage label for the sender.
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAssistant:
		return "assistant"
	case SenderAssistantEnhanced:
		return "assistant_enhanced"
	default:
		return "system"
	}
}

// ParseSender maps a display or storage label to the closed Sender enum.
// The legacy UI used free-text locale labels for senders; anything it did
// not recognise (status notices, error banners) is treated as system.
func ParseSender(label string) Sender {
	switch label {
	case "user", "我":
		return SenderUser
	case "assistant", "AI 助手":
		return SenderAssistant
	case "assistant_enhanced", "AI 助手(联网增强)":
		return SenderAssistantEnhanced
	default:
		return SenderSystem
	}
}

// IsConversational reports whether the sender participates in the
// context window sent back to the model.
func (s Sender) IsConversational() bool {
	return s == SenderUser || s == SenderAssistant || s == SenderAssistantEnhanced
}

// Turn is one message in the conversation log. Turns are immutable once
// created: the log is append-only and may only be cleared as a whole.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session groups turns belonging to one conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
