package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"GlobeTalk/logger"
)

// Frame is one inbound client event: a kind plus a loosely typed payload that
// handlers decode into their own structs.
type Frame struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(raw, frame); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if frame.Event == "" {
		return nil, fmt.Errorf("frame missing event")
	}
	return frame, nil
}

type outboundFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// MarshalFrame builds an outbound frame. Payloads are plain structs; a marshal
// failure is a programming error and yields nil (pushed frames tolerate nil).
func MarshalFrame(event string, payload any) []byte {
	b, err := json.Marshal(outboundFrame{Event: event, Payload: payload})
	if err != nil {
		logger.Errorf("[frames] marshal %s: %v", event, err)
		return nil
	}
	return b
}

// ---- inbound payloads ----

type NewMessagePayload struct {
	ChatID  string   `json:"chatId"`
	Members []string `json:"members"`
	Message string   `json:"message"`
}

type TypingPayload struct {
	ChatID  string   `json:"chatId"`
	Members []string `json:"members"`
}

type ChatPresencePayload struct {
	UserID  string   `json:"userId"`
	Members []string `json:"members"`
}

// ---- outbound payloads ----

type MessageSender struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// DeliveredMessage is the per-recipient delivery envelope. Its ID is synthetic,
// generated per delivery, and unrelated to the persisted record.
type DeliveredMessage struct {
	ID        string        `json:"_id"`
	Content   string        `json:"content"`
	Sender    MessageSender `json:"sender"`
	Chat      string        `json:"chat"`
	CreatedAt time.Time     `json:"createdAt"`
}

type NewMessageEnvelope struct {
	ChatID  string           `json:"chatId"`
	Message DeliveredMessage `json:"message"`
}

type MessageAlert struct {
	ChatID string `json:"chatId"`
}

type TypingSignal struct {
	ChatID string `json:"chatId"`
}

// BuildDelivery constructs a fresh envelope frame for one recipient.
func BuildDelivery(chatID string, sender MessageSender, content string) []byte {
	return MarshalFrame(EventNewMessage, NewMessageEnvelope{
		ChatID: chatID,
		Message: DeliveredMessage{
			ID:        uuid.NewString(),
			Content:   content,
			Sender:    sender,
			Chat:      chatID,
			CreatedAt: time.Now().UTC(),
		},
	})
}
