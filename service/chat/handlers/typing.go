package handlers

import (
	"GlobeTalk/service/chat"
	"GlobeTalk/tools/decode"
)

// TypingHandler relays both start and stop signals; the event kind it was
// registered under is echoed back out unchanged.
type TypingHandler struct {
	event string
}

func NewStartTypingHandler() chat.Handler { return &TypingHandler{event: chat.EventStartTyping} }
func NewStopTypingHandler() chat.Handler  { return &TypingHandler{event: chat.EventStopTyping} }

func (h *TypingHandler) Event() string { return h.event }

func (h *TypingHandler) Handle(ctx *chat.Context, _ *chat.Client, payload map[string]any) error {
	p, err := decode.DecodeMap[chat.TypingPayload](payload)
	if err != nil {
		return err
	}
	ctx.S.Typing().Relay(h.event, p.ChatID, p.Members)
	return nil
}
