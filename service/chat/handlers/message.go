package handlers

import (
	"context"

	"github.com/pkg/errors"

	"GlobeTalk/service/chat"
	"GlobeTalk/tools/decode"
)

type MessageHandler struct{}

func NewMessageHandler() chat.Handler { return &MessageHandler{} }

func (h *MessageHandler) Event() string { return chat.EventNewMessage }

func (h *MessageHandler) Handle(ctx *chat.Context, c *chat.Client, payload map[string]any) error {
	p, err := decode.DecodeMap[chat.NewMessagePayload](payload)
	if err != nil {
		return err
	}
	if p.ChatID == "" || p.Message == "" {
		return errors.New("missing chatId or message")
	}
	ctx.S.Fanout().Dispatch(context.Background(), chat.Inbound{
		ChatID:         p.ChatID,
		Members:        p.Members,
		Content:        p.Message,
		SenderID:       c.UserID,
		SenderName:     c.Name,
		SenderLanguage: c.Language,
	})
	return nil
}
