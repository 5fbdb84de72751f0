package handlers

import (
	"GlobeTalk/service/chat"
	"GlobeTalk/tools/decode"
)

type ChatJoinedHandler struct{}

func NewChatJoinedHandler() chat.Handler { return &ChatJoinedHandler{} }

func (h *ChatJoinedHandler) Event() string { return chat.EventChatJoined }

func (h *ChatJoinedHandler) Handle(ctx *chat.Context, c *chat.Client, payload map[string]any) error {
	p, err := decode.DecodeMap[chat.ChatPresencePayload](payload)
	if err != nil {
		return err
	}
	userID := p.UserID
	if userID == "" {
		userID = c.UserID
	}
	ctx.S.Presence().Join(userID, p.Members)
	return nil
}

type ChatLeavedHandler struct{}

func NewChatLeavedHandler() chat.Handler { return &ChatLeavedHandler{} }

func (h *ChatLeavedHandler) Event() string { return chat.EventChatLeaved }

func (h *ChatLeavedHandler) Handle(ctx *chat.Context, c *chat.Client, payload map[string]any) error {
	p, err := decode.DecodeMap[chat.ChatPresencePayload](payload)
	if err != nil {
		return err
	}
	userID := p.UserID
	if userID == "" {
		userID = c.UserID
	}
	ctx.S.Presence().Leave(userID, p.Members)
	return nil
}
