package chat

// Wire event kinds. Names are shared with the web client.
const (
	EventNewMessage      = "NEW_MESSAGE"
	EventNewMessageAlert = "NEW_MESSAGE_ALERT"
	EventStartTyping     = "START_TYPING"
	EventStopTyping      = "STOP_TYPING"
	EventChatJoined      = "CHAT_JOINED"
	EventChatLeaved      = "CHAT_LEAVED"
	EventOnlineUsers     = "ONLINE_USERS"
)
