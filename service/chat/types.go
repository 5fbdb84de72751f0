package chat

// Handler processes one inbound event kind.
type Handler interface {
	Event() string
	Handle(ctx *Context, c *Client, payload map[string]any) error
}

type Context struct {
	S *Server
}
