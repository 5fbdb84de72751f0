package chat

// Typing relays start/stop typing signals to every live handle in the member
// list. Stateless; sender-echo suppression is the client's concern.
type Typing struct {
	reg *Registry
}

func NewTyping(reg *Registry) *Typing {
	return &Typing{reg: reg}
}

func (t *Typing) Relay(event, chatID string, members []string) {
	frame := MarshalFrame(event, TypingSignal{ChatID: chatID})
	for _, c := range t.reg.Resolve(members) {
		c.Push(frame)
	}
}
