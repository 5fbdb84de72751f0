package chat

import (
	"GlobeTalk/logger"
)

type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Event()] = h }

func (d *Dispatcher) Get(event string) Handler {
	h, ok := d.handlers[event]
	if !ok {
		logger.Infof("no handler for event=%s", event)
		return nil
	}
	return h
}
