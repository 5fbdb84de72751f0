package chat

import (
	"time"

	"GlobeTalk/service/directory"
)

type Config struct {
	GatewayID        string
	JWTSecret        []byte
	SendQueueSize    int
	DirectoryTimeout time.Duration
}

func (c *Config) norm() {
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 64
	}
	if c.DirectoryTimeout <= 0 {
		c.DirectoryTimeout = 2 * time.Second
	}
}

// Server owns the gateway's shared state and dispatches connection events to
// the registry, presence coordinator, fan-out engine and typing relay.
type Server struct {
	conf Config

	reg      *Registry
	presence *Presence
	fanout   *Fanout
	typing   *Typing
	dir      directory.Directory
	disp     *Dispatcher
}

func NewServer(conf Config, reg *Registry, presence *Presence, fanout *Fanout, typing *Typing, dir directory.Directory) *Server {
	conf.norm()
	return &Server{
		conf:     conf,
		reg:      reg,
		presence: presence,
		fanout:   fanout,
		typing:   typing,
		dir:      dir,
		disp:     NewDispatcher(),
	}
}

func (s *Server) Registry() *Registry { return s.reg }
func (s *Server) Presence() *Presence { return s.presence }
func (s *Server) Fanout() *Fanout     { return s.fanout }
func (s *Server) Typing() *Typing     { return s.typing }
func (s *Server) Disp() *Dispatcher   { return s.disp }
