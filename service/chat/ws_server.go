package chat

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"GlobeTalk/logger"
	"GlobeTalk/service/directory"
	"GlobeTalk/tools/ids"
	"GlobeTalk/tools/security"
)

const tokenCookie = "Globe-token"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request, authenticates the credential exactly once,
// registers the connection and then pumps events until disconnect.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[WS] upgrade failed: %v", err)
		return
	}

	member, err := s.authenticate(c.Request)
	if err != nil {
		// Fatal to this connection attempt only.
		logger.Infof("[WS] handshake rejected: %v", err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed"),
			time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	client := NewClient(ids.GenerateString(), member.ID, member.Name, member.Language, ws, s.conf.SendQueueSize)
	s.reg.Register(client)
	go client.WritePump()
	logger.Infof("[WS] connected user=%s conn=%s", client.UserID, client.ConnID)

	s.readLoop(client)

	// Compare-and-remove: a fast reconnect may already own the mapping, and
	// this stale disconnect must not evict the newer handle.
	s.reg.Unregister(client)
	s.presence.Disconnect(client.UserID)
	client.Close()
	logger.Infof("[WS] disconnected user=%s conn=%s", client.UserID, client.ConnID)
}

func (s *Server) authenticate(r *http.Request) (directory.Member, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return directory.Member{}, errors.New("missing credential")
	}
	userID, err := security.Verify(security.DefaultOptions(s.conf.JWTSecret), token)
	if err != nil {
		return directory.Member{}, errors.Wrap(err, "verify token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.conf.DirectoryTimeout)
	defer cancel()
	members, err := s.dir.Members(ctx, []string{userID})
	if err != nil {
		return directory.Member{}, errors.Wrap(err, "resolve identity")
	}
	if len(members) == 0 {
		return directory.Member{}, errors.Errorf("unknown user %s", userID)
	}
	return members[0], nil
}

func tokenFromRequest(r *http.Request) string {
	if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
		if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return strings.TrimSpace(authz[len("bearer "):])
		}
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) readLoop(client *Client) {
	for {
		mt, data, err := client.WS.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[WS] peer closed user=%s conn=%s", client.UserID, client.ConnID)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				logger.Infof("[WS] read timeout user=%s conn=%s err=%v", client.UserID, client.ConnID, err)
			} else {
				logger.Infof("[WS] read err user=%s conn=%s err=%v", client.UserID, client.ConnID, err)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Warnf("[WS] bad frame user=%s err=%v sample=%q", client.UserID, perr, sample)
			continue
		}

		h := s.disp.Get(frame.Event)
		if h == nil {
			continue
		}
		if herr := h.Handle(&Context{S: s}, client, frame.Payload); herr != nil {
			// Handler failures never terminate the connection.
			logger.Warnf("[WS] %s handler err user=%s: %v", frame.Event, client.UserID, herr)
		}
	}
}
