// Package signal is the websocket session controller: it owns the live
// connections, decodes inbound session events and fans notifications out to
// room members. All room state lives behind the app registry.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avlowe/watchroom/internal/app"
	"github.com/avlowe/watchroom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	registry  *app.Registry
	readLimit int64

	mu    sync.RWMutex
	conns map[domain.ConnectionID]*wsConn
}

func NewController(registry *app.Registry, readLimit int64) *Controller {
	return &Controller{
		registry:  registry,
		readLimit: readLimit,
		conns:     make(map[domain.ConnectionID]*wsConn),
	}
}

// wsConn wraps one websocket with a buffered outbound channel. Sends never
// block: a full buffer is a backpressure error and the frame is dropped.
type wsConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSession upgrades the request, mints the connection id and runs the
// session until the socket dies. Cleanup runs exactly once, on the way out.
func (ctl *Controller) HandleSession(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := domain.ConnectionID(uuid.NewString())
	conn := &wsConn{
		conn: ws,
		send: make(chan []byte, 32),
	}
	ctl.bind(cid, conn)
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("session opened")

	ctl.sendJSON(conn, struct {
		Type         string              `json:"type"`
		ConnectionID domain.ConnectionID `json:"connectionId"`
	}{"connected", cid})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go ctl.writePump(ctx, conn)
	ctl.readPump(cid, conn)

	ctl.handleDisconnect(cid, conn)
}

func (ctl *Controller) bind(cid domain.ConnectionID, conn *wsConn) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.conns[cid] = conn
}

func (ctl *Controller) unbind(cid domain.ConnectionID) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	delete(ctl.conns, cid)
}

func (ctl *Controller) lookup(cid domain.ConnectionID) (*wsConn, bool) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()
	conn, ok := ctl.conns[cid]
	return conn, ok
}

func (ctl *Controller) sendJSON(conn *wsConn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := conn.TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("outbound frame dropped")
	}
}

func (ctl *Controller) sendError(conn *wsConn, message string) {
	ctl.sendJSON(conn, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", message})
}

// broadcastRoom delivers v to every current member of the room except
// `except`. Fire and forget: a slow member just loses the frame.
func (ctl *Controller) broadcastRoom(code domain.RoomCode, except domain.ConnectionID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("broadcast marshal")
		return
	}
	for _, member := range ctl.registry.Members(code) {
		if member.ConnectionID == except {
			continue
		}
		conn, ok := ctl.lookup(member.ConnectionID)
		if !ok {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("room", string(code)).Str("cid", string(member.ConnectionID)).Msg("broadcast frame dropped")
		}
	}
}
