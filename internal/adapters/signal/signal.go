package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/app"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/config"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the websocket endpoint: it upgrades connections,
// assigns each one a fresh connection id, and dispatches inbound frames
// to the coordinator and the relay.
type Controller struct {
	Coord   *app.Coordinator
	Relay   *app.Relay
	Limiter *ConnRateLimiter

	readLimit  int64
	pingPeriod time.Duration
}

func NewController(coord *app.Coordinator, relay *app.Relay, cfg *config.Config) *Controller {
	return &Controller{
		Coord:      coord,
		Relay:      relay,
		Limiter:    NewConnRateLimiter(cfg.MessageLimit, cfg.MessageInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
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

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the connection's pumps.
// The connection id plays the role the socket id played for the old
// client: it is minted per connection, never reused.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	connID := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("new WS connection")

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, connID, conn)
}
