package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wandermesh/waystation/internal/logger"
	"github.com/wandermesh/waystation/internal/metrics"
)

// WorldIdentity is what this node declares to the relay on registration
type WorldIdentity struct {
	AgentID      string
	WorldName    string
	WorldURL     string
	DisplayName  string
	Capabilities []string
}

// Client owns the single long-lived link to the relay. It registers on
// connect, heartbeats on a fixed interval, treats prolonged silence as a
// dead link, and reconnects forever with capped exponential backoff. No
// relay failure is ever fatal to the process.
type Client struct {
	url        string
	identity   WorldIdentity
	dispatcher *Dispatcher

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	started   bool

	writeMu  sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewClient creates a relay client. Start must be called to open the link.
func NewClient(url string, identity WorldIdentity, dispatcher *Dispatcher) *Client {
	if len(identity.Capabilities) == 0 {
		identity.Capabilities = DefaultCapabilities
	}
	return &Client{
		url:        url,
		identity:   identity,
		dispatcher: dispatcher,
		shutdown:   make(chan struct{}),
	}
}

// Start begins the connection loop. Calling it while the loop is already
// running is a no-op, so a connect attempt during Connecting/Open states
// is idempotent.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		slog.Debug("Relay client already running")
		return
	}
	c.started = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.connectLoop(ctx)
}

// Stop gracefully shuts down the client
func (c *Client) Stop() {
	close(c.shutdown)

	c.mu.Lock()
	if c.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "world shutting down")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.conn.Close()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// IsConnected returns whether the relay link is currently open and
// registered.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Send writes one frame over the link. Fails when the link is down; the
// caller decides whether that matters.
func (c *Client) Send(frame Frame) error {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	c.mu.RUnlock()

	if conn == nil || !connected {
		return fmt.Errorf("relay link not open")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	metrics.RelayFramesSent.WithLabelValues(frame.FrameType()).Inc()
	return nil
}

func (c *Client) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	backoff := DefaultReconnectDelay
	attempts := 0

	for {
		select {
		case <-c.shutdown:
			slog.Info(LogMsgClientStopped)
			return
		case <-ctx.Done():
			slog.Info(LogMsgClientStopped)
			return
		default:
		}

		err := c.connect(ctx)
		c.setConnected(false)
		if err == nil {
			// Clean shutdown-side close.
			continue
		}

		attempts++
		metrics.RelayReconnects.Inc()
		// Log the first few failures and then periodically to avoid spam.
		if attempts <= 3 || attempts%50 == 0 {
			slog.Warn(LogMsgReconnecting, "error", err, "backoff", backoff, "attempts", attempts)
		}

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * ReconnectMultiplier)
			if backoff > MaxReconnectDelay {
				backoff = MaxReconnectDelay
			}
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// connect dials the relay, registers, and runs the read loop until the
// link dies. A non-nil error means the reconnect path should run.
func (c *Client) connect(ctx context.Context) error {
	slog.Info(LogMsgConnecting, "url", c.url)

	dialer := websocket.Dialer{
		ReadBufferSize:  ReadBufferSize,
		WriteBufferSize: WriteBufferSize,
	}
	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect: %w (status: %s)", err, resp.Status)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	metrics.RelayConnected.Set(1)
	slog.Info(LogMsgConnected, "url", c.url)

	if err := c.register(); err != nil {
		conn.Close()
		return err
	}

	pingerDone := make(chan struct{})
	c.wg.Add(1)
	go c.pinger(pingerDone)

	err = c.readLoop(ctx, conn)

	close(pingerDone)
	metrics.RelayConnected.Set(0)
	conn.Close()
	return err
}

// register declares this world's identity and capabilities. Sent first on
// every (re)connect.
func (c *Client) register() error {
	frame := RegisterWorldFrame{
		Type:         TypeRegisterWorld,
		AgentID:      c.identity.AgentID,
		WorldName:    c.identity.WorldName,
		WorldURL:     c.identity.WorldURL,
		DisplayName:  c.identity.DisplayName,
		Capabilities: c.identity.Capabilities,
	}
	if err := c.Send(frame); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	slog.Info(LogMsgRegistered, "world_name", c.identity.WorldName)
	return nil
}

// pinger sends heartbeat frames at a fixed interval until the connection
// it belongs to goes away.
func (c *Client) pinger(done chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			frame := PingFrame{
				Type:      TypePing,
				AgentID:   c.identity.AgentID,
				Timestamp: Timestamp(),
			}
			if err := c.Send(frame); err != nil {
				slog.Debug("Heartbeat send failed", "error", err)
			}
		case <-done:
			return
		case <-c.shutdown:
			return
		}
	}
}

// readLoop consumes frames until the link closes or falls silent past the
// liveness deadline. Every inbound frame, pongs included, pushes the
// deadline out.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-c.shutdown:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(LivenessTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info(LogMsgDisconnected)
				return fmt.Errorf("relay closed the link: %w", err)
			}
			slog.Warn(LogMsgReadError, "error", err)
			return err
		}

		frameCtx := logger.WithRequestID(ctx, logger.GenerateRequestID())
		c.dispatcher.Dispatch(frameCtx, raw, c)
	}
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	c.connected = connected
	c.mu.Unlock()
}
