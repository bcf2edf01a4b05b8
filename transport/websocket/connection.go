package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/protocol"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
	closeGracePeriod = time.Second

	frameBuffer = 16
)

// Connection is the single duplex channel to the authority. It never retries
// or reconnects: once the read loop ends, Frames is closed and Err tells why.
type Connection struct {
	logger *slog.Logger
	conn   *websocket.Conn

	frames chan protocol.Frame
	done   chan struct{}
	err    error

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// Dial - opens the connection. Nothing is sent until the caller asks for it.
func Dial(ctx context.Context, logger *slog.Logger, url string) (*Connection, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, url, nil) //nolint: bodyclose // gorilla owns the handshake response
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	that := &Connection{
		logger: logger.With("component", "connection", "conn_id", uuid.NewString()),
		conn:   conn,
		frames: make(chan protocol.Frame, frameBuffer),
		done:   make(chan struct{}),
	}

	that.logger.Info("connected", "url", url)

	go that.readLoop()

	return that, nil
}

// Frames - decoded inbound frames in arrival order.
func (that *Connection) Frames() <-chan protocol.Frame {
	return that.frames
}

// Err - the reason the read loop stopped. Only valid once Frames is closed;
// nil after a local Close or a normal close from the authority.
func (that *Connection) Err() error {
	return that.err
}

// Send - writes one outbound frame.
func (that *Connection) Send(ctx context.Context, out protocol.Outbound) error {
	if that.closed.Load() {
		return apperror.ErrConnectionClosed
	}

	data, err := protocol.Encode(out)
	if err != nil {
		return err
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if that.closed.Load() {
		return apperror.ErrConnectionClosed
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}

	if err = that.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", out.MessageType(), err)
	}

	that.logger.Debug("frame sent", "type", out.MessageType())

	return nil
}

// Close - closes the connection. Safe to call more than once; only the first
// call does anything.
func (that *Connection) Close() error {
	var err error

	that.closeOnce.Do(func() {
		that.closed.Store(true)
		close(that.done)

		that.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = that.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		that.writeMu.Unlock()

		if err = that.conn.Close(); err != nil {
			err = fmt.Errorf("failed to close connection: %w", err)
		}

		that.logger.Info("connection closed")
	})

	return err
}

func (that *Connection) readLoop() {
	log := that.logger.With("method", "readLoop")

	defer close(that.frames)

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			that.err = that.readError(err)
			if that.err != nil {
				log.Error("error reading message", "error", err)
			}
			return
		}

		frame, err := protocol.Decode(data)
		if err != nil {
			log.Warn("discarding frame", "error", err)
			continue
		}

		select {
		case that.frames <- frame:
		case <-that.done:
			return
		}
	}
}

func (that *Connection) readError(err error) error {
	if that.closed.Load() {
		return nil
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return fmt.Errorf("%w: closed by server: %w", apperror.ErrConnectionClosed, err)
	}

	return fmt.Errorf("%w: %w", apperror.ErrConnectionClosed, err)
}
