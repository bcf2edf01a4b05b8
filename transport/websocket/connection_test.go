package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/entity"
	"github.com/rocketscienceinc/connect4-client/internal/protocol"
	"github.com/rocketscienceinc/connect4-client/testing/authority"
)

const silence = 100 * time.Millisecond

func dial(t *testing.T, srv *authority.Authority) *Connection {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := Dial(context.Background(), logger, srv.WSURL())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	srv.WaitForClient(t)

	return conn
}

func nextFrame(t *testing.T, conn *Connection) protocol.Frame {
	t.Helper()

	select {
	case frame, ok := <-conn.Frames():
		require.True(t, ok, "frames channel closed unexpectedly")
		return frame
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for frame")
		return nil
	}
}

func waitClosed(t *testing.T, conn *Connection) {
	t.Helper()

	for {
		select {
		case _, ok := <-conn.Frames():
			if !ok {
				return
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frames channel to close")
		}
	}
}

func TestConnection_Dial(t *testing.T) {
	t.Run("Sends nothing on open", func(t *testing.T) {
		// Given: a running authority
		srv := authority.New(t)

		// When: the client connects
		_ = dial(t, srv)

		// Then: no frame is sent proactively
		srv.ExpectSilence(t, silence)
	})

	t.Run("Fails on an unreachable endpoint", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		conn, err := Dial(ctx, logger, "ws://127.0.0.1:1/ws")

		require.Error(t, err)
		assert.Nil(t, conn)
	})
}

func TestConnection_Send(t *testing.T) {
	t.Run("JOIN and MOVE reach the authority", func(t *testing.T) {
		srv := authority.New(t)
		conn := dial(t, srv)
		ctx := context.Background()

		require.NoError(t, conn.Send(ctx, protocol.Join{Username: "Alice"}))
		require.NoError(t, conn.Send(ctx, protocol.Move{Column: 3}))

		join := srv.Next(t)
		assert.Equal(t, protocol.MsgJoin, join.Type)
		assert.JSONEq(t, `{"username":"Alice"}`, string(join.Payload))

		move := srv.Next(t)
		assert.Equal(t, protocol.MsgMove, move.Type)
		var payload protocol.Move
		require.NoError(t, json.Unmarshal(move.Payload, &payload))
		assert.Equal(t, 3, payload.Column)
	})

	t.Run("No send after close", func(t *testing.T) {
		// Given: a closed connection
		srv := authority.New(t)
		conn := dial(t, srv)
		require.NoError(t, conn.Close())

		// When: sending
		err := conn.Send(context.Background(), protocol.Move{Column: 1})

		// Then: nothing is written
		require.ErrorIs(t, err, apperror.ErrConnectionClosed)
		srv.ExpectSilence(t, silence)
	})
}

func TestConnection_Frames(t *testing.T) {
	t.Run("Decodes inbound frames in order", func(t *testing.T) {
		srv := authority.New(t)
		conn := dial(t, srv)

		srv.Push(t, `{"type":"START","payload":{"opponent":"Bob","symbol":1,"isTurn":true}}`)
		srv.Push(t, `{"type":"GAME_OVER","payload":{"winner":"Alice"}}`)

		assert.Equal(t, protocol.Start{Opponent: "Bob", Symbol: entity.PlayerOne, IsTurn: true}, nextFrame(t, conn))
		assert.Equal(t, protocol.GameOver{Winner: "Alice"}, nextFrame(t, conn))
	})

	t.Run("Malformed payloads are dropped without closing", func(t *testing.T) {
		// Given: a connected client
		srv := authority.New(t)
		conn := dial(t, srv)

		// When: garbage arrives followed by a valid frame
		srv.Push(t, `not json`)
		srv.Push(t, `{"type":"UPDATE","payload":{"board":[[9]],"isYourTurn":true}}`)
		srv.Push(t, `{"type":"PING","payload":{}}`)

		// Then: only the valid frame is delivered
		frame := nextFrame(t, conn)
		assert.Equal(t, protocol.MessageType("PING"), frame.(protocol.Unknown).Type)
	})

	t.Run("Server drop closes the stream with an error", func(t *testing.T) {
		srv := authority.New(t)
		conn := dial(t, srv)

		srv.DropClient()

		waitClosed(t, conn)
		require.ErrorIs(t, conn.Err(), apperror.ErrConnectionClosed)
	})
}

func TestConnection_Close(t *testing.T) {
	// Given: an open connection
	srv := authority.New(t)
	conn := dial(t, srv)

	// When: closing twice
	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())

	// Then: the stream ends without an error
	waitClosed(t, conn)
	assert.NoError(t, conn.Err())
}
