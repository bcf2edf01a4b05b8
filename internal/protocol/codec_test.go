package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/entity"
)

func emptyRows() [][]int {
	rows := make([][]int, entity.Rows)
	for r := range rows {
		rows[r] = make([]int, entity.Cols)
	}
	return rows
}

func updateJSON(t *testing.T, rows [][]int, isYourTurn bool) []byte {
	t.Helper()

	data, err := json.Marshal(map[string]any{
		"type": "UPDATE",
		"payload": map[string]any{
			"board":      rows,
			"turn":       2,
			"isYourTurn": isYourTurn,
		},
	})
	require.NoError(t, err)

	return data
}

func TestDecode_Start(t *testing.T) {
	t.Run("Decodes a match start", func(t *testing.T) {
		// Given: a START frame from the authority
		data := []byte(`{"type":"START","payload":{"gameId":"g-1","opponent":"Bob","symbol":1,"isTurn":true}}`)

		// When: decoding it
		frame, err := Decode(data)

		// Then: a Start variant is returned
		require.NoError(t, err)
		assert.Equal(t, Start{GameID: "g-1", Opponent: "Bob", Symbol: entity.PlayerOne, IsTurn: true}, frame)
	})

	t.Run("Rejects an unknown symbol", func(t *testing.T) {
		data := []byte(`{"type":"START","payload":{"opponent":"Bob","symbol":3,"isTurn":true}}`)

		frame, err := Decode(data)

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
		assert.Nil(t, frame)
	})

	t.Run("Rejects a missing payload", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"START"}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})
}

func TestDecode_Update(t *testing.T) {
	t.Run("Replaces the whole board", func(t *testing.T) {
		// Given: an UPDATE with one disc at (5,3)
		rows := emptyRows()
		rows[5][3] = 1

		// When: decoding it
		frame, err := Decode(updateJSON(t, rows, false))

		// Then: the board carries that disc and nothing else
		require.NoError(t, err)
		update, ok := frame.(Update)
		require.True(t, ok)
		assert.Equal(t, entity.PlayerOne, update.Board[5][3])
		assert.Equal(t, 1, update.Board.Count(entity.PlayerOne))
		assert.False(t, update.IsYourTurn)
	})

	t.Run("Rejects cells outside 0..2", func(t *testing.T) {
		rows := emptyRows()
		rows[0][0] = 3

		_, err := Decode(updateJSON(t, rows, true))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
		require.ErrorIs(t, err, entity.ErrInvalidCell)
	})

	t.Run("Rejects a short board", func(t *testing.T) {
		rows := emptyRows()[:5]

		_, err := Decode(updateJSON(t, rows, true))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})

	t.Run("Rejects a ragged row", func(t *testing.T) {
		rows := emptyRows()
		rows[2] = []int{0, 0, 0}

		_, err := Decode(updateJSON(t, rows, true))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})

	t.Run("Rejects a missing board", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"UPDATE","payload":{"isYourTurn":true}}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})
}

func TestDecode_GameOver(t *testing.T) {
	// Given: a GAME_OVER frame
	data := []byte(`{"type":"GAME_OVER","payload":{"winner":"Alice","reason":"connect4"}}`)

	// When: decoding it
	frame, err := Decode(data)

	// Then: winner and reason are kept as delivered
	require.NoError(t, err)
	assert.Equal(t, GameOver{Winner: "Alice", Reason: "connect4"}, frame)
}

func TestDecode_GameOverWinLines(t *testing.T) {
	t.Run("Keeps the winning discs", func(t *testing.T) {
		data := []byte(`{"type":"GAME_OVER","payload":{"winner":"Alice","reason":"connect4","winLines":[[5,0],[5,1],[5,2],[5,3]]}}`)

		frame, err := Decode(data)

		require.NoError(t, err)
		over, ok := frame.(GameOver)
		require.True(t, ok)
		assert.Equal(t, []entity.Position{{Row: 5, Col: 0}, {Row: 5, Col: 1}, {Row: 5, Col: 2}, {Row: 5, Col: 3}}, over.WinLines)
	})

	t.Run("A draw carries no win lines", func(t *testing.T) {
		frame, err := Decode([]byte(`{"type":"GAME_OVER","payload":{"winner":"Draw","reason":"draw"}}`))

		require.NoError(t, err)
		assert.Equal(t, GameOver{Winner: entity.DrawWinner, Reason: "draw"}, frame)
	})

	t.Run("Rejects a disc off the board", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"GAME_OVER","payload":{"winner":"Alice","winLines":[[6,0]]}}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})

	t.Run("Rejects a pair with the wrong arity", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"GAME_OVER","payload":{"winner":"Alice","winLines":[[1,2,3]]}}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})
}

func TestDecode_Error(t *testing.T) {
	frame, err := Decode([]byte(`{"type":"ERROR","payload":{"message":"not your turn"}}`))

	require.NoError(t, err)
	assert.Equal(t, Error{Message: "not your turn"}, frame)
}

func TestDecode_UnknownAndMalformed(t *testing.T) {
	t.Run("Unknown tags become an Unknown variant", func(t *testing.T) {
		frame, err := Decode([]byte(`{"type":"PING","payload":{}}`))

		require.NoError(t, err)
		unknown, ok := frame.(Unknown)
		require.True(t, ok)
		assert.Equal(t, MessageType("PING"), unknown.Type)
	})

	t.Run("Broken JSON is malformed", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})

	t.Run("Missing type is malformed", func(t *testing.T) {
		_, err := Decode([]byte(`{"payload":{}}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})

	t.Run("Payload must be an object", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":"GAME_OVER","payload":"Alice"}`))

		require.ErrorIs(t, err, apperror.ErrMalformedFrame)
	})
}

func TestEncode(t *testing.T) {
	t.Run("JOIN", func(t *testing.T) {
		data, err := Encode(Join{Username: "Alice"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"JOIN","payload":{"username":"Alice"}}`, string(data))
	})

	t.Run("MOVE", func(t *testing.T) {
		data, err := Encode(Move{Column: 3})

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"MOVE","payload":{"column":3}}`, string(data))
	})
}
