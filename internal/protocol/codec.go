package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/entity"
)

// Decode - parses one inbound payload into a Frame.
// Every failure wraps apperror.ErrMalformedFrame.
func Decode(data []byte) (Frame, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedFrame, err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", apperror.ErrMalformedFrame)
	}

	switch msg.Type {
	case MsgStart:
		return decodeStart(msg.Payload)
	case MsgUpdate:
		return decodeUpdate(msg.Payload)
	case MsgGameOver:
		return decodeGameOver(msg.Payload)
	case MsgError:
		return decodeError(msg.Payload)
	default:
		return Unknown{Type: msg.Type, Payload: msg.Payload}, nil
	}
}

// Encode - wraps an outbound intent into the wire envelope.
func Encode(out Outbound) ([]byte, error) {
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", out.MessageType(), err)
	}

	data, err := json.Marshal(Message{Type: out.MessageType(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s message: %w", out.MessageType(), err)
	}

	return data, nil
}

func decodeStart(raw json.RawMessage) (Frame, error) {
	var payload startPayload
	if err := unmarshalPayload(MsgStart, raw, &payload); err != nil {
		return nil, err
	}

	symbol := entity.Symbol(payload.Symbol)
	if err := entity.ValidateSymbol(symbol); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrMalformedFrame, MsgStart, err)
	}

	return Start{
		GameID:   payload.GameID,
		Opponent: payload.Opponent,
		Symbol:   symbol,
		IsTurn:   payload.IsTurn,
	}, nil
}

func decodeUpdate(raw json.RawMessage) (Frame, error) {
	var payload updatePayload
	if err := unmarshalPayload(MsgUpdate, raw, &payload); err != nil {
		return nil, err
	}

	board, err := toBoard(payload.Board)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrMalformedFrame, MsgUpdate, err)
	}

	return Update{
		Board:      board,
		IsYourTurn: payload.IsYourTurn,
	}, nil
}

func decodeGameOver(raw json.RawMessage) (Frame, error) {
	var payload gameOverPayload
	if err := unmarshalPayload(MsgGameOver, raw, &payload); err != nil {
		return nil, err
	}

	winLines, err := toPositions(payload.WinLines)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperror.ErrMalformedFrame, MsgGameOver, err)
	}

	return GameOver{
		Winner:   payload.Winner,
		Reason:   payload.Reason,
		WinLines: winLines,
	}, nil
}

func decodeError(raw json.RawMessage) (Frame, error) {
	var payload errorPayload
	if err := unmarshalPayload(MsgError, raw, &payload); err != nil {
		return nil, err
	}

	return Error{Message: payload.Message}, nil
}

// unmarshalPayload rejects absent payloads and anything that is not a JSON object.
func unmarshalPayload(msgType MessageType, raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: %s: payload is not an object", apperror.ErrMalformedFrame, msgType)
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", apperror.ErrMalformedFrame, msgType, err)
	}

	return nil
}

func toBoard(rows [][]int) (entity.Board, error) {
	var board entity.Board

	if len(rows) != entity.Rows {
		return board, fmt.Errorf("board has %d rows, want %d", len(rows), entity.Rows)
	}

	for r, row := range rows {
		if len(row) != entity.Cols {
			return board, fmt.Errorf("board row %d has %d columns, want %d", r, len(row), entity.Cols)
		}
		for c, value := range row {
			board[r][c] = entity.Cell(value)
		}
	}

	if err := board.Validate(); err != nil {
		return entity.Board{}, err
	}

	return board, nil
}

// toPositions reads [row, col] pairs.
func toPositions(pairs [][]int) ([]entity.Position, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	positions := make([]entity.Position, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("win line %d has %d coordinates, want 2", i, len(pair))
		}

		position := entity.Position{Row: pair[0], Col: pair[1]}
		if !position.Valid() {
			return nil, fmt.Errorf("win line %d is off the board: %v", i, pair)
		}
		positions = append(positions, position)
	}

	return positions, nil
}
