package protocol

import (
	"encoding/json"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
)

type MessageType string

const (
	// Client -> Server
	MsgJoin MessageType = "JOIN"
	MsgMove MessageType = "MOVE"

	// Server -> Client
	MsgStart    MessageType = "START"
	MsgUpdate   MessageType = "UPDATE"
	MsgGameOver MessageType = "GAME_OVER"
	MsgError    MessageType = "ERROR"
)

// Message is the envelope of every frame on the wire.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Frame is one decoded inbound message. The set of variants is closed.
type Frame interface{ isFrame() }

// Start - a match was found.
type Start struct {
	GameID   string
	Opponent string
	Symbol   entity.Symbol
	IsTurn   bool
}

// Update - authoritative board replacement after any move.
type Update struct {
	Board      entity.Board
	IsYourTurn bool
}

// GameOver - the match concluded. Winner is a display string, it may be entity.DrawWinner.
// WinLines are the discs that decided the match, empty for a draw.
type GameOver struct {
	Winner   string
	Reason   string
	WinLines []entity.Position
}

// Error - the authority refused something.
type Error struct {
	Message string
}

// Unknown - a tag this client does not understand.
type Unknown struct {
	Type    MessageType
	Payload json.RawMessage
}

func (Start) isFrame()    {}
func (Update) isFrame()   {}
func (GameOver) isFrame() {}
func (Error) isFrame()    {}
func (Unknown) isFrame()  {}

// Outbound is an intent the client sends.
type Outbound interface {
	MessageType() MessageType
}

type Join struct {
	Username string `json:"username"`
}

type Move struct {
	Column int `json:"column"`
}

func (Join) MessageType() MessageType { return MsgJoin }
func (Move) MessageType() MessageType { return MsgMove }

type startPayload struct {
	GameID   string `json:"gameId"`
	Opponent string `json:"opponent"`
	Symbol   int    `json:"symbol"`
	IsTurn   bool   `json:"isTurn"`
}

type updatePayload struct {
	Board      [][]int `json:"board"`
	IsYourTurn bool    `json:"isYourTurn"`
}

type gameOverPayload struct {
	Winner   string  `json:"winner"`
	Reason   string  `json:"reason"`
	WinLines [][]int `json:"winLines,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}
