package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
	"github.com/rocketscienceinc/connect4-client/internal/protocol"
)

const (
	noticeRankingFailed  = "Could not fetch leaderboard. Is the backend running?"
	noticeConnectionLost = "Not connected to the server. Restart the client to play again."
)

// Sender is the live connection to the authority.
type Sender interface {
	Send(ctx context.Context, out protocol.Outbound) error
}

// Session is the client-side state machine. It is not safe for concurrent use:
// every call must come from the single event loop that owns it.
type Session struct {
	logger  *slog.Logger
	sender  Sender
	botName string

	view     View
	username string
	notice   string

	// ranking request currently allowed to land, 0 when none
	pending   uint64
	lastToken uint64
}

func New(logger *slog.Logger, sender Sender, botName string) *Session {
	if botName == "" {
		botName = entity.DefaultBotName
	}

	return &Session{
		logger:  logger.With("component", "session"),
		sender:  sender,
		botName: botName,
		view:    Login{},
	}
}

// View - the snapshot to render.
func (that *Session) View() View {
	return that.view
}

// Notice - the last user-visible message, empty if none.
func (that *Session) Notice() string {
	return that.notice
}

func (that *Session) ClearNotice() {
	that.notice = ""
}

// Connected - reports whether a connection handle is attached.
func (that *Session) Connected() bool {
	return that.sender != nil
}

// Attach - replaces the connection handle, nil detaches it.
func (that *Session) Attach(sender Sender) {
	that.sender = sender
}

// Join - sends JOIN and waits for a match. Ignored outside Login, with a blank
// name or without a connection.
func (that *Session) Join(ctx context.Context, username string) bool {
	log := that.logger.With("method", "Join")

	if _, ok := that.view.(Login); !ok {
		return false
	}

	username = strings.TrimSpace(username)
	if username == "" || that.sender == nil {
		return false
	}

	if err := that.sender.Send(ctx, protocol.Join{Username: username}); err != nil {
		log.Error("failed to send join", "error", err)
		return false
	}

	that.username = username
	that.setView(Matching{Username: username})
	log.Info("joined matchmaking", "username", username)

	return true
}

// SubmitMove - sends MOVE for the column when it is this player's turn.
// The board is left alone until the authority answers with UPDATE.
func (that *Session) SubmitMove(ctx context.Context, column int) bool {
	log := that.logger.With("method", "SubmitMove")

	game, ok := that.view.(Game)
	if !ok || !game.Info.IsMyTurn || that.sender == nil {
		return false
	}

	if !entity.ValidColumn(column) {
		return false
	}

	if err := that.sender.Send(ctx, protocol.Move{Column: column}); err != nil {
		log.Error("failed to send move", "error", err, "column", column)
		return false
	}

	log.Debug("move sent", "game_id", game.Info.GameID, "column", column)

	return true
}

// HandleFrame - applies one inbound frame.
func (that *Session) HandleFrame(frame protocol.Frame) {
	log := that.logger.With("method", "HandleFrame")

	switch f := frame.(type) {
	case protocol.Start:
		that.setView(Game{
			Username: that.username,
			Info: entity.GameInfo{
				GameID:   f.GameID,
				Opponent: f.Opponent,
				Symbol:   f.Symbol,
				IsMyTurn: f.IsTurn,
			},
			Board: entity.NewBoard(),
		})
		log.Info("match started", "game_id", f.GameID, "opponent", f.Opponent, "symbol", f.Symbol)

	case protocol.Update:
		game, ok := that.view.(Game)
		if !ok {
			log.Debug("stale update ignored", "view", Name(that.view))
			return
		}
		game.Board = f.Board
		game.Info.IsMyTurn = f.IsYourTurn
		that.view = game

	case protocol.GameOver:
		game, ok := that.view.(Game)
		if !ok {
			log.Debug("stale game over ignored", "view", Name(that.view))
			return
		}
		that.setView(GameOver{
			Username: game.Username,
			Info:     game.Info,
			Board:    game.Board,
			Winner:   f.Winner,
			Reason:   f.Reason,
			WinLines: f.WinLines,
		})
		log.Info("match finished", "game_id", game.Info.GameID, "winner", f.Winner, "reason", f.Reason)

	case protocol.Error:
		log.Warn("authority reported an error", "message", f.Message)
		that.notice = f.Message

	case protocol.Unknown:
		log.Debug("unknown frame ignored", "type", f.Type)

	default:
		log.Warn("unsupported frame ignored", "frame", frame)
	}
}

// ConnectionLost - freezes the session in its current view.
func (that *Session) ConnectionLost(err error) {
	log := that.logger.With("method", "ConnectionLost")

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("connection lost", "error", err, "view", Name(that.view))
	}

	that.sender = nil
	that.notice = noticeConnectionLost
}

// PlayAgain - full reset to Login after a finished match. The caller is
// expected to attach a fresh connection.
func (that *Session) PlayAgain() bool {
	if _, ok := that.view.(GameOver); !ok {
		return false
	}

	that.username = ""
	that.setView(Login{})

	return true
}

// RequestLeaderboard - starts a ranking request from Login or GameOver and
// returns the token its result must carry.
func (that *Session) RequestLeaderboard() (uint64, bool) {
	switch that.view.(type) {
	case Login, GameOver:
	default:
		return 0, false
	}

	that.lastToken++
	that.pending = that.lastToken

	return that.pending, true
}

// LeaderboardLoaded - shows the ranking if the request is still current.
func (that *Session) LeaderboardLoaded(token uint64, entries []entity.LeaderboardEntry) bool {
	log := that.logger.With("method", "LeaderboardLoaded")

	if !that.isPending(token) {
		log.Debug("stale leaderboard discarded", "token", token)
		return false
	}

	that.setView(Leaderboard{
		Entries: entity.FilterBots(entries, that.botName),
		Prev:    that.view,
	})

	return true
}

// LeaderboardFailed - surfaces a notice and keeps the current view.
func (that *Session) LeaderboardFailed(token uint64, err error) bool {
	log := that.logger.With("method", "LeaderboardFailed")

	if !that.isPending(token) {
		return false
	}

	log.Error("failed to fetch leaderboard", "error", err)
	that.pending = 0
	that.notice = noticeRankingFailed

	// a frozen session must keep saying so
	if that.sender == nil {
		that.notice = noticeRankingFailed + "\n" + noticeConnectionLost
	}

	return true
}

// Back - leaves the leaderboard for the view it was opened from.
func (that *Session) Back() bool {
	board, ok := that.view.(Leaderboard)
	if !ok {
		return false
	}

	prev := board.Prev
	if prev == nil {
		prev = Login{}
	}
	that.setView(prev)

	return true
}

func (that *Session) isPending(token uint64) bool {
	return token != 0 && token == that.pending
}

// setView switches views. Any in-flight ranking request belongs to the old view.
func (that *Session) setView(view View) {
	that.view = view
	that.pending = 0
	that.notice = ""
}
