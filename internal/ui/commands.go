package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
	"github.com/rocketscienceinc/connect4-client/internal/protocol"
	"github.com/rocketscienceinc/connect4-client/internal/session"
)

type connectedMsg struct{ conn Connection }

type dialFailedMsg struct{ err error }

// frameMsg and connClosedMsg carry the connection they came from so frames
// from a dropped connection can be told apart.
type frameMsg struct {
	conn  Connection
	frame protocol.Frame
}

type connClosedMsg struct {
	conn Connection
	err  error
}

type leaderboardMsg struct {
	token   uint64
	entries []entity.LeaderboardEntry
	err     error
}

type journalMsg struct{ err error }

func dialCmd(ctx context.Context, dial Dialer) tea.Cmd {
	return func() tea.Msg {
		conn, err := dial(ctx)
		if err != nil {
			return dialFailedMsg{err: err}
		}
		return connectedMsg{conn: conn}
	}
}

// waitForFrame blocks for the next inbound frame. Update re-arms it after
// every frame so exactly one read is outstanding per connection.
func waitForFrame(conn Connection) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-conn.Frames()
		if !ok {
			return connClosedMsg{conn: conn, err: conn.Err()}
		}
		return frameMsg{conn: conn, frame: frame}
	}
}

func fetchLeaderboardCmd(ctx context.Context, ranking RankingFetcher, token uint64) tea.Cmd {
	return func() tea.Msg {
		entries, err := ranking.Leaderboard(ctx)
		return leaderboardMsg{token: token, entries: entries, err: err}
	}
}

func recordCmd(ctx context.Context, journal Journal, over session.GameOver) tea.Cmd {
	if journal == nil || over.Username == "" {
		return nil
	}

	record := &entity.MatchRecord{
		GameID:     over.Info.GameID,
		Username:   over.Username,
		Opponent:   over.Info.Opponent,
		Symbol:     over.Info.Symbol,
		Winner:     over.Winner,
		Reason:     over.Reason,
		FinishedAt: time.Now().UTC(),
	}

	return func() tea.Msg {
		return journalMsg{err: journal.Record(ctx, record)}
	}
}
