package session

import "github.com/rocketscienceinc/connect4-client/internal/entity"

// View is the mode the client is in. Exactly one variant is active at a time
// and each variant carries only the data that is meaningful for it.
type View interface{ isView() }

type Login struct{}

type Matching struct {
	Username string
}

type Game struct {
	Username string
	Info     entity.GameInfo
	Board    entity.Board
}

type GameOver struct {
	Username string
	Info     entity.GameInfo
	Board    entity.Board
	Winner   string
	Reason   string
	WinLines []entity.Position
}

// Leaderboard remembers the view it was opened from so Back can return to it.
type Leaderboard struct {
	Entries []entity.LeaderboardEntry
	Prev    View
}

func (Login) isView()       {}
func (Matching) isView()    {}
func (Game) isView()        {}
func (GameOver) isView()    {}
func (Leaderboard) isView() {}

// Name - short label used in logs.
func Name(view View) string {
	switch view.(type) {
	case Login:
		return "login"
	case Matching:
		return "matching"
	case Game:
		return "game"
	case GameOver:
		return "gameover"
	case Leaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}
