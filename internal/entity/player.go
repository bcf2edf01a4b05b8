package entity

import "time"

// DefaultBotName is the automated account the authority pairs lonely players with.
const DefaultBotName = "Bot"

// DrawWinner is what the authority reports as the winner of a drawn match.
const DrawWinner = "Draw"

// IsDraw - reports whether a winner string means nobody won.
func IsDraw(winner string) bool {
	return winner == "" || winner == DrawWinner
}

type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
}

// FilterBots - drops the reserved bot account, keeping the delivered order.
func FilterBots(entries []LeaderboardEntry, botName string) []LeaderboardEntry {
	filtered := make([]LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Username == botName {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

// MatchRecord is what the journal keeps about a finished match.
type MatchRecord struct {
	GameID     string    `json:"game_id,omitempty"`
	Username   string    `json:"username"`
	Opponent   string    `json:"opponent"`
	Symbol     Symbol    `json:"symbol"`
	Winner     string    `json:"winner"`
	Reason     string    `json:"reason,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Won - reports whether the recorded player won the match.
func (that MatchRecord) Won() bool {
	return !that.Draw() && that.Winner == that.Username
}

func (that MatchRecord) Draw() bool {
	return IsDraw(that.Winner)
}
