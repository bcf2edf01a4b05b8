package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/entity"
)

// Leaderboard - fetches the ranking in the order the authority ranks it.
// Bot filtering is left to the caller.
func (that *Client) Leaderboard(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	body, err := that.get(ctx, "/leaderboard")
	if err != nil {
		return nil, err
	}

	var entries []entity.LeaderboardEntry
	if err = json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode leaderboard: %w", apperror.ErrRankingUnavailable, err)
	}

	for i, entry := range entries {
		if entry.Wins < 0 {
			return nil, fmt.Errorf("%w: entry %d has negative wins", apperror.ErrRankingUnavailable, i)
		}
	}

	// an empty ranking is encoded as null by the authority
	if entries == nil {
		entries = []entity.LeaderboardEntry{}
	}

	return entries, nil
}
