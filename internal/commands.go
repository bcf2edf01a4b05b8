package application

import (
	"context"
	"fmt"
	"io"

	"github.com/rocketscienceinc/connect4-client/internal/repository"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// checkAuthority - the -check mode.
func checkAuthority(ctx context.Context, api pinger, addr string, out io.Writer) error {
	if err := api.Ping(ctx); err != nil {
		return fmt.Errorf("authority at %s is not healthy: %w", addr, err)
	}

	fmt.Fprintf(out, "authority at %s is healthy\n", addr)

	return nil
}

// printHistory - the -history mode, newest match first.
func printHistory(ctx context.Context, repo repository.MatchRepository, username string, limit int, out io.Writer) error {
	records, err := repo.Recent(ctx, username, limit)
	if err != nil {
		return fmt.Errorf("failed to read match history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No matches recorded for %s\n", username)
		return nil
	}

	for _, record := range records {
		result := "lost"
		switch {
		case record.Draw():
			result = "draw"
		case record.Won():
			result = "won"
		}

		fmt.Fprintf(out, "%s  %-4s vs %-20s %s\n",
			record.FinishedAt.Local().Format("2006-01-02 15:04"), result, record.Opponent, record.Reason)
	}

	return nil
}
