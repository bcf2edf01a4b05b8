package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect4-client/internal/entity"
)

var ErrEmptyUsername = errors.New("username is empty")

// MatchRepository keeps the most recent finished matches per player, newest first.
type MatchRepository interface {
	Record(ctx context.Context, record *entity.MatchRecord) error
	Recent(ctx context.Context, username string, limit int) ([]entity.MatchRecord, error)
}

type dbMatch struct {
	client *redis.Client
	size   int64
}

func NewMatchRepository(client *redis.Client, size int) MatchRepository {
	if size <= 0 {
		size = 50
	}

	return &dbMatch{
		client: client,
		size:   int64(size),
	}
}

func matchesKey(username string) string {
	return "matches:" + username
}

func (that *dbMatch) Record(ctx context.Context, record *entity.MatchRecord) error {
	if record.Username == "" {
		return ErrEmptyUsername
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	key := matchesKey(record.Username)

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, recordJSON)
		pipe.LTrim(ctx, key, 0, that.size-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	return nil
}

func (that *dbMatch) Recent(ctx context.Context, username string, limit int) ([]entity.MatchRecord, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}

	if limit <= 0 || int64(limit) > that.size {
		limit = int(that.size)
	}

	values, err := that.client.LRange(ctx, matchesKey(username), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	records := make([]entity.MatchRecord, 0, len(values))
	for _, value := range values {
		var record entity.MatchRecord
		if err = json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}
