package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/duel-backend/internal/entity"
)

var ErrUnknownGame = errors.New("unknown game")

const defaultResultsLimit = 100

type ResultRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	List(ctx context.Context, game string, limit int) ([]*entity.MatchResult, error)
	Leaderboard(ctx context.Context, game string, limit int) ([]entity.LeaderboardEntry, error)
}

type dbResult struct {
	client *redis.Client
	keep   int64
}

// NewResultRepository - keeps at most keep results per game; older ones are trimmed on save.
func NewResultRepository(client *redis.Client, keep int) ResultRepository {
	if keep <= 0 {
		keep = defaultResultsLimit
	}

	return &dbResult{
		client: client,
		keep:   int64(keep),
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.MatchResult) error {
	if err := validateGame(result.Game); err != nil {
		return err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := resultsKey(result.Game)
		pipe.LPush(ctx, key, resultJSON)
		pipe.LTrim(ctx, key, 0, that.keep-1)

		if !result.IsDraw() {
			pipe.ZIncrBy(ctx, leaderboardKey(result.Game), 1, result.Winner)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// List returns the most recent results first.
func (that *dbResult) List(ctx context.Context, game string, limit int) ([]*entity.MatchResult, error) {
	if err := validateGame(game); err != nil {
		return nil, err
	}

	response, err := that.client.LRange(ctx, resultsKey(game), 0, that.stop(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(response))
	for _, raw := range response {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

func (that *dbResult) Leaderboard(ctx context.Context, game string, limit int) ([]entity.LeaderboardEntry, error) {
	if err := validateGame(game); err != nil {
		return nil, err
	}

	response, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey(game), 0, that.stop(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]entity.LeaderboardEntry, 0, len(response))
	for _, z := range response {
		name, _ := z.Member.(string)
		entries = append(entries, entity.LeaderboardEntry{Name: name, Wins: int64(z.Score)})
	}

	return entries, nil
}

func (that *dbResult) stop(limit int) int64 {
	if limit <= 0 || int64(limit) > that.keep {
		return that.keep - 1
	}

	return int64(limit) - 1
}

func validateGame(game string) error {
	if game != entity.GameCaro && game != entity.GameRPS {
		return fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	return nil
}

func resultsKey(game string) string {
	return "results:" + game
}

func leaderboardKey(game string) string {
	return "leaderboard:" + game
}
