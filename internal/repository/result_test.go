package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/duel-backend/internal/entity"
	"github.com/rocketscienceinc/duel-backend/testing/suite"
)

func newResult(game, winner string, round int) *entity.MatchResult {
	outcome := string(entity.OutcomeWin)
	if winner == "" {
		outcome = string(entity.OutcomeTie)
	}

	return &entity.MatchResult{
		Game:       game,
		Winner:     winner,
		Players:    []string{"alice", "bob"},
		Outcome:    outcome,
		Round:      round,
		Moves:      2,
		FinishedAt: time.Date(2024, 5, 1, 12, 0, round, 0, time.UTC),
	}
}

func TestResultRepository_Save(t *testing.T) {
	t.Run("Save_ListNewestFirst", func(t *testing.T) {
		ctx, st := suite.New(t)

		resultRepo := NewResultRepository(st.Storage, 10)

		// Given: three rps results saved in order
		for round := 1; round <= 3; round++ {
			require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "alice", round)))
		}

		// When: List is called
		results, err := resultRepo.List(ctx, entity.GameRPS, 0)

		// Then: the newest result comes first
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 3, results[0].Round)
		assert.Equal(t, 1, results[2].Round)
		assert.Equal(t, []string{"alice", "bob"}, results[0].Players)
	})

	t.Run("Save_TrimsOldResults", func(t *testing.T) {
		ctx, st := suite.New(t)

		resultRepo := NewResultRepository(st.Storage, 2)

		// Given: more results than the archive keeps
		for round := 1; round <= 5; round++ {
			require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "", round)))
		}

		// When: List is called with a larger limit
		results, err := resultRepo.List(ctx, entity.GameRPS, 50)

		// Then: only the two newest remain
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 5, results[0].Round)
		assert.Equal(t, 4, results[1].Round)
	})

	t.Run("Save_UnknownGame", func(t *testing.T) {
		ctx, st := suite.New(t)

		resultRepo := NewResultRepository(st.Storage, 10)

		// When: saving a result for a game that does not exist
		err := resultRepo.Save(ctx, newResult("chess", "alice", 1))

		// Then: ErrUnknownGame is returned
		require.ErrorIs(t, err, ErrUnknownGame)
	})
}

func TestResultRepository_Leaderboard(t *testing.T) {
	ctx, st := suite.New(t)

	resultRepo := NewResultRepository(st.Storage, 10)

	// Given: bob wins twice, alice once, one draw and a caro win that must not count
	require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "bob", 1)))
	require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "alice", 2)))
	require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "", 3)))
	require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameRPS, "bob", 4)))
	require.NoError(t, resultRepo.Save(ctx, newResult(entity.GameCaro, "carol", 0)))

	// When: Leaderboard is called
	entries, err := resultRepo.Leaderboard(ctx, entity.GameRPS, 10)

	// Then: entries are ordered by wins
	require.NoError(t, err)
	assert.Equal(t, []entity.LeaderboardEntry{
		{Name: "bob", Wins: 2},
		{Name: "alice", Wins: 1},
	}, entries)
}
