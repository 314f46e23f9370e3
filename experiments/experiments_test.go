package experiments

import (
	"context"
	"testing"
	"time"

	"quarto/config"
	"quarto/engine"
	"quarto/player"

	"github.com/stretchr/testify/require"
)

func TestParallelizationMatchUps(t *testing.T) {
	base := config.Default().Search
	base.Goroutines = 8

	matchUps := ParallelizationMatchUps(base, 2, 4)

	require.Len(t, matchUps, 2)
	for i, matchUp := range matchUps {
		require.Equal(t, 1, matchUp[0].Search.Goroutines, "Baseline is sequential")
		require.Equal(t, 0, matchUp[0].ID)
		require.Equal(t, i+1, matchUp[1].ID)
		require.Equal(t, "mcts", matchUp[1].Kind)
	}
	require.Equal(t, 2, matchUps[0][1].Search.Goroutines)
	require.Equal(t, 4, matchUps[1][1].Search.Goroutines)
}

func TestRun(t *testing.T) {
	search := config.Default().Search
	search.Seed = 3
	cfg := engine.Config{TimeLimit: 200 * time.Millisecond, Margin: 50 * time.Millisecond, Seed: 4}

	t.Run("one report per matchup", func(t *testing.T) {
		matchUps := []MatchUp{
			{{ID: 1, Kind: "random", Search: search}, {ID: 2, Kind: "semirandom", Search: search}},
			{{ID: 3, Kind: "random", Search: search}, {ID: 4, Kind: "random", Search: search}},
		}

		reports, err := Run(context.Background(), "smoke", matchUps, 2, cfg)

		require.NoError(t, err)
		require.Len(t, reports, 2)
		for i, report := range reports {
			require.Equal(t, matchUps[i], report.MatchUp)
			require.Equal(t, 2, report.Summary.Games)
		}
	})

	t.Run("unknown agent kind fails", func(t *testing.T) {
		matchUps := []MatchUp{{{ID: 1, Kind: "oracle"}, {ID: 2, Kind: "random"}}}

		_, err := Run(context.Background(), "broken", matchUps, 1, cfg)

		require.ErrorIs(t, err, player.ErrUnknownAgent)
	})
}
