package player

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"quarto/config"
	"quarto/game"
	"quarto/metrics"
	"quarto/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func nearDiagonal(t *testing.T) *game.Board {
	t.Helper()
	b := game.NewBoard()
	for i, id := range []int{0b10000, 0b10001, 0b10010, 0b10011} {
		require.True(t, b.PlacePiece(i, i, id))
	}
	return b
}

func TestSemiRandomAgent(t *testing.T) {
	ctx := context.Background()
	agent := NewSemiRandomAgent(rand.New(rand.NewSource(1)))

	t.Run("takes an immediate win", func(t *testing.T) {
		board := nearDiagonal(t)
		require.Equal(t, game.Cell{Row: 4, Col: 4}, agent.SelectMove(ctx, board, 0b10100, 0))
	})

	t.Run("hands over the first safe piece", func(t *testing.T) {
		board := nearDiagonal(t)
		piece := agent.SelectPiece(ctx, board, 0)
		require.Equal(t, 0b01100, piece)
		require.Empty(t, board.WinningCells(piece))
	})

	t.Run("plays randomly without a win", func(t *testing.T) {
		board := game.NewBoard()
		cell := agent.SelectMove(ctx, board, 0, 0)
		require.True(t, cell.InBounds())
		require.True(t, game.ValidPiece(agent.SelectPiece(ctx, board, 0)))
	})
}

func TestRandomAgent(t *testing.T) {
	ctx := context.Background()
	agent := NewRandomAgent(rand.New(rand.NewSource(2)))
	board := nearDiagonal(t)

	for i := 0; i < 50; i++ {
		piece := agent.SelectPiece(ctx, board, 0)
		require.False(t, board.IsPiecePlaced(piece))
		cell := agent.SelectMove(ctx, board, piece, 0)
		require.False(t, board.IsOccupied(cell.Row, cell.Col))
	}
}

func TestNewAgent(t *testing.T) {
	cfg := config.Default().Search
	cfg.Seed = 7

	t.Run("known kinds", func(t *testing.T) {
		for _, kind := range Kinds {
			agent, err := NewAgent(kind, cfg)
			require.NoError(t, err, kind)
			require.NotNil(t, agent)
		}
		agent, err := NewAgent("mcts", cfg)
		require.NoError(t, err)
		require.IsType(t, &searcher.MCTS{}, agent)
	})

	t.Run("search agents count their episodes", func(t *testing.T) {
		agent, err := NewAgent("mcts", cfg)
		require.NoError(t, err)
		mcts := agent.(*searcher.MCTS)

		piece := mcts.SelectPiece(context.Background(), nearDiagonal(t), 100*time.Millisecond)

		require.True(t, game.ValidPiece(piece))
		last := mcts.LastSearch()
		require.Greater(t, last.Episodes, 0)
		require.Greater(t, last.TreeSize, 1)

		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		require.Contains(t, rec.Body.String(), `quarto_search_episodes_count{decision="piece"}`)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewAgent("oracle", cfg)
		require.ErrorIs(t, err, ErrUnknownAgent)
	})
}
