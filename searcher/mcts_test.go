package searcher

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"quarto/game"
	"quarto/metrics"

	"github.com/stretchr/testify/require"
)

func TestSelectMove(t *testing.T) {
	t.Run("prefers the cell completing a diagonal", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		win := game.Cell{Row: 4, Col: 4}

		successes := 0
		const trials = 10
		for seed := uint64(1); seed <= trials; seed++ {
			m := NewMCTS(WithSeed(seed), WithEpisodes(2000))
			if m.SelectMove(context.Background(), board, piece, 0) == win {
				successes++
			}
		}

		require.GreaterOrEqual(t, successes, 8, "Search should find the winning cell in most trials")
	})

	t.Run("finds the win under a time budget", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		m := NewMCTS(WithSeed(99), WithMetrics())

		got := m.SelectMove(context.Background(), board, piece, 200*time.Millisecond)

		require.Equal(t, game.Cell{Row: 4, Col: 4}, got)
		metric := m.LastSearch()
		require.Greater(t, metric.Episodes, 0)
		require.Greater(t, metric.TreeSize, 1)
	})

	t.Run("searches are exported without a collector", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		m := NewMCTS(WithSeed(12), WithEpisodes(300))

		m.SelectMove(context.Background(), board, piece, 0)

		require.Zero(t, m.LastSearch().Episodes, "Dummy collector reports nothing")
		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		require.Contains(t, rec.Body.String(), `quarto_search_episodes_count{decision="move"}`)
	})

	t.Run("zero budget falls back to a random empty cell", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		m := NewMCTS(WithSeed(5))

		for i := 0; i < 20; i++ {
			got := m.SelectMove(context.Background(), board, piece, 0)
			require.True(t, got.InBounds())
			require.False(t, board.IsOccupied(got.Row, got.Col))
		}
	})

	t.Run("single empty cell is returned", func(t *testing.T) {
		board, piece := drawnBoardMissingLast(t)
		m := NewMCTS(WithSeed(5), WithEpisodes(50))

		require.Equal(t, game.Cell{Row: 4, Col: 4}, m.SelectMove(context.Background(), board, piece, 0))
	})

	t.Run("search does not mutate the caller's board", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		before := board.Clone()

		NewMCTS(WithSeed(3), WithEpisodes(500)).SelectMove(context.Background(), board, piece, 0)

		require.Equal(t, *before, *board)
	})

	t.Run("cancelled context stops the search", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := NewMCTS(WithSeed(8), WithMetrics())

		start := time.Now()
		got := m.SelectMove(ctx, board, piece, 10*time.Second)

		require.Less(t, time.Since(start), 5*time.Second)
		require.False(t, board.IsOccupied(got.Row, got.Col))
		require.Equal(t, 0, m.LastSearch().Episodes)
	})

	t.Run("parallel workers respect the episode cap", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		m := NewMCTS(WithSeed(13), WithGoroutines(4), WithEpisodes(4000), WithMetrics())

		got := m.SelectMove(context.Background(), board, piece, 0)

		require.Equal(t, game.Cell{Row: 4, Col: 4}, got)
		require.Equal(t, 4000, m.LastSearch().Episodes)
		require.Equal(t, 4, m.LastSearch().Goroutines)
	})
}

func TestSelectPiece(t *testing.T) {
	t.Run("avoids handing over a winning piece", func(t *testing.T) {
		board, _ := nearDiagonal(t)
		successes := 0
		const trials = 10
		for seed := uint64(1); seed <= trials; seed++ {
			m := NewMCTS(WithSeed(seed), WithEpisodes(20000))
			piece := m.SelectPiece(context.Background(), board, 0)
			require.False(t, board.IsPiecePlaced(piece))
			if len(board.WinningCells(piece)) == 0 {
				successes++
			}
		}

		require.GreaterOrEqual(t, successes, 7, "Search should mostly hand over a safe piece")
	})

	t.Run("zero budget falls back to a random unplaced piece", func(t *testing.T) {
		board, _ := nearDiagonal(t)
		m := NewMCTS(WithSeed(21))

		for i := 0; i < 20; i++ {
			piece := m.SelectPiece(context.Background(), board, 0)
			require.True(t, game.ValidPiece(piece))
			require.False(t, board.IsPiecePlaced(piece))
		}
	})

	t.Run("symmetry picks the representative piece on an empty board", func(t *testing.T) {
		m := NewMCTS(WithSeed(2), WithEpisodes(100), WithSymmetry(true))

		require.Equal(t, 0, m.SelectPiece(context.Background(), game.NewBoard(), 0))
	})

	t.Run("same seed gives the same choice", func(t *testing.T) {
		board, _ := nearDiagonal(t)
		first := NewMCTS(WithSeed(77), WithEpisodes(3000)).SelectPiece(context.Background(), board, 0)
		second := NewMCTS(WithSeed(77), WithEpisodes(3000)).SelectPiece(context.Background(), board, 0)

		require.Equal(t, first, second)
	})
}

func TestRollout(t *testing.T) {
	t.Run("rollout ends the game", func(t *testing.T) {
		m := NewMCTS(WithSeed(4))
		rng := m.lockedRand()
		for i := 0; i < 100; i++ {
			board := game.NewBoard()
			winner := m.rollout(board, pieceSelection, game.NoPiece, self, rng)
			if winner == nobody {
				require.True(t, board.IsFull())
				require.False(t, board.IsWon())
			} else {
				require.True(t, board.IsWon())
			}
		}
	})

	t.Run("simulating a winning placement credits the placer", func(t *testing.T) {
		board, piece := nearDiagonal(t)
		tr := newMoveTree(board, piece, DefaultExploration, false)
		tr.root().untried = []action{cellAction(game.Cell{Row: 4, Col: 4})}
		m := NewMCTS(WithSeed(4))
		var mu sync.Mutex

		m.simulate(&mu, tr, board, m.lockedRand())
		m.simulate(&mu, tr, board, m.lockedRand())

		child := tr.nodes[tr.root().children[0]]
		require.Equal(t, terminal, child.kind)
		require.Equal(t, 2.0, child.visits, "Second simulation should select the terminal child")
		require.Equal(t, 2*Win, child.rewards)
		require.False(t, board.IsOccupied(4, 4), "Simulations should only touch private copies")
	})
}
