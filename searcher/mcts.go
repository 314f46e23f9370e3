package searcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"quarto/game"
	"quarto/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type Option func(mcts *MCTS)

// MCTS chooses pieces and placements with UCT. A search tree is built from
// scratch for every call and discarded when it returns.
type MCTS struct {
	goroutines int
	episodes   int
	cp         float64
	attempts   int
	symmetric  bool
	metrics    Collector

	mu   sync.Mutex // guards rng and last
	rng  *rand.Rand
	last SearchMetric
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

// WithEpisodes caps the number of simulations per call. The time budget
// still applies when positive.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithExploration sets the UCT constant cp.
func WithExploration(cp float64) Option {
	return func(m *MCTS) {
		if cp >= 0 {
			m.cp = cp
		}
	}
}

func WithAttempts(attempts int) Option {
	return func(m *MCTS) {
		if attempts >= 0 {
			m.attempts = attempts
		}
	}
}

// WithSymmetry prunes actions that are equivalent under board symmetry, see
// tree.pieceActions and game.Board.CanonicalEmptyCells.
func WithSymmetry(symmetric bool) Option {
	return func(m *MCTS) {
		m.symmetric = symmetric
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: 1,
		cp:         DefaultExploration,
		attempts:   DefaultAttempts,
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// SelectPiece returns the unplaced piece to hand to the opponent, searching
// for at most budget. It always returns a legal piece while one exists.
func (m *MCTS) SelectPiece(ctx context.Context, board *game.Board, budget time.Duration) int {
	root := board.Clone()
	t := newPieceTree(root, m.cp, m.symmetric)
	if len(t.root().untried) == 0 {
		return board.FirstUnplacedPiece()
	}

	m.search(ctx, t, root, budget, "piece")

	best := t.mostVisited()
	if best < 0 {
		log.Debug().Msg("no simulation completed, choosing a random piece")
		return board.PickRandomUnplacedPiece(m.lockedRand(), m.attempts)
	}
	return t.nodes[best].action.piece
}

// SelectMove returns the cell to place piece on, searching for at most
// budget. It always returns an empty cell while one exists.
func (m *MCTS) SelectMove(ctx context.Context, board *game.Board, piece int, budget time.Duration) game.Cell {
	root := board.Clone()
	t := newMoveTree(root, piece, m.cp, m.symmetric)
	if len(t.root().untried) == 0 || !game.ValidPiece(piece) || root.IsPiecePlaced(piece) {
		return board.PickRandomEmptyCell(m.lockedRand(), m.attempts)
	}

	m.search(ctx, t, root, budget, "move")

	best := t.mostVisited()
	if best < 0 {
		log.Debug().Msg("no simulation completed, choosing a random cell")
		return board.PickRandomEmptyCell(m.lockedRand(), m.attempts)
	}
	return t.nodes[best].action.cell
}

// LastSearch returns the metrics of the most recent call. They are zero
// unless the engine was built WithMetrics.
func (m *MCTS) LastSearch() SearchMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *MCTS) lockedRand() *rand.Rand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return rand.New(rand.NewSource(m.rng.Uint64()))
}

// search runs simulations until the budget elapses, the episode cap is hit
// or ctx is done. The deadline is checked between simulations only.
func (m *MCTS) search(ctx context.Context, t *tree, root *game.Board, budget time.Duration, decision string) {
	if budget <= 0 && m.episodes <= 0 {
		return
	}
	start := time.Now()
	var deadline time.Time
	if budget > 0 {
		deadline = start.Add(budget)
	}

	m.metrics.Start(m.goroutines)
	var mu sync.Mutex // guards t
	var started, completed atomic.Int64

	m.mu.Lock()
	seeds := make([]uint64, m.goroutines)
	for i := range seeds {
		seeds[i] = m.rng.Uint64()
	}
	m.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < m.goroutines; i++ {
		rng := rand.New(rand.NewSource(seeds[i]))
		g.Go(func() error {
			for ctx.Err() == nil {
				if !deadline.IsZero() && !time.Now().Before(deadline) {
					return nil
				}
				if m.episodes > 0 && started.Add(1) > int64(m.episodes) {
					return nil
				}
				m.simulate(&mu, t, root, rng)
				completed.Add(1)
				m.metrics.AddEpisode()
			}
			return nil
		})
	}
	_ = g.Wait()

	duration := time.Since(start)
	episodes := int(completed.Load())
	mu.Lock()
	nodes := t.size()
	mu.Unlock()

	m.metrics.SetTreeSize(nodes)
	metric := m.metrics.Complete()
	if episodes > 0 {
		metrics.SearchCompleted(decision, episodes, duration)
	}
	log.Debug().
		Str("decision", decision).
		Int("episodes", episodes).
		Int("nodes", nodes).
		Dur("duration", duration).
		Msg("search finished")

	m.mu.Lock()
	m.last = metric
	m.mu.Unlock()
}

func (m *MCTS) simulate(mu *sync.Mutex, t *tree, root *game.Board, rng *rand.Rand) {
	board := root.Clone()

	// Selection and expansion
	mu.Lock()
	leaf := t.descend(board)
	n := t.nodes[leaf]
	mu.Unlock()

	// Rollout on the private board copy
	var winner side
	if n.kind == terminal {
		winner = n.outcome()
	} else {
		winner = m.rollout(board, n.kind, n.piece, n.toMove, rng)
		m.metrics.AddFullPlayout()
	}

	// Backpropagation
	mu.Lock()
	t.backup(leaf, winner)
	mu.Unlock()
}

// rollout plays uniformly random pieces and placements until a line is
// completed or the board is full, and returns the winner.
func (m *MCTS) rollout(board *game.Board, k kind, piece int, toMove side, rng *rand.Rand) side {
	if board.IsFull() || board.IsWon() {
		return nobody
	}

	placer := toMove
	if k == pieceSelection {
		piece = board.PickRandomUnplacedPiece(rng, m.attempts)
		placer = toMove.other()
	}
	for {
		cell := board.PickRandomEmptyCell(rng, m.attempts)
		board.Place(cell, piece)
		if board.WinsAt(cell) {
			return placer
		}
		if board.IsFull() {
			return nobody
		}
		// The placer names the next piece for the other player
		piece = board.PickRandomUnplacedPiece(rng, m.attempts)
		placer = placer.other()
	}
}
