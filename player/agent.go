package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quarto/config"
	"quarto/game"
	"quarto/searcher"

	"golang.org/x/exp/rand"
)

var ErrUnknownAgent = errors.New("unknown agent kind")

// Agent makes the two decisions of a turn. Implementations always return a
// legal choice while one exists.
type Agent interface {
	SelectPiece(ctx context.Context, board *game.Board, budget time.Duration) int
	SelectMove(ctx context.Context, board *game.Board, piece int, budget time.Duration) game.Cell
}

// Kinds lists the agent kinds NewAgent accepts.
var Kinds = []string{"mcts", "random", "semirandom"}

func NewAgent(kind string, cfg config.SearchConfig) (Agent, error) {
	rng := newRand(cfg.Seed)
	switch kind {
	case "mcts":
		options := []searcher.Option{
			searcher.WithRand(rng),
			searcher.WithExploration(cfg.Exploration),
			searcher.WithGoroutines(cfg.Goroutines),
			searcher.WithSymmetry(cfg.Symmetry),
			searcher.WithMetrics(),
		}
		if cfg.Episodes > 0 {
			options = append(options, searcher.WithEpisodes(cfg.Episodes))
		}
		return searcher.NewMCTS(options...), nil
	case "random":
		return NewRandomAgent(rng), nil
	case "semirandom":
		return NewSemiRandomAgent(rng), nil
	default:
		return nil, fmt.Errorf("%w %q, want one of %v", ErrUnknownAgent, kind, Kinds)
	}
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// RandomAgent picks uniformly among the legal choices.
type RandomAgent struct {
	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewRandomAgent(rng *rand.Rand) *RandomAgent {
	return &RandomAgent{rng: rng}
}

func (a *RandomAgent) SelectPiece(_ context.Context, board *game.Board, _ time.Duration) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return board.PickRandomUnplacedPiece(a.rng, searcher.DefaultAttempts)
}

func (a *RandomAgent) SelectMove(_ context.Context, board *game.Board, _ int, _ time.Duration) game.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()
	return board.PickRandomEmptyCell(a.rng, searcher.DefaultAttempts)
}

// SemiRandomAgent takes an immediate win when it has one and never hands
// over a piece that wins on the spot, if it can avoid it. Otherwise it plays
// at random.
type SemiRandomAgent struct {
	random *RandomAgent
}

func NewSemiRandomAgent(rng *rand.Rand) *SemiRandomAgent {
	return &SemiRandomAgent{random: NewRandomAgent(rng)}
}

func (a *SemiRandomAgent) SelectPiece(ctx context.Context, board *game.Board, budget time.Duration) int {
	for _, piece := range board.UnplacedPieces() {
		if len(board.WinningCells(piece)) == 0 {
			return piece
		}
	}
	return a.random.SelectPiece(ctx, board, budget)
}

func (a *SemiRandomAgent) SelectMove(ctx context.Context, board *game.Board, piece int, budget time.Duration) game.Cell {
	if cells := board.WinningCells(piece); len(cells) > 0 {
		return cells[0]
	}
	return a.random.SelectMove(ctx, board, piece, budget)
}
