package searcher

import "math"

// Hyperparameters for MCTS

// DefaultExploration is the conventional UCT constant 1/sqrt(2).
var DefaultExploration = 1 / math.Sqrt2

// DefaultAttempts bounds the random draws of the default policy before it
// falls back to the first legal piece or cell.
const DefaultAttempts = 100

// Rewards from the perspective of the player whose decision produced a node
const (
	Win  = 1.0
	Draw = 0.0
	Loss = -Win
)
