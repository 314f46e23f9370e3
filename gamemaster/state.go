package gamemaster

import (
	"errors"
	"fmt"

	"quarto/communication"
	"quarto/game"
)

type State int

const (
	AwaitPieceChoice State = iota
	AwaitPlacement
	CheckOutcome
	GameOver
)

func (s State) String() string {
	switch s {
	case AwaitPieceChoice:
		return "await piece choice"
	case AwaitPlacement:
		return "await placement"
	case CheckOutcome:
		return "check outcome"
	case GameOver:
		return "game over"
	default:
		panic(fmt.Sprintf("unknown state %d", int(s)))
	}
}

// Result describes a finished game.
type Result struct {
	GameID string
	Winner int    // seat number 1 or 2, 0 for a draw
	Line   string // winning line, empty for a draw
	Moves  int
	Board  *game.Board
}

func (r Result) Draw() bool {
	return r.Winner == 0
}

// String is the GAME_OVER payload.
func (r Result) String() string {
	if r.Draw() {
		return "Game is a draw"
	}
	return fmt.Sprintf("player %d wins", r.Winner)
}

// failure labels why a reply was replaced, for logs and metrics.
func failure(err error) string {
	switch {
	case errors.Is(err, communication.ErrNoData):
		return "timeout"
	case errors.Is(err, communication.ErrClosed):
		return "closed"
	case errors.Is(err, game.ErrMalformedReply):
		return "malformed"
	case errors.Is(err, game.ErrIllegalChoice):
		return "illegal"
	default:
		return "unknown"
	}
}
