// Package gamemaster runs the authoritative side of a game: it prompts the
// seats, validates their replies and substitutes random legal choices for
// anything it cannot accept.
package gamemaster

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quarto/communication"
	"quarto/game"
	"quarto/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	DefaultTimeLimit = 10 * time.Second
	DefaultAttempts  = 100
)

type Option func(gm *GameMaster)

// WithTimeLimit sets how long a seat may take per decision.
func WithTimeLimit(limit time.Duration) Option {
	return func(gm *GameMaster) {
		if limit > 0 {
			gm.limit = limit
		}
	}
}

// WithAttempts sets the random draws the fallback makes before taking the
// first legal choice.
func WithAttempts(attempts int) Option {
	return func(gm *GameMaster) {
		if attempts >= 0 {
			gm.attempts = attempts
		}
	}
}

// WithBoard starts the game from a loaded layout instead of an empty board.
func WithBoard(board *game.Board) Option {
	return func(gm *GameMaster) {
		if board != nil {
			gm.board = board.Clone()
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(gm *GameMaster) {
		gm.rng = rand.New(rand.NewSource(seed))
	}
}

// GameMaster owns the board of one game between two seats. Seat 1 places
// first; seat 2 chooses its piece.
type GameMaster struct {
	id       string
	board    *game.Board
	seats    [2]communication.Seat
	limit    time.Duration
	attempts int
	rng      *rand.Rand
	logger   zerolog.Logger

	started bool
	state   State
	mover   int // index of the seat placing this turn
	piece   int
	last    game.Cell
	moves   int
	result  Result
}

func NewGameMaster(seats [2]communication.Seat, options ...Option) *GameMaster {
	gm := &GameMaster{ // Default values
		id:       uuid.NewString(),
		board:    game.NewBoard(),
		seats:    seats,
		limit:    DefaultTimeLimit,
		attempts: DefaultAttempts,
		piece:    game.NoPiece,
		last:     game.NoCell,
	}
	for _, option := range options {
		option(gm)
	}
	if gm.rng == nil {
		gm.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	gm.logger = log.With().Str("game", gm.id).Logger()
	if gm.board.IsFull() {
		gm.state = CheckOutcome
	}
	return gm
}

func (gm *GameMaster) ID() string {
	return gm.id
}

func (gm *GameMaster) State() State {
	return gm.state
}

// Board returns a copy of the authoritative board.
func (gm *GameMaster) Board() *game.Board {
	return gm.board.Clone()
}

// Run plays the game to the end. It only fails when ctx is done.
func (gm *GameMaster) Run(ctx context.Context) (Result, error) {
	for gm.state != GameOver {
		if err := gm.Step(ctx); err != nil {
			return Result{}, err
		}
	}
	return gm.result, nil
}

// Step performs a single state transition. It is a no-op once the game is
// over and only fails when ctx is done.
func (gm *GameMaster) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !gm.started {
		gm.start()
	}

	var err error
	switch gm.state {
	case AwaitPieceChoice:
		err = gm.awaitPieceChoice(ctx)
	case AwaitPlacement:
		err = gm.awaitPlacement(ctx)
	case CheckOutcome:
		gm.checkOutcome()
	case GameOver:
		return nil
	}
	if err != nil {
		return err
	}
	gm.logger.Info().
		Str("state", gm.state.String()).
		Int("placed", gm.board.Placed()).
		Msgf("board\n%s", gm.board)
	return nil
}

func (gm *GameMaster) start() {
	gm.started = true
	gm.logger.Info().Dur("limit", gm.limit).Msgf("game started\n%s", gm.board)
	gm.broadcast(communication.Format(communication.TurnTimeLimitHeader, gm.limit.Milliseconds()))
}

func (gm *GameMaster) chooser() int {
	return 1 - gm.mover
}

func (gm *GameMaster) awaitPieceChoice(ctx context.Context) error {
	chooser := gm.chooser()
	prompt := fmt.Sprintf("Please choose piece for player %d", gm.mover+1)
	line, err := gm.ask(ctx, chooser, communication.Format(communication.SelectPieceHeader, prompt))
	if ctx.Err() != nil {
		return ctx.Err()
	}

	piece, err := gm.validatePiece(line, err)
	header := communication.AckPieceHeader
	if err != nil {
		piece = gm.board.PickRandomUnplacedPiece(gm.rng, gm.attempts)
		header = communication.ErrPieceHeader
		gm.fallback("piece", chooser, err, game.PieceBinary(piece))
	}

	gm.send(chooser, communication.Format(header, game.PieceBinary(piece)))
	gm.send(gm.mover, communication.Format(communication.PieceHeader, game.PieceBinary(piece)))
	gm.piece = piece
	gm.state = AwaitPlacement
	return nil
}

func (gm *GameMaster) awaitPlacement(ctx context.Context) error {
	prompt := game.PieceBinary(gm.piece) + " (please select move)"
	line, err := gm.ask(ctx, gm.mover, communication.Format(communication.SelectMoveHeader, prompt))
	if ctx.Err() != nil {
		return ctx.Err()
	}

	cell, err := gm.validateCell(line, err)
	header := communication.AckMoveHeader
	if err != nil {
		cell = gm.board.PickRandomEmptyCell(gm.rng, gm.attempts)
		header = communication.ErrMoveHeader
		gm.fallback("move", gm.mover, err, cell.String())
	}

	if !gm.board.Place(cell, gm.piece) {
		panic(fmt.Sprintf("placing %s on %s was validated but failed", game.PieceBinary(gm.piece), cell))
	}
	gm.moves++
	gm.last = cell
	gm.send(gm.mover, communication.Format(header, cell))
	gm.send(gm.chooser(), communication.Format(communication.MoveHeader, cell))
	gm.piece = game.NoPiece
	gm.state = CheckOutcome
	return nil
}

func (gm *GameMaster) checkOutcome() {
	switch {
	case gm.board.IsWon():
		gm.finish(gm.mover+1, gm.board.WinningLine())
	case gm.board.IsFull():
		gm.finish(0, "")
	default:
		gm.mover = gm.chooser()
		gm.state = AwaitPieceChoice
	}
}

func (gm *GameMaster) finish(winner int, line string) {
	gm.result = Result{
		GameID: gm.id,
		Winner: winner,
		Line:   line,
		Moves:  gm.moves,
		Board:  gm.board.Clone(),
	}
	gm.state = GameOver
	gm.broadcast(communication.Format(communication.GameOverHeader, gm.result))

	if gm.result.Draw() {
		metrics.GameFinished("draw")
		gm.logger.Info().Int("moves", gm.moves).Msg("game is a draw")
	} else {
		metrics.GameFinished("win")
		gm.logger.Info().Int("moves", gm.moves).Str("line", line).Msgf("player %d wins", winner)
	}
}

// ask drops stale replies, sends the prompt and waits for one line.
func (gm *GameMaster) ask(ctx context.Context, seat int, prompt string) (string, error) {
	if stale := gm.seats[seat].Discard(); len(stale) > 0 {
		gm.logger.Debug().Strs("lines", stale).Msgf("discarded stale lines from player %d", seat+1)
	}
	gm.send(seat, prompt)
	line, err := gm.seats[seat].Receive(ctx, gm.limit)
	if err == nil {
		gm.logger.Debug().Msgf("player %d replied %q", seat+1, line)
	}
	return line, err
}

func (gm *GameMaster) validatePiece(line string, err error) (int, error) {
	if err != nil {
		return game.NoPiece, err
	}
	piece, err := game.ParsePiece(line)
	if err != nil {
		return game.NoPiece, err
	}
	if gm.board.IsPiecePlaced(piece) {
		return game.NoPiece, fmt.Errorf("%w: piece %s is already placed", game.ErrIllegalChoice, game.PieceBinary(piece))
	}
	return piece, nil
}

func (gm *GameMaster) validateCell(line string, err error) (game.Cell, error) {
	if err != nil {
		return game.NoCell, err
	}
	cell, err := game.ParseCell(line)
	if err != nil {
		return game.NoCell, err
	}
	if !cell.InBounds() {
		return game.NoCell, fmt.Errorf("%w: cell %s is off the board", game.ErrIllegalChoice, cell)
	}
	if gm.board.IsOccupied(cell.Row, cell.Col) {
		return game.NoCell, fmt.Errorf("%w: cell %s is occupied", game.ErrIllegalChoice, cell)
	}
	return cell, nil
}

func (gm *GameMaster) fallback(decision string, seat int, err error, substitute string) {
	reason := failure(err)
	metrics.Fallback(decision, reason)
	gm.logger.Warn().
		Err(err).
		Str("reason", reason).
		Str("substitute", substitute).
		Msgf("player %d %s rejected", seat+1, decision)
}

func (gm *GameMaster) send(seat int, line string) {
	if err := gm.seats[seat].Send(line); err != nil {
		gm.logger.Warn().Err(err).Msgf("sending to player %d failed", seat+1)
		return
	}
	gm.logger.Debug().Msgf("sent player %d %q", seat+1, strings.TrimSpace(line))
}

func (gm *GameMaster) broadcast(line string) {
	for seat := range gm.seats {
		gm.send(seat, line)
	}
}
