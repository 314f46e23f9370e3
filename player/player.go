// Package player is the client side of a game: it follows the server's
// prompts, keeps a local copy of the board and asks an Agent for decisions.
package player

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quarto/communication"
	"quarto/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultMargin is kept free of every turn for sending the reply.
const DefaultMargin = time.Second

var ErrProtocol = errors.New("protocol violation")

type Option func(p *Player)

func WithMargin(margin time.Duration) Option {
	return func(p *Player) {
		if margin >= 0 {
			p.margin = margin
		}
	}
}

// WithBoard starts from a known layout, for servers that load one.
func WithBoard(board *game.Board) Option {
	return func(p *Player) {
		if board != nil {
			p.board = board.Clone()
		}
	}
}

type Player struct {
	seat   communication.Seat
	agent  Agent
	margin time.Duration
	logger zerolog.Logger

	number int
	limit  time.Duration
	board  *game.Board
	given  int // piece this player handed to the opponent
	placed int // piece this player was asked to place
}

func NewPlayer(seat communication.Seat, agent Agent, options ...Option) *Player {
	p := &Player{
		seat:   seat,
		agent:  agent,
		margin: DefaultMargin,
		logger: log.Logger,
		board:  game.NewBoard(),
		given:  game.NoPiece,
		placed: game.NoPiece,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Number is the seat number announced by the server, 0 until greeted.
func (p *Player) Number() int {
	return p.number
}

// Board returns a copy of the local board.
func (p *Player) Board() *game.Board {
	return p.board.Clone()
}

// Play answers prompts until the game is over and returns the server's
// announcement.
func (p *Player) Play(ctx context.Context) (string, error) {
	for {
		line, err := p.seat.Receive(ctx, 0)
		if err != nil {
			return "", fmt.Errorf("player %d: %w", p.number, err)
		}
		msg := communication.Parse(line)
		over, err := p.handle(ctx, msg)
		if err != nil {
			return "", err
		}
		if over {
			return msg.Payload, nil
		}
	}
}

func (p *Player) handle(ctx context.Context, msg communication.Message) (bool, error) {
	switch msg.Header {
	case communication.PlayerHeader:
		number, err := strconv.Atoi(msg.Payload)
		if err != nil {
			return false, fmt.Errorf("%w: player number %q", ErrProtocol, msg.Payload)
		}
		p.number = number
		p.logger = log.With().Int("player", number).Logger()
		p.logger.Info().Msg("joined game")

	case communication.TurnTimeLimitHeader:
		ms, err := strconv.Atoi(msg.Payload)
		if err != nil {
			return false, fmt.Errorf("%w: time limit %q", ErrProtocol, msg.Payload)
		}
		p.limit = time.Duration(ms) * time.Millisecond

	case communication.SelectPieceHeader:
		piece := p.agent.SelectPiece(ctx, p.board.Clone(), p.budget())
		p.reply(game.PieceBinary(piece))

	case communication.SelectMoveHeader:
		fields := strings.Fields(msg.Payload)
		if len(fields) == 0 {
			return false, fmt.Errorf("%w: move prompt without a piece", ErrProtocol)
		}
		piece, err := game.ParsePiece(fields[0])
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		p.placed = piece
		cell := p.agent.SelectMove(ctx, p.board.Clone(), piece, p.budget())
		p.reply(cell.String())

	case communication.AckPieceHeader, communication.ErrPieceHeader:
		piece, err := game.ParsePiece(msg.Payload)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		if msg.Header == communication.ErrPieceHeader {
			p.logger.Warn().Msgf("piece replaced by %s", msg.Payload)
		}
		p.given = piece

	case communication.AckMoveHeader, communication.ErrMoveHeader:
		if msg.Header == communication.ErrMoveHeader {
			p.logger.Warn().Msgf("move replaced by %s", msg.Payload)
		}
		if err := p.apply(msg.Payload, p.placed); err != nil {
			return false, err
		}
		p.placed = game.NoPiece

	case communication.MoveHeader:
		if err := p.apply(msg.Payload, p.given); err != nil {
			return false, err
		}
		p.given = game.NoPiece

	case communication.PieceHeader:
		p.logger.Debug().Msgf("received piece %s", msg.Payload)

	case communication.InfoHeader:
		p.logger.Info().Msg(msg.Payload)

	case communication.GameOverHeader:
		p.logger.Info().Msgf("game over: %s\n%s", msg.Payload, p.board)
		return true, nil

	default:
		p.logger.Warn().Msgf("ignoring unexpected line %q", msg)
	}
	return false, nil
}

func (p *Player) apply(payload string, piece int) error {
	cell, err := game.ParseCell(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if !p.board.Place(cell, piece) {
		return fmt.Errorf("%w: cannot place %s on %s", ErrProtocol, game.PieceBinary(piece), cell)
	}
	return nil
}

// budget is the search time left after the reply margin. When the margin
// swallows the whole limit half of the limit is used instead.
func (p *Player) budget() time.Duration {
	budget := p.limit - p.margin
	if budget <= 0 {
		return p.limit / 2
	}
	return budget
}

func (p *Player) reply(line string) {
	if err := p.seat.Send(line); err != nil {
		p.logger.Warn().Err(err).Msgf("sending %q failed", line)
	}
}
