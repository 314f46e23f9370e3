// Package engine plays whole games in process: a game master and two
// players connected by in-memory pipes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"quarto/communication"
	"quarto/game"
	"quarto/gamemaster"
	"quarto/player"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	TimeLimit time.Duration // per decision
	Margin    time.Duration // reserved by players for the reply
	Attempts  int
	Seed      uint64 // 0 seeds from the clock
	Board     *game.Board
}

// Play runs one game with agents[0] in seat 1 and agents[1] in seat 2.
func Play(ctx context.Context, agents [2]player.Agent, cfg Config) (gamemaster.Result, error) {
	var seats [2]communication.Seat
	var clients [2]*communication.LineConn
	for i := range seats {
		serverEnd, clientEnd := net.Pipe()
		seats[i] = communication.NewLineConn(serverEnd)
		clients[i] = communication.NewLineConn(clientEnd)
	}
	defer func() {
		for i := range seats {
			_ = seats[i].Close()
			_ = clients[i].Close()
		}
	}()

	options := []gamemaster.Option{
		gamemaster.WithTimeLimit(cfg.TimeLimit),
		gamemaster.WithBoard(cfg.Board),
	}
	if cfg.Attempts > 0 {
		options = append(options, gamemaster.WithAttempts(cfg.Attempts))
	}
	if cfg.Seed != 0 {
		options = append(options, gamemaster.WithSeed(cfg.Seed))
	}
	gm := gamemaster.NewGameMaster(seats, options...)

	g, ctx := errgroup.WithContext(ctx)
	for i := range clients {
		p := player.NewPlayer(clients[i], agents[i], player.WithMargin(cfg.Margin), player.WithBoard(cfg.Board))
		g.Go(func() error {
			_, err := p.Play(ctx)
			if errors.Is(err, communication.ErrClosed) || errors.Is(err, context.Canceled) {
				// The game master already reported why the game stopped
				return nil
			}
			return err
		})
	}

	var result gamemaster.Result
	g.Go(func() error {
		for i, seat := range seats {
			if err := communication.Greet(seat, i+1); err != nil {
				return fmt.Errorf("greet player %d: %w", i+1, err)
			}
		}
		var err error
		result, err = gm.Run(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return gamemaster.Result{}, err
	}
	return result, nil
}

// Summary counts outcomes per agent index, independent of seats.
type Summary struct {
	Games int
	Wins  [2]int
	Draws int
	Moves int
}

// Series plays games between the two agents, swapping seats every game so
// neither always places first.
func Series(ctx context.Context, games int, agents [2]player.Agent, cfg Config) (Summary, error) {
	var summary Summary
	for i := 0; i < games; i++ {
		seated := agents
		swapped := i%2 == 1
		if swapped {
			seated = [2]player.Agent{agents[1], agents[0]}
		}
		if cfg.Seed != 0 {
			cfg.Seed++
		}

		result, err := Play(ctx, seated, cfg)
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", i+1, err)
		}

		summary.Games++
		summary.Moves += result.Moves
		if result.Draw() {
			summary.Draws++
		} else {
			winner := result.Winner - 1
			if swapped {
				winner = 1 - winner
			}
			summary.Wins[winner]++
		}
		log.Info().
			Str("game", result.GameID).
			Int("moves", result.Moves).
			Msgf("game %d of %d: %s", i+1, games, result)
	}
	return summary, nil
}
