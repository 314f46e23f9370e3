package main

import (
	"fmt"

	"quarto/communication"
	"quarto/communication/server"
	"quarto/game"
	"quarto/gamemaster"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serverAddr        string
	serverLayout      string
	serverMetricsAddr string
	serverGames       int
	serverTurnLimitMS int

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Referee games between two connecting agents",
		Long: `Accepts two agents, plays a game between them and waits for the next
pair. The first agent to connect is player 1 and places first.`,
		RunE: runServer,
	}
)

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (default from config, :4321)")
	serverCmd.Flags().StringVar(&serverLayout, "layout", "", "file with the starting board")
	serverCmd.Flags().StringVar(&serverMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	serverCmd.Flags().IntVar(&serverGames, "games", 0, "stop after this many games, 0 runs until interrupted")
	serverCmd.Flags().IntVar(&serverTurnLimitMS, "turn-limit", 0, "per decision time limit in milliseconds")
}

func runServer(cmd *cobra.Command, args []string) error {
	settings := cfg.Server
	if serverAddr != "" {
		settings.Addr = serverAddr
	}
	if serverLayout != "" {
		settings.Layout = serverLayout
	}
	if serverTurnLimitMS > 0 {
		settings.TurnTimeLimitMS = serverTurnLimitMS
	}
	metricsAddr := cfg.Metrics.Addr
	if serverMetricsAddr != "" {
		metricsAddr = serverMetricsAddr
	}

	var board *game.Board
	if settings.Layout != "" {
		loaded, err := game.LoadLayoutFile(settings.Layout)
		if err != nil {
			return err
		}
		board = loaded
		log.Info().Msgf("loaded layout %s\n%s", settings.Layout, board)
	}

	ctx, stop := signalContext()
	defer stop()
	serveMetrics(ctx, metricsAddr)

	s, err := server.Listen(settings.Addr)
	if err != nil {
		return err
	}
	defer s.Close()

	for played := 0; serverGames == 0 || played < serverGames; played++ {
		seats, err := s.AcceptSeats(ctx, 2)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("server shutting down")
				return nil
			}
			return err
		}

		options := []gamemaster.Option{
			gamemaster.WithTimeLimit(settings.TurnTimeLimit()),
			gamemaster.WithAttempts(settings.FallbackAttempts),
			gamemaster.WithBoard(board),
		}
		if settings.Seed != 0 {
			options = append(options, gamemaster.WithSeed(settings.Seed+uint64(played)))
		}
		gm := gamemaster.NewGameMaster([2]communication.Seat{seats[0], seats[1]}, options...)
		result, err := gm.Run(ctx)
		for _, seat := range seats {
			_ = seat.Close()
		}
		if err != nil && ctx.Err() != nil {
			log.Info().Msg("server shutting down")
			return nil
		}
		if err != nil {
			return fmt.Errorf("game %s: %w", gm.ID(), err)
		}
		log.Info().Str("game", result.GameID).Msgf("game %d over: %s", played+1, result)
	}
	return nil
}
