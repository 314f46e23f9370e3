package main

import (
	"fmt"
	"time"

	"quarto/engine"
	"quarto/experiments"
	"quarto/game"

	"github.com/spf13/cobra"
)

var (
	selfplayGames       int
	selfplayKinds       [2]string
	selfplayTurnLimitMS int
	selfplayLayout      string
	experimentThreads   []int

	selfplayCmd = &cobra.Command{
		Use:   "selfplay",
		Short: "Play games between two agents in process",
		RunE:  runSelfplay,
	}

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Measure playing strength of parallel search against a sequential baseline",
		RunE:  runExperiment,
	}
)

func init() {
	for _, c := range []*cobra.Command{selfplayCmd, experimentCmd} {
		c.Flags().IntVar(&selfplayGames, "games", 10, "games per matchup")
		c.Flags().IntVar(&selfplayTurnLimitMS, "turn-limit", 0, "per decision time limit in milliseconds")
		c.Flags().StringVar(&selfplayLayout, "layout", "", "file with the starting board")
	}
	selfplayCmd.Flags().StringVar(&selfplayKinds[0], "kind1", "mcts", "agent kind of the first agent")
	selfplayCmd.Flags().StringVar(&selfplayKinds[1], "kind2", "random", "agent kind of the second agent")
	experimentCmd.Flags().IntSliceVar(&experimentThreads, "goroutines", []int{2, 4, 8}, "goroutines of the parallel agents")
}

func engineConfig() (engine.Config, error) {
	limit := cfg.Server.TurnTimeLimit()
	if selfplayTurnLimitMS > 0 {
		limit = time.Duration(selfplayTurnLimitMS) * time.Millisecond
	}
	margin := cfg.Search.Margin()
	if margin >= limit {
		margin = limit / 10
	}
	engineCfg := engine.Config{
		TimeLimit: limit,
		Margin:    margin,
		Attempts:  cfg.Server.FallbackAttempts,
		Seed:      cfg.Server.Seed,
	}
	if selfplayLayout != "" {
		board, err := game.LoadLayoutFile(selfplayLayout)
		if err != nil {
			return engineCfg, err
		}
		engineCfg.Board = board
	}
	return engineCfg, nil
}

func runSelfplay(cmd *cobra.Command, args []string) error {
	engineCfg, err := engineConfig()
	if err != nil {
		return err
	}
	matchUp := experiments.MatchUp{
		{ID: 1, Kind: selfplayKinds[0], Search: cfg.Search},
		{ID: 2, Kind: selfplayKinds[1], Search: cfg.Search},
	}
	if matchUp[1].Search.Seed != 0 {
		matchUp[1].Search.Seed++
	}

	ctx, stop := signalContext()
	defer stop()

	reports, err := experiments.Run(ctx, "selfplay", []experiments.MatchUp{matchUp}, selfplayGames, engineCfg)
	if err != nil {
		return err
	}
	printReports(cmd, reports)
	return nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	engineCfg, err := engineConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	matchUps := experiments.ParallelizationMatchUps(cfg.Search, experimentThreads...)
	reports, err := experiments.Run(ctx, "parallelization", matchUps, selfplayGames, engineCfg)
	if err != nil {
		return err
	}
	printReports(cmd, reports)
	return nil
}

func printReports(cmd *cobra.Command, reports []experiments.Report) {
	out := cmd.OutOrStdout()
	for _, report := range reports {
		first, second := report.MatchUp[0], report.MatchUp[1]
		fmt.Fprintf(out, "%s(%d goroutines) vs %s(%d goroutines): %d-%d, %d draws in %d games, %s\n",
			first.Kind, first.Search.Goroutines, second.Kind, second.Search.Goroutines,
			report.Summary.Wins[0], report.Summary.Wins[1], report.Summary.Draws,
			report.Summary.Games, report.Duration.Round(time.Millisecond))
	}
}
