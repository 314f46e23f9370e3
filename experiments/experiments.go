// Package experiments runs series of self-play games between agent
// configurations and reports how they fared.
package experiments

import (
	"context"
	"fmt"
	"time"

	"quarto/config"
	"quarto/engine"
	"quarto/player"

	"github.com/rs/zerolog/log"
)

type AgentConfig struct {
	ID     int
	Kind   string
	Search config.SearchConfig
}

type MatchUp [2]AgentConfig

type Report struct {
	MatchUp  MatchUp
	Summary  engine.Summary
	Duration time.Duration
}

// ParallelizationMatchUps pairs a sequential search agent against agents
// running more goroutines under the same time budget.
func ParallelizationMatchUps(base config.SearchConfig, goroutines ...int) []MatchUp {
	baseline := AgentConfig{ID: 0, Kind: "mcts", Search: base}
	baseline.Search.Goroutines = 1

	matchUps := []MatchUp{}
	for i, n := range goroutines {
		parallel := AgentConfig{ID: i + 1, Kind: "mcts", Search: base}
		parallel.Search.Goroutines = n
		matchUps = append(matchUps, MatchUp{baseline, parallel})
	}
	return matchUps
}

func Run(ctx context.Context, name string, matchUps []MatchUp, games int, cfg engine.Config) ([]Report, error) {
	log.Info().Msgf("starting %s experiment...", name)

	reports := make([]Report, 0, len(matchUps))
	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchUp[0], matchUp[1])

		var agents [2]player.Agent
		for i, agentConfig := range matchUp {
			agent, err := player.NewAgent(agentConfig.Kind, agentConfig.Search)
			if err != nil {
				return reports, fmt.Errorf("matchup %d agent %d: %w", mi+1, agentConfig.ID, err)
			}
			agents[i] = agent
		}

		start := time.Now()
		summary, err := engine.Series(ctx, games, agents, cfg)
		if err != nil {
			return reports, fmt.Errorf("matchup %d: %w", mi+1, err)
		}
		reports = append(reports, Report{MatchUp: matchUp, Summary: summary, Duration: time.Since(start)})

		log.Info().Msgf("completed matchup %d of %d: agent %d won %d, agent %d won %d, %d draws",
			mi+1, len(matchUps), matchUp[0].ID, summary.Wins[0], matchUp[1].ID, summary.Wins[1], summary.Draws)
	}

	log.Info().Msgf("completed %s experiment", name)
	return reports, nil
}
