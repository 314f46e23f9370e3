package main

import (
	"fmt"

	"quarto/communication/client"
	"quarto/game"
	"quarto/player"

	"github.com/spf13/cobra"
)

var (
	agentAddr   string
	agentKind   string
	agentSeed   uint64
	agentLayout string

	agentCmd = &cobra.Command{
		Use:   "agent",
		Short: "Connect to a server and play one game",
		RunE:  runAgent,
	}
)

func init() {
	agentCmd.Flags().StringVar(&agentAddr, "addr", "localhost:4321", "server address")
	agentCmd.Flags().StringVar(&agentKind, "kind", "mcts", fmt.Sprintf("agent kind, one of %v", player.Kinds))
	agentCmd.Flags().Uint64Var(&agentSeed, "seed", 0, "random seed, 0 seeds from the clock")
	agentCmd.Flags().StringVar(&agentLayout, "layout", "", "file with the starting board the server loaded")
}

func runAgent(cmd *cobra.Command, args []string) error {
	search := cfg.Search
	if agentSeed != 0 {
		search.Seed = agentSeed
	}
	agent, err := player.NewAgent(agentKind, search)
	if err != nil {
		return err
	}

	options := []player.Option{player.WithMargin(search.Margin())}
	if agentLayout != "" {
		board, err := game.LoadLayoutFile(agentLayout)
		if err != nil {
			return err
		}
		options = append(options, player.WithBoard(board))
	}

	ctx, stop := signalContext()
	defer stop()

	conn, err := client.Dial(ctx, agentAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	result, err := player.NewPlayer(conn, agent, options...).Play(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
