package player

import (
	"context"
	"net"
	"testing"
	"time"

	"quarto/communication"
	"quarto/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type outcome struct {
	text string
	err  error
}

// start runs a player against the returned server end of a pipe.
func start(t *testing.T, options ...Option) (*communication.LineConn, *Player, <-chan outcome) {
	t.Helper()
	a, b := net.Pipe()
	server, client := communication.NewLineConn(a), communication.NewLineConn(b)
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})

	p := NewPlayer(client, NewRandomAgent(rand.New(rand.NewSource(5))), options...)
	done := make(chan outcome, 1)
	go func() {
		text, err := p.Play(context.Background())
		done <- outcome{text, err}
	}()
	return server, p, done
}

func expectReply(t *testing.T, server *communication.LineConn) string {
	t.Helper()
	line, err := server.Receive(context.Background(), 2*time.Second)
	require.NoError(t, err)
	return line
}

func TestPlay(t *testing.T) {
	t.Run("answers prompts and tracks the board", func(t *testing.T) {
		server, p, done := start(t, WithMargin(10*time.Millisecond))

		require.NoError(t, server.Send("PLAYER: 2"))
		require.NoError(t, server.Send("TURN_TIME_LIMIT: 100"))
		require.NoError(t, server.Send("Q1: Please choose piece for player 1"))
		piece, err := game.ParsePiece(expectReply(t, server))
		require.NoError(t, err)
		require.True(t, game.ValidPiece(piece))

		require.NoError(t, server.Send("ERR_PIECE: 00011"))
		require.NoError(t, server.Send("MOVE: 2,2"))
		require.NoError(t, server.Send("PIECE: 00100"))
		require.NoError(t, server.Send("Q2: 00100 (please select move)"))
		cell, err := game.ParseCell(expectReply(t, server))
		require.NoError(t, err)
		require.True(t, cell.InBounds())
		require.NotEqual(t, game.Cell{Row: 2, Col: 2}, cell, "Occupied cell must not be chosen")

		require.NoError(t, server.Send("ERR_MOVE: 0,0"))
		require.NoError(t, server.Send("INFO: thanks for playing"))
		require.NoError(t, server.Send("GAME_OVER: Game is a draw"))

		got := <-done
		require.NoError(t, got.err)
		require.Equal(t, "Game is a draw", got.text)
		require.Equal(t, 2, p.Number())
		board := p.Board()
		given, ok := board.PieceOn(2, 2)
		require.True(t, ok)
		require.Equal(t, 3, given.ID(), "Substituted piece is what the opponent placed")
		placed, ok := board.PieceOn(0, 0)
		require.True(t, ok)
		require.Equal(t, 4, placed.ID())
		require.Equal(t, 2, board.Placed())
	})

	t.Run("moves onto occupied cells are rejected", func(t *testing.T) {
		board := game.NewBoard()
		board.PlacePiece(1, 1, 9)
		server, _, done := start(t, WithBoard(board))

		require.NoError(t, server.Send("PLAYER: 1"))
		require.NoError(t, server.Send("Q2: 01000 (please select move)"))
		_ = expectReply(t, server)
		require.NoError(t, server.Send("ACK_MOVE: 1,1"))

		got := <-done
		require.ErrorIs(t, got.err, ErrProtocol)
	})

	t.Run("malformed greeting is a protocol error", func(t *testing.T) {
		server, _, done := start(t)

		require.NoError(t, server.Send("PLAYER: one"))

		require.ErrorIs(t, (<-done).err, ErrProtocol)
	})

	t.Run("server hanging up ends play", func(t *testing.T) {
		server, _, done := start(t)

		require.NoError(t, server.Close())

		require.ErrorIs(t, (<-done).err, communication.ErrClosed)
	})
}

func TestBudget(t *testing.T) {
	p := NewPlayer(nil, nil)
	p.limit = 10 * time.Second
	require.Equal(t, 9*time.Second, p.budget())

	p.limit = 500 * time.Millisecond
	require.Equal(t, 250*time.Millisecond, p.budget(), "Margin larger than the limit halves it")

	p = NewPlayer(nil, nil, WithMargin(0))
	p.limit = 300 * time.Millisecond
	require.Equal(t, 300*time.Millisecond, p.budget())
}
