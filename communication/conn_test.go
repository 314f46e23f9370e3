package communication

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pipe(t *testing.T) (*LineConn, *LineConn) {
	t.Helper()
	a, b := net.Pipe()
	ca, cb := NewLineConn(a), NewLineConn(b)
	t.Cleanup(func() {
		_ = ca.Close()
		_ = cb.Close()
	})
	return ca, cb
}

func TestLineConn(t *testing.T) {
	ctx := context.Background()

	t.Run("lines arrive in order", func(t *testing.T) {
		server, client := pipe(t)
		require.NoError(t, server.Send("Q1: Please choose piece for player 1"))
		require.NoError(t, server.Send("TURN_TIME_LIMIT: 10000"))

		first, err := client.Receive(ctx, time.Second)
		require.NoError(t, err)
		require.Equal(t, "Q1: Please choose piece for player 1", first)
		second, err := client.Receive(ctx, time.Second)
		require.NoError(t, err)
		require.Equal(t, "TURN_TIME_LIMIT: 10000", second)
	})

	t.Run("carriage returns are stripped", func(t *testing.T) {
		server, client := pipe(t)
		require.NoError(t, client.Send("2,3\r"))

		line, err := server.Receive(ctx, time.Second)
		require.NoError(t, err)
		require.Equal(t, "2,3", line)
	})

	t.Run("silence times out with no data", func(t *testing.T) {
		_, client := pipe(t)

		start := time.Now()
		_, err := client.Receive(ctx, 20*time.Millisecond)

		require.ErrorIs(t, err, ErrNoData)
		require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		_, client := pipe(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := client.Receive(cancelled, 0)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("buffered lines survive the peer closing", func(t *testing.T) {
		server, client := pipe(t)
		require.NoError(t, server.Send("GAME_OVER: Game is a draw"))
		require.NoError(t, server.Close())

		line, err := client.Receive(ctx, time.Second)
		require.NoError(t, err)
		require.Equal(t, "GAME_OVER: Game is a draw", line)

		_, err = client.Receive(ctx, time.Second)
		require.ErrorIs(t, err, ErrClosed)
	})

	t.Run("sending to a closed peer fails", func(t *testing.T) {
		server, client := pipe(t)
		require.NoError(t, client.Close())

		require.Error(t, server.Send("MOVE: 1,1"))
	})

	t.Run("discard drops stale lines", func(t *testing.T) {
		server, client := pipe(t)
		require.NoError(t, client.Send("00001"))
		require.NoError(t, client.Send("00010"))
		require.Eventually(t, func() bool { return len(server.lines) == 2 }, time.Second, time.Millisecond)

		require.Equal(t, []string{"00001", "00010"}, server.Discard())
		require.Empty(t, server.Discard())

		_, err := server.Receive(ctx, 10*time.Millisecond)
		require.ErrorIs(t, err, ErrNoData)
	})
}
