package server

import (
	"context"
	"testing"
	"time"

	"quarto/communication"
	"quarto/communication/client"

	"github.com/stretchr/testify/require"
)

func TestAcceptSeats(t *testing.T) {
	t.Run("players are numbered in arrival order", func(t *testing.T) {
		ctx := context.Background()
		s, err := Listen("127.0.0.1:0")
		require.NoError(t, err)
		defer s.Close()

		type accepted struct {
			seats []*communication.LineConn
			err   error
		}
		done := make(chan accepted, 1)
		go func() {
			seats, err := s.AcceptSeats(ctx, 2)
			done <- accepted{seats, err}
		}()

		var clients []*communication.LineConn
		for i, want := range []string{"PLAYER: 1", "PLAYER: 2"} {
			c, err := client.Dial(ctx, s.Addr().String())
			require.NoError(t, err)
			defer c.Close()
			line, err := c.Receive(ctx, 2*time.Second)
			require.NoError(t, err)
			require.Equal(t, want, line, "Client %d greeting", i+1)
			clients = append(clients, c)
		}

		got := <-done
		require.NoError(t, got.err)
		require.Len(t, got.seats, 2)
		defer got.seats[0].Close()
		defer got.seats[1].Close()

		require.NoError(t, got.seats[1].Send("Q1: Please choose piece for player 1"))
		line, err := clients[1].Receive(ctx, 2*time.Second)
		require.NoError(t, err)
		require.Equal(t, "Q1: Please choose piece for player 1", line)
	})

	t.Run("cancelling stops accepting", func(t *testing.T) {
		s, err := Listen("127.0.0.1:0")
		require.NoError(t, err)
		defer s.Close()
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		_, err = s.AcceptSeats(ctx, 2)

		require.ErrorIs(t, err, context.Canceled)
	})
}
