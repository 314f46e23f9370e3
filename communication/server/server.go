// Package server accepts the seats of a game over TCP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"quarto/communication"

	"github.com/rs/zerolog/log"
)

type Server struct {
	listener net.Listener
}

func Listen(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Info().Msgf("server listening on %s", listener.Addr())
	return &Server{listener: listener}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// AcceptSeats waits for n connections and greets each with its player
// number, in arrival order. Cancelling ctx closes the listener.
func (s *Server) AcceptSeats(ctx context.Context, n int) ([]*communication.LineConn, error) {
	stop := context.AfterFunc(ctx, func() {
		_ = s.listener.Close()
	})
	defer stop()

	seats := make([]*communication.LineConn, 0, n)
	for len(seats) < n {
		conn, err := s.listener.Accept()
		if err != nil {
			for _, seat := range seats {
				_ = seat.Close()
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("accept player %d: %w", len(seats)+1, err)
		}
		seat := communication.NewLineConn(conn)
		seats = append(seats, seat)
		if err := communication.Greet(seat, len(seats)); err != nil {
			log.Warn().Err(err).Msgf("greeting player %d failed", len(seats))
		}
		log.Info().Msgf("player %d connected from %s", len(seats), seat.RemoteAddr())
	}
	return seats, nil
}

func (s *Server) Close() error {
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
