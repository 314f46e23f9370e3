// Package client connects an agent to a game server.
package client

import (
	"context"
	"fmt"
	"net"

	"quarto/communication"

	"github.com/rs/zerolog/log"
)

func Dial(ctx context.Context, addr string) (*communication.LineConn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	log.Info().Msgf("connected to server %s", addr)
	return communication.NewLineConn(conn), nil
}
