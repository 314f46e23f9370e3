// Package communication carries the newline-delimited text protocol spoken
// between the game master and its two seats.
package communication

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoData is returned when no line arrives within the read timeout.
	ErrNoData = errors.New("no data within time limit")
	// ErrClosed is returned once the peer hung up and every buffered line
	// has been consumed.
	ErrClosed = errors.New("connection closed")
)

// Seat is one end of a line channel. Sends are fire-and-forget; receives
// block for at most the timeout.
type Seat interface {
	Send(line string) error
	// Receive returns the next line. A non-positive timeout waits until a
	// line arrives, the connection closes or ctx is done.
	Receive(ctx context.Context, timeout time.Duration) (string, error)
	// Discard drops lines that are already buffered and returns them.
	Discard() []string
	Close() error
}
