package communication

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	bufferedLines = 64
	writeTimeout  = 5 * time.Second
)

// LineConn is a Seat over a stream connection. A background goroutine
// splits the stream into lines and buffers them until Receive is called.
type LineConn struct {
	conn  net.Conn
	lines chan string
	done  chan struct{} // closed when the reader exits
	quit  chan struct{} // closed by Close

	wmu       sync.Mutex // serializes writes
	closeOnce sync.Once
	closeErr  error
}

func NewLineConn(conn net.Conn) *LineConn {
	c := &LineConn{
		conn:  conn,
		lines: make(chan string, bufferedLines),
		done:  make(chan struct{}),
		quit:  make(chan struct{}),
	}
	go c.read()
	return c
}

func (c *LineConn) read() {
	defer close(c.done)
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case c.lines <- line:
		case <-c.quit:
			return
		}
	}
}

func (c *LineConn) Send(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return fmt.Errorf("send %q: %w", line, err)
	}
	return nil
}

func (c *LineConn) Receive(ctx context.Context, timeout time.Duration) (string, error) {
	select {
	case line := <-c.lines:
		return line, nil
	default:
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case line := <-c.lines:
		return line, nil
	case <-c.done:
		// The reader may have buffered lines before exiting
		select {
		case line := <-c.lines:
			return line, nil
		default:
			return "", ErrClosed
		}
	case <-expired:
		return "", ErrNoData
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *LineConn) Discard() []string {
	var stale []string
	for {
		select {
		case line := <-c.lines:
			stale = append(stale, line)
		default:
			return stale
		}
	}
}

func (c *LineConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *LineConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
