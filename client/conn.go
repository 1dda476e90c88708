package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/luma/meteo/protocol"
)

// Conn sends requests to a single Meteo server. Every Query is one datagram
// out and at most one datagram back; nothing is retried.
type Conn struct {
	conn    net.Conn
	timeout time.Duration

	log *zap.Logger
}

// New creates an unconnected Conn. Queries without a context deadline wait
// at most timeout for an answer; zero waits forever.
func New(timeout time.Duration, log *zap.Logger) *Conn {
	return &Conn{
		timeout: timeout,
		log:     log,
	}
}

func (c *Conn) Connect(ctx context.Context, addr string) error {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return err
	}

	c.conn = conn

	return nil
}

func (c *Conn) Disconnect() error {
	return c.conn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Query sends req and waits for the response. Requests that cannot be
// encoded are never sent and fail with protocol.ErrEncoding; short replies
// fail with protocol.ErrTruncatedResponse.
func (c *Conn) Query(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	data, err := protocol.EncodeRequest(req)
	if err != nil {
		return protocol.Response{}, err
	}

	if err := c.conn.SetDeadline(c.deadline(ctx)); err != nil {
		return protocol.Response{}, err
	}

	if _, err := c.conn.Write(data); err != nil {
		return protocol.Response{}, fmt.Errorf("Failed to send request: %w", err)
	}

	c.log.Debug("Sent request",
		zap.Stringer("type", req.Type),
		zap.String("city", req.City),
		zap.Stringer("server", c.conn.RemoteAddr()))

	buf := make([]byte, protocol.MaxDatagramSize)

	// A cancelled context unblocks the read
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			c.conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	n, err := c.conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return protocol.Response{}, ctx.Err()
		}

		return protocol.Response{}, fmt.Errorf("Failed to receive response: %w", err)
	}

	return protocol.DecodeResponse(buf[:n])
}

func (c *Conn) deadline(ctx context.Context) time.Time {
	deadline, ok := ctx.Deadline()

	if c.timeout > 0 {
		if t := time.Now().Add(c.timeout); !ok || t.Before(deadline) {
			return t
		}
	}

	if ok {
		return deadline
	}

	return time.Time{}
}
