package jengaprotocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// transport delivers one command over one TCP connection and reads back one
// reply. It keeps no connection between calls.
type transport struct {
	endpoint    Endpoint
	dialTimeout time.Duration // zero waits for the OS connect timeout
	ioTimeout   time.Duration // zero blocks until the host replies
	logger      *zap.Logger
}

// roundTrip connects, writes command, reads at most ResponseBufferSize bytes
// and closes the connection on every path.
func (t *transport) roundTrip(ctx context.Context, command string) (Response, error) {
	addr := t.endpoint.Address()
	log := t.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("endpoint", addr),
		zap.String("command", command),
	)
	start := time.Now()

	dialer := net.Dialer{Timeout: t.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		err = t.classify(ctx, "failed to connect to "+addr, err)
		log.Warn("dial failed", zap.Error(err))
		return Response{}, err
	}
	defer conn.Close()

	// A cancelled context closes the socket so a blocked read returns.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if deadline, ok := t.deadline(ctx, start); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Response{}, NewConnectionError("failed to set deadline", err)
		}
	}

	if _, err := conn.Write([]byte(command)); err != nil {
		err = t.classify(ctx, "failed to send command", err)
		log.Warn("write failed", zap.Error(err))
		return Response{}, err
	}

	buf := make([]byte, ResponseBufferSize)
	n, err := conn.Read(buf)
	if err != nil && !(errors.Is(err, io.EOF) && ctx.Err() == nil) {
		err = t.classify(ctx, "failed to read response", err)
		log.Warn("read failed", zap.Error(err))
		return Response{}, err
	}

	resp, err := DecodeResponse(buf[:n])
	if err != nil {
		log.Warn("undecodable response", zap.Int("bytes", n), zap.Error(err))
		return Response{}, err
	}

	log.Debug("command completed",
		zap.String("response", resp.Text),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// deadline returns the earlier of the I/O timeout and the context deadline.
func (t *transport) deadline(ctx context.Context, start time.Time) (time.Time, bool) {
	var deadline time.Time
	if t.ioTimeout > 0 {
		deadline = start.Add(t.ioTimeout)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}
	return deadline, !deadline.IsZero()
}

// classify maps a socket error onto the package's error taxonomy.
func (t *transport) classify(ctx context.Context, message string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, message, err)
	}
	return NewConnectionError(message, err)
}
