package wire

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/tracera/tracera-sdk-go/internal/config"
	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// Message is any value that can produce its own serialized byte
// representation. The connection frames whatever Encode returns; the
// payload schema is the record layer's business.
type Message interface {
	Encode() ([]byte, error)
}

// Conn is a framed connection to the core. It owns the underlying
// stream exclusively and writes one frame per Send call: header and
// payload batched through a buffered writer, flushed before returning.
//
// Send is safe for concurrent use. A failed send leaves the peer's
// framing state undefined, so the connection marks itself broken and
// rejects further sends.
type Conn struct {
	log  *slog.Logger
	conn net.Conn
	bw   *bufio.Writer
	br   *bufio.Reader

	wmu    sync.Mutex // serializes frame writes and guards broken
	broken bool

	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the core at the given address and wraps the stream.
func Dial(ctx context.Context, log *slog.Logger, dialer config.Dialer, address config.Address) (*Conn, error) {
	log.Debug("Dialing core", "address", address.String())

	conn, err := dialer.Dial(ctx, address)
	if err != nil {
		return nil, &errors.ConnectionError{Err: fmt.Errorf("dial %s: %w", address.String(), err)}
	}

	log.Info("Connected to core", "address", address.String())

	return New(log, conn), nil
}

// New wraps an already-established stream. Tests use this with one end
// of a net.Pipe.
func New(log *slog.Logger, conn net.Conn) *Conn {
	return &Conn{
		log:  log.With("component", "wire_conn"),
		conn: conn,
		bw:   bufio.NewWriter(conn),
		br:   bufio.NewReader(conn),
	}
}

// Send encodes the message and writes it as one frame. Success means
// the frame was handed to the OS write path, not that the core has
// processed it.
func (c *Conn) Send(msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		// Encoding failure is a data error, not a transport error: the
		// stream is untouched and stays usable.
		return fmt.Errorf("encode message: %w", err)
	}

	return c.SendPayload(payload)
}

// SendPayload writes an already-encoded payload as one frame.
func (c *Conn) SendPayload(payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.broken {
		return errors.ErrConnectionBroken
	}

	if err := WriteFrame(c.bw, payload); err != nil {
		c.broken = true

		return &errors.ConnectionError{Err: err}
	}

	if err := c.bw.Flush(); err != nil {
		c.broken = true

		return &errors.ConnectionError{Err: fmt.Errorf("flush frame: %w", err)}
	}

	c.log.Debug("Frame sent", "payload_len", len(payload))

	return nil
}

// Receive reads one inbound frame payload. Only the session's single
// reader goroutine calls this; reads are not internally serialized.
func (c *Conn) Receive() ([]byte, error) {
	return ReadFrame(c.br)
}

// Close closes the underlying stream. Safe to call multiple times.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.log.Debug("Closing connection")
		c.closeErr = c.conn.Close()
	})

	return c.closeErr
}
