package tracerasdk

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tracera/tracera-sdk-go/internal/config"
	"github.com/tracera/tracera-sdk-go/internal/errors"
	"github.com/tracera/tracera-sdk-go/internal/launcher"
	"github.com/tracera/tracera-sdk-go/internal/record"
	"github.com/tracera/tracera-sdk-go/internal/wire"
)

// sdkVersion is reported to the core in the session init record.
const sdkVersion = "0.1.0"

// ackBuffer bounds pending un-consumed acks from the core. One is the
// steady state: only one ack-bearing request is outstanding at a time.
const ackBuffer = 16

// Session owns one core connection, and the core process itself when
// the session launched it. Sessions are single-use: after Close, create
// a new one with Connect.
//
// A session may host multiple runs, but its methods are not internally
// ordered across goroutines beyond send atomicity; callers needing
// concurrent runs serialize Finish calls themselves.
type Session struct {
	log      *slog.Logger
	options  *config.Options
	address  config.Address
	launcher *launcher.Launcher // nil when connecting to an external core
	conn     *wire.Conn
	reader   *errgroup.Group
	acks     chan *record.Envelope
	closed   atomic.Bool
}

// Connect launches the core (unless WithAddress points at a running
// one), dials its address, and performs the session handshake.
//
// On any failure the partially-built session is torn down: a launched
// core does not outlive an errored Connect.
func Connect(ctx context.Context, opts ...Option) (*Session, error) {
	options, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}
	log = log.With("component", "session")

	s := &Session{
		log:     log,
		options: options,
		acks:    make(chan *record.Envelope, ackBuffer),
	}

	if options.Address != "" {
		network := "tcp"
		if options.UseUnixSocket {
			network = "unix"
		}

		s.address = config.Address{Network: network, Addr: options.Address}
	} else {
		s.launcher = launcher.New(log, options)

		s.address, err = s.launcher.Start(ctx)
		if err != nil {
			return nil, err
		}
	}

	dialer := options.Dialer
	if dialer == nil {
		dialer = config.NewNetDialer(options)
	}

	s.conn, err = wire.Dial(ctx, log, dialer, s.address)
	if err != nil {
		s.teardownProcess()

		return nil, err
	}

	init := &record.Envelope{
		Type: record.TypeSessionInit,
		SessionInit: &record.SessionInit{
			ClientVersion: sdkVersion,
			ClientPid:     os.Getpid(),
		},
	}
	if err := s.conn.Send(init); err != nil {
		_ = s.conn.Close()
		s.teardownProcess()

		return nil, err
	}

	s.reader = new(errgroup.Group)
	s.reader.Go(s.readLoop)

	log.Info("Session established", "address", s.address.String())

	return s, nil
}

// Address returns the core endpoint this session is connected to.
func (s *Session) Address() Address {
	return s.address
}

// NewRun opens a run stream on the session and returns a handle for
// logging metrics to it.
func (s *Session) NewRun(ctx context.Context, opts ...RunOption) (*Run, error) {
	if s.closed.Load() {
		return nil, errors.ErrSessionClosed
	}

	run := newRun(s, opts)

	env := &record.Envelope{
		Type:     record.TypeRunStart,
		StreamID: run.id,
		RunStart: run.startRecord(),
	}
	if err := s.conn.Send(env); err != nil {
		return nil, err
	}

	s.log.Info("Run started", "run_id", run.id)

	return run, nil
}

// Close tears the session down: the final teardown record is sent
// best-effort, the connection is closed, and a launched core is killed.
// Teardown failures are logged, never returned — a caller's shutdown
// path cannot fail here. Safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	teardown := &record.Envelope{
		Type:     record.TypeTeardown,
		Teardown: &record.Teardown{ExitCode: 0},
	}
	if err := s.conn.Send(teardown); err != nil {
		s.log.Debug("Failed to send teardown record", "error", err)
	}

	if err := s.conn.Close(); err != nil {
		s.log.Debug("Failed to close connection", "error", err)
	}

	s.teardownProcess()

	// The reader exits once the connection closes under it.
	if err := s.reader.Wait(); err != nil {
		s.log.Debug("Reader stopped with error", "error", err)
	}

	s.log.Info("Session closed")

	return nil
}

// teardownProcess kills a launched core, if any.
func (s *Session) teardownProcess() {
	if s.launcher == nil {
		return
	}

	if err := s.launcher.Close(); err != nil {
		s.log.Debug("Failed to stop core process", "error", err)
	}
}

// send frames one record to the core, rejecting use after Close.
func (s *Session) send(env *record.Envelope) error {
	if s.closed.Load() {
		return errors.ErrSessionClosed
	}

	return s.conn.Send(env)
}

// awaitAck blocks until the core acknowledges the outstanding request,
// the context expires, or the session closes under the caller.
func (s *Session) awaitAck(ctx context.Context) (*record.Ack, error) {
	select {
	case env, ok := <-s.acks:
		if !ok {
			return nil, errors.ErrSessionClosed
		}

		return env.Ack, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readLoop drains inbound frames, routing acks to waiting callers.
// Non-ack records from the core carry nothing this client acts on yet
// and are logged at debug.
func (s *Session) readLoop() error {
	defer close(s.acks)

	for {
		payload, err := s.conn.Receive()
		if err != nil {
			if s.closed.Load() {
				return nil
			}

			s.log.Debug("Reader stopped", "error", err)

			return err
		}

		env, err := record.Decode(payload)
		if err != nil {
			s.log.Warn("Discarding undecodable record from core", "error", err)

			continue
		}

		if env.Ack != nil {
			select {
			case s.acks <- env:
			default:
				s.log.Warn("Dropping ack: no waiter and buffer full")
			}

			continue
		}

		s.log.Debug("Ignoring inbound record", "type", string(env.Type))
	}
}
