package tracerasdk

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tracera/tracera-sdk-go/internal/record"
	"github.com/tracera/tracera-sdk-go/internal/wire"
)

// memDialer hands out a pre-made in-memory stream instead of dialing.
type memDialer struct {
	conn net.Conn
}

func (d *memDialer) Dial(_ context.Context, _ Address) (net.Conn, error) {
	return d.conn, nil
}

// fakeCore is an in-process stand-in for the core worker: it records
// every envelope it receives and acks run-finish records.
type fakeCore struct {
	conn net.Conn

	mu       sync.Mutex
	received []*record.Envelope
}

func startFakeCore(t *testing.T) (*fakeCore, *memDialer) {
	t.Helper()

	clientEnd, serverEnd := net.Pipe()
	core := &fakeCore{conn: serverEnd}

	go core.serve()
	t.Cleanup(func() { _ = serverEnd.Close() })

	return core, &memDialer{conn: clientEnd}
}

func (c *fakeCore) serve() {
	for {
		payload, err := wire.ReadFrame(c.conn)
		if err != nil {
			return
		}

		env, err := record.Decode(payload)
		if err != nil {
			continue
		}

		c.mu.Lock()
		c.received = append(c.received, env)
		c.mu.Unlock()

		if env.Type == record.TypeRunFinish {
			ack := &record.Envelope{
				Type:     record.TypeAck,
				StreamID: env.StreamID,
				Ack:      &record.Ack{OK: true},
			}

			payload, err := ack.Encode()
			if err == nil {
				_ = wire.WriteFrame(c.conn, payload)
			}
		}
	}
}

func (c *fakeCore) envelopes() []*record.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*record.Envelope(nil), c.received...)
}

func (c *fakeCore) envelopesOfType(typ record.Type) []*record.Envelope {
	var out []*record.Envelope
	for _, env := range c.envelopes() {
		if env.Type == typ {
			out = append(out, env)
		}
	}

	return out
}

func connectTestSession(t *testing.T) (*Session, *fakeCore) {
	t.Helper()

	core, dialer := startFakeCore(t)

	session, err := Connect(context.Background(),
		WithAddress("127.0.0.1:1"),
		WithDialer(dialer),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session, core
}

// TestConnect_SendsSessionInit tests that the handshake record reaches
// the core without any process being spawned.
func TestConnect_SendsSessionInit(t *testing.T) {
	_, core := connectTestSession(t)

	require.Eventually(t, func() bool {
		return len(core.envelopesOfType(record.TypeSessionInit)) == 1
	}, 5*time.Second, 10*time.Millisecond)

	init := core.envelopesOfType(record.TypeSessionInit)[0].SessionInit
	require.NotNil(t, init)
	require.Equal(t, sdkVersion, init.ClientVersion)
	require.NotZero(t, init.ClientPid)
}

// TestRun_FullLifecycle tests NewRun, Log steps, and an acked Finish.
func TestRun_FullLifecycle(t *testing.T) {
	session, core := connectTestSession(t)

	run, err := session.NewRun(context.Background(), WithProject("mnist"))
	require.NoError(t, err)
	require.NotEmpty(t, run.ID())

	require.NoError(t, run.Log(map[string]float64{"loss": 0.5}))
	require.NoError(t, run.Log(map[string]float64{"loss": 0.25}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, run.Finish(ctx))

	histories := core.envelopesOfType(record.TypeHistory)
	require.Len(t, histories, 2)
	require.Equal(t, int64(0), histories[0].History.Step)
	require.Equal(t, int64(1), histories[1].History.Step)
	require.Equal(t, run.ID(), histories[0].StreamID)

	starts := core.envelopesOfType(record.TypeRunStart)
	require.Len(t, starts, 1)
	require.Equal(t, "mnist", starts[0].RunStart.Project)
}

// TestRun_FinishTwice tests that Finish is terminal.
func TestRun_FinishTwice(t *testing.T) {
	session, _ := connectTestSession(t)

	run, err := session.NewRun(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, run.Finish(ctx))

	require.ErrorIs(t, run.Finish(ctx), ErrRunFinished)
	require.ErrorIs(t, run.Log(map[string]float64{"loss": 1}), ErrRunFinished)
}

// TestSession_CloseSendsTeardown tests that Close emits the final
// control record best-effort and is idempotent.
func TestSession_CloseSendsTeardown(t *testing.T) {
	session, core := connectTestSession(t)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	require.Eventually(t, func() bool {
		return len(core.envelopesOfType(record.TypeTeardown)) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

// TestSession_UseAfterClose tests that a closed session rejects new work.
func TestSession_UseAfterClose(t *testing.T) {
	session, _ := connectTestSession(t)

	require.NoError(t, session.Close())

	_, err := session.NewRun(context.Background())
	require.ErrorIs(t, err, ErrSessionClosed)
}

// TestRun_ExplicitID tests WithRunID pinning.
func TestRun_ExplicitID(t *testing.T) {
	session, _ := connectTestSession(t)

	run, err := session.NewRun(context.Background(), WithRunID("resume-me"))
	require.NoError(t, err)
	require.Equal(t, "resume-me", run.ID())
}

// TestSession_Address tests that the configured external address is
// reported back.
func TestSession_Address(t *testing.T) {
	session, _ := connectTestSession(t)

	require.Equal(t, "tcp", session.Address().Network)
	require.Equal(t, "127.0.0.1:1", session.Address().Addr)
}
