package portfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tracera/tracera-sdk-go/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestParse_SockKey tests parsing a completed file with a TCP port entry.
func TestParse_SockKey(t *testing.T) {
	rec, ready := Parse("a=1\nsock=4567\nEOF\n")

	require.True(t, ready)
	require.Equal(t, 4567, rec.Port)
	require.Empty(t, rec.UnixPath)
}

// TestParse_UnixKey tests parsing a completed file with a socket path entry.
func TestParse_UnixKey(t *testing.T) {
	rec, ready := Parse("unix=/tmp/x.sock\nEOF\n")

	require.True(t, ready)
	require.Equal(t, "/tmp/x.sock", rec.UnixPath)
	require.Zero(t, rec.Port)
}

// TestParse_Incomplete tests that a file without the EOF terminator is
// never ready, regardless of its other contents.
func TestParse_Incomplete(t *testing.T) {
	for _, contents := range []string{
		"",
		"sock=4567",
		"sock=4567\n",
		"sock=4567\nEO",
		"EOF\nsock=4567\n", // terminator must be the last line
	} {
		_, ready := Parse(contents)
		require.False(t, ready, "contents %q", contents)
	}
}

// TestParse_ValueContainingEquals tests that only the first '=' splits a line.
func TestParse_ValueContainingEquals(t *testing.T) {
	rec, ready := Parse("unix=/tmp/dir=weird/x.sock\nEOF\n")

	require.True(t, ready)
	require.Equal(t, "/tmp/dir=weird/x.sock", rec.UnixPath)
}

// TestParse_MalformedPort tests that a non-numeric sock value is skipped,
// leaving the record empty.
func TestParse_MalformedPort(t *testing.T) {
	rec, ready := Parse("sock=not-a-port\nEOF\n")

	require.True(t, ready)
	require.True(t, rec.Empty())
}

// TestCreate_UniqueAndRemovable tests temp file creation.
func TestCreate_UniqueAndRemovable(t *testing.T) {
	first, err := Create()
	require.NoError(t, err)
	defer os.Remove(first)

	second, err := Create()
	require.NoError(t, err)
	defer os.Remove(second)

	require.NotEqual(t, first, second)
	require.FileExists(t, first)
}

// TestAwait_FileWrittenAfterDelay tests the normal rendezvous: the core
// writes the completed file while the parent is already polling.
func TestAwait_FileWrittenAfterDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.txt")

	go func() {
		time.Sleep(30 * time.Millisecond)
		// Partial write first: Await must not act on it.
		_ = os.WriteFile(path, []byte("sock=9999\n"), 0o644)
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte("sock=9999\nEOF\n"), 0o644)
	}()

	start := time.Now()
	rec, err := Await(context.Background(), testLogger(), path, 5*time.Millisecond, 5*time.Second)

	require.NoError(t, err)
	require.Equal(t, 9999, rec.Port)
	require.Less(t, time.Since(start), 5*time.Second)
}

// TestAwait_MissingKey tests that a completed file with no recognized key
// fails immediately with AddressNotFoundError rather than timing out.
func TestAwait_MissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.txt")
	require.NoError(t, os.WriteFile(path, []byte("grpc=1234\nEOF\n"), 0o644))

	start := time.Now()
	_, err := Await(context.Background(), testLogger(), path, 5*time.Millisecond, 5*time.Second)

	var notFound *errors.AddressNotFoundError
	require.ErrorAs(t, err, &notFound)
	// Immediate failure, not a full poll to the deadline.
	require.Less(t, time.Since(start), time.Second)
}

// TestAwait_Timeout tests that a file which never completes produces a
// timeout error instead of hanging.
func TestAwait_Timeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.txt")
	require.NoError(t, os.WriteFile(path, []byte("sock=9999\n"), 0o644))

	_, err := Await(context.Background(), testLogger(), path, 5*time.Millisecond, 50*time.Millisecond)

	var timeout *errors.RendezvousTimeoutError
	require.ErrorAs(t, err, &timeout)
}

// TestAwait_ContextCancelled tests cooperative cancellation between polls.
func TestAwait_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "port.txt")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Await(ctx, testLogger(), path, 5*time.Millisecond, 5*time.Second)
	require.ErrorIs(t, err, context.Canceled)
}
