package portfile

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// Terminator is the literal final line the core appends once the file
// is complete. Any content read before this line must be ignored: the
// core may be mid-write.
const Terminator = "EOF"

// Recognized address keys. Which one the launcher requires is decided
// by configuration; the parser surfaces both.
const (
	KeySock = "sock"
	KeyUnix = "unix"
)

// Record holds the address entries parsed from a completed rendezvous
// file. Zero values mean the key was absent.
type Record struct {
	// Port is the decimal TCP port from the "sock" key.
	Port int

	// UnixPath is the socket path from the "unix" key.
	UnixPath string
}

// Empty reports whether no recognized address key was present.
func (r Record) Empty() bool {
	return r.Port == 0 && r.UnixPath == ""
}

// Create makes the uniquely-named temporary rendezvous file and returns
// its path. The caller owns the file and removes it after rendezvous.
func Create() (string, error) {
	f, err := os.CreateTemp("", "tracera-port-*.txt")
	if err != nil {
		return "", err
	}

	path := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(path)

		return "", err
	}

	return path, nil
}

// Parse interprets the rendezvous file contents. ready is true only when
// the last line is exactly the Terminator; until then the returned
// Record is meaningless and the caller must keep polling.
//
// Lines are key=value pairs split on the first '='. Unrecognized keys
// and malformed lines are skipped: older cores write entries newer
// clients do not know about.
func Parse(contents string) (rec Record, ready bool) {
	lines := strings.Split(strings.TrimRight(contents, "\n"), "\n")
	if lines[len(lines)-1] != Terminator {
		return Record{}, false
	}

	for _, line := range lines[:len(lines)-1] {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		switch key {
		case KeySock:
			port, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				continue
			}

			rec.Port = int(port)
		case KeyUnix:
			rec.UnixPath = value
		}
	}

	return rec, true
}

// Await poll-reads the rendezvous file until it is complete, the timeout
// elapses, or ctx is cancelled.
//
// A completed file with no recognized address key fails immediately with
// AddressNotFoundError: the core has finished writing, so retrying
// cannot produce the key. A file that never completes fails with
// RendezvousTimeoutError.
func Await(ctx context.Context, log *slog.Logger, path string, interval, timeout time.Duration) (Record, error) {
	deadline := time.Now().Add(timeout)

	for {
		contents, err := os.ReadFile(path)
		if err == nil {
			if rec, ready := Parse(string(contents)); ready {
				if rec.Empty() {
					log.Error("Rendezvous file completed without an address entry", "path", path)

					return Record{}, &errors.AddressNotFoundError{Path: path, Key: KeySock + "|" + KeyUnix}
				}

				log.Debug("Rendezvous complete", "path", path, "port", rec.Port, "unix_path", rec.UnixPath)

				return rec, nil
			}
		} else if !os.IsNotExist(err) {
			return Record{}, err
		}

		if time.Now().After(deadline) {
			log.Error("Rendezvous timed out", "path", path, "timeout", timeout)

			return Record{}, &errors.RendezvousTimeoutError{Path: path, Timeout: timeout}
		}

		select {
		case <-ctx.Done():
			return Record{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}
