// Command tracera-core-mock is a stand-in for the real tracera-core
// worker. It honors the launch contract — bind a listener, publish the
// address to the --port-filename rendezvous file, append the EOF
// terminator — then accepts framed records, acking run-finish and
// exiting on teardown.
//
// It exists for examples and manual testing of the SDK against a live
// subprocess; package tests use in-process fakes instead.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/tracera/tracera-sdk-go/internal/portfile"
	"github.com/tracera/tracera-sdk-go/internal/record"
	"github.com/tracera/tracera-sdk-go/internal/wire"
)

func main() {
	var (
		portFilename = pflag.String("port-filename", "", "rendezvous file to publish the listening address to")
		debug        = pflag.Bool("debug", false, "enable debug logging")
		unix         = pflag.Bool("unix", false, "listen on a Unix domain socket instead of TCP")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *portFilename == "" {
		log.Error("--port-filename is required")
		os.Exit(2)
	}

	if err := run(log, *portFilename, *unix); err != nil {
		log.Error("Mock core failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, portFilename string, useUnix bool) error {
	listener, entry, err := listen(useUnix)
	if err != nil {
		return err
	}
	defer listener.Close()

	// Publish the address only after the listener is bound, so a client
	// that reads the completed file can always connect.
	contents := entry + "\n" + portfile.Terminator + "\n"
	if err := os.WriteFile(portFilename, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write rendezvous file: %w", err)
	}

	log.Info("Mock core ready", "address", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}

		log.Debug("Client connected", "remote", conn.RemoteAddr())

		if done := serve(log, conn); done {
			return nil
		}
	}
}

func listen(useUnix bool) (net.Listener, string, error) {
	if useUnix {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("tracera-core-mock-%d.sock", os.Getpid()))

		listener, err := net.Listen("unix", path)
		if err != nil {
			return nil, "", fmt.Errorf("listen unix: %w", err)
		}

		return listener, portfile.KeyUnix + "=" + path, nil
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", fmt.Errorf("listen tcp: %w", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port

	return listener, fmt.Sprintf("%s=%d", portfile.KeySock, port), nil
}

// serve handles one client connection. Returns true when the client
// sent a teardown record and the mock should exit.
func serve(log *slog.Logger, conn net.Conn) bool {
	defer conn.Close()

	for {
		payload, err := wire.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("Read failed", "error", err)
			}

			return false
		}

		env, err := record.Decode(payload)
		if err != nil {
			log.Warn("Discarding undecodable record", "error", err)

			continue
		}

		log.Debug("Record received", "type", string(env.Type), "stream_id", env.StreamID)

		switch env.Type {
		case record.TypeRunFinish:
			ack := &record.Envelope{
				Type:     record.TypeAck,
				StreamID: env.StreamID,
				Ack:      &record.Ack{OK: true},
			}

			ackPayload, err := ack.Encode()
			if err == nil {
				if err := wire.WriteFrame(conn, ackPayload); err != nil {
					log.Debug("Ack write failed", "error", err)

					return false
				}
			}
		case record.TypeTeardown:
			log.Info("Teardown received, exiting")

			return true
		}
	}
}
