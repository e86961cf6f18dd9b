package launcher

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/tracera/tracera-sdk-go/internal/config"
	"github.com/tracera/tracera-sdk-go/internal/core"
	"github.com/tracera/tracera-sdk-go/internal/errors"
	"github.com/tracera/tracera-sdk-go/internal/portfile"
)

// Launcher starts exactly one core worker process and resolves the
// address it publishes through the rendezvous file. It retains the
// child handle; Close kills the child best-effort.
type Launcher struct {
	log     *slog.Logger
	options *config.Options

	mu      sync.Mutex // guards cmd and closing
	cmd     *exec.Cmd
	closing bool
}

// New creates a launcher. Nothing is spawned until Start.
func New(log *slog.Logger, options *config.Options) *Launcher {
	return &Launcher{
		log:     log.With("component", "launcher"),
		options: options,
	}
}

// Start spawns the core and blocks until it publishes a connectable
// address or the launch times out. At most one child per Launcher:
// calling Start again returns ErrAlreadyStarted.
//
// On any failure after the spawn, the child is killed before returning
// so no orphan survives an errored Start.
func (l *Launcher) Start(ctx context.Context) (config.Address, error) {
	l.mu.Lock()
	if l.cmd != nil {
		l.mu.Unlock()

		return config.Address{}, errors.ErrAlreadyStarted
	}
	l.mu.Unlock()

	corePath, err := core.NewDiscoverer(&core.Config{
		CorePath: l.options.CorePath,
		Logger:   l.log,
	}).Discover()
	if err != nil {
		return config.Address{}, err
	}

	portFile, err := portfile.Create()
	if err != nil {
		return config.Address{}, err
	}
	defer func() {
		if removeErr := os.Remove(portFile); removeErr != nil {
			l.log.Debug("Failed to remove rendezvous file", "path", portFile, "error", removeErr)
		}
	}()

	if err := l.spawn(corePath, portFile); err != nil {
		return config.Address{}, err
	}

	address, err := l.awaitRendezvous(ctx, portFile)
	if err != nil {
		// The child may still be starting up or already wedged; either
		// way it has no caller left, so reap it.
		if closeErr := l.Close(); closeErr != nil {
			l.log.Debug("Failed to kill core after rendezvous failure", "error", closeErr)
		}

		return config.Address{}, err
	}

	return address, nil
}

// spawn starts the core process pointed at the rendezvous file.
func (l *Launcher) spawn(corePath, portFile string) error {
	args := core.BuildArgs(portFile, l.options)

	l.log.Info("Starting core process", "core_path", corePath, "args", args)

	//nolint:gosec // G204: the core path comes from discovery, args are built internally
	cmd := exec.Command(corePath, args...)
	cmd.Env = core.BuildEnvironment(l.options)

	if err := cmd.Start(); err != nil {
		l.log.Error("Failed to start core process", "error", err)

		return &errors.SpawnError{Path: corePath, Err: err}
	}

	l.mu.Lock()
	l.cmd = cmd
	l.mu.Unlock()

	l.log.Info("Core process started", "pid", cmd.Process.Pid)

	return nil
}

// awaitRendezvous polls the rendezvous file and converts the published
// record into a connectable address of the configured kind.
func (l *Launcher) awaitRendezvous(ctx context.Context, portFile string) (config.Address, error) {
	rec, err := portfile.Await(
		ctx,
		l.log,
		portFile,
		l.options.PollIntervalOrDefault(),
		l.options.LaunchTimeoutOrDefault(),
	)
	if err != nil {
		return config.Address{}, err
	}

	if l.options.UseUnixSocket {
		if rec.UnixPath == "" {
			return config.Address{}, &errors.AddressNotFoundError{Path: portFile, Key: portfile.KeyUnix}
		}

		return config.Address{Network: "unix", Addr: rec.UnixPath}, nil
	}

	if rec.Port == 0 {
		return config.Address{}, &errors.AddressNotFoundError{Path: portFile, Key: portfile.KeySock}
	}

	return config.Address{Network: "tcp", Addr: "127.0.0.1:" + strconv.Itoa(rec.Port)}, nil
}

// Pid returns the child's process ID, or 0 before a successful spawn.
func (l *Launcher) Pid() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil || l.cmd.Process == nil {
		return 0
	}

	return l.cmd.Process.Pid
}

// Close kills the core process if one is held. Best-effort: a child
// that already exited is not an error, and kill failures are logged,
// never escalated, so a caller's shutdown path cannot fail here. Safe
// to call multiple times.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cmd == nil || l.closing {
		return nil
	}

	l.closing = true

	if l.cmd.Process != nil {
		l.log.Debug("Killing core process", "pid", l.cmd.Process.Pid)

		if err := l.cmd.Process.Kill(); err != nil {
			l.log.Warn("Failed to kill core process", "pid", l.cmd.Process.Pid, "error", err)
		}
	}

	// Reap the child so it does not linger as a zombie. The error is
	// expected: the process was just killed.
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
	}(l.cmd)

	return nil
}
