package tracerasdk

import (
	"log/slog"
	"time"

	"github.com/tracera/tracera-sdk-go/internal/config"
)

// Option configures a session using the functional options pattern.
type Option func(*config.Options)

// applyOptions resolves a settings file (if any) and the functional
// options into one config.Options. Functional options win over the
// settings file.
func applyOptions(opts []Option) (*config.Options, error) {
	options := &config.Options{}

	// First pass picks up WithSettingsFile so the file is applied
	// before the remaining options overwrite it.
	for _, opt := range opts {
		opt(options)
	}

	if options.SettingsFile != "" {
		settings, err := config.LoadSettings(options.SettingsFile)
		if err != nil {
			return nil, err
		}

		fromFile := &config.Options{SettingsFile: options.SettingsFile}
		if err := settings.Apply(fromFile); err != nil {
			return nil, err
		}

		for _, opt := range opts {
			opt(fromFile)
		}

		options = fromFile
	}

	return options, nil
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithCorePath sets the explicit path to the tracera-core binary.
// If not set, the binary is located via TRACERA_CORE_PATH, PATH, and
// common installation directories.
func WithCorePath(path string) Option {
	return func(o *config.Options) {
		o.CorePath = path
	}
}

// WithAddress connects to an already-running core at the given address
// instead of launching one. The address is host:port, or a socket path
// when combined with WithUnixSocket.
func WithAddress(address string) Option {
	return func(o *config.Options) {
		o.Address = address
	}
}

// WithDebug forwards --debug to the core process. The TRACERA_DEBUG
// environment variable ("1"/"true") enables it as well.
func WithDebug() Option {
	return func(o *config.Options) {
		o.Debug = true
	}
}

// WithUnixSocket selects the Unix-domain-socket address kind: the
// launcher requires the "unix" rendezvous key instead of the default
// "sock" TCP port key.
func WithUnixSocket() Option {
	return func(o *config.Options) {
		o.UseUnixSocket = true
	}
}

// WithEnv provides additional environment variables for the core process.
func WithEnv(env map[string]string) Option {
	return func(o *config.Options) {
		o.Env = env
	}
}

// WithSettingsFile loads options from a YAML settings file. Functional
// options take precedence over file values.
func WithSettingsFile(path string) Option {
	return func(o *config.Options) {
		o.SettingsFile = path
	}
}

// ===== Timing =====

// WithLaunchTimeout bounds how long Connect waits for a freshly
// launched core to publish its address. Default 30s.
func WithLaunchTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.LaunchTimeout = timeout
	}
}

// WithPollInterval sets the sleep between rendezvous file reads.
// Default 50ms.
func WithPollInterval(interval time.Duration) Option {
	return func(o *config.Options) {
		o.PollInterval = interval
	}
}

// WithDialTimeout bounds the post-rendezvous stream connect. Default 0,
// which leaves connect timing to the OS.
func WithDialTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.DialTimeout = timeout
	}
}

// ===== Transport injection =====

// WithDialer injects a custom stream dialer. Tests use this to connect
// sessions to in-memory pipes instead of real sockets.
func WithDialer(dialer Dialer) Option {
	return func(o *config.Options) {
		o.Dialer = dialer
	}
}
