package config

import (
	"log/slog"
	"time"
)

// Default timings for the launch rendezvous. The core normally publishes
// its address within a few hundred milliseconds; the 30 second ceiling
// covers cold starts on loaded machines.
const (
	DefaultLaunchTimeout = 30 * time.Second
	DefaultPollInterval  = 50 * time.Millisecond
)

// Options holds the resolved configuration for a session. Callers build
// it through the root package's functional options; fields here are the
// single source of truth consumed by the launcher and wire layers.
type Options struct {
	// CorePath is an explicit path to the tracera-core binary. If empty,
	// discovery falls back to the TRACERA_CORE_PATH environment variable,
	// then PATH, then common installation directories.
	CorePath string

	// Address, when non-empty, skips launching a core process entirely
	// and connects to an already-running core at this address. The
	// network is chosen by UseUnixSocket.
	Address string

	// Debug forwards --debug to the core process. The TRACERA_DEBUG
	// environment variable ("1" or "true", case-insensitive) enables it
	// as well.
	Debug bool

	// UseUnixSocket selects the address kind the launcher requires from
	// the rendezvous file: false means the "sock" TCP port key (the
	// default, supported by every core generation), true means the
	// "unix" socket path key.
	UseUnixSocket bool

	// LaunchTimeout bounds the whole rendezvous phase: how long Start
	// waits for the core to publish its address and append the EOF
	// terminator. Zero means DefaultLaunchTimeout.
	LaunchTimeout time.Duration

	// PollInterval is the sleep between rendezvous file reads.
	// Zero means DefaultPollInterval.
	PollInterval time.Duration

	// DialTimeout bounds the post-rendezvous stream connect. Zero means
	// the OS default, which is the historical behavior of this client.
	DialTimeout time.Duration

	// Env holds additional environment variables for the core process.
	Env map[string]string

	// SettingsFile is an optional YAML settings file applied before
	// functional options.
	SettingsFile string

	// Logger receives structured operational logging. Nil means silent.
	Logger *slog.Logger

	// Dialer opens the stream to the core. Nil means a net.Dialer with
	// DialTimeout. Tests inject in-memory dialers here.
	Dialer Dialer
}

// LaunchTimeoutOrDefault returns LaunchTimeout with the default applied.
func (o *Options) LaunchTimeoutOrDefault() time.Duration {
	if o.LaunchTimeout > 0 {
		return o.LaunchTimeout
	}

	return DefaultLaunchTimeout
}

// PollIntervalOrDefault returns PollInterval with the default applied.
func (o *Options) PollIntervalOrDefault() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}

	return DefaultPollInterval
}
