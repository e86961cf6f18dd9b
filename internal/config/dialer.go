package config

import (
	"context"
	"net"
)

// Address is a connectable core endpoint produced by the launcher's
// rendezvous, or supplied directly via Options.Address.
type Address struct {
	// Network is "tcp" or "unix".
	Network string

	// Addr is a host:port string for tcp, or a socket path for unix.
	Addr string
}

func (a Address) String() string {
	return a.Network + "://" + a.Addr
}

// Dialer opens the byte stream to the core. Implement this to provide
// custom transports for testing or alternative connection methods.
//
// The default implementation is a net.Dialer configured with
// Options.DialTimeout.
type Dialer interface {
	// Dial opens a stream to the given address. The returned connection
	// is bidirectional and ordered; the wire layer owns it exclusively
	// afterward.
	Dial(ctx context.Context, address Address) (net.Conn, error)
}

// NetDialer is the default Dialer backed by the standard net package.
type NetDialer struct {
	dialer net.Dialer
}

// Compile-time verification that NetDialer implements Dialer.
var _ Dialer = (*NetDialer)(nil)

// NewNetDialer creates the default dialer. A zero timeout leaves connect
// timing to the OS.
func NewNetDialer(opts *Options) *NetDialer {
	return &NetDialer{dialer: net.Dialer{Timeout: opts.DialTimeout}}
}

// Dial implements Dialer.
func (d *NetDialer) Dial(ctx context.Context, address Address) (net.Conn, error) {
	return d.dialer.DialContext(ctx, address.Network, address.Addr)
}
