package tracerasdk

import "github.com/tracera/tracera-sdk-go/internal/config"

// Dialer opens the byte stream to the core. Implement this to provide
// custom transports for testing, mocking, or alternative connection
// methods.
//
// The default implementation is a net.Dialer configured with the
// session's dial timeout. Custom dialers are injected via WithDialer.
type Dialer = config.Dialer

// Address is a connectable core endpoint: "tcp" with host:port, or
// "unix" with a socket path.
type Address = config.Address
