package tracerasdk

import "github.com/tracera/tracera-sdk-go/internal/errors"

// Re-export error types from internal package

// CoreNotFoundError indicates the tracera-core binary was not found.
type CoreNotFoundError = errors.CoreNotFoundError

// SpawnError indicates the core worker process could not be started.
type SpawnError = errors.SpawnError

// ConnectionError indicates a failure dialing or writing to the core.
type ConnectionError = errors.ConnectionError

// AddressNotFoundError indicates the rendezvous file completed without
// the expected address key.
type AddressNotFoundError = errors.AddressNotFoundError

// RendezvousTimeoutError indicates the core never published its address
// within the launch timeout.
type RendezvousTimeoutError = errors.RendezvousTimeoutError

// FrameError indicates a malformed frame on the wire.
type FrameError = errors.FrameError

// RecordDecodeError indicates a frame payload could not be decoded.
type RecordDecodeError = errors.RecordDecodeError

// SDKError is the base interface for all SDK errors.
type SDKError = errors.SDKError

// Re-export sentinel errors from internal package.
var (
	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.ErrSessionClosed

	// ErrConnectionBroken indicates an earlier send failed and the
	// connection must not be reused.
	ErrConnectionBroken = errors.ErrConnectionBroken

	// ErrRunFinished indicates the run has already been finished.
	ErrRunFinished = errors.ErrRunFinished
)
