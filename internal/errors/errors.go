package errors

import (
	"errors"
	"fmt"
	"time"
)

// SDKError is the base interface for all SDK errors.
type SDKError interface {
	error
	IsTraceraSDKError() bool
}

// Compile-time verification that all error types implement SDKError.
var (
	_ SDKError = (*CoreNotFoundError)(nil)
	_ SDKError = (*SpawnError)(nil)
	_ SDKError = (*ConnectionError)(nil)
	_ SDKError = (*AddressNotFoundError)(nil)
	_ SDKError = (*RendezvousTimeoutError)(nil)
	_ SDKError = (*FrameError)(nil)
	_ SDKError = (*RecordDecodeError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrSessionClosed indicates the session has been closed and cannot be reused.
	ErrSessionClosed = errors.New("session closed: sessions are single-use, create a new one with Connect()")

	// ErrConnectionBroken indicates a previous send failed mid-frame,
	// leaving the peer's framing state undefined. The connection must
	// not be reused.
	ErrConnectionBroken = errors.New("connection broken by earlier write failure")

	// ErrAlreadyStarted indicates the launcher already owns a live core process.
	ErrAlreadyStarted = errors.New("launcher already started a core process")

	// ErrRunFinished indicates the run has already been finished.
	ErrRunFinished = errors.New("run already finished")
)

// CoreNotFoundError indicates the core worker binary was not found.
type CoreNotFoundError struct {
	SearchedPaths []string
}

func (e *CoreNotFoundError) Error() string {
	return fmt.Sprintf("tracera-core binary not found in: %v", e.SearchedPaths)
}

// IsTraceraSDKError implements SDKError.
func (e *CoreNotFoundError) IsTraceraSDKError() bool { return true }

// SpawnError indicates the OS could not start the core worker process.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn core process %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsTraceraSDKError implements SDKError.
func (e *SpawnError) IsTraceraSDKError() bool { return true }

// ConnectionError indicates a failure dialing or writing to the core.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("core connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsTraceraSDKError implements SDKError.
func (e *ConnectionError) IsTraceraSDKError() bool { return true }

// AddressNotFoundError indicates the rendezvous file terminated without
// the expected address key. The file reached its EOF line, so waiting
// longer cannot help; this is reported immediately, not as a timeout.
type AddressNotFoundError struct {
	Path string
	Key  string
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("rendezvous file %q completed without a %q address entry", e.Path, e.Key)
}

// IsTraceraSDKError implements SDKError.
func (e *AddressNotFoundError) IsTraceraSDKError() bool { return true }

// RendezvousTimeoutError indicates the rendezvous file never reached its
// EOF terminator within the launch timeout.
type RendezvousTimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *RendezvousTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for core to publish its address in %q", e.Timeout, e.Path)
}

// IsTraceraSDKError implements SDKError.
func (e *RendezvousTimeoutError) IsTraceraSDKError() bool { return true }

// FrameError indicates a malformed frame on the wire: a bad magic byte
// or a payload length outside the allowed range.
type FrameError struct {
	Magic  byte
	Length uint32
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("invalid frame (magic 0x%02x, length %d): %s", e.Magic, e.Length, e.Reason)
}

// IsTraceraSDKError implements SDKError.
func (e *FrameError) IsTraceraSDKError() bool { return true }

// RecordDecodeError indicates a frame payload could not be decoded as a record.
type RecordDecodeError struct {
	Err error
}

func (e *RecordDecodeError) Error() string {
	return fmt.Sprintf("failed to decode record: %v", e.Err)
}

func (e *RecordDecodeError) Unwrap() error {
	return e.Err
}

// IsTraceraSDKError implements SDKError.
func (e *RecordDecodeError) IsTraceraSDKError() bool { return true }
