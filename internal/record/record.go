package record

import (
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2): the same logical record always produces
// identical bytes, which keeps golden-byte tests and server-side
// dedup stable.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown fields are ignored for forward
// compatibility with newer cores.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("record: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("record: CBOR decoder initialization failed: " + err.Error())
	}
}

// Type discriminates the record variants carried in an Envelope.
type Type string

// Record types exchanged with the core.
const (
	TypeSessionInit Type = "session_init"
	TypeRunStart    Type = "run_start"
	TypeHistory     Type = "history"
	TypeRunFinish   Type = "run_finish"
	TypeTeardown    Type = "teardown"
	TypeAck         Type = "ack"
)

// Envelope is the frame payload: a type tag, the stream it belongs to,
// and exactly one populated variant matching the tag.
type Envelope struct {
	Type     Type   `cbor:"type"`
	StreamID string `cbor:"stream_id,omitempty"`

	SessionInit *SessionInit `cbor:"session_init,omitempty"`
	RunStart    *RunStart    `cbor:"run_start,omitempty"`
	History     *History     `cbor:"history,omitempty"`
	RunFinish   *RunFinish   `cbor:"run_finish,omitempty"`
	Teardown    *Teardown    `cbor:"teardown,omitempty"`
	Ack         *Ack         `cbor:"ack,omitempty"`
}

// SessionInit announces a new client session to the core.
type SessionInit struct {
	ClientVersion string `cbor:"client_version"`
	ClientPid     int    `cbor:"client_pid"`
}

// RunStart opens a run stream.
type RunStart struct {
	RunID       string    `cbor:"run_id"`
	Project     string    `cbor:"project,omitempty"`
	DisplayName string    `cbor:"display_name,omitempty"`
	StartedAt   time.Time `cbor:"started_at"`
}

// History is one step of logged metrics.
type History struct {
	Step    int64              `cbor:"step"`
	Metrics map[string]float64 `cbor:"metrics"`
}

// RunFinish closes a run stream. The core acks it once the stream is
// durably flushed.
type RunFinish struct {
	ExitCode int32 `cbor:"exit_code"`
}

// Teardown tells the core the client is shutting down. Sent best-effort
// during session close; never acked.
type Teardown struct {
	ExitCode int32 `cbor:"exit_code"`
}

// Ack is the core's response to records that require one.
type Ack struct {
	OK    bool   `cbor:"ok"`
	Error string `cbor:"error,omitempty"`
}

// Encode serializes the envelope for framing.
func (e *Envelope) Encode() ([]byte, error) {
	return encMode.Marshal(e)
}

// Decode parses a frame payload into an envelope.
func Decode(payload []byte) (*Envelope, error) {
	var e Envelope
	if err := decMode.Unmarshal(payload, &e); err != nil {
		return nil, &errors.RecordDecodeError{Err: err}
	}

	return &e, nil
}
