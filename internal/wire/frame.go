package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tracera/tracera-sdk-go/internal/errors"
)

// Magic is the first byte of every frame. A reader seeing anything else
// has lost framing and must treat the stream as corrupt.
const Magic byte = 'W'

// HeaderLength is the fixed frame header size: 1 magic byte + 4 bytes
// payload length, unsigned 32-bit little-endian.
const HeaderLength = 5

// MaxPayloadLength caps inbound payload allocation. 64 MB is far beyond
// any record the core produces; the wire format itself allows up to
// 2^32-1 bytes.
const MaxPayloadLength = 64 * 1024 * 1024

// AppendHeader appends the 5-byte frame header for a payload of the
// given length to dst and returns the extended slice.
func AppendHeader(dst []byte, payloadLength int) []byte {
	dst = append(dst, Magic)

	return binary.LittleEndian.AppendUint32(dst, uint32(payloadLength))
}

// WriteFrame writes one framed payload to w: header first, then the
// payload bytes. It does not flush; callers layering a bufio.Writer own
// the flush.
func WriteFrame(w io.Writer, payload []byte) error {
	header := AppendHeader(make([]byte, 0, HeaderLength), len(payload))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}

	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("write frame payload: %w", err)
		}
	}

	return nil
}

// ParseHeader validates a frame header and returns the payload length.
func ParseHeader(header [HeaderLength]byte) (uint32, error) {
	length := binary.LittleEndian.Uint32(header[1:])

	if header[0] != Magic {
		return 0, &errors.FrameError{Magic: header[0], Length: length, Reason: "bad magic byte"}
	}

	if length > MaxPayloadLength {
		return 0, &errors.FrameError{
			Magic:  header[0],
			Length: length,
			Reason: fmt.Sprintf("payload length exceeds maximum %d", MaxPayloadLength),
		}
	}

	return length, nil
}

// ReadFrame reads one framed payload from r. It mirrors WriteFrame: a
// full 5-byte header, magic validation, then exactly the announced
// number of payload bytes.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	length, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("read frame payload: %w", err)
		}
	}

	return payload, nil
}
