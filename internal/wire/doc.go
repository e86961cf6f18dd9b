// Package wire implements the framed message transport to the core.
//
// Every message travels as one frame:
//
//	byte 0      magic constant 'W' (0x57)
//	bytes 1..4  payload length, unsigned 32-bit little-endian
//	bytes 5..   payload, exactly length bytes
//
// Frame boundaries are unambiguous from the fixed-size header, so a
// single ordered stream carries frames in send order with no separate
// delimiters. Payloads are opaque here; the record package defines them.
package wire
