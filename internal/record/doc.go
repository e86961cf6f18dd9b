// Package record defines the CBOR-encoded control and telemetry records
// carried as frame payloads between the SDK and the core. The wire
// layer treats these as opaque bytes; this package is the only place
// the payload schema lives on the client side.
package record
