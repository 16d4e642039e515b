package velodyne

import "errors"

// Sentinel errors for the four flat error kinds used across the decode
// pipeline. Callers should compare with errors.Is; wrapped forms carry
// the offending value in fmt.Errorf context strings that wrap the
// sentinel with %w.
var (
	// ErrPacketMalformed covers wrong packet size, a bad block marker, or
	// an unrecognized return-mode / product-id byte.
	ErrPacketMalformed = errors.New("velodyne: packet malformed")

	// ErrConfigInvalid covers a laser table whose length does not match
	// the beam count, or a non-positive distance resolution.
	ErrConfigInvalid = errors.New("velodyne: config invalid")

	// ErrFormatMismatch covers a converter of one firing-format variant
	// receiving a firing of a different variant.
	ErrFormatMismatch = errors.New("velodyne: format mismatch")

	// ErrIoFailure is reserved for external-collaborator boundaries
	// (UDP sockets, PCAP files) and never originates inside the core
	// decode path.
	ErrIoFailure = errors.New("velodyne: io failure")
)
