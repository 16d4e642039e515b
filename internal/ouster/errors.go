package ouster

import "errors"

var (
	// ErrIoFailure covers transport failures: dial, write, or a closed
	// connection while awaiting a response.
	ErrIoFailure = errors.New("ouster: io failure")

	// ErrProtocolUnexpected covers a response line that did not match
	// what the issued command expects (bad JSON, wrong echo).
	ErrProtocolUnexpected = errors.New("ouster: protocol unexpected")
)
