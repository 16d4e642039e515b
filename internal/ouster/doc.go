// Package ouster implements the Ouster TCP configuration protocol: a
// line-oriented request/response shim used to query and modify sensor
// configuration over a plain TCP connection.
package ouster
