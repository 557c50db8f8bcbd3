// Package transport specifies the interface the attribution core consumes
// from its transport collaborator (§6). HTTP transport, TLS, peer
// discovery, and the record-stream demultiplexer are out of scope (§1) —
// this package names only the contract: send a byte stream to a named
// peer at a (route, query id, step), and receive the matching stream back.
package transport

import "github.com/private-attribution/ipa-helper/helper"

// Channel is the per-(peer, step path) send/receive contract a Context uses
// (§6, §5's "Network channels are per (peer, step path); the transport
// serializes within a channel and parallelizes across channels").
//
// Record ids pair a Send with its matching Receive at the peer; it is a
// caller bug (ProtocolFailureError, §7) to reuse a record id within a step
// path, or to call Receive for a record id whose peer never called Send.
type Channel interface {
	// Send transmits data to the given peer role, scoped to stepPath and
	// recordID.
	Send(to helper.Role, stepPath string, recordID uint64, data []byte) error

	// Receive blocks until the peer's matching Send for (stepPath,
	// recordID) has arrived, then returns its payload.
	Receive(from helper.Role, stepPath string, recordID uint64) ([]byte, error)
}
