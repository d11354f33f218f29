// Package transport implements the capability that unifies stdio-subprocess
// and HTTP JSON-RPC MCP servers behind a single send operation with bounded
// latency. Both variants own OS resources (a subprocess handle or HTTP
// connection state) and release them deterministically via Close.
package transport

import (
	"context"
	"fmt"
	"time"
)

// Transport sends a single JSON-RPC-shaped message under a deadline and
// returns the decoded response payload plus the observed round-trip
// latency. The two variants (stdio, http) are the only implementations;
// this is a capability with one operation, not a general transport
// abstraction.
type Transport interface {
	Send(ctx context.Context, message map[string]interface{}, timeout time.Duration) (map[string]interface{}, time.Duration, error)
	Close() error
}

// Kind enumerates the transport failure taxonomy. These
// are kinds, not distinct Go types, so callers switch on Kind rather than
// type-asserting.
type Kind string

const (
	KindTimeout Kind = "TransportTimeout"
	KindIO      Kind = "TransportIO"
	KindDecode  Kind = "TransportDecode"
)

// Error wraps a transport failure with its kind so the scan runner can
// classify it for the transcript's error field without string matching.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
