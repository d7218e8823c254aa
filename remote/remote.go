// Package remote defines the second cache tier: a shared out-of-process
// byte store reachable over the network.
//
// Implementations must be byte-for-byte transparent: Get returns exactly
// the []byte previously passed to Set for the same key, with no metadata
// added and no re-encoding. Every operation is independently fallible;
// failures are reported so that errors.Is(err, ErrUnavailable) holds, never
// conflated with "key absent".
//
// Nop is the null object used when no remote tier is configured. It reports
// ErrUnavailable from every method, so the orchestrator's fallback path is
// identical whether the tier is absent or down.
package remote

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks the remote tier as absent or unreachable.
// Callers are expected to degrade to local-only behavior.
var ErrUnavailable = errors.New("remote: tier unavailable")

// Remote is the contract for the second tier.
// A ttl of 0 stores without expiry; implementations never apply a default.
type Remote interface {
	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetXX stores value only if the key already exists.
	// Returns whether the write was applied.
	SetXX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// SetNX stores value only if the key does not exist.
	// Returns whether the write was applied.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Del removes a key. Returns whether the key existed.
	Del(ctx context.Context, key string) (bool, error)

	// Exists reports whether the key exists.
	Exists(ctx context.Context, key string) (bool, error)
}

// Nop is a Remote with no backing store; every method reports ErrUnavailable.
type Nop struct{}

var _ Remote = Nop{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrUnavailable
}

func (Nop) Set(context.Context, string, []byte, time.Duration) error {
	return ErrUnavailable
}

func (Nop) SetXX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, ErrUnavailable
}

func (Nop) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, ErrUnavailable
}

func (Nop) Del(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

func (Nop) Exists(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}

// opError wraps a failed remote operation so that errors.Is matches both
// ErrUnavailable and the underlying cause.
type opError struct {
	op  string
	err error
}

func (e *opError) Error() string {
	return "remote: " + e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() []error {
	return []error{ErrUnavailable, e.err}
}

func unavailable(op string, err error) error {
	return &opError{op: op, err: err}
}
