package engine

import "errors"

// Sentinel errors for lifecycle operations. Together with store.ErrNotFound
// and store.ErrStorage these form the full error taxonomy callers see.
// Use errors.Is() to distinguish them.
var (
	// ErrPolicy indicates a business precondition was not met. The call
	// never reached the analysis service and no state changed.
	ErrPolicy = errors.New("precondition not met")

	// ErrInFlight indicates another call of the same kind is already in
	// flight for this conversation. Concurrent duplicates are a caller
	// bug; the second call is rejected, never queued.
	ErrInFlight = errors.New("operation already in flight")

	// ErrAnalysis indicates the analysis service call failed: network
	// error, timeout, or malformed response. These are indistinguishable
	// by design. The conversation is in the error status with its prior
	// messages, speakers, and analysis preserved.
	ErrAnalysis = errors.New("analysis failed")
)
