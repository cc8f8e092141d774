package engine

import (
	"fmt"
	"sync"
)

const (
	opIdentify = "identify"
	opAnalyze  = "analyze"
)

// flightSet tracks which conversations currently have an analysis service
// call in flight, keyed by operation and conversation id. A second acquire
// for the same key is rejected immediately rather than queued.
type flightSet struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newFlightSet() *flightSet {
	return &flightSet{inflight: make(map[string]struct{})}
}

// acquire claims the slot for op on the given conversation. The returned
// release function must be called exactly once, typically via defer.
func (f *flightSet) acquire(op, id string) (func(), error) {
	key := op + "/" + id
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.inflight[key]; busy {
		return nil, fmt.Errorf("%w: %s on conversation %s", ErrInFlight, op, id)
	}
	f.inflight[key] = struct{}{}
	release := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.inflight, key)
	}
	return release, nil
}
