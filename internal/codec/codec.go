// Package codec converts between in-memory entities and their persisted
// record form. Records are CBOR maps keyed by stable small-integer field
// indices (keyasint tags). Field numbering is append-only: new fields take
// the next unused index, and decoding never fails on records written by an
// older schema — missing fields take their documented defaults and unknown
// future indices are ignored.
package codec

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// SchemaVersion is written into field 0 of every top-level record. It is
// informational: decode behavior is driven by which fields are present,
// not by the version number.
const SchemaVersion = 1

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2) so the same
// logical entity always produces identical bytes. A future sync feature
// depends on this being stable.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Timestamps are persisted as Unix milliseconds. Zero means "not set" and
// decodes to the zero time.

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func decodeError(entity string, err error) error {
	return fmt.Errorf("decode %s record: %w", entity, err)
}

func encodeError(entity string, err error) error {
	return fmt.Errorf("encode %s record: %w", entity, err)
}
