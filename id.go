package docchat

import (
	"time"

	"github.com/google/uuid"
)

// NewID generates a globally unique, time-sortable UUIDv7 (RFC 9562)
// for session and message identifiers.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRecordKey generates a random UUIDv4 key for an index record.
// Record keys deliberately carry no ordering: the remote index does not
// preserve document order and keys must not suggest otherwise.
func NewRecordKey() string {
	return uuid.NewString()
}

// NowUnix returns current time as Unix seconds.
func NowUnix() int64 {
	return time.Now().Unix()
}
