package transaction

import (
	"time"
)

// DefaultDeadline is the deadline offset used when none is given.
const DefaultDeadline = time.Hour

// NemesisTimestamp is the network epoch, deadlines are counted in
// milliseconds since it.
var NemesisTimestamp = time.Date(2016, time.April, 1, 0, 0, 0, 0, time.UTC)

// Deadline is the time a transaction must be included into a block before.
type Deadline struct {
	time.Time
}

// NewDeadline returns a deadline d from now.
func NewDeadline(d time.Duration) Deadline {
	return Deadline{time.Now().Add(d).Truncate(time.Millisecond).UTC()}
}

// NewDefaultDeadline returns a deadline DefaultDeadline from now.
func NewDefaultDeadline() Deadline {
	return NewDeadline(DefaultDeadline)
}

// NewDeadlineFromTimestamp returns a deadline of ms milliseconds since
// NemesisTimestamp.
func NewDeadlineFromTimestamp(ms uint64) Deadline {
	return Deadline{time.UnixMilli(NemesisTimestamp.UnixMilli() + int64(ms)).UTC()}
}

// Timestamp returns milliseconds elapsed since NemesisTimestamp, zero for
// earlier or unset deadlines.
func (d Deadline) Timestamp() uint64 {
	if d.IsZero() || d.Before(NemesisTimestamp) {
		return 0
	}
	return uint64(d.UnixMilli() - NemesisTimestamp.UnixMilli())
}
