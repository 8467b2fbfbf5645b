package ledger

import "time"

// Position orders events within one book. Both fields strictly increase.
type Position struct {
	Seq int64
	At  time.Time
}

// timestampResolution matches what Postgres timestamptz can store.
const timestampResolution = time.Microsecond

// NextPosition returns the position following prev. When the clock has not
// moved past prev.At the timestamp is nudged forward by one resolution step.
func NextPosition(prev Position, now time.Time) Position {
	at := now.UTC().Truncate(timestampResolution)
	if !prev.At.IsZero() && !at.After(prev.At) {
		at = prev.At.Add(timestampResolution)
	}
	return Position{Seq: prev.Seq + 1, At: at}
}
