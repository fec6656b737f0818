// File: pkg/sample/timespec.go
// Package sample
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sample

import "time"

// Timespec is a wall-clock timestamp with explicit second/nanosecond
// fields, matching the wire representation used by the villas.binary and
// json formats (spec.md §6) without losing precision through time.Time's
// monotonic-reading baggage.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Now returns the current wall-clock time as a Timespec.
func Now() Timespec {
	return FromTime(time.Now())
}

// FromTime converts a time.Time to a Timespec.
func FromTime(t time.Time) Timespec {
	return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Time converts a Timespec back to a time.Time (UTC).
func (ts Timespec) Time() time.Time {
	return time.Unix(ts.Sec, ts.Nsec).UTC()
}

// IsZero reports whether ts is the zero Timespec.
func (ts Timespec) IsZero() bool { return ts.Sec == 0 && ts.Nsec == 0 }

// Sub returns ts - other as a time.Duration (used to compute OWD: the
// one-way delay ts.received - ts.origin).
func (ts Timespec) Sub(other Timespec) time.Duration {
	return ts.Time().Sub(other.Time())
}

// Before reports whether ts occurs before other.
func (ts Timespec) Before(other Timespec) bool {
	if ts.Sec != other.Sec {
		return ts.Sec < other.Sec
	}
	return ts.Nsec < other.Nsec
}

// Compare returns -1, 0, or 1 as ts is before, equal to, or after other.
func (ts Timespec) Compare(other Timespec) int {
	switch {
	case ts.Sec < other.Sec, ts.Sec == other.Sec && ts.Nsec < other.Nsec:
		return -1
	case ts == other:
		return 0
	default:
		return 1
	}
}
