// Package classifier turns a recorded check-in into a report status.
// Nothing here is stored; it is evaluated at read time.
package classifier

import "diemdanh_backend/internals/helpers/instant"

type Status string

const (
	Present Status = "present"
	Late    Status = "late"
	Absent  Status = "absent"
)

// Classify compares the check-in against the event end.
// A check-in exactly at the end is reported absent.
// start is unused: the start+grace boundary was superseded by end.
func Classify(checkIn, start, end instant.Instant) Status {
	_ = start
	switch {
	case !checkIn.Valid:
		return Absent
	case !end.Valid:
		return Present
	case checkIn.Before(end):
		return Present
	case checkIn.After(end):
		return Late
	default:
		return Absent
	}
}
