// Package window decides whether a check-in is admissible at a given instant.
package window

import (
	"time"

	eventModel "diemdanh_backend/internals/features/events/event/model"
	"diemdanh_backend/internals/helpers/instant"
)

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonNotOpenYet    Reason = "not_open_yet"
	ReasonAlreadyClosed Reason = "already_closed"
	ReasonEventNotOpen  Reason = "event_not_open"
)

type Decision struct {
	Admissible bool   `json:"admissible"`
	Reason     Reason `json:"reason,omitempty"`
}

// Check applies the inclusive [open, close] window. An unset bound is unbounded.
func Check(open, close instant.Instant, now time.Time) Decision {
	if open.Valid && now.Before(open.Time) {
		return Decision{Reason: ReasonNotOpenYet}
	}
	if close.Valid && now.After(close.Time) {
		return Decision{Reason: ReasonAlreadyClosed}
	}
	return Decision{Admissible: true}
}

// CheckEvent rejects draft and closed events before looking at the window.
func CheckEvent(ev *eventModel.EventModel, now time.Time) Decision {
	if ev.EventStatus == eventModel.EventStatusDraft || ev.EventStatus == eventModel.EventStatusClosed {
		return Decision{Reason: ReasonEventNotOpen}
	}
	return Check(instant.FromPtr(ev.EventCheckinOpenAt), instant.FromPtr(ev.EventCheckinCloseAt), now)
}
