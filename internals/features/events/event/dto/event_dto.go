package dto

import (
	"encoding/json"
	"strings"

	eventModel "diemdanh_backend/internals/features/events/event/model"
	"diemdanh_backend/internals/features/events/window"
)

// EventRequest serves both create and partial update. Absent fields are left
// untouched on update; an explicit null clears the check-in bounds.
type EventRequest struct {
	Code           *string         `json:"code" validate:"omitempty,max=64"`
	Title          *string         `json:"title" validate:"omitempty,max=200"`
	StartAt        json.RawMessage `json:"startAt"`
	EndAt          json.RawMessage `json:"endAt"`
	CheckinOpenAt  json.RawMessage `json:"checkinOpenAt"`
	CheckinCloseAt json.RawMessage `json:"checkinCloseAt"`
	Status         *string         `json:"status" validate:"omitempty,oneof=draft published closed"`
	URL            *string         `json:"url" validate:"omitempty,max=2048"`
}

func (r *EventRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.Code)
	trim(r.Title)
	trim(r.URL)
	if r.Status != nil {
		*r.Status = strings.ToLower(strings.TrimSpace(*r.Status))
	}
}

// PublicEventResponse is what the check-in page needs before submitting.
type PublicEventResponse struct {
	Event  *eventModel.EventModel `json:"event"`
	Window window.Decision        `json:"window"`
}
