package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusClosed    EventStatus = "closed"
)

type EventModel struct {
	EventID uuid.UUID `gorm:"type:uuid;primaryKey;column:event_id" json:"id"`

	EventCode      string `gorm:"type:varchar(64);not null;column:event_code" json:"code"`
	EventCodeLower string `gorm:"type:varchar(64);not null;uniqueIndex:uq_events_code_lower;column:event_code_lower" json:"-"`
	EventTitle     string `gorm:"type:varchar(200);not null;column:event_title" json:"title"`

	// Used by the present/late/absent classification.
	EventStartAt time.Time `gorm:"not null;index:idx_events_start_at;column:event_start_at" json:"startAt"`
	EventEndAt   time.Time `gorm:"not null;column:event_end_at" json:"endAt"`

	// nil = unbounded on that side.
	EventCheckinOpenAt  *time.Time `gorm:"column:event_checkin_open_at" json:"checkinOpenAt"`
	EventCheckinCloseAt *time.Time `gorm:"column:event_checkin_close_at" json:"checkinCloseAt"`

	EventStatus    EventStatus `gorm:"type:varchar(16);not null;default:published;column:event_status" json:"status"`
	EventURL       *string     `gorm:"type:text;column:event_url" json:"url"`
	EventCreatedBy *uuid.UUID  `gorm:"type:uuid;column:event_created_by" json:"createdBy"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"createdAt"`
	EventUpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"updatedAt"`
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
