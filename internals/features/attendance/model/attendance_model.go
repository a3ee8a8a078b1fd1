package model

import (
	"time"

	"github.com/google/uuid"
)

// LedgerStatus is the write-time state of an attendance row. It is distinct
// from the present/late/absent classification computed for reports.
type LedgerStatus string

const (
	LedgerPresent LedgerStatus = "present"
	LedgerLeft    LedgerStatus = "left"
	LedgerDenied  LedgerStatus = "denied"
)

// AttendanceModel is one row per (event, user). The first check-in instant
// is written once on insert and never changed afterwards.
type AttendanceModel struct {
	AttendanceEventID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_event_id" json:"eventId"`
	AttendanceUserID  uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_attendances_user;column:attendance_user_id" json:"userId"`

	AttendanceFirstCheckinAt time.Time  `gorm:"not null;column:attendance_first_checkin_at" json:"firstCheckinAt"`
	AttendanceLastCheckinAt  time.Time  `gorm:"not null;column:attendance_last_checkin_at" json:"lastCheckinAt"`
	AttendanceCheckoutAt     *time.Time `gorm:"column:attendance_checkout_at" json:"checkoutAt"`

	AttendanceLastStatus  LedgerStatus `gorm:"type:varchar(16);not null;default:present;column:attendance_last_status" json:"lastStatus"`
	AttendanceSourceLogID *uuid.UUID   `gorm:"type:uuid;column:attendance_source_log_id" json:"sourceLogId"`
}

func (AttendanceModel) TableName() string {
	return "event_attendances"
}
