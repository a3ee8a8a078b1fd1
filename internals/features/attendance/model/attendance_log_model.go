package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LogMethod string

const (
	LogMethodGoogle   LogMethod = "google_oauth"
	LogMethodCCCD     LogMethod = "cccd"
	LogMethodQR       LogMethod = "qr"
	LogMethodPassword LogMethod = "username_password"
)

func (m LogMethod) Valid() bool {
	switch m {
	case LogMethodGoogle, LogMethodCCCD, LogMethodQR, LogMethodPassword:
		return true
	}
	return false
}

// Machine-readable failure reasons stored on rejected attempts.
const (
	ReasonNotOpenYet          = "not_open_yet"
	ReasonAlreadyClosed       = "already_closed"
	ReasonEventNotOpen        = "event_not_open"
	ReasonAlreadyCheckedIn    = "already_checked_in"
	ReasonUserNotFound        = "user_not_found"
	ReasonUserDisabled        = "user_disabled"
	ReasonAmbiguousIdentifier = "ambiguous_identifier"
	ReasonInvalidIdentifier   = "invalid_identifier"
	ReasonInvalidToken        = "invalid_token"
)

// AttendanceLogModel is an append-only audit row. Rows are never updated.
type AttendanceLogModel struct {
	AttendanceLogID      uuid.UUID  `gorm:"type:uuid;primaryKey;column:attendance_log_id" json:"id"`
	AttendanceLogEventID uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_logs_event_created,priority:1;column:attendance_log_event_id" json:"eventId"`
	AttendanceLogUserID  *uuid.UUID `gorm:"type:uuid;index:idx_attendance_logs_user;column:attendance_log_user_id" json:"userId"`

	AttendanceLogMethod     LogMethod `gorm:"type:varchar(32);not null;column:attendance_log_method" json:"method"`
	AttendanceLogIdentifier *string   `gorm:"type:varchar(255);column:attendance_log_identifier" json:"identifierValue"`
	AttendanceLogSuccess    bool      `gorm:"not null;column:attendance_log_success" json:"success"`
	AttendanceLogReason     *string   `gorm:"type:varchar(40);column:attendance_log_reason" json:"reason"`

	AttendanceLogActorID   *uuid.UUID        `gorm:"type:uuid;column:attendance_log_actor_id" json:"actorId"`
	AttendanceLogSourceIP  *string           `gorm:"type:varchar(64);column:attendance_log_source_ip" json:"sourceIp"`
	AttendanceLogUserAgent *string           `gorm:"type:text;column:attendance_log_user_agent" json:"userAgent"`
	AttendanceLogMeta      datatypes.JSONMap `gorm:"column:attendance_log_meta" json:"meta,omitempty"`

	AttendanceLogCreatedAt time.Time `gorm:"not null;index:idx_attendance_logs_event_created,priority:2;column:attendance_log_created_at" json:"createdAt"`
}

func (AttendanceLogModel) TableName() string {
	return "event_attendance_logs"
}
