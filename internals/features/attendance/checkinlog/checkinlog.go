// Package checkinlog appends and reads the per-event audit trail of check-in attempts.
package checkinlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	"diemdanh_backend/internals/helpers/nationalid"
)

// Entry is one attempt. ID may be pre-generated so the ledger can reference it.
type Entry struct {
	ID         uuid.UUID
	EventID    uuid.UUID
	UserID     *uuid.UUID
	Method     attendanceModel.LogMethod
	Identifier string
	Success    bool
	Reason     string
	ActorID    *uuid.UUID
	SourceIP   string
	UserAgent  string
	Meta       map[string]any
	At         time.Time
}

type Log struct {
	DB  *gorm.DB
	Now func() time.Time
}

func New(db *gorm.DB) *Log {
	return &Log{DB: db, Now: time.Now}
}

// Append writes exactly one row. tx may be nil to use the log's own handle.
func (l *Log) Append(ctx context.Context, tx *gorm.DB, e Entry) (uuid.UUID, error) {
	if tx == nil {
		tx = l.DB
	}
	if !e.Method.Valid() {
		return uuid.Nil, fmt.Errorf("checkinlog: unknown method %q", e.Method)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = l.Now()
	}

	row := attendanceModel.AttendanceLogModel{
		AttendanceLogID:         e.ID,
		AttendanceLogEventID:    e.EventID,
		AttendanceLogUserID:     e.UserID,
		AttendanceLogMethod:     e.Method,
		AttendanceLogIdentifier: optional(MaskIdentifier(e.Method, e.Identifier)),
		AttendanceLogSuccess:    e.Success,
		AttendanceLogReason:     optional(e.Reason),
		AttendanceLogActorID:    e.ActorID,
		AttendanceLogSourceIP:   optional(e.SourceIP),
		AttendanceLogUserAgent:  optional(e.UserAgent),
		AttendanceLogCreatedAt:  e.At.UTC(),
	}
	if len(e.Meta) > 0 {
		row.AttendanceLogMeta = datatypes.JSONMap(e.Meta)
	}

	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		return uuid.Nil, fmt.Errorf("append log: %w", err)
	}
	return row.AttendanceLogID, nil
}

type Filter struct {
	Success *bool
	Method  attendanceModel.LogMethod
	UserID  *uuid.UUID
}

// ListForEvent returns newest first with the unpaged total.
func (l *Log) ListForEvent(ctx context.Context, eventID uuid.UUID, f Filter, offset, limit int) ([]attendanceModel.AttendanceLogModel, int64, error) {
	q := l.DB.WithContext(ctx).
		Model(&attendanceModel.AttendanceLogModel{}).
		Where("attendance_log_event_id = ?", eventID)
	if f.Success != nil {
		q = q.Where("attendance_log_success = ?", *f.Success)
	}
	if f.Method != "" {
		q = q.Where("attendance_log_method = ?", f.Method)
	}
	if f.UserID != nil {
		q = q.Where("attendance_log_user_id = ?", *f.UserID)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []attendanceModel.AttendanceLogModel
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Order("attendance_log_created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteForEvent is used by the event cascade; tx must be the caller's transaction.
func DeleteForEvent(tx *gorm.DB, eventID uuid.UUID) (int64, error) {
	res := tx.Where("attendance_log_event_id = ?", eventID).Delete(&attendanceModel.AttendanceLogModel{})
	return res.RowsAffected, res.Error
}

// MaskIdentifier keeps only the last four digits of a national ID.
// Emails and usernames are stored as presented.
func MaskIdentifier(m attendanceModel.LogMethod, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if m == attendanceModel.LogMethodCCCD {
		return nationalid.Mask(raw)
	}
	return raw
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
