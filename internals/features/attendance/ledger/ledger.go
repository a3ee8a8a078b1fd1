// Package ledger owns the one-row-per-(event, user) attendance table.
//
// The first successful check-in for a pair is recorded exactly once; later
// attempts observe the stored row and never modify it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	"diemdanh_backend/internals/helpers/instant"
)

type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeAlreadyCheckedIn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyCheckedIn:
		return "already_checked_in"
	}
	return "unknown"
}

var ErrNotCheckedIn = errors.New("no check-in recorded for this user")

type Result struct {
	Outcome        Outcome
	FirstCheckinAt instant.Instant
	LastCheckinAt  instant.Instant
	Row            attendanceModel.AttendanceModel
}

type Ledger struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// WithTx runs fn inside one transaction on the ledger's database.
func (l *Ledger) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return l.DB.WithContext(ctx).Transaction(fn)
}

/* =========================================================
   Check-in
========================================================= */

// RecordCheckin inserts the (event, user) row unless one exists. When tx is
// nil a transaction is opened for the call.
func (l *Ledger) RecordCheckin(ctx context.Context, tx *gorm.DB, eventID, userID, logID uuid.UUID, at time.Time) (Result, error) {
	if tx == nil {
		var res Result
		err := l.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			res, err = l.RecordCheckin(ctx, tx, eventID, userID, logID, at)
			return err
		})
		return res, err
	}

	at = at.UTC()
	row := attendanceModel.AttendanceModel{
		AttendanceEventID:        eventID,
		AttendanceUserID:         userID,
		AttendanceFirstCheckinAt: at,
		AttendanceLastCheckinAt:  at,
		AttendanceLastStatus:     attendanceModel.LedgerPresent,
	}
	if logID != uuid.Nil {
		row.AttendanceSourceLogID = &logID
	}

	ins := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if ins.Error != nil {
		return Result{}, fmt.Errorf("insert attendance: %w", ins.Error)
	}

	outcome := OutcomeCreated
	if ins.RowsAffected == 0 {
		outcome = OutcomeAlreadyCheckedIn
	}

	var stored attendanceModel.AttendanceModel
	if err := tx.WithContext(ctx).
		Where("attendance_event_id = ? AND attendance_user_id = ?", eventID, userID).
		Take(&stored).Error; err != nil {
		return Result{}, fmt.Errorf("read attendance: %w", err)
	}

	return Result{
		Outcome:        outcome,
		FirstCheckinAt: instant.Of(stored.AttendanceFirstCheckinAt),
		LastCheckinAt:  instant.Of(stored.AttendanceLastCheckinAt),
		Row:            stored,
	}, nil
}

/* =========================================================
   Check-out
========================================================= */

// RecordCheckout marks an existing row as left. The first check-in is untouched.
func (l *Ledger) RecordCheckout(ctx context.Context, eventID, userID uuid.UUID, at time.Time) (*attendanceModel.AttendanceModel, error) {
	var out attendanceModel.AttendanceModel
	err := l.WithTx(ctx, func(tx *gorm.DB) error {
		var row attendanceModel.AttendanceModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("attendance_event_id = ? AND attendance_user_id = ?", eventID, userID).
			Take(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotCheckedIn
			}
			return err
		}

		at := at.UTC()
		if err := tx.Model(&attendanceModel.AttendanceModel{}).
			Where("attendance_event_id = ? AND attendance_user_id = ?", eventID, userID).
			Updates(map[string]any{
				"attendance_checkout_at": at,
				"attendance_last_status": attendanceModel.LedgerLeft,
			}).Error; err != nil {
			return err
		}
		row.AttendanceCheckoutAt = &at
		row.AttendanceLastStatus = attendanceModel.LedgerLeft
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   Reads
========================================================= */

func (l *Ledger) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]attendanceModel.AttendanceModel, error) {
	var rows []attendanceModel.AttendanceModel
	err := l.DB.WithContext(ctx).
		Where("attendance_event_id = ?", eventID).
		Order("attendance_first_checkin_at ASC").
		Find(&rows).Error
	return rows, err
}

func (l *Ledger) ListForUser(ctx context.Context, userID uuid.UUID) ([]attendanceModel.AttendanceModel, error) {
	var rows []attendanceModel.AttendanceModel
	err := l.DB.WithContext(ctx).
		Where("attendance_user_id = ?", userID).
		Order("attendance_first_checkin_at DESC").
		Find(&rows).Error
	return rows, err
}

// DeleteForEvent is used by the event cascade; tx must be the caller's transaction.
func DeleteForEvent(tx *gorm.DB, eventID uuid.UUID) (int64, error) {
	res := tx.Where("attendance_event_id = ?", eventID).Delete(&attendanceModel.AttendanceModel{})
	return res.RowsAffected, res.Error
}

// DeleteForUser drops every attendance row of a removed user.
func DeleteForUser(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	res := tx.Where("attendance_user_id = ?", userID).Delete(&attendanceModel.AttendanceModel{})
	return res.RowsAffected, res.Error
}
