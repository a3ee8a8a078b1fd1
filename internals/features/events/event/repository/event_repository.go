// internals/features/events/event/repository/event_repository.go
package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/attendance/checkinlog"
	"diemdanh_backend/internals/features/attendance/ledger"
	eventModel "diemdanh_backend/internals/features/events/event/model"
)

/* ====================== READ ====================== */

func FindEventByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	if err := db.WithContext(ctx).Where("event_id = ?", id).Take(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindEventByCode matches case-insensitively through event_code_lower.
func FindEventByCode(ctx context.Context, db *gorm.DB, code string) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	err := db.WithContext(ctx).
		Where("event_code_lower = ?", strings.ToLower(strings.TrimSpace(code))).
		Take(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

type ListFilter struct {
	Status eventModel.EventStatus
	Query  string
}

// ListEvents is ordered by start time, newest first.
func ListEvents(ctx context.Context, db *gorm.DB, f ListFilter, offset, limit int) ([]eventModel.EventModel, int64, error) {
	q := db.WithContext(ctx).Model(&eventModel.EventModel{})
	if f.Status != "" {
		q = q.Where("event_status = ?", f.Status)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("event_code_lower LIKE ? OR LOWER(event_title) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []eventModel.EventModel
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	err := q.Order("event_start_at DESC").Find(&out).Error
	return out, total, err
}

func CodeTaken(ctx context.Context, db *gorm.DB, codeLower string, self uuid.UUID) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(&eventModel.EventModel{}).Where("event_code_lower = ?", codeLower)
	if self != uuid.Nil {
		q = q.Where("event_id <> ?", self)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* ====================== WRITE ====================== */

func CreateEvent(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel) error {
	return db.WithContext(ctx).Create(ev).Error
}

func SaveEvent(ctx context.Context, db *gorm.DB, ev *eventModel.EventModel) error {
	return db.WithContext(ctx).Save(ev).Error
}

type DeleteResult struct {
	Attendances int64 `json:"attendances"`
	Logs        int64 `json:"logs"`
}

// DeleteEventCascade removes the event with its attendances and logs in one transaction.
// Returns gorm.ErrRecordNotFound when the event does not exist.
func DeleteEventCascade(ctx context.Context, db *gorm.DB, id uuid.UUID) (DeleteResult, error) {
	var out DeleteResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if out.Attendances, err = ledger.DeleteForEvent(tx, id); err != nil {
			return err
		}
		if out.Logs, err = checkinlog.DeleteForEvent(tx, id); err != nil {
			return err
		}
		res := tx.Where("event_id = ?", id).Delete(&eventModel.EventModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return out, err
}
