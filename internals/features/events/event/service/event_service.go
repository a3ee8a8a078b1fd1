// file: internals/features/events/event/service/event_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/events/event/dto"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	eventRepo "diemdanh_backend/internals/features/events/event/repository"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/instant"
	"diemdanh_backend/internals/helpers/logging"
)

const codeMaxLen = 64

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

/* =========================================================
   CREATE
========================================================= */

func (s *EventService) Create(ctx context.Context, req dto.EventRequest, actor *uuid.UUID) (*eventModel.EventModel, error) {
	ev := &eventModel.EventModel{
		EventStatus:    eventModel.EventStatusPublished,
		EventCreatedBy: actor,
	}
	if err := applyRequest(ev, req); err != nil {
		return nil, err
	}
	if ev.EventCode == "" && ev.EventTitle != "" {
		// mã tự sinh từ tiêu đề, không trùng
		code, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "events", "event_code_lower",
			helper.Slugify(ev.EventTitle, codeMaxLen), codeMaxLen)
		if err != nil {
			return nil, err
		}
		ev.EventCode, ev.EventCodeLower = code, code
	}
	if err := validateEvent(ev); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, ev.EventCodeLower, uuid.Nil); err != nil {
		return nil, err
	}
	if err := eventRepo.CreateEvent(ctx, s.DB, ev); err != nil {
		return nil, writeError(err)
	}
	logging.Ctx(ctx).Info().Str("event", ev.EventCode).Msg("📅 event created")
	return ev, nil
}

/* =========================================================
   UPDATE (partial)
========================================================= */

func (s *EventService) Update(ctx context.Context, id uuid.UUID, req dto.EventRequest) (*eventModel.EventModel, error) {
	ev, err := eventRepo.FindEventByID(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Không tìm thấy sự kiện")
		}
		return nil, err
	}
	if err := applyRequest(ev, req); err != nil {
		return nil, err
	}
	if err := validateEvent(ev); err != nil {
		return nil, err
	}
	if req.Code != nil {
		if err := s.ensureCodeFree(ctx, ev.EventCodeLower, ev.EventID); err != nil {
			return nil, err
		}
	}
	if err := eventRepo.SaveEvent(ctx, s.DB, ev); err != nil {
		return nil, writeError(err)
	}
	return ev, nil
}

/* =========================================================
   DELETE (cascade)
========================================================= */

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) (eventRepo.DeleteResult, error) {
	res, err := eventRepo.DeleteEventCascade(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, apperr.NotFound("Không tìm thấy sự kiện")
	}
	if err != nil {
		return res, fmt.Errorf("delete event: %w", err)
	}
	logging.Ctx(ctx).Info().
		Str("event_id", id.String()).
		Int64("attendances", res.Attendances).
		Int64("logs", res.Logs).
		Msg("🗑️ event deleted")
	return res, nil
}

/* =========================================================
   Helpers
========================================================= */

func (s *EventService) ensureCodeFree(ctx context.Context, codeLower string, self uuid.UUID) error {
	taken, err := eventRepo.CodeTaken(ctx, s.DB, codeLower, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("Mã sự kiện đã tồn tại")
	}
	return nil
}

func applyRequest(ev *eventModel.EventModel, req dto.EventRequest) error {
	if req.Code != nil {
		ev.EventCode = *req.Code
		ev.EventCodeLower = strings.ToLower(*req.Code)
	}
	if req.Title != nil {
		ev.EventTitle = *req.Title
	}
	if req.Status != nil && *req.Status != "" {
		ev.EventStatus = eventModel.EventStatus(*req.Status)
	}
	if req.URL != nil {
		ev.EventURL = nil
		if *req.URL != "" {
			u := *req.URL
			ev.EventURL = &u
		}
	}

	if len(req.StartAt) > 0 {
		i, err := requiredInstant(req.StartAt, "startAt")
		if err != nil {
			return err
		}
		ev.EventStartAt = i.Time
	}
	if len(req.EndAt) > 0 {
		i, err := requiredInstant(req.EndAt, "endAt")
		if err != nil {
			return err
		}
		ev.EventEndAt = i.Time
	}
	if len(req.CheckinOpenAt) > 0 {
		i, err := instant.Parse(req.CheckinOpenAt)
		if err != nil {
			return apperr.Validation("checkinOpenAt không hợp lệ")
		}
		ev.EventCheckinOpenAt = i.Ptr()
	}
	if len(req.CheckinCloseAt) > 0 {
		i, err := instant.Parse(req.CheckinCloseAt)
		if err != nil {
			return apperr.Validation("checkinCloseAt không hợp lệ")
		}
		ev.EventCheckinCloseAt = i.Ptr()
	}
	return nil
}

func requiredInstant(raw json.RawMessage, field string) (instant.Instant, error) {
	i, err := instant.Parse(raw)
	if err != nil {
		return i, apperr.Validation(field + " không hợp lệ")
	}
	if !i.Valid {
		return i, apperr.Validation(field + " là bắt buộc")
	}
	return i, nil
}

func validateEvent(ev *eventModel.EventModel) error {
	switch {
	case ev.EventCode == "":
		return apperr.Validation("Mã sự kiện là bắt buộc")
	case ev.EventTitle == "":
		return apperr.Validation("Tên sự kiện là bắt buộc")
	case ev.EventStartAt.IsZero() || ev.EventEndAt.IsZero():
		return apperr.Validation("Thời gian bắt đầu và kết thúc là bắt buộc")
	case !ev.EventEndAt.After(ev.EventStartAt):
		return apperr.Validation("Thời gian kết thúc phải sau thời gian bắt đầu")
	}
	open, closeAt := ev.EventCheckinOpenAt, ev.EventCheckinCloseAt
	if open != nil && closeAt != nil && !closeAt.After(*open) {
		return apperr.Validation("Giờ đóng điểm danh phải sau giờ mở")
	}
	return nil
}

// writeError turns a unique violation that slipped past the pre-check into 409.
func writeError(err error) error {
	if apperr.IsDuplicateKey(err) {
		return apperr.Conflict("Mã sự kiện đã tồn tại")
	}
	return err
}
