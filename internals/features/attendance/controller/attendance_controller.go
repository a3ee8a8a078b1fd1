// file: internals/features/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/attendance/checkinlog"
	"diemdanh_backend/internals/features/attendance/dto"
	"diemdanh_backend/internals/features/attendance/ledger"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	"diemdanh_backend/internals/features/attendance/report"
	"diemdanh_backend/internals/features/attendance/service"
	eventRepo "diemdanh_backend/internals/features/events/event/repository"
	helper "diemdanh_backend/internals/helpers"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/instant"
	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/metrics"
)

type AttendanceController struct {
	DB       *gorm.DB
	Checkins *service.CheckinService
	Reports  *report.Aggregator
	Ledger   *ledger.Ledger
	Log      *checkinlog.Log
	Now      func() time.Time
}

func NewAttendanceController(db *gorm.DB, checkins *service.CheckinService) *AttendanceController {
	return &AttendanceController{
		DB:       db,
		Checkins: checkins,
		Reports:  report.New(db),
		Ledger:   ledger.New(db),
		Log:      checkinlog.New(db),
		Now:      time.Now,
	}
}

/* =========================================================
   POST /checkin (public)
========================================================= */

func (ctl *AttendanceController) Checkin(c *fiber.Ctx) error {
	var req dto.CheckinRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Checkins.Checkin(c.UserContext(), req, service.Meta{
		ActorID:   helper.ActorID(c),
		SourceIP:  c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})
	if errors.Is(err, apperr.ErrConflict) && res != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success":        false,
			"message":        apperr.Message(err),
			"error_code":     "CONFLICT",
			"ok":             false,
			"logId":          res.LogID,
			"firstCheckinAt": res.FirstCheckinAt,
			"lastCheckinAt":  res.LastCheckinAt,
			"data": dto.AlreadyCheckedInResponse{
				OK:             false,
				LogID:          res.LogID,
				FirstCheckinAt: res.FirstCheckinAt,
				LastCheckinAt:  res.LastCheckinAt,
			},
		})
	}
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Điểm danh thành công",
		"ok":      true,
		"logId":   res.LogID,
		"data": dto.CheckinResponse{
			OK:       true,
			LogID:    res.LogID,
			EventID:  res.Event.EventID,
			UserID:   res.User.UserID,
			UserName: res.User.UserName,
			At:       res.FirstCheckinAt,
		},
	})
}

/* =========================================================
   POST /attendances  {eventId, summary}
========================================================= */

func (ctl *AttendanceController) Attendances(c *fiber.Ctx) error {
	var req dto.SummaryRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	eventID := uuid.MustParse(req.EventID)

	if req.Summary {
		started := time.Now()
		rows, err := ctl.Reports.LedgerSummary(c.UserContext(), eventID)
		metrics.RecordReport("ledger_summary", time.Since(started))
		if err != nil {
			return reportError(c, err)
		}
		return helper.JsonOK(c, "Tổng hợp điểm danh", rows)
	}
	return helper.JsonError(c, fiber.StatusBadRequest, "Thao tác không được hỗ trợ")
}

// GET /attendances/events/:id/report
func (ctl *AttendanceController) EventReport(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	return ctl.summarize(c, eventID)
}

func (ctl *AttendanceController) summarize(c *fiber.Ctx, eventID uuid.UUID) error {
	started := time.Now()
	sum, err := ctl.Reports.Summarize(c.UserContext(), eventID)
	metrics.RecordReport("event_summary", time.Since(started))
	if err != nil {
		return reportError(c, err)
	}
	return helper.JsonOK(c, "Báo cáo điểm danh", sum)
}

// GET /attendances/users/:uid/history
func (ctl *AttendanceController) UserHistory(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "uid")
	if err != nil {
		return err
	}
	started := time.Now()
	h, err := ctl.Reports.UserHistory(c.UserContext(), userID)
	metrics.RecordReport("user_history", time.Since(started))
	if err != nil {
		return reportError(c, err)
	}
	return helper.JsonOK(c, "Lịch sử điểm danh", h)
}

func reportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, report.ErrEventNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy sự kiện")
	case errors.Is(err, report.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy người dùng")
	}
	return helper.JsonAppError(c, err)
}

/* =========================================================
   GET /attendances/events/:id/logs
   ?success=true|false&method=cccd&user_id=...&page=&per_page=
========================================================= */

func (ctl *AttendanceController) EventLogs(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var f checkinlog.Filter
	if raw := strings.TrimSpace(c.Query("success")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "success phải là true hoặc false")
		}
		f.Success = &b
	}
	if raw := strings.TrimSpace(c.Query("method")); raw != "" {
		m := attendanceModel.LogMethod(strings.ToLower(raw))
		if !m.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "method không hợp lệ")
		}
		f.Method = m
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "user_id không hợp lệ")
		}
		f.UserID = &uid
	}

	if _, err := eventRepo.FindEventByID(c.UserContext(), ctl.DB, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy sự kiện")
		}
		return helper.JsonAppError(c, err)
	}

	p := helper.ResolvePaging(c, helper.AuditOpts)
	rows, total, err := ctl.Log.ListForEvent(c.UserContext(), eventID, f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Nhật ký điểm danh", rows, helper.BuildPagination(total, p))
}

/* =========================================================
   POST /attendances/events/:id/checkout
========================================================= */

func (ctl *AttendanceController) Checkout(c *fiber.Ctx) error {
	eventID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.Ledger.RecordCheckout(c.UserContext(), eventID, uuid.MustParse(req.UserID), ctl.Now().UTC())
	if err != nil {
		if errors.Is(err, ledger.ErrNotCheckedIn) {
			return helper.JsonError(c, fiber.StatusNotFound, "Người dùng chưa điểm danh sự kiện này")
		}
		return helper.JsonAppError(c, err)
	}
	logging.Ctx(c.UserContext()).Info().
		Str("event_id", eventID.String()).
		Str("user_id", req.UserID).
		Msg("👋 checkout recorded")
	return helper.JsonUpdated(c, "Đã ghi nhận rời sự kiện", row)
}

/* =========================================================
   POST /attendance-logs (manual audit entry)
========================================================= */

func (ctl *AttendanceController) CreateLog(c *fiber.Ctx) error {
	var req dto.ManualLogRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	eventID := uuid.MustParse(req.EventID)

	if _, err := eventRepo.FindEventByID(c.UserContext(), ctl.DB, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy sự kiện")
		}
		return helper.JsonAppError(c, err)
	}

	entry := checkinlog.Entry{
		EventID:    eventID,
		Method:     attendanceModel.LogMethod(req.Method),
		Identifier: req.IdentifierValue,
		Success:    req.Success == nil || *req.Success,
		Reason:     req.Reason,
		ActorID:    helper.ActorID(c),
		SourceIP:   c.IP(),
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		Meta:       req.Meta,
		At:         ctl.Now().UTC(),
	}
	if req.UserID != nil {
		uid := uuid.MustParse(*req.UserID)
		entry.UserID = &uid
	}

	id, err := ctl.Log.Append(c.UserContext(), nil, entry)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Đã ghi nhật ký", fiber.Map{"id": id, "createdAt": instant.Of(entry.At)})
}
