// file: internals/features/events/event/controller/event_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/events/event/dto"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	eventRepo "diemdanh_backend/internals/features/events/event/repository"
	"diemdanh_backend/internals/features/events/event/service"
	"diemdanh_backend/internals/features/events/window"
	helper "diemdanh_backend/internals/helpers"
)

type EventController struct {
	DB  *gorm.DB
	Svc *service.EventService
	Now func() time.Time
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{DB: db, Svc: service.NewEventService(db), Now: time.Now}
}

/* =========================================================
   PUBLIC
========================================================= */

// GET /events/by-code/:code
func (ec *EventController) GetByCode(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Thiếu mã sự kiện")
	}
	ev, err := eventRepo.FindEventByCode(c.UserContext(), ec.DB, code)
	if err != nil {
		return notFoundOr(c, err)
	}
	return helper.JsonOK(c, "ok", dto.PublicEventResponse{
		Event:  ev,
		Window: window.CheckEvent(ev, ec.Now()),
	})
}

/* =========================================================
   STAFF
========================================================= */

// GET /events?status=&q=&page=&per_page=
func (ec *EventController) List(c *fiber.Ctx) error {
	f := eventRepo.ListFilter{Query: c.Query("q")}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		switch eventModel.EventStatus(s) {
		case eventModel.EventStatusDraft, eventModel.EventStatusPublished, eventModel.EventStatusClosed:
			f.Status = eventModel.EventStatus(s)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "status không hợp lệ")
		}
	}

	p := helper.ResolvePaging(c, helper.DefaultOpts)
	rows, total, err := eventRepo.ListEvents(c.UserContext(), ec.DB, f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Danh sách sự kiện", rows, helper.BuildPagination(total, p))
}

// GET /events/:id
func (ec *EventController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ev, err := eventRepo.FindEventByID(c.UserContext(), ec.DB, id)
	if err != nil {
		return notFoundOr(c, err)
	}
	return helper.JsonOK(c, "ok", ev)
}

/* =========================================================
   ADMIN
========================================================= */

// POST /events
func (ec *EventController) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	ev, err := ec.Svc.Create(c.UserContext(), req, helper.ActorID(c))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Đã tạo sự kiện", ev)
}

// PUT /events/:id
func (ec *EventController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EventRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.ValidationError(c, err)
	}
	ev, err := ec.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Đã cập nhật sự kiện", ev)
}

// DELETE /events/:id
func (ec *EventController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	res, err := ec.Svc.Delete(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Đã xoá sự kiện", res)
}

func notFoundOr(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Không tìm thấy sự kiện")
	}
	return helper.JsonAppError(c, err)
}
