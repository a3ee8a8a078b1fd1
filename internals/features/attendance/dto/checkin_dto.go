package dto

import (
	"strings"

	"github.com/google/uuid"

	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	"diemdanh_backend/internals/helpers/instant"
)

/* =======================================================
   POST /checkin
   ======================================================= */

type CheckinRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Method   string `json:"method" validate:"required,oneof=google cccd password"`
	IDToken  string `json:"idToken" validate:"required_if=Method google"`
	CCCD     string `json:"cccd" validate:"required_if=Method cccd"`
	Username string `json:"username" validate:"required_if=Method password"`
	Password string `json:"password" validate:"required_if=Method password"`
}

func (r *CheckinRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	r.IDToken = strings.TrimSpace(r.IDToken)
	r.CCCD = strings.TrimSpace(r.CCCD)
	r.Username = strings.TrimSpace(r.Username)
}

// LogMethod maps the request method onto the stored log method.
func (r *CheckinRequest) LogMethod() attendanceModel.LogMethod {
	switch r.Method {
	case "google":
		return attendanceModel.LogMethodGoogle
	case "cccd":
		return attendanceModel.LogMethodCCCD
	case "password":
		return attendanceModel.LogMethodPassword
	}
	return attendanceModel.LogMethod(r.Method)
}

type CheckinResponse struct {
	OK       bool            `json:"ok"`
	LogID    uuid.UUID       `json:"logId"`
	EventID  uuid.UUID       `json:"eventId"`
	UserID   uuid.UUID       `json:"userId"`
	UserName string          `json:"userName"`
	At       instant.Instant `json:"checkinAt"`
}

type AlreadyCheckedInResponse struct {
	OK             bool            `json:"ok"`
	LogID          uuid.UUID       `json:"logId"`
	FirstCheckinAt instant.Instant `json:"firstCheckinAt"`
	LastCheckinAt  instant.Instant `json:"lastCheckinAt"`
}

/* =======================================================
   Staff reads & writes
   ======================================================= */

// POST /attendances
type SummaryRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
	Summary bool   `json:"summary"`
}

// POST /attendances/events/:id/checkout
type CheckoutRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// POST /attendance-logs
type ManualLogRequest struct {
	EventID         string         `json:"eventId" validate:"required,uuid"`
	UserID          *string        `json:"userId" validate:"omitempty,uuid"`
	Method          string         `json:"method" validate:"required,oneof=google_oauth cccd qr username_password"`
	IdentifierValue string         `json:"identifierValue" validate:"max=255"`
	Success         *bool          `json:"success"` // absent → true
	Reason          string         `json:"reason" validate:"max=40"`
	Meta            map[string]any `json:"meta"`
}
