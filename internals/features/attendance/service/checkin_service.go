// file: internals/features/attendance/service/checkin_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"diemdanh_backend/internals/configs"
	"diemdanh_backend/internals/features/attendance/checkinlog"
	"diemdanh_backend/internals/features/attendance/dto"
	"diemdanh_backend/internals/features/attendance/identity"
	"diemdanh_backend/internals/features/attendance/ledger"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	eventRepo "diemdanh_backend/internals/features/events/event/repository"
	"diemdanh_backend/internals/features/events/window"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/instant"
	"diemdanh_backend/internals/helpers/logging"
	"diemdanh_backend/internals/helpers/metrics"
)

// TokenVerifier checks an identity-provider ID token and returns its verified email.
type TokenVerifier interface {
	VerifyEmail(ctx context.Context, idToken string) (string, error)
}

var ErrInvalidToken = errors.New("invalid id token")

// Meta is request context copied onto the log entry.
type Meta struct {
	ActorID   *uuid.UUID
	SourceIP  string
	UserAgent string
}

type Result struct {
	LogID          uuid.UUID
	Outcome        ledger.Outcome
	Event          *eventModel.EventModel
	User           *userModel.UserModel
	FirstCheckinAt instant.Instant
	LastCheckinAt  instant.Instant
}

type CheckinService struct {
	DB       *gorm.DB
	Resolver *identity.Resolver
	Ledger   *ledger.Ledger
	Log      *checkinlog.Log
	Verifier TokenVerifier
	Now      func() time.Time
}

func NewCheckinService(db *gorm.DB, resolver *identity.Resolver, verifier TokenVerifier) *CheckinService {
	return &CheckinService{
		DB:       db,
		Resolver: resolver,
		Ledger:   ledger.New(db),
		Log:      checkinlog.New(db),
		Verifier: verifier,
		Now:      time.Now,
	}
}

/* =========================================================
   CHECK-IN
========================================================= */

// Checkin admits or rejects one attempt and writes exactly one log entry
// once the event is known. A repeat attempt returns the stored instants
// together with an ErrConflict error.
func (s *CheckinService) Checkin(ctx context.Context, req dto.CheckinRequest, meta Meta) (*Result, error) {
	started := time.Now()
	method := req.LogMethod()
	outcome := "error"
	defer func() { metrics.RecordCheckin(string(method), outcome, time.Since(started)) }()

	now := s.Now().UTC()
	log := logging.Ctx(ctx)

	ev, err := eventRepo.FindEventByCode(ctx, s.DB, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome = "event_not_found"
			return nil, apperr.NotFound("Không tìm thấy sự kiện")
		}
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	identifier := presentedIdentifier(req)

	if d := window.CheckEvent(ev, now); !d.Admissible {
		outcome = string(d.Reason)
		s.appendFailure(ctx, ev.EventID, nil, method, identifier, string(d.Reason), meta, now)
		log.Info().Str("event", ev.EventCode).Str("reason", string(d.Reason)).Msg("⛔ check-in outside window")
		return nil, apperr.New(apperr.ErrForbiddenByWindow, windowMessage(d.Reason))
	}

	user, identifier, err := s.resolve(ctx, req, identifier)
	if err != nil {
		reason, appErr := classifyIdentityError(err)
		if reason == "" {
			return nil, fmt.Errorf("resolve identity: %w", err)
		}
		outcome = reason
		var userID *uuid.UUID
		if user != nil {
			userID = &user.UserID
		}
		s.appendFailure(ctx, ev.EventID, userID, method, identifier, reason, meta, now)
		return nil, appErr
	}

	logID := uuid.New()
	var lr ledger.Result
	err = s.Ledger.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		lr, err = s.Ledger.RecordCheckin(ctx, tx, ev.EventID, user.UserID, logID, now)
		if err != nil {
			return err
		}
		entry := checkinlog.Entry{
			ID:         logID,
			EventID:    ev.EventID,
			UserID:     &user.UserID,
			Method:     method,
			Identifier: identifier,
			Success:    lr.Outcome == ledger.OutcomeCreated,
			ActorID:    meta.ActorID,
			SourceIP:   meta.SourceIP,
			UserAgent:  meta.UserAgent,
			At:         now,
		}
		if lr.Outcome == ledger.OutcomeAlreadyCheckedIn {
			entry.Reason = attendanceModel.ReasonAlreadyCheckedIn
			entry.Meta = map[string]any{"firstCheckinAt": lr.FirstCheckinAt.String()}
		}
		_, err = s.Log.Append(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record check-in: %w", err)
	}

	res := &Result{
		LogID:          logID,
		Outcome:        lr.Outcome,
		Event:          ev,
		User:           user,
		FirstCheckinAt: lr.FirstCheckinAt,
		LastCheckinAt:  lr.LastCheckinAt,
	}
	outcome = lr.Outcome.String()
	if lr.Outcome == ledger.OutcomeAlreadyCheckedIn {
		return res, apperr.Newf(apperr.ErrConflict, "Bạn đã điểm danh lúc %s", formatLocal(lr.FirstCheckinAt))
	}
	log.Info().Str("event", ev.EventCode).Str("user_id", user.UserID.String()).Str("method", string(method)).Msg("✅ check-in recorded")
	return res, nil
}

func (s *CheckinService) resolve(ctx context.Context, req dto.CheckinRequest, identifier string) (*userModel.UserModel, string, error) {
	switch req.Method {
	case "google":
		if s.Verifier == nil {
			return nil, identifier, ErrInvalidToken
		}
		email, err := s.Verifier.VerifyEmail(ctx, req.IDToken)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("id token rejected")
			return nil, identifier, ErrInvalidToken
		}
		u, err := s.Resolver.ResolveByEmail(ctx, email)
		return u, email, err
	case "cccd":
		u, err := s.Resolver.ResolveByNationalID(ctx, req.CCCD)
		return u, identifier, err
	case "password":
		u, err := s.Resolver.ResolveByPassword(ctx, req.Username, req.Password)
		return u, identifier, err
	}
	return nil, identifier, identity.ErrMissingCredential
}

// appendFailure never fails the request; a lost audit row is logged instead.
func (s *CheckinService) appendFailure(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID, method attendanceModel.LogMethod, identifier, reason string, meta Meta, at time.Time) {
	_, err := s.Log.Append(ctx, nil, checkinlog.Entry{
		EventID:    eventID,
		UserID:     userID,
		Method:     method,
		Identifier: identifier,
		Reason:     reason,
		ActorID:    meta.ActorID,
		SourceIP:   meta.SourceIP,
		UserAgent:  meta.UserAgent,
		At:         at,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("reason", reason).Msg("❌ failed to append check-in log")
	}
}

func presentedIdentifier(req dto.CheckinRequest) string {
	switch req.Method {
	case "cccd":
		return req.CCCD
	case "password":
		return req.Username
	}
	return ""
}

func classifyIdentityError(err error) (string, error) {
	switch {
	case errors.Is(err, ErrInvalidToken):
		return attendanceModel.ReasonInvalidToken, apperr.New(apperr.ErrUnauthorized, "Phiên đăng nhập Google không hợp lệ")
	case errors.Is(err, identity.ErrInvalidIdentifier):
		return attendanceModel.ReasonInvalidIdentifier, apperr.Validation("CCCD phải gồm đúng 12 chữ số")
	case errors.Is(err, identity.ErrMissingCredential):
		return attendanceModel.ReasonInvalidIdentifier, apperr.Validation("Thiếu thông tin định danh")
	case errors.Is(err, identity.ErrAmbiguousIdentifier):
		return attendanceModel.ReasonAmbiguousIdentifier, apperr.New(apperr.ErrAmbiguousIdentifier,
			"Có nhiều người trùng 4 số cuối CCCD, vui lòng điểm danh bằng Google")
	case errors.Is(err, identity.ErrUserNotFound):
		return attendanceModel.ReasonUserNotFound, apperr.NotFound("Không tìm thấy người dùng")
	case errors.Is(err, identity.ErrUserDisabled):
		return attendanceModel.ReasonUserDisabled, apperr.New(apperr.ErrForbidden, "Tài khoản đã bị vô hiệu hoá")
	}
	return "", nil
}

func windowMessage(r window.Reason) string {
	switch r {
	case window.ReasonNotOpenYet:
		return "Chưa đến giờ điểm danh"
	case window.ReasonAlreadyClosed:
		return "Đã hết giờ điểm danh"
	}
	return "Sự kiện chưa mở điểm danh"
}

func formatLocal(i instant.Instant) string {
	if !i.Valid {
		return ""
	}
	return i.Time.In(configs.Location()).Format("15:04 02/01/2006")
}
