package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"diemdanh_backend/internals/databases/dbtest"
	"diemdanh_backend/internals/features/attendance/checkinlog"
	"diemdanh_backend/internals/features/attendance/classifier"
	"diemdanh_backend/internals/features/attendance/dto"
	"diemdanh_backend/internals/features/attendance/identity"
	"diemdanh_backend/internals/features/attendance/ledger"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	"diemdanh_backend/internals/features/attendance/report"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	userModel "diemdanh_backend/internals/features/users/user/model"
	"diemdanh_backend/internals/helpers/apperr"
	"diemdanh_backend/internals/helpers/nationalid"
)

var hasher = nationalid.NewHasher("svc-test-pepper")

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyEmail(_ context.Context, tok string) (string, error) {
	if email, ok := f[tok]; ok {
		return email, nil
	}
	return "", errors.New("bad token")
}

type fixture struct {
	db    *gorm.DB
	svc   *CheckinService
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{db: db}
	f.svc = NewCheckinService(db, identity.NewResolver(db, hasher), fakeVerifier{"tok-an": "an@example.com"})
	f.svc.Now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) at(h, m int) {
	f.clock = time.Date(2026, 10, 15, h, m, 0, 0, time.UTC)
}

func (f *fixture) event(t *testing.T, code string, mutate func(*eventModel.EventModel)) *eventModel.EventModel {
	t.Helper()
	ev := &eventModel.EventModel{
		EventCode:      code,
		EventCodeLower: code,
		EventTitle:     "Họp " + code,
		EventStartAt:   time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		EventEndAt:     time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC),
		EventStatus:    eventModel.EventStatusPublished,
	}
	if mutate != nil {
		mutate(ev)
	}
	require.NoError(t, f.db.Create(ev).Error)
	return ev
}

func (f *fixture) user(t *testing.T, name, cccd, email string) *userModel.UserModel {
	t.Helper()
	u := &userModel.UserModel{
		UserName:            name,
		UserRole:            userModel.UserRoleAttendee,
		UserStatus:          userModel.UserStatusActive,
		UserNationalIDHash:  hasher.Hash(cccd),
		UserNationalIDLast4: nationalid.Last4(cccd),
	}
	if email != "" {
		u.UserEmail, u.UserEmailLower = &email, &email
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) logs(t *testing.T, eventID uuid.UUID) []attendanceModel.AttendanceLogModel {
	t.Helper()
	rows, _, err := checkinlog.New(f.db).ListForEvent(context.Background(), eventID, checkinlog.Filter{}, 0, 0)
	require.NoError(t, err)
	return rows
}

func cccdReq(code, id string) dto.CheckinRequest {
	return dto.CheckinRequest{Code: code, Method: "cccd", CCCD: id}
}

func TestCheckinEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev := f.event(t, "hop-10", nil)
	u := f.user(t, "Nguyễn Văn A", "123456789012", "")

	f.at(9, 50)
	res, err := f.svc.Checkin(ctx, cccdReq("HOP-10", "123456789012"), Meta{SourceIP: "1.2.3.4"})
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeCreated, res.Outcome)
	assert.NotEqual(t, uuid.Nil, res.LogID)
	assert.Equal(t, u.UserID, res.User.UserID)

	sum, err := report.New(f.db).Summarize(ctx, ev.EventID)
	require.NoError(t, err)
	rows := sum.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, classifier.Present, rows[0].Status)

	f.at(9, 55)
	dup, err := f.svc.Checkin(ctx, cccdReq("hop-10", "123456789012"), Meta{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 409, apperr.Status(err))
	require.NotNil(t, dup)
	assert.Equal(t, ledger.OutcomeAlreadyCheckedIn, dup.Outcome)
	assert.True(t, dup.FirstCheckinAt.Time.Equal(time.Date(2026, 10, 15, 9, 50, 0, 0, time.UTC)))

	logs := f.logs(t, ev.EventID)
	require.Len(t, logs, 2, "one log entry per attempt")
	assert.False(t, logs[0].AttendanceLogSuccess)
	require.NotNil(t, logs[0].AttendanceLogReason)
	assert.Equal(t, attendanceModel.ReasonAlreadyCheckedIn, *logs[0].AttendanceLogReason)
	assert.True(t, logs[1].AttendanceLogSuccess)
	assert.Equal(t, res.LogID, logs[1].AttendanceLogID)
	assert.Equal(t, "****9012", *logs[1].AttendanceLogIdentifier)
}

func TestCheckinWindowBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	closeAt := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ev := f.event(t, "win", func(e *eventModel.EventModel) {
		e.EventCheckinOpenAt = &open
		e.EventCheckinCloseAt = &closeAt
	})
	f.user(t, "Early", "111111111111", "")
	f.user(t, "Open", "222222222222", "")
	f.user(t, "Close", "333333333333", "")
	f.user(t, "Late", "444444444444", "")

	f.clock = open.Add(-time.Second)
	_, err := f.svc.Checkin(ctx, cccdReq("win", "111111111111"), Meta{})
	assert.ErrorIs(t, err, apperr.ErrForbiddenByWindow)
	assert.Equal(t, 403, apperr.Status(err))

	f.clock = open
	_, err = f.svc.Checkin(ctx, cccdReq("win", "222222222222"), Meta{})
	assert.NoError(t, err)

	f.clock = closeAt
	_, err = f.svc.Checkin(ctx, cccdReq("win", "333333333333"), Meta{})
	assert.NoError(t, err)

	f.clock = closeAt.Add(time.Second)
	_, err = f.svc.Checkin(ctx, cccdReq("win", "444444444444"), Meta{})
	assert.ErrorIs(t, err, apperr.ErrForbiddenByWindow)

	reasons := map[string]int{}
	for _, l := range f.logs(t, ev.EventID) {
		if l.AttendanceLogReason != nil {
			reasons[*l.AttendanceLogReason]++
		}
	}
	assert.Equal(t, map[string]int{
		attendanceModel.ReasonNotOpenYet:    1,
		attendanceModel.ReasonAlreadyClosed: 1,
	}, reasons)
}

func TestCheckinDraftEvent(t *testing.T) {
	f := newFixture(t)
	ev := f.event(t, "draft", func(e *eventModel.EventModel) { e.EventStatus = eventModel.EventStatusDraft })
	f.user(t, "A", "555555555555", "")

	_, err := f.svc.Checkin(context.Background(), cccdReq("draft", "555555555555"), Meta{})
	assert.Equal(t, 403, apperr.Status(err))

	logs := f.logs(t, ev.EventID)
	require.Len(t, logs, 1)
	assert.Equal(t, attendanceModel.ReasonEventNotOpen, *logs[0].AttendanceLogReason)
}

func TestCheckinUnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Checkin(context.Background(), cccdReq("nope", "555555555555"), Meta{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCheckinIdentityFailuresAreLogged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(9, 30)
	ev := f.event(t, "id", nil)
	f.user(t, "K", "111111117777", "")
	f.user(t, "L", "222222227777", "")

	_, err := f.svc.Checkin(ctx, cccdReq("id", "12345"), Meta{})
	assert.Equal(t, 400, apperr.Status(err))

	_, err = f.svc.Checkin(ctx, cccdReq("id", "999999997777"), Meta{})
	assert.ErrorIs(t, err, apperr.ErrAmbiguousIdentifier)
	assert.Equal(t, 400, apperr.Status(err))

	_, err = f.svc.Checkin(ctx, cccdReq("id", "999999990000"), Meta{})
	assert.Equal(t, 404, apperr.Status(err))

	_, err = f.svc.Checkin(ctx, dto.CheckinRequest{Code: "id", Method: "google", IDToken: "forged"}, Meta{})
	assert.Equal(t, 401, apperr.Status(err))

	got := map[string]bool{}
	for _, l := range f.logs(t, ev.EventID) {
		assert.False(t, l.AttendanceLogSuccess)
		assert.Nil(t, l.AttendanceLogUserID)
		got[*l.AttendanceLogReason] = true
	}
	assert.Equal(t, map[string]bool{
		attendanceModel.ReasonInvalidIdentifier:   true,
		attendanceModel.ReasonAmbiguousIdentifier: true,
		attendanceModel.ReasonUserNotFound:        true,
		attendanceModel.ReasonInvalidToken:        true,
	}, got)
}

func TestCheckinDisabledUserIsLoggedWithUserID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.at(9, 30)
	ev := f.event(t, "off", nil)
	u := f.user(t, "M", "333333333333", "")
	require.NoError(t, f.db.Model(u).Update("user_status", userModel.UserStatusDisabled).Error)

	_, err := f.svc.Checkin(ctx, cccdReq("off", "333333333333"), Meta{})
	assert.Equal(t, 403, apperr.Status(err))

	logs := f.logs(t, ev.EventID)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].AttendanceLogSuccess)
	assert.Equal(t, attendanceModel.ReasonUserDisabled, *logs[0].AttendanceLogReason)
	require.NotNil(t, logs[0].AttendanceLogUserID)
	assert.Equal(t, u.UserID, *logs[0].AttendanceLogUserID)
}

func TestCheckinGoogle(t *testing.T) {
	f := newFixture(t)
	f.at(9, 10)
	ev := f.event(t, "gg", nil)
	u := f.user(t, "An", "121212121212", "an@example.com")

	res, err := f.svc.Checkin(context.Background(), dto.CheckinRequest{Code: "gg", Method: "google", IDToken: "tok-an"}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, res.User.UserID)

	logs := f.logs(t, ev.EventID)
	require.Len(t, logs, 1)
	assert.Equal(t, attendanceModel.LogMethodGoogle, logs[0].AttendanceLogMethod)
	assert.Equal(t, "an@example.com", *logs[0].AttendanceLogIdentifier)
}
