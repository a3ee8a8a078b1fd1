package checkinlog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diemdanh_backend/internals/databases/dbtest"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
)

var base = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func TestAppendMasksNationalID(t *testing.T) {
	l := New(dbtest.Open(t))
	ctx := context.Background()
	ev, u := uuid.New(), uuid.New()

	id, err := l.Append(ctx, nil, Entry{
		EventID:    ev,
		UserID:     &u,
		Method:     attendanceModel.LogMethodCCCD,
		Identifier: "012345678901",
		Success:    true,
		SourceIP:   "10.0.0.7",
		Meta:       map[string]any{"ua_family": "Chrome"},
		At:         base,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	rows, total, err := l.ListForEvent(ctx, ev, Filter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)

	got := rows[0]
	assert.Equal(t, id, got.AttendanceLogID)
	require.NotNil(t, got.AttendanceLogIdentifier)
	assert.Equal(t, "****8901", *got.AttendanceLogIdentifier)
	assert.Nil(t, got.AttendanceLogReason)
	assert.Equal(t, "Chrome", got.AttendanceLogMeta["ua_family"])
}

func TestAppendKeepsPregeneratedID(t *testing.T) {
	l := New(dbtest.Open(t))
	want := uuid.New()

	got, err := l.Append(context.Background(), nil, Entry{
		ID:         want,
		EventID:    uuid.New(),
		Method:     attendanceModel.LogMethodGoogle,
		Identifier: "a@example.com",
		Reason:     attendanceModel.ReasonUserNotFound,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAppendRejectsUnknownMethod(t *testing.T) {
	l := New(dbtest.Open(t))
	_, err := l.Append(context.Background(), nil, Entry{EventID: uuid.New(), Method: "sms"})
	assert.Error(t, err)
}

func TestAppendUsesClockWhenUnset(t *testing.T) {
	l := New(dbtest.Open(t))
	l.Now = func() time.Time { return base }
	ev := uuid.New()

	_, err := l.Append(context.Background(), nil, Entry{EventID: ev, Method: attendanceModel.LogMethodQR})
	require.NoError(t, err)

	rows, _, err := l.ListForEvent(context.Background(), ev, Filter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].AttendanceLogCreatedAt.Equal(base))
	assert.Nil(t, rows[0].AttendanceLogIdentifier)
}

func TestListForEventNewestFirstAndFiltered(t *testing.T) {
	db := dbtest.Open(t)
	l := New(db)
	ctx := context.Background()
	ev := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := l.Append(ctx, nil, Entry{
			EventID: ev,
			Method:  attendanceModel.LogMethodGoogle,
			Success: i%2 == 0,
			At:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := l.Append(ctx, nil, Entry{EventID: uuid.New(), Method: attendanceModel.LogMethodGoogle, At: base})
	require.NoError(t, err)

	rows, total, err := l.ListForEvent(ctx, ev, Filter{}, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].AttendanceLogCreatedAt.Equal(base.Add(4*time.Minute)))
	assert.True(t, rows[1].AttendanceLogCreatedAt.Equal(base.Add(3*time.Minute)))

	failed := false
	rows, total, err = l.ListForEvent(ctx, ev, Filter{Success: &failed}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	n, err := DeleteForEvent(db, ev)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "****1234", MaskIdentifier(attendanceModel.LogMethodCCCD, " 000000001234 "))
	assert.Equal(t, "A@Example.com", MaskIdentifier(attendanceModel.LogMethodGoogle, "A@Example.com"))
	assert.Equal(t, "nam", MaskIdentifier(attendanceModel.LogMethodPassword, "nam"))
	assert.Equal(t, "", MaskIdentifier(attendanceModel.LogMethodCCCD, "  "))
}
