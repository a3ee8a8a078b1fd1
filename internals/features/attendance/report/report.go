// Package report joins the roster against the ledger and classifies each user.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"diemdanh_backend/internals/features/attendance/classifier"
	"diemdanh_backend/internals/features/attendance/ledger"
	attendanceModel "diemdanh_backend/internals/features/attendance/model"
	eventModel "diemdanh_backend/internals/features/events/event/model"
	userModel "diemdanh_backend/internals/features/users/user/model"
	userRepo "diemdanh_backend/internals/features/users/user/repository"
	"diemdanh_backend/internals/helpers/instant"
)

// DefaultGroup is the bucket for users without a group label.
const DefaultGroup = "Chưa phân nhóm"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound  = errors.New("user not found")
)

type Counts struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Late       int `json:"late"`
	Absent     int `json:"absent"`
	PresentPct int `json:"presentPct"`
	LatePct    int `json:"latePct"`
	AbsentPct  int `json:"absentPct"`
}

func (c *Counts) add(s classifier.Status) {
	c.Total++
	switch s {
	case classifier.Present:
		c.Present++
	case classifier.Late:
		c.Late++
	default:
		c.Absent++
	}
}

func (c *Counts) finish() {
	c.PresentPct = pct(c.Present, c.Total)
	c.LatePct = pct(c.Late, c.Total)
	c.AbsentPct = pct(c.Absent, c.Total)
}

func pct(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(total)))
}

type Row struct {
	UserID     uuid.UUID         `json:"userId"`
	Name       string            `json:"name"`
	Group      string            `json:"group"`
	CCCDLast4  string            `json:"cccdLast4,omitempty"`
	CheckinAt  instant.Instant   `json:"checkinAt"`
	CheckoutAt instant.Instant   `json:"checkoutAt"`
	LastStatus string            `json:"lastStatus,omitempty"`
	Status     classifier.Status `json:"status"`
}

type Group struct {
	Name   string `json:"name"`
	Rows   []Row  `json:"rows"`
	Counts Counts `json:"counts"`
}

type EventSummary struct {
	EventID uuid.UUID       `json:"eventId"`
	Code    string          `json:"code"`
	Title   string          `json:"title"`
	StartAt instant.Instant `json:"startAt"`
	EndAt   instant.Instant `json:"endAt"`
	Groups  []Group         `json:"groups"`
	Overall Counts          `json:"overall"`
}

// Rows flattens the groups in display order.
func (s *EventSummary) Rows() []Row {
	var out []Row
	for _, g := range s.Groups {
		out = append(out, g.Rows...)
	}
	return out
}

type Aggregator struct {
	DB     *gorm.DB
	Ledger *ledger.Ledger
}

func New(db *gorm.DB) *Aggregator {
	return &Aggregator{DB: db, Ledger: ledger.New(db)}
}

/* =========================================================
   Per-event summary
========================================================= */

// Summarize produces one row per roster user, grouped and sorted for Vietnamese readers.
func (a *Aggregator) Summarize(ctx context.Context, eventID uuid.UUID) (*EventSummary, error) {
	ev, err := a.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	roster, err := userRepo.ListRoster(ctx, a.DB)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	records, err := a.Ledger.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load attendances: %w", err)
	}

	byUser := make(map[uuid.UUID]attendanceModel.AttendanceModel, len(records))
	for _, r := range records {
		byUser[r.AttendanceUserID] = r
	}

	start, end := instant.Of(ev.EventStartAt), instant.Of(ev.EventEndAt)
	groups := map[string]*Group{}
	out := &EventSummary{
		EventID: ev.EventID,
		Code:    ev.EventCode,
		Title:   ev.EventTitle,
		StartAt: start,
		EndAt:   end,
	}

	for _, u := range roster {
		row := Row{
			UserID:    u.UserID,
			Name:      u.UserName,
			Group:     groupOf(&u),
			CCCDLast4: u.UserNationalIDLast4,
			Status:    classifier.Absent,
		}
		if rec, ok := byUser[u.UserID]; ok {
			row.CheckinAt = instant.Of(rec.AttendanceFirstCheckinAt)
			row.CheckoutAt = instant.FromPtr(rec.AttendanceCheckoutAt)
			row.LastStatus = string(rec.AttendanceLastStatus)
			row.Status = classifier.Classify(row.CheckinAt, start, end)
		}

		g, ok := groups[row.Group]
		if !ok {
			g = &Group{Name: row.Group}
			groups[row.Group] = g
		}
		g.Rows = append(g.Rows, row)
		g.Counts.add(row.Status)
		out.Overall.add(row.Status)
	}

	col := collate.New(language.Vietnamese)
	for _, g := range groups {
		sort.SliceStable(g.Rows, func(i, j int) bool {
			return col.CompareString(g.Rows[i].Name, g.Rows[j].Name) < 0
		})
		g.Counts.finish()
		out.Groups = append(out.Groups, *g)
	}
	sort.SliceStable(out.Groups, func(i, j int) bool {
		gi, gj := out.Groups[i].Name, out.Groups[j].Name
		if gi == DefaultGroup || gj == DefaultGroup {
			return gj == DefaultGroup && gi != DefaultGroup
		}
		return col.CompareString(gi, gj) < 0
	})
	out.Overall.finish()
	return out, nil
}

func groupOf(u *userModel.UserModel) string {
	if g := strings.TrimSpace(u.GroupLabel()); g != "" {
		return g
	}
	return DefaultGroup
}

/* =========================================================
   Per-user history
========================================================= */

type HistoryRow struct {
	EventID   uuid.UUID         `json:"eventId"`
	Code      string            `json:"code"`
	Title     string            `json:"title"`
	StartAt   instant.Instant   `json:"startAt"`
	EndAt     instant.Instant   `json:"endAt"`
	CheckinAt instant.Instant   `json:"checkinAt"`
	Status    classifier.Status `json:"status"`
}

type UserHistory struct {
	UserID uuid.UUID    `json:"userId"`
	Name   string       `json:"name"`
	Group  string       `json:"group"`
	Rows   []HistoryRow `json:"rows"`
	Counts Counts       `json:"counts"`
}

// UserHistory classifies one user against every event, newest start first.
func (a *Aggregator) UserHistory(ctx context.Context, userID uuid.UUID) (*UserHistory, error) {
	u, err := userRepo.FindUserByID(ctx, a.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var events []eventModel.EventModel
	if err := a.DB.WithContext(ctx).Order("event_start_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	records, err := a.Ledger.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load attendances: %w", err)
	}
	byEvent := make(map[uuid.UUID]attendanceModel.AttendanceModel, len(records))
	for _, r := range records {
		byEvent[r.AttendanceEventID] = r
	}

	out := &UserHistory{UserID: u.UserID, Name: u.UserName, Group: groupOf(u)}
	for _, ev := range events {
		start, end := instant.Of(ev.EventStartAt), instant.Of(ev.EventEndAt)
		row := HistoryRow{
			EventID: ev.EventID,
			Code:    ev.EventCode,
			Title:   ev.EventTitle,
			StartAt: start,
			EndAt:   end,
			Status:  classifier.Absent,
		}
		if rec, ok := byEvent[ev.EventID]; ok {
			row.CheckinAt = instant.Of(rec.AttendanceFirstCheckinAt)
			row.Status = classifier.Classify(row.CheckinAt, start, end)
		}
		out.Rows = append(out.Rows, row)
		out.Counts.add(row.Status)
	}
	out.Counts.finish()
	return out, nil
}

/* =========================================================
   Ledger summary (raw write-time status)
========================================================= */

type LedgerRow struct {
	ID            string          `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	LastStatus    string          `json:"lastStatus"`
	LastCheckInAt instant.Instant `json:"lastCheckInAt"`
}

// LedgerSummary reports only users with a ledger row.
func (a *Aggregator) LedgerSummary(ctx context.Context, eventID uuid.UUID) ([]LedgerRow, error) {
	if _, err := a.findEvent(ctx, eventID); err != nil {
		return nil, err
	}
	records, err := a.Ledger.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerRow, 0, len(records))
	for _, r := range records {
		last := instant.Of(r.AttendanceLastCheckinAt)
		if !last.Valid {
			last = instant.Of(r.AttendanceFirstCheckinAt)
		}
		out = append(out, LedgerRow{
			ID:            r.AttendanceUserID.String(),
			UserID:        r.AttendanceUserID,
			LastStatus:    ledgerStatusLabel(r.AttendanceLastStatus),
			LastCheckInAt: last,
		})
	}
	return out, nil
}

func ledgerStatusLabel(s attendanceModel.LedgerStatus) string {
	switch s {
	case attendanceModel.LedgerPresent:
		return "present"
	case attendanceModel.LedgerLeft:
		return "absent"
	default:
		return "denied"
	}
}

func (a *Aggregator) findEvent(ctx context.Context, id uuid.UUID) (*eventModel.EventModel, error) {
	var ev eventModel.EventModel
	if err := a.DB.WithContext(ctx).Where("event_id = ?", id).Take(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}
