// Package instant is the single representation of an optional point in time
// used on the wire and by the attendance classifier.
package instant

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Instant is either empty (Valid=false) or a UTC time.
type Instant struct {
	Time  time.Time
	Valid bool
}

func Of(t time.Time) Instant {
	if t.IsZero() {
		return Instant{}
	}
	return Instant{Time: t.UTC(), Valid: true}
}

func FromPtr(t *time.Time) Instant {
	if t == nil {
		return Instant{}
	}
	return Of(*t)
}

func (i Instant) Ptr() *time.Time {
	if !i.Valid {
		return nil
	}
	t := i.Time
	return &t
}

func (i Instant) Before(o Instant) bool { return i.Valid && o.Valid && i.Time.Before(o.Time) }
func (i Instant) After(o Instant) bool  { return i.Valid && o.Valid && i.Time.After(o.Time) }
func (i Instant) Equal(o Instant) bool {
	if i.Valid != o.Valid {
		return false
	}
	return !i.Valid || i.Time.Equal(o.Time)
}

// Millis is nil for an empty instant.
func (i Instant) Millis() *int64 {
	if !i.Valid {
		return nil
	}
	ms := i.Time.UnixMilli()
	return &ms
}

func (i Instant) String() string {
	if !i.Valid {
		return "null"
	}
	return i.Time.Format(time.RFC3339Nano)
}

type secondsShape struct {
	Seconds      *int64 `json:"seconds"`
	Nanoseconds  int64  `json:"nanoseconds"`
	USeconds     *int64 `json:"_seconds"`
	UNanoseconds int64  `json:"_nanoseconds"`
}

// Parse converts a raw JSON value into an Instant. Accepted shapes:
// null / empty, RFC3339 (or "2006-01-02T15:04") string, epoch milliseconds,
// and {seconds, nanoseconds} objects (with or without a leading underscore).
func Parse(raw json.RawMessage) (Instant, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Instant{}, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Instant{}, err
		}
		return ParseString(s)
	case '{':
		var o secondsShape
		if err := json.Unmarshal(raw, &o); err != nil {
			return Instant{}, err
		}
		switch {
		case o.Seconds != nil:
			return Of(time.Unix(*o.Seconds, o.Nanoseconds)), nil
		case o.USeconds != nil:
			return Of(time.Unix(*o.USeconds, o.UNanoseconds)), nil
		}
		return Instant{}, fmt.Errorf("instant: object without seconds")
	default:
		ms, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return Instant{}, fmt.Errorf("instant: unsupported value %s", raw)
		}
		return Of(time.UnixMilli(ms)), nil
	}
}

var layouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseString accepts RFC3339 and the zone-less datetime-local shapes (read as UTC).
func ParseString(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Instant{}, nil
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return Of(t), nil
		}
	}
	return Instant{}, fmt.Errorf("instant: cannot parse %q", s)
}

func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Time.Format(time.RFC3339Nano))
}

func (i *Instant) UnmarshalJSON(b []byte) error {
	v, err := Parse(b)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

func (i *Instant) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Instant{}
	case time.Time:
		*i = Of(v)
	case string:
		p, err := ParseString(v)
		if err != nil {
			return err
		}
		*i = p
	case []byte:
		p, err := ParseString(string(v))
		if err != nil {
			return err
		}
		*i = p
	case int64:
		*i = Of(time.UnixMilli(v))
	default:
		return fmt.Errorf("instant: cannot scan %T", src)
	}
	return nil
}

func (i Instant) Value() (driver.Value, error) {
	if !i.Valid {
		return nil, nil
	}
	return i.Time, nil
}
