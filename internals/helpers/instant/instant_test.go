package instant

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	want := time.Date(2026, 10, 15, 9, 50, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339 utc", `"2026-10-15T09:50:00Z"`},
		{"rfc3339 offset", `"2026-10-15T16:50:00+07:00"`},
		{"epoch millis", `1792057800000`},
		{"seconds object", `{"seconds":1792057800,"nanoseconds":0}`},
		{"underscore object", `{"_seconds":1792057800,"_nanoseconds":0}`},
		{"datetime-local", `"2026-10-15T09:50"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(json.RawMessage(tt.raw))
			require.NoError(t, err)
			require.True(t, got.Valid)
			assert.True(t, want.Equal(got.Time), "got %s", got)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, raw := range []string{``, `null`, `""`, `"   "`} {
		got, err := Parse(json.RawMessage(raw))
		require.NoError(t, err, raw)
		assert.False(t, got.Valid, raw)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`"yesterday"`, `true`, `{"foo":1}`} {
		_, err := Parse(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestJSONRoundTripInStruct(t *testing.T) {
	type payload struct {
		At   Instant `json:"at"`
		Miss Instant `json:"miss"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2026-10-15T09:50:00Z","miss":null}`), &p))
	assert.True(t, p.At.Valid)
	assert.False(t, p.Miss.Valid)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2026-10-15T09:50:00Z","miss":null}`, string(out))
}

func TestComparisons(t *testing.T) {
	a := Of(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	b := Of(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	var empty Instant

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(empty))
	assert.False(t, empty.After(a))
	assert.True(t, empty.Equal(Instant{}))
	assert.True(t, a.Equal(FromPtr(a.Ptr())))
	assert.Nil(t, empty.Ptr())
	assert.Nil(t, empty.Millis())
	assert.False(t, Of(time.Time{}).Valid)
}

func TestScanValue(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 50, 0, 0, time.UTC)

	var i Instant
	require.NoError(t, i.Scan(at))
	assert.True(t, i.Equal(Of(at)))

	v, err := i.Value()
	require.NoError(t, err)
	assert.Equal(t, at, v)

	require.NoError(t, i.Scan(nil))
	assert.False(t, i.Valid)
	v, err = i.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, i.Scan("2026-10-15T09:50:00Z"))
	assert.True(t, i.Equal(Of(at)))

	assert.Error(t, i.Scan(3.14))
}
