package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"diemdanh_backend/internals/helpers/instant"
)

func TestClassify(t *testing.T) {
	start := instant.Of(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	end := instant.Of(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))
	at := func(h, m int) instant.Instant {
		return instant.Of(time.Date(2026, 10, 15, h, m, 0, 0, time.UTC))
	}
	var none instant.Instant

	tests := []struct {
		name    string
		checkIn instant.Instant
		start   instant.Instant
		end     instant.Instant
		want    Status
	}{
		{"no check-in", none, start, end, Absent},
		{"no check-in no bounds", none, none, none, Absent},
		{"no end boundary", at(23, 0), start, none, Present},
		{"no bounds at all", at(9, 30), none, none, Present},
		{"before start still present", at(8, 0), start, end, Present},
		{"before end", at(9, 50), start, end, Present},
		{"after end", at(10, 1), start, end, Late},
		{"exactly end", at(10, 0), start, end, Absent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.checkIn, tt.start, tt.end))
		})
	}
}
