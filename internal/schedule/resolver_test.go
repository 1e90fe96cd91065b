package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/autoclock/internal/timecalc"
)

func TestResolveStart(t *testing.T) {
	workday := timecalc.NewWorkday(at(0, 0), 9, 8)

	tests := []struct {
		name     string
		commit   *time.Time
		checkout *time.Time
		prior    *time.Time
		want     time.Time
	}{
		{"workday floor wins over early commit", ptr(at(8, 30)), nil, nil, at(9, 0)},
		{"checkout before commit", ptr(at(11, 0)), ptr(at(10, 45)), ptr(at(10, 0)), at(10, 45)},
		{"prior entry after checkout", ptr(at(11, 0)), ptr(at(10, 0)), ptr(at(10, 30)), at(10, 30)},
		{"commit earlier than checkout", ptr(at(10, 0)), ptr(at(11, 0)), nil, at(10, 0)},
		{"checkout without commit time", nil, ptr(at(12, 0)), nil, at(12, 0)},
		{"commit alone does not move start", ptr(at(11, 0)), nil, nil, at(9, 0)},
		{"prior entry only", nil, nil, ptr(at(14, 0)), at(14, 0)},
		{"everything unknown", nil, nil, nil, at(9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStart(workday, tt.commit, tt.checkout, tt.prior)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolveEnd(t *testing.T) {
	workday := timecalc.NewWorkday(at(0, 0), 9, 8)
	start := at(10, 0)

	tests := []struct {
		name      string
		nextEntry *time.Time
		next      *time.Time
		want      time.Time
	}{
		{"next entry first", ptr(at(11, 0)), ptr(at(12, 0)), at(11, 0)},
		{"next commit", nil, ptr(at(12, 0)), at(12, 0)},
		{"end of workday", nil, nil, at(17, 0)},
		{"clamped to start", ptr(at(9, 30)), nil, start},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveEnd(workday, start, tt.nextEntry, tt.next)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.False(t, got.Before(start))
		})
	}
}

func TestResolveEnd_NeverBeforeStart(t *testing.T) {
	workday := timecalc.NewWorkday(at(0, 0), 9, 8)
	// Starts after the workday has ended.
	start := at(19, 0)
	assert.Equal(t, start, ResolveEnd(workday, start, nil, nil))
	assert.Equal(t, start, ResolveRealtimeEnd(start, at(18, 0)))
	assert.Equal(t, at(20, 0), ResolveRealtimeEnd(start, at(20, 0)))
}
