package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/autoclock/internal/model"
)

func draft(desc string, start, end time.Time) model.TimeEntryDraft {
	return model.TimeEntryDraft{Description: desc, Start: start, End: end}
}

func TestDailyLog_PreservesInsertionOrder(t *testing.T) {
	l := model.NewDailyLog()
	d1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l.Append(draft("a", d1, d1.Add(time.Hour)))
	l.Append(draft("b", d2, d2.Add(2*time.Hour)))
	l.Append(draft("c", d1.Add(time.Hour), d1.Add(3*time.Hour)))

	assert.Equal(t, []string{"2026-03-02", "2026-03-01"}, l.Days())
	entries := l.Entries("2026-03-02")
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "a", entries[0].Description)
		assert.Equal(t, "c", entries[1].Description)
	}
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 3*time.Hour, l.Total("2026-03-02"))
	assert.Len(t, l.All(), 3)
}

func TestDailyLog_ZeroValueUsable(t *testing.T) {
	var l model.DailyLog
	l.AppendTo("2026-03-02", draft("x", time.Time{}, time.Time{}))
	assert.Equal(t, []string{"2026-03-02"}, l.Days())
	assert.Empty(t, l.Entries("2026-03-03"))
}

func TestReflogEntry_IsCommit(t *testing.T) {
	tests := []struct {
		cmd          model.ReflogCommand
		includeAmend bool
		want         bool
	}{
		{model.ReflogCommit, false, true},
		{model.ReflogCommitInitial, false, true},
		{model.ReflogCommitAmend, false, false},
		{model.ReflogCommitAmend, true, true},
		{model.ReflogCheckout, true, false},
		{model.ReflogOther, true, false},
	}
	for _, tt := range tests {
		e := model.ReflogEntry{Command: tt.cmd}
		assert.Equal(t, tt.want, e.IsCommit(tt.includeAmend), "%s amend=%v", tt.cmd, tt.includeAmend)
	}
}

func TestParseReflogCommand(t *testing.T) {
	assert.Equal(t, model.ReflogCommitAmend, model.ParseReflogCommand("commit (amend)"))
	assert.Equal(t, model.ReflogCheckout, model.ParseReflogCommand("checkout"))
	assert.Equal(t, model.ReflogOther, model.ParseReflogCommand("rebase (finish)"))
	assert.Equal(t, "commit (initial)", model.ReflogCommitInitial.String())
}
