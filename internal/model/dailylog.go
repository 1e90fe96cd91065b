package model

import "time"

// DayLayout is the date format used as DailyLog key.
const DayLayout = "2006-01-02"

// DailyLog groups drafts by calendar day. Days and the entries within a day
// keep their insertion order.
type DailyLog struct {
	days    []string
	entries map[string][]TimeEntryDraft
}

// NewDailyLog returns an empty log.
func NewDailyLog() *DailyLog {
	return &DailyLog{entries: map[string][]TimeEntryDraft{}}
}

// Append adds a draft under the calendar day of its start, in the start's
// location.
func (l *DailyLog) Append(d TimeEntryDraft) {
	l.AppendTo(d.Start.Format(DayLayout), d)
}

// AppendTo adds a draft under an explicit day key.
func (l *DailyLog) AppendTo(day string, d TimeEntryDraft) {
	if l.entries == nil {
		l.entries = map[string][]TimeEntryDraft{}
	}
	if _, ok := l.entries[day]; !ok {
		l.days = append(l.days, day)
	}
	l.entries[day] = append(l.entries[day], d)
}

// Days returns the day keys in insertion order.
func (l *DailyLog) Days() []string {
	out := make([]string, len(l.days))
	copy(out, l.days)
	return out
}

// Entries returns the drafts recorded for day.
func (l *DailyLog) Entries(day string) []TimeEntryDraft {
	return l.entries[day]
}

// All returns every draft, day by day.
func (l *DailyLog) All() []TimeEntryDraft {
	var out []TimeEntryDraft
	for _, day := range l.days {
		out = append(out, l.entries[day]...)
	}
	return out
}

// Len returns the number of drafts in the log.
func (l *DailyLog) Len() int {
	n := 0
	for _, e := range l.entries {
		n += len(e)
	}
	return n
}

// Total returns the summed duration of a day's drafts.
func (l *DailyLog) Total(day string) time.Duration {
	var total time.Duration
	for _, d := range l.entries[day] {
		total += d.Duration()
	}
	return total
}
