package model

import "time"

// TimeEntryDraft is a time entry computed for one commit, before (or instead
// of) being submitted to the time-tracking service. End is never before Start.
type TimeEntryDraft struct {
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Branch      string    `json:"branch"`
	CommitHash  string    `json:"commit"`
}

// Duration returns the length of the draft.
func (d TimeEntryDraft) Duration() time.Duration {
	return d.End.Sub(d.Start)
}

// RemoteEntry is a time entry as reported by the time-tracking service.
// A nil End denotes a timer that is currently running.
type RemoteEntry struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
}

// Running reports whether the entry is a running timer.
func (e RemoteEntry) Running() bool {
	return e.End == nil
}
