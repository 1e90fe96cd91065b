package timecalc

import "time"

const (
	// DefaultStartHour is the hour a workday begins when not configured.
	DefaultStartHour = 9
	// DefaultWorkHours is the length of a workday when not configured.
	DefaultWorkHours = 8
)

// Workday describes the working hours of one calendar day.
type Workday struct {
	Date      time.Time
	StartHour int
	WorkHours int
}

// NewWorkday returns the workday for the calendar day of t, in t's location.
func NewWorkday(t time.Time, startHour, workHours int) Workday {
	return Workday{Date: StartOfDay(t), StartHour: startHour, WorkHours: workHours}
}

// Start returns the instant the workday begins.
func (w Workday) Start() time.Time {
	return time.Date(w.Date.Year(), w.Date.Month(), w.Date.Day(), w.StartHour, 0, 0, 0, w.Date.Location())
}

// End returns the instant the workday ends.
func (w Workday) End() time.Time {
	return w.Start().Add(time.Duration(w.WorkHours) * time.Hour)
}

// Key returns the workday's date formatted as YYYY-MM-DD.
func (w Workday) Key() string {
	return w.Date.Format("2006-01-02")
}
