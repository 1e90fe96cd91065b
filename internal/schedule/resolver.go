package schedule

import (
	"time"

	"github.com/Tiliavir/autoclock/internal/timecalc"
)

// ResolveStart returns the start of the entry for a commit: the latest of the
// workday start, the time work on the branch began and the end of the prior
// entry. Work began at the checkout into the branch, or at the commit if that
// is earlier; without a checkout only the workday and the prior entry count.
// Nil arguments are unknown and ignored.
func ResolveStart(workday timecalc.Workday, commitTime, checkoutTime, priorEnd *time.Time) time.Time {
	floor := workday.Start()
	var began *time.Time
	if checkoutTime != nil {
		began = timecalc.Earliest(commitTime, checkoutTime)
	}
	return *timecalc.Latest(&floor, began, priorEnd)
}

// ResolveEnd returns the end of the entry for a commit: the start of the next
// existing entry of the day, else the next commit's time, else the end of the
// workday. The result is never before start.
func ResolveEnd(workday timecalc.Workday, start time.Time, nextEntryStart, nextCommitTime *time.Time) time.Time {
	var end time.Time
	switch {
	case nextEntryStart != nil:
		end = *nextEntryStart
	case nextCommitTime != nil:
		end = *nextCommitTime
	default:
		end = workday.End()
	}
	return clampEnd(start, end)
}

// ResolveRealtimeEnd returns the end of an entry logged as the hook fires.
func ResolveRealtimeEnd(start, now time.Time) time.Time {
	return clampEnd(start, now)
}

func clampEnd(start, end time.Time) time.Time {
	if end.Before(start) {
		return start
	}
	return end
}
