package schedule

import (
	"context"
	"time"

	"github.com/Tiliavir/autoclock/internal/model"
)

type fakeVCS struct {
	last      *model.Commit
	commits   map[string][]model.Commit // keyed by day
	branches  map[string]string
	current   string
	times     map[string]time.Time
	checkouts map[string]time.Time
}

func (f *fakeVCS) LastCommit(bool, func(model.Commit) bool) (*model.Commit, error) {
	return f.last, nil
}

func (f *fakeVCS) CommitsInRange(start, _ time.Time) ([]model.Commit, error) {
	return f.commits[start.Format(model.DayLayout)], nil
}

func (f *fakeVCS) BranchOfCommit(hash string) (string, error) {
	return f.branches[hash], nil
}

func (f *fakeVCS) CurrentBranch() (string, error) {
	return f.current, nil
}

func (f *fakeVCS) TimeOfCommit(hash string) (*time.Time, error) {
	t, ok := f.times[hash]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeVCS) LastCheckoutIntoBranch(branch string) (*time.Time, error) {
	t, ok := f.checkouts[branch]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

type fakeGateway struct {
	// recent is returned by successive MostRecentEntry calls; the last value
	// repeats.
	recent    []*model.RemoteEntry
	recentErr error
	entries   []model.RemoteEntry
	submitErr error

	recentCalls int
	stops       []time.Time
	submitted   []model.TimeEntryDraft
}

func (g *fakeGateway) MostRecentEntry(context.Context, time.Time) (*model.RemoteEntry, error) {
	if g.recentErr != nil {
		return nil, g.recentErr
	}
	g.recentCalls++
	if len(g.recent) == 0 {
		return nil, nil
	}
	i := g.recentCalls - 1
	if i >= len(g.recent) {
		i = len(g.recent) - 1
	}
	return g.recent[i], nil
}

func (g *fakeGateway) StopRunningTimer(_ context.Context, at time.Time) error {
	g.stops = append(g.stops, at)
	return nil
}

func (g *fakeGateway) Submit(_ context.Context, d model.TimeEntryDraft) error {
	if g.submitErr != nil {
		return g.submitErr
	}
	g.submitted = append(g.submitted, d)
	return nil
}

func (g *fakeGateway) EntriesInRange(context.Context, time.Time, time.Time) ([]model.RemoteEntry, error) {
	return g.entries, nil
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func running(desc string, start time.Time) *model.RemoteEntry {
	return &model.RemoteEntry{ID: desc, Description: desc, Start: start}
}

func stopped(desc string, start, end time.Time) *model.RemoteEntry {
	return &model.RemoteEntry{ID: desc, Description: desc, Start: start, End: &end}
}
