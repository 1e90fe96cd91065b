// Package schedule decides when the time entry for a commit starts and ends.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/autoclock/internal/logger"
	"github.com/Tiliavir/autoclock/internal/message"
	"github.com/Tiliavir/autoclock/internal/model"
	"github.com/Tiliavir/autoclock/internal/timecalc"
)

// VCS provides commit and branch history.
type VCS interface {
	LastCommit(includeAmend bool, match func(model.Commit) bool) (*model.Commit, error)
	CommitsInRange(start, end time.Time) ([]model.Commit, error)
	BranchOfCommit(hash string) (string, error)
	CurrentBranch() (string, error)
	TimeOfCommit(hash string) (*time.Time, error)
	LastCheckoutIntoBranch(branch string) (*time.Time, error)
}

// Gateway reads and writes entries on the time-tracking service.
type Gateway interface {
	MostRecentEntry(ctx context.Context, since time.Time) (*model.RemoteEntry, error)
	StopRunningTimer(ctx context.Context, at time.Time) error
	Submit(ctx context.Context, draft model.TimeEntryDraft) error
	EntriesInRange(ctx context.Context, start, end time.Time) ([]model.RemoteEntry, error)
}

// Options configures a Scheduler.
type Options struct {
	StartHour int
	WorkHours int
	// Location is the zone workdays are computed in. Nil means time.Local.
	Location *time.Location
	// Markers flag temporary commit messages. Empty means message.DefaultMarkers.
	Markers []string
	// Submit enables submission of live entries. Without it the running
	// timer is left alone and drafts are only returned.
	Submit     bool
	RetryDelay time.Duration
	// Now overrides the clock.
	Now func() time.Time
}

// Scheduler turns commits into time entry drafts.
type Scheduler struct {
	vcs        VCS
	gateway    Gateway
	log        logger.Logger
	opts       Options
	normalizer *message.Normalizer
	reconciler *TimerReconciler
}

// DefaultOptions returns Options for a 9 to 5 workday in the local zone.
func DefaultOptions() Options {
	return Options{
		StartHour: timecalc.DefaultStartHour,
		WorkHours: timecalc.DefaultWorkHours,
		Location:  time.Local,
		Markers:   message.DefaultMarkers,
	}
}

// New creates a Scheduler.
func New(vcs VCS, gateway Gateway, log logger.Logger, opts Options) *Scheduler {
	if opts.WorkHours <= 0 {
		opts.WorkHours = timecalc.DefaultWorkHours
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		vcs:        vcs,
		gateway:    gateway,
		log:        log,
		opts:       opts,
		normalizer: message.NewNormalizer(vcs, opts.Markers),
		reconciler: NewTimerReconciler(gateway, log, opts.Now, opts.RetryDelay),
	}
}

func (s *Scheduler) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

func (s *Scheduler) workday(t time.Time) timecalc.Workday {
	return timecalc.NewWorkday(t.In(s.opts.Location), s.opts.StartHour, s.opts.WorkHours)
}

// Live logs the most recent commit, amends included, as an entry ending now.
func (s *Scheduler) Live(ctx context.Context) (*model.DailyLog, error) {
	commit, err := s.vcs.LastCommit(true, nil)
	if err != nil {
		return nil, fmt.Errorf("reading last commit: %w", err)
	}
	if commit == nil {
		return nil, ErrNoCommit
	}

	branch := commit.Branch
	if branch == "" {
		if branch, err = s.vcs.BranchOfCommit(commit.Hash); err != nil {
			return nil, fmt.Errorf("resolving branch of %s: %w", commit.Hash, err)
		}
	}
	ts := commit.Timestamp
	if ts == nil {
		if ts, err = s.vcs.TimeOfCommit(commit.Hash); err != nil {
			return nil, fmt.Errorf("resolving time of %s: %w", commit.Hash, err)
		}
	}
	return s.live(ctx, commit.Hash, commit.Description, branch, ts)
}

// LiveMessage logs a commit that is about to be made with the given message.
// The commit has no hash or timestamp yet and belongs to the current branch.
func (s *Scheduler) LiveMessage(ctx context.Context, msg string) (*model.DailyLog, error) {
	branch, err := s.vcs.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("resolving current branch: %w", err)
	}
	return s.live(ctx, "", msg, branch, nil)
}

func (s *Scheduler) live(ctx context.Context, hash, msg, branch string, ts *time.Time) (*model.DailyLog, error) {
	now := s.now()
	workday := s.workday(now)

	checkout, err := s.vcs.LastCheckoutIntoBranch(branch)
	if err != nil {
		return nil, fmt.Errorf("finding checkout of %q: %w", branch, err)
	}

	priorEnd, err := s.priorEnd(ctx, timecalc.StartOfDay(now), now)
	if err != nil {
		return nil, err
	}

	start := ResolveStart(workday, ts, checkout, priorEnd).In(s.opts.Location)
	desc, err := s.normalizer.Normalize(msg, hash)
	if err != nil {
		return nil, err
	}
	draft := model.TimeEntryDraft{
		Description: desc,
		Start:       start,
		End:         ResolveRealtimeEnd(start, now),
		Branch:      branch,
		CommitHash:  hash,
	}

	if s.opts.Submit {
		if err := s.gateway.Submit(ctx, draft); err != nil {
			return nil, fmt.Errorf("submitting entry %q: %w", draft.Description, err)
		}
		s.log.Info("Submitted %q from %s to %s", draft.Description, draft.Start.Format(time.RFC3339), draft.End.Format(time.RFC3339))
	}

	log := model.NewDailyLog()
	log.Append(draft)
	return log, nil
}

// priorEnd returns the end of the most recent entry since the given time.
// With submission enabled a running timer is stopped first; otherwise a
// running timer is reported as ending now, which is where stopping it would
// leave it.
func (s *Scheduler) priorEnd(ctx context.Context, since, now time.Time) (*time.Time, error) {
	if s.opts.Submit {
		return s.reconciler.EnsureStopped(ctx, since)
	}
	entry, err := s.gateway.MostRecentEntry(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetching most recent entry: %w", err)
	}
	if entry == nil {
		return nil, nil
	}
	if entry.Running() {
		s.log.Info("Timer %q is running, previewing it as stopped now", entry.Description)
		return &now, nil
	}
	return entry.End, nil
}

// Batch computes drafts for every commit in the days from through to,
// oldest first. Drafts are submitted only when submit is set.
func (s *Scheduler) Batch(ctx context.Context, from, to time.Time, submit bool) (*model.DailyLog, error) {
	rangeStart := timecalc.StartOfDay(from.In(s.opts.Location))
	rangeEnd := timecalc.EndOfDay(to.In(s.opts.Location))
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("range end %s is before start %s", rangeEnd.Format(model.DayLayout), rangeStart.Format(model.DayLayout))
	}

	remote, err := s.gateway.EntriesInRange(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	byDay := map[string][]model.RemoteEntry{}
	for _, e := range remote {
		key := e.Start.In(s.opts.Location).Format(model.DayLayout)
		byDay[key] = append(byDay[key], e)
	}

	log := model.NewDailyLog()
	for _, day := range timecalc.Days(rangeStart, rangeEnd) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.batchDay(ctx, day, byDay[day.Format(model.DayLayout)], submit, log); err != nil {
			return nil, err
		}
	}
	return log, nil
}

func (s *Scheduler) batchDay(ctx context.Context, day time.Time, remote []model.RemoteEntry, submit bool, log *model.DailyLog) error {
	commits, err := s.vcs.CommitsInRange(timecalc.StartOfDay(day), timecalc.EndOfDay(day))
	if err != nil {
		return fmt.Errorf("listing commits of %s: %w", day.Format(model.DayLayout), err)
	}
	if len(commits) == 0 {
		return nil
	}

	times := make([]*time.Time, len(commits))
	for i, c := range commits {
		if times[i] = c.Timestamp; times[i] == nil {
			if times[i], err = s.vcs.TimeOfCommit(c.Hash); err != nil {
				return fmt.Errorf("resolving time of %s: %w", c.Hash, err)
			}
		}
	}

	sort.SliceStable(remote, func(i, j int) bool { return remote[i].Start.Before(remote[j].Start) })
	known := newDayEntries(remote)
	workday := s.workday(day)
	key := day.Format(model.DayLayout)

	for i, c := range commits {
		ts := times[i]
		if ts == nil {
			s.log.Warning("Skipping commit %s without a timestamp", c.Hash)
			continue
		}

		branch := c.Branch
		if branch == "" {
			if branch, err = s.vcs.BranchOfCommit(c.Hash); err != nil {
				return fmt.Errorf("resolving branch of %s: %w", c.Hash, err)
			}
		}
		checkout, err := s.vcs.LastCheckoutIntoBranch(branch)
		if err != nil {
			return fmt.Errorf("finding checkout of %q: %w", branch, err)
		}
		// A checkout after the commit says nothing about when its work began.
		if checkout != nil && checkout.After(*ts) {
			checkout = nil
		}

		var nextCommit *time.Time
		if i+1 < len(commits) {
			nextCommit = times[i+1]
		}

		start := ResolveStart(workday, ts, checkout, known.priorEnd(*ts)).In(s.opts.Location)
		end := ResolveEnd(workday, start, nextRemoteStart(remote, *ts), nextCommit).In(s.opts.Location)
		desc, err := s.normalizer.Normalize(c.Description, c.Hash)
		if err != nil {
			return err
		}

		draft := model.TimeEntryDraft{
			Description: desc,
			Start:       start,
			End:         end,
			Branch:      branch,
			CommitHash:  c.Hash,
		}
		log.AppendTo(key, draft)
		known.add(draft)

		if submit {
			if err := s.gateway.Submit(ctx, draft); err != nil {
				return fmt.Errorf("submitting entry %q: %w", draft.Description, err)
			}
			s.log.Info("Submitted %q for commit %s", draft.Description, c.Hash)
		}
	}
	return nil
}

// nextRemoteStart returns the start of the first entry starting strictly
// after t. entries must be sorted by start.
func nextRemoteStart(entries []model.RemoteEntry, t time.Time) *time.Time {
	for i := range entries {
		if entries[i].Start.After(t) {
			return &entries[i].Start
		}
	}
	return nil
}

// dayEntries holds the intervals known for one day: remote entries plus the
// drafts produced so far, ordered by start.
type dayEntries struct {
	spans []span
}

type span struct {
	start time.Time
	end   *time.Time
}

func newDayEntries(remote []model.RemoteEntry) *dayEntries {
	d := &dayEntries{spans: make([]span, 0, len(remote))}
	for _, e := range remote {
		d.insert(span{start: e.Start, end: e.End})
	}
	return d
}

func (d *dayEntries) add(draft model.TimeEntryDraft) {
	end := draft.End
	d.insert(span{start: draft.Start, end: &end})
}

func (d *dayEntries) insert(s span) {
	i := sort.Search(len(d.spans), func(i int) bool { return d.spans[i].start.After(s.start) })
	d.spans = append(d.spans, span{})
	copy(d.spans[i+1:], d.spans[i:])
	d.spans[i] = s
}

// priorEnd returns the latest end among finished entries that do not start
// after t. Entries may overlap or nest.
func (d *dayEntries) priorEnd(t time.Time) *time.Time {
	var latest *time.Time
	for i := range d.spans {
		sp := d.spans[i]
		if sp.start.After(t) {
			break
		}
		if sp.end != nil && (latest == nil || sp.end.After(*latest)) {
			latest = sp.end
		}
	}
	return latest
}
