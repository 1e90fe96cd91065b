package git

import (
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiliavir/autoclock/internal/model"
)

// Options configures a Provider.
type Options struct {
	// RepoPath is the working tree git is run in. Empty means the current directory.
	RepoPath string
	// Author restricts CommitsInRange to commits whose author matches.
	Author string
	// Location is the zone timestamps are reported in. Nil means time.Local.
	Location *time.Location
}

// Provider answers commit and branch questions by running git. Lookups are
// memoized for the lifetime of the Provider; create one per invocation.
// A Provider is not safe for concurrent use.
type Provider struct {
	opts     Options
	executor CommandExecutor

	reflog   []model.ReflogEntry
	branches map[string]string
	times    map[string]*time.Time
}

// NewProvider creates a Provider that shells out to git.
func NewProvider(opts Options) *Provider {
	return NewProviderWithExecutor(opts, NewExecExecutor())
}

// NewProviderWithExecutor creates a Provider with a custom executor.
func NewProviderWithExecutor(opts Options, executor CommandExecutor) *Provider {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Provider{
		opts:     opts,
		executor: executor,
		branches: map[string]string{},
		times:    map[string]*time.Time{},
	}
}

func (p *Provider) run(args ...string) (string, error) {
	full := args
	if p.opts.RepoPath != "" {
		full = append([]string{"-C", p.opts.RepoPath}, args...)
	}
	return p.executor.ExecuteWithOutput(exec.Command("git", full...))
}

// Reflog returns the reflog of HEAD, most recent first.
func (p *Provider) Reflog() ([]model.ReflogEntry, error) {
	if p.reflog != nil {
		return p.reflog, nil
	}
	out, err := p.run("reflog", "--date=unix", "--format="+reflogFormat)
	if err != nil {
		return nil, err
	}
	entries, err := parseReflog(out, p.opts.Location)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.ReflogEntry{}
	}
	p.reflog = entries
	return entries, nil
}

// LastCommit returns the most recent commit recorded in the reflog that
// satisfies match. A nil match accepts every commit. It returns nil when no
// commit qualifies.
func (p *Provider) LastCommit(includeAmend bool, match func(model.Commit) bool) (*model.Commit, error) {
	entries, err := p.Reflog()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsCommit(includeAmend) {
			continue
		}
		c := model.Commit{Hash: e.Hash, Description: e.Detail}
		if match == nil || match(c) {
			return &c, nil
		}
	}
	return nil, nil
}

// LastCheckoutIntoBranch returns when branch was last checked out, or nil
// if the reflog has no such checkout.
func (p *Provider) LastCheckoutIntoBranch(branch string) (*time.Time, error) {
	if branch == "" {
		return nil, nil
	}
	entries, err := p.Reflog()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Command != model.ReflogCheckout {
			continue
		}
		if _, to, ok := parseCheckout(e.Detail); ok && to == branch {
			return e.Time, nil
		}
	}
	return nil, nil
}

// CommitsInRange returns the commits made in [start, end], oldest first.
func (p *Provider) CommitsInRange(start, end time.Time) ([]model.Commit, error) {
	args := []string{
		"log", "--all", "--no-merges", "--reverse",
		"--since=" + start.Format(time.RFC3339),
		"--until=" + end.Format(time.RFC3339),
		"--format=" + logFormat,
	}
	if p.opts.Author != "" {
		args = append(args, "--author="+p.opts.Author)
	}
	out, err := p.run(args...)
	if err != nil {
		return nil, err
	}
	commits, err := parseLog(out, p.opts.Location)
	if err != nil {
		return nil, err
	}
	for _, c := range commits {
		p.times[c.Hash] = c.Timestamp
	}
	return commits, nil
}

// BranchOfCommit returns a branch containing hash, preferring local
// branches. It returns "" when no branch contains the commit.
func (p *Provider) BranchOfCommit(hash string) (string, error) {
	if b, ok := p.branches[hash]; ok {
		return b, nil
	}
	out, err := p.run("branch", "--format=%(refname:short)", "--contains", hash)
	if err != nil {
		return "", err
	}
	branch := firstLine(out)
	if branch == "" {
		out, err = p.run("branch", "-r", "--format=%(refname:short)", "--contains", hash)
		if err != nil {
			return "", err
		}
		branch = remoteBranch(out)
	}
	p.branches[hash] = branch
	return branch, nil
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD.
func (p *Provider) CurrentBranch() (string, error) {
	out, err := p.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(out)
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// TimeOfCommit returns the committer time of hash.
func (p *Provider) TimeOfCommit(hash string) (*time.Time, error) {
	if t, ok := p.times[hash]; ok {
		return t, nil
	}
	out, err := p.run("show", "-s", "--format=%ct", hash)
	if err != nil {
		return nil, err
	}
	t, err := parseUnix(strings.TrimSpace(out), p.opts.Location)
	if err != nil {
		return nil, err
	}
	p.times[hash] = t
	return t, nil
}

// HooksDir returns the absolute path of the repository's hooks directory.
func (p *Provider) HooksDir() (string, error) {
	out, err := p.run("rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) && p.opts.RepoPath != "" {
		dir = filepath.Join(p.opts.RepoPath, dir)
	}
	return filepath.Abs(dir)
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		// Skip "(HEAD detached at ...)" pseudo branches.
		if line != "" && !strings.HasPrefix(line, "(") {
			return line
		}
	}
	return ""
}

// remoteBranch picks the first remote-tracking branch and drops its remote
// name, so "origin/feature-x" becomes "feature-x".
func remoteBranch(out string) string {
	for _, line := range strings.Split(out, "\n") {
		ref := strings.TrimSpace(line)
		i := strings.Index(ref, "/")
		if i < 0 || strings.HasSuffix(ref, "/HEAD") {
			continue
		}
		return ref[i+1:]
	}
	return ""
}
