package git

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/Tiliavir/autoclock/internal/model"
)

const (
	fieldSep = "\x1f"

	// hash, selector (HEAD@{<unix>} with --date=unix), subject
	reflogFormat = "%H%x1f%gd%x1f%gs"
	// hash, committer time, subject
	logFormat = "%H%x1f%ct%x1f%s"
)

var (
	selectorTime = regexp.MustCompile(`@\{(\d+)\}$`)
	checkoutMove = regexp.MustCompile(`^moving from (\S+) to (\S+)$`)
)

// parseReflog parses `git reflog` output produced with reflogFormat.
// Subjects look like "commit (amend): message" or
// "checkout: moving from main to feature-x".
func parseReflog(out string, loc *time.Location) ([]model.ReflogEntry, error) {
	var entries []model.ReflogEntry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, fieldSep, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected reflog line %q", line)
		}

		entry := model.ReflogEntry{Hash: fields[0]}
		if m := selectorTime.FindStringSubmatch(fields[1]); m != nil {
			t, err := parseUnix(m[1], loc)
			if err != nil {
				return nil, err
			}
			entry.Time = t
		}

		command, detail, found := strings.Cut(fields[2], ": ")
		if found {
			entry.Command = model.ParseReflogCommand(command)
			entry.Detail = norm.NFC.String(detail)
		} else {
			entry.Command = model.ReflogOther
			entry.Detail = norm.NFC.String(fields[2])
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseLog parses `git log` output produced with logFormat.
func parseLog(out string, loc *time.Location) ([]model.Commit, error) {
	var commits []model.Commit
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, fieldSep, 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected log line %q", line)
		}
		t, err := parseUnix(fields[1], loc)
		if err != nil {
			return nil, err
		}
		commits = append(commits, model.Commit{
			Hash:        fields[0],
			Description: norm.NFC.String(fields[2]),
			Timestamp:   t,
		})
	}
	return commits, nil
}

// parseCheckout splits a checkout reflog detail into source and target.
func parseCheckout(detail string) (from, to string, ok bool) {
	m := checkoutMove.FindStringSubmatch(strings.TrimSpace(detail))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func parseUnix(s string, loc *time.Location) (*time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid git timestamp %q: %w", s, err)
	}
	t := time.Unix(sec, 0).In(loc)
	return &t, nil
}
