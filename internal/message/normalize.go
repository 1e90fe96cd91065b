// Package message turns commit messages into time entry descriptions.
package message

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMarkers are the prefixes that flag a commit as temporary.
var DefaultMarkers = []string{"tmp", "temp"}

var ticketPrefix = regexp.MustCompile(`^[a-zA-Z]+-\d+\s+`)

// BranchLookup resolves branch names for the branch-name fallback.
type BranchLookup interface {
	BranchOfCommit(hash string) (string, error)
	CurrentBranch() (string, error)
}

// Normalizer derives a time entry description from a commit message.
type Normalizer struct {
	branches  BranchLookup
	temporary *regexp.Regexp
	marker    *regexp.Regexp
}

// NewNormalizer returns a Normalizer recognising the given temporary markers.
// An empty marker list selects DefaultMarkers.
func NewNormalizer(branches BranchLookup, markers []string) *Normalizer {
	quoted := quoteMarkers(markers)
	if len(quoted) == 0 {
		quoted = quoteMarkers(DefaultMarkers)
	}
	// Longest first so "temp" wins over a configured "te".
	sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })

	alt := `(?i)^([a-z]+-\d+\s+)?(?:` + strings.Join(quoted, "|") + `)`
	return &Normalizer{
		branches:  branches,
		temporary: regexp.MustCompile(alt),
		marker:    regexp.MustCompile(alt + `(?:\s+|$)`),
	}
}

func quoteMarkers(markers []string) []string {
	quoted := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			quoted = append(quoted, regexp.QuoteMeta(m))
		}
	}
	return quoted
}

// IsTemporary reports whether msg starts with a temporary marker, optionally
// preceded by a ticket id.
func (n *Normalizer) IsTemporary(msg string) bool {
	return n.temporary.MatchString(msg)
}

// Normalize returns the description to log for a commit. Temporary messages
// lose their marker and ticket id; when nothing remains, the branch name of
// hash (or the current branch when hash is empty) is used instead. Other
// messages are returned unchanged.
func (n *Normalizer) Normalize(msg, hash string) (string, error) {
	if !n.IsTemporary(msg) {
		return msg, nil
	}

	// A marker glued to a word ("template") is left in place.
	rest := msg
	if loc := n.marker.FindStringIndex(msg); loc != nil {
		rest = msg[loc[1]:]
	}
	rest = strings.TrimSpace(ticketPrefix.ReplaceAllString(rest, ""))
	if rest != "" {
		return capitalize(rest), nil
	}

	label, err := n.branchLabel(hash)
	if err != nil {
		return "", err
	}
	if label == "" {
		return capitalize(strings.TrimSpace(msg)), nil
	}
	return capitalize(label), nil
}

func (n *Normalizer) branchLabel(hash string) (string, error) {
	if n.branches == nil {
		return "", nil
	}
	var (
		branch string
		err    error
	)
	if hash == "" {
		branch, err = n.branches.CurrentBranch()
	} else {
		branch, err = n.branches.BranchOfCommit(hash)
	}
	if err != nil {
		return "", fmt.Errorf("resolving branch name for commit message: %w", err)
	}
	return strings.TrimSpace(strings.ReplaceAll(branch, "-", " ")), nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
