package model

import "time"

// Commit is a commit as reported by the VCS provider. Timestamp and Branch
// may be empty and are resolved lazily by the consumer.
type Commit struct {
	Hash        string
	Description string
	Timestamp   *time.Time
	Branch      string
}

// ReflogCommand classifies a reflog line.
type ReflogCommand int

const (
	ReflogOther ReflogCommand = iota
	ReflogCommit
	ReflogCommitAmend
	ReflogCommitInitial
	ReflogCheckout
)

// String returns the command as git prints it in the reflog subject.
func (c ReflogCommand) String() string {
	switch c {
	case ReflogCommit:
		return "commit"
	case ReflogCommitAmend:
		return "commit (amend)"
	case ReflogCommitInitial:
		return "commit (initial)"
	case ReflogCheckout:
		return "checkout"
	default:
		return "other"
	}
}

// ParseReflogCommand maps the command part of a reflog subject
// ("commit (amend)", "checkout", ...) to a ReflogCommand.
func ParseReflogCommand(s string) ReflogCommand {
	switch s {
	case "commit":
		return ReflogCommit
	case "commit (amend)":
		return ReflogCommitAmend
	case "commit (initial)":
		return ReflogCommitInitial
	case "checkout":
		return ReflogCheckout
	default:
		return ReflogOther
	}
}

// ReflogEntry is one line of the reflog, most recent first.
type ReflogEntry struct {
	Hash    string
	Command ReflogCommand
	Detail  string
	Time    *time.Time
}

// IsCommit reports whether the entry records a commit. Amends only count
// when includeAmend is set.
func (e ReflogEntry) IsCommit(includeAmend bool) bool {
	switch e.Command {
	case ReflogCommit, ReflogCommitInitial:
		return true
	case ReflogCommitAmend:
		return includeAmend
	default:
		return false
	}
}
