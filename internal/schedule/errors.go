package schedule

import "errors"

var (
	// ErrRetryExhausted means a running timer could not be confirmed
	// stopped within MaxStopAttempts queries.
	ErrRetryExhausted = errors.New("failed to stop the running timer before logging the entry")

	// ErrNoCommit means the reflog holds no commit to log.
	ErrNoCommit = errors.New("no commit found in the reflog")
)
