package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/autoclock/internal/clockify"
	"github.com/Tiliavir/autoclock/internal/config"
	"github.com/Tiliavir/autoclock/internal/hooks"
)

const (
	exitUsage   = 1
	exitRuntime = 2
)

// usageError marks errors caused by how autoclock was invoked or configured.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usage(validate(cmd, args))
	}
}

// exitCode maps an error to the process exit status: 1 for usage,
// configuration and identity problems, 2 for everything else.
func exitCode(err error) int {
	var (
		uerr *usageError
		cerr *config.Error
		herr *hooks.HookNotSupportedError
	)
	switch {
	case errors.As(err, &uerr),
		errors.As(err, &cerr),
		errors.As(err, &herr),
		errors.Is(err, clockify.ErrUnresolvedIdentity),
		errors.Is(err, clockify.ErrMissingCredentials):
		return exitUsage
	}
	return exitRuntime
}
