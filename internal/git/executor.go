package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCommandFailed is wrapped by every CommandError.
var ErrCommandFailed = errors.New("git command failed")

// CommandExecutor runs git commands.
type CommandExecutor interface {
	// ExecuteWithOutput runs cmd and returns its standard output.
	ExecuteWithOutput(cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default CommandExecutor; it delegates to os/exec.
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// ExecuteWithOutput implements CommandExecutor.
func (e *ExecExecutor) ExecuteWithOutput(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var args []string
		if len(cmd.Args) > 1 {
			args = cmd.Args[1:]
		}
		return "", &CommandError{
			Args:   args,
			Err:    fmt.Errorf("%w: %v", ErrCommandFailed, err),
			Output: strings.TrimSpace(stderr.String()),
		}
	}
	return stdout.String(), nil
}

// CommandError describes a failed git invocation.
type CommandError struct {
	Args   []string
	Err    error
	Output string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := "git"
	if len(e.Args) > 0 {
		msg += " " + e.Args[0]
	}
	msg += " failed"
	if e.Output != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Output)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
