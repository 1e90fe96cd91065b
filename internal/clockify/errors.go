package clockify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGateway is matched by every GatewayError.
var ErrGateway = errors.New("time-tracking service request failed")

// ErrUnresolvedIdentity means the workspace or user to act on is unknown.
var ErrUnresolvedIdentity = errors.New("workspace or user id not set")

// GatewayError is returned for any non-2xx response.
type GatewayError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// Is reports whether target is ErrGateway.
func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// IdentityError lists what is available when the workspace or user id is
// missing.
type IdentityError struct {
	Workspaces []Workspace
	User       *User
}

func (e *IdentityError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUnresolvedIdentity.Error())
	if len(e.Workspaces) > 0 {
		b.WriteString("\n\nAvailable workspaces (use --workspace-id or CLOCKIFY_WORKSPACE_ID):")
		for _, w := range e.Workspaces {
			fmt.Fprintf(&b, "\n  %s\t%s", w.Name, w.ID)
		}
	}
	if e.User != nil {
		b.WriteString("\n\nCurrently logged in user (use --user-id or CLOCKIFY_USER_ID):")
		fmt.Fprintf(&b, "\n  %s\t%s", e.User.Name, e.User.ID)
	}
	return b.String()
}

func (e *IdentityError) Unwrap() error {
	return ErrUnresolvedIdentity
}
