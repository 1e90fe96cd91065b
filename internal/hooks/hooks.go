// Package hooks maps git hook invocations onto the scheduler.
package hooks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Tiliavir/autoclock/internal/logger"
	"github.com/Tiliavir/autoclock/internal/model"
)

// Name is a supported git hook.
type Name string

const (
	CommitMsg    Name = "commit-msg"
	PostCommit   Name = "post-commit"
	PostCheckout Name = "post-checkout"
)

// HookNotSupportedError is returned for a hook name outside the supported set.
type HookNotSupportedError struct {
	Name      string
	Supported []string
}

func (e *HookNotSupportedError) Error() string {
	return fmt.Sprintf("hook %q is not supported (supported: %s)", e.Name, strings.Join(e.Supported, ", "))
}

// Scheduler is the part of the scheduler the hooks drive.
type Scheduler interface {
	Live(ctx context.Context) (*model.DailyLog, error)
	LiveMessage(ctx context.Context, msg string) (*model.DailyLog, error)
}

type handler func(ctx context.Context, args []string) (*model.DailyLog, error)

var supported = map[Name]bool{CommitMsg: true, PostCommit: true, PostCheckout: true}

// Supported returns the supported hook names, sorted.
func Supported() []string {
	out := make([]string, 0, len(supported))
	for n := range supported {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

// Parse returns the Name for s or a *HookNotSupportedError.
func Parse(s string) (Name, error) {
	if !supported[Name(s)] {
		return "", &HookNotSupportedError{Name: s, Supported: Supported()}
	}
	return Name(s), nil
}

// Dispatcher runs the handler of a hook.
type Dispatcher struct {
	scheduler Scheduler
	log       logger.Logger
	readFile  func(string) ([]byte, error)
	handlers  map[Name]handler
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(s Scheduler, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}
	d := &Dispatcher{scheduler: s, log: log, readFile: os.ReadFile}
	d.handlers = map[Name]handler{
		CommitMsg:    d.commitMsg,
		PostCommit:   d.postCommit,
		PostCheckout: d.postCheckout,
	}
	return d
}

// Run handles hook name with the arguments git passed to it. The returned
// log is nil when the hook records nothing.
func (d *Dispatcher) Run(ctx context.Context, name string, args []string) (*model.DailyLog, error) {
	n, err := Parse(name)
	if err != nil {
		return nil, err
	}
	d.log.Info("Running %s hook with args %q", n, args)
	return d.handlers[n](ctx, args)
}

// commitMsg logs the commit being made. git passes the path of the file
// holding the message.
func (d *Dispatcher) commitMsg(ctx context.Context, args []string) (*model.DailyLog, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s hook needs the commit message file", CommitMsg)
	}
	data, err := d.readFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading commit message: %w", err)
	}
	msg := subject(data)
	if msg == "" {
		d.log.Info("Empty commit message, nothing to log")
		return nil, nil
	}
	return d.scheduler.LiveMessage(ctx, msg)
}

func (d *Dispatcher) postCommit(ctx context.Context, _ []string) (*model.DailyLog, error) {
	return d.scheduler.Live(ctx)
}

// postCheckout only records the checkout; its time is read back from the
// reflog when the next commit is logged.
func (d *Dispatcher) postCheckout(_ context.Context, args []string) (*model.DailyLog, error) {
	if len(args) >= 3 && args[2] == "1" {
		d.log.Info("Branch checkout %s -> %s", short(args[0]), short(args[1]))
	} else {
		d.log.Info("File checkout, ignored")
	}
	return nil, nil
}

// subject returns the first line of a commit message file that is neither
// blank nor a comment.
func subject(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
