package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/autoclock/internal/clockify"
	"github.com/Tiliavir/autoclock/internal/message"
	"github.com/Tiliavir/autoclock/internal/timecalc"
)

// Config is the root configuration for autoclock, stored in
// ~/.autoclock/config.yaml.
type Config struct {
	Clockify ClockifyConfig `yaml:"clockify"`
	Workday  WorkdayConfig  `yaml:"workday"`
	Messages MessagesConfig `yaml:"messages"`
	Git      GitConfig      `yaml:"git"`
	Timer    TimerConfig    `yaml:"timer"`
	Log      LogConfig      `yaml:"log"`
}

// ClockifyConfig holds the time-tracking service settings.
type ClockifyConfig struct {
	APIURL string `yaml:"api_url"`
	// APIKey is sent as X-Api-Key. Prefer the CLOCKIFY_API_KEY variable.
	APIKey string `yaml:"api_key"`
	// AccessToken is sent as a bearer token instead of the API key.
	AccessToken string        `yaml:"access_token"`
	WorkspaceID string        `yaml:"workspace_id"`
	UserID      string        `yaml:"user_id"`
	ProjectID   string        `yaml:"project_id"`
	Timeout     time.Duration `yaml:"timeout"`
}

// WorkdayConfig describes the working hours entries are fitted into.
type WorkdayConfig struct {
	StartHour int `yaml:"start_hour"`
	WorkHours int `yaml:"work_hours"`
	// Timezone is an IANA name. Empty means the local zone.
	Timezone string `yaml:"timezone"`
}

// MessagesConfig controls commit message normalization.
type MessagesConfig struct {
	TemporaryMarkers []string `yaml:"temporary_markers"`
}

// GitConfig selects the repository and the commits considered.
type GitConfig struct {
	Path   string `yaml:"path"`
	Author string `yaml:"author"`
}

// TimerConfig tunes the running-timer reconciliation.
type TimerConfig struct {
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// LogConfig configures the log file.
type LogConfig struct {
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

// Error is a configuration value that failed validation.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	errOutOfRange = errors.New("out of range")
	errEmpty      = errors.New("must not be empty")
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	return Config{
		Clockify: ClockifyConfig{
			APIURL:  clockify.DefaultBaseURL,
			Timeout: clockify.DefaultTimeout,
		},
		Workday: WorkdayConfig{
			StartHour: timecalc.DefaultStartHour,
			WorkHours: timecalc.DefaultWorkHours,
		},
		Messages: MessagesConfig{
			TemporaryMarkers: append([]string(nil), message.DefaultMarkers...),
		},
		Git: GitConfig{Path: "."},
		Log: LogConfig{File: "~/.autoclock/autoclock.log"},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `# autoclock configuration - ~/.autoclock/config.yaml
#
# Every setting is optional. Environment variables override this file and
# command line flags override both.

clockify:
  # Base URL of the Clockify API.
  api_url: https://api.clockify.me/api/v1
  # Personal API key. Prefer the CLOCKIFY_API_KEY environment variable.
  api_key: ""
  # Bearer token used instead of the API key (CLOCKIFY_ACCESS_TOKEN).
  access_token: ""
  # Run "autoclock workspaces" to list the ids available to you.
  workspace_id: ""
  user_id: ""
  # Project assigned to submitted entries. Empty leaves entries unassigned.
  project_id: ""
  timeout: 15s

workday:
  # Hour the workday starts (START_OF_DAY) and its length in hours.
  start_hour: 9
  work_hours: 8
  # IANA timezone, e.g. "Europe/Berlin". Empty uses the local zone.
  timezone: ""

messages:
  # Commit messages starting with one of these (after an optional ticket id
  # such as "JIRA-123") are temporary and named after their branch.
  temporary_markers: [tmp, temp]

git:
  path: .
  # Only commits by this author are reported. Empty means everyone.
  author: ""

timer:
  # Pause between attempts to stop a running timer.
  retry_delay: 0s

log:
  file: ~/.autoclock/autoclock.log
  verbose: false
`

// DefaultPath returns AUTOCLOCK_CONFIG if set, else ~/.autoclock/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("AUTOCLOCK_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".autoclock", "config.yaml"), nil
}

// Load reads the config file at path, creating it with annotated defaults
// on first run. An empty path selects DefaultPath. Unset keys keep their
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Clockify.APIKey, "CLOCKIFY_API_KEY")
	set(&c.Clockify.AccessToken, "CLOCKIFY_ACCESS_TOKEN")
	set(&c.Clockify.APIURL, "CLOCKIFY_API_URL")
	set(&c.Clockify.WorkspaceID, "CLOCKIFY_WORKSPACE_ID")
	set(&c.Clockify.UserID, "CLOCKIFY_USER_ID")

	if v := strings.TrimSpace(getenv("START_OF_DAY")); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Key: "START_OF_DAY", Value: v, Err: err}
		}
		c.Workday.StartHour = h
	}
	return nil
}

// Validate checks value ranges and the timezone name.
func (c *Config) Validate() error {
	if c.Workday.StartHour < 0 || c.Workday.StartHour > 23 {
		return &Error{Key: "workday.start_hour", Value: strconv.Itoa(c.Workday.StartHour), Err: errOutOfRange}
	}
	if c.Workday.WorkHours < 1 || c.Workday.StartHour+c.Workday.WorkHours > 24 {
		return &Error{Key: "workday.work_hours", Value: strconv.Itoa(c.Workday.WorkHours), Err: errOutOfRange}
	}
	if _, err := c.Location(); err != nil {
		return &Error{Key: "workday.timezone", Value: c.Workday.Timezone, Err: err}
	}
	if len(c.Messages.TemporaryMarkers) == 0 {
		return &Error{Key: "messages.temporary_markers", Value: "", Err: errEmpty}
	}
	for _, m := range c.Messages.TemporaryMarkers {
		if strings.TrimSpace(m) == "" {
			return &Error{Key: "messages.temporary_markers", Value: m, Err: errEmpty}
		}
	}
	if c.Clockify.Timeout < 0 {
		return &Error{Key: "clockify.timeout", Value: c.Clockify.Timeout.String(), Err: errOutOfRange}
	}
	if c.Timer.RetryDelay < 0 {
		return &Error{Key: "timer.retry_delay", Value: c.Timer.RetryDelay.String(), Err: errOutOfRange}
	}
	return nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Workday.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Workday.Timezone)
}

// LogFile returns the log file path with a leading ~ expanded.
func (c *Config) LogFile() string {
	return expandHome(c.Log.File)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
