// Package clockify is a client for the Clockify time-tracking REST API.
package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Tiliavir/autoclock/internal/model"
)

const (
	// DefaultBaseURL is the public Clockify API.
	DefaultBaseURL = "https://api.clockify.me/api/v1"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 15 * time.Second

	timeLayout = "2006-01-02T15:04:05Z"
	pageSize   = 50
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	WorkspaceID string
	UserID      string
	// ProjectID is attached to submitted entries when set.
	ProjectID string
	Timeout   time.Duration
}

// Client is an authenticated Clockify API client scoped to one workspace
// and user.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	workspaceID string
	userID      string
	projectID   string
}

// NewClient creates a Client. It fails with ErrMissingCredentials when
// neither an API key nor an access token is given.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpClient, err := newHTTPClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     opts.BaseURL,
		workspaceID: opts.WorkspaceID,
		userID:      opts.UserID,
		projectID:   opts.ProjectID,
	}, nil
}

// Workspace is a Clockify workspace.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is a Clockify user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type timeInterval struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type timeEntry struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	TimeInterval timeInterval `json:"timeInterval"`
}

type newTimeEntry struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId,omitempty"`
}

type stopTimer struct {
	End string `json:"end"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (e timeEntry) toModel() (model.RemoteEntry, error) {
	start, err := time.Parse(time.RFC3339, e.TimeInterval.Start)
	if err != nil {
		return model.RemoteEntry{}, fmt.Errorf("parsing start of entry %s: %w", e.ID, err)
	}
	out := model.RemoteEntry{ID: e.ID, Description: e.Description, Start: start}
	if e.TimeInterval.End != nil && *e.TimeInterval.End != "" {
		end, err := time.Parse(time.RFC3339, *e.TimeInterval.End)
		if err != nil {
			return model.RemoteEntry{}, fmt.Errorf("parsing end of entry %s: %w", e.ID, err)
		}
		out.End = &end
	}
	return out, nil
}

// Workspaces returns the workspaces the credentials can access.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var out []Workspace
	if err := c.do(ctx, http.MethodGet, "/workspaces", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentUser returns the user the credentials belong to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/user", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckIdentity returns an *IdentityError listing the available workspaces
// and the current user if the workspace or user id is not set.
func (c *Client) CheckIdentity(ctx context.Context) error {
	if c.workspaceID != "" && c.userID != "" {
		return nil
	}
	idErr := &IdentityError{}
	if c.workspaceID == "" {
		ws, err := c.Workspaces(ctx)
		if err != nil {
			return fmt.Errorf("listing workspaces: %w", err)
		}
		idErr.Workspaces = ws
	}
	if c.userID == "" {
		u, err := c.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("fetching current user: %w", err)
		}
		idErr.User = u
	}
	return idErr
}

func (c *Client) userEntriesPath() (string, error) {
	if c.workspaceID == "" || c.userID == "" {
		return "", ErrUnresolvedIdentity
	}
	return "/workspaces/" + url.PathEscape(c.workspaceID) + "/user/" + url.PathEscape(c.userID) + "/time-entries", nil
}

// MostRecentEntry returns the latest-starting entry since the given time,
// or nil if there is none.
func (c *Client) MostRecentEntry(ctx context.Context, since time.Time) (*model.RemoteEntry, error) {
	path, err := c.userEntriesPath()
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("start", formatTime(since))
	q.Set("page-size", strconv.Itoa(pageSize))

	var page []timeEntry
	if err := c.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
		return nil, err
	}

	var latest *model.RemoteEntry
	for _, e := range page {
		entry, err := e.toModel()
		if err != nil {
			return nil, err
		}
		if latest == nil || entry.Start.After(latest.Start) {
			latest = &entry
		}
	}
	return latest, nil
}

// StopRunningTimer ends the running timer at the given time.
func (c *Client) StopRunningTimer(ctx context.Context, at time.Time) error {
	path, err := c.userEntriesPath()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, nil, stopTimer{End: formatTime(at)}, nil)
}

// Submit creates a finished entry from the draft.
func (c *Client) Submit(ctx context.Context, draft model.TimeEntryDraft) error {
	if c.workspaceID == "" {
		return ErrUnresolvedIdentity
	}
	body := newTimeEntry{
		Start:       formatTime(draft.Start),
		End:         formatTime(draft.End),
		Description: draft.Description,
		ProjectID:   c.projectID,
	}
	return c.do(ctx, http.MethodPost, "/workspaces/"+url.PathEscape(c.workspaceID)+"/time-entries", nil, body, nil)
}

// EntriesInRange returns every entry starting in [start, end], following
// pagination.
func (c *Client) EntriesInRange(ctx context.Context, start, end time.Time) ([]model.RemoteEntry, error) {
	path, err := c.userEntriesPath()
	if err != nil {
		return nil, err
	}

	var all []model.RemoteEntry
	for pageNo := 1; ; pageNo++ {
		q := url.Values{}
		q.Set("start", formatTime(start))
		q.Set("end", formatTime(end))
		q.Set("page", strconv.Itoa(pageNo))
		q.Set("page-size", strconv.Itoa(pageSize))

		var page []timeEntry
		if err := c.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		for _, e := range page {
			entry, err := e.toModel()
			if err != nil {
				return nil, err
			}
			all = append(all, entry)
		}
		if len(page) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clockify request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding clockify response: %w", err)
	}
	return nil
}
