package clockify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/autoclock/internal/model"
	"github.com/Tiliavir/autoclock/internal/schedule"
)

var _ schedule.Gateway = (*Client)(nil)

const entriesPath = "/workspaces/ws1/user/u1/time-entries"

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Options)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := Options{BaseURL: srv.URL, APIKey: "secret", WorkspaceID: "ws1", UserID: "u1"}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := NewClient(context.Background(), opts)
	require.NoError(t, err)
	return c
}

func entryJSON(id, start string, end *string) timeEntry {
	return timeEntry{ID: id, Description: "entry " + id, TimeInterval: timeInterval{Start: start, End: end}}
}

func str(s string) *string { return &s }

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_APIKeyHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "/workspaces", r.URL.Path)
		writeJSON(t, w, []Workspace{{ID: "ws1", Name: "Acme"}})
	})

	ws, err := c.Workspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Workspace{{ID: "ws1", Name: "Acme"}}, ws)
}

func TestClient_BearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Api-Key"))
		writeJSON(t, w, User{ID: "u1", Name: "Dev"})
	}, func(o *Options) {
		o.APIKey = ""
		o.AccessToken = "tok"
	})

	u, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dev", u.Name)
}

func TestMostRecentEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, entriesPath, r.URL.Path)
		assert.Equal(t, "2026-03-02T00:00:00Z", r.URL.Query().Get("start"))
		writeJSON(t, w, []timeEntry{
			entryJSON("old", "2026-03-02T08:00:00Z", str("2026-03-02T09:00:00Z")),
			entryJSON("new", "2026-03-02T10:00:00Z", nil),
		})
	})

	e, err := c.MostRecentEntry(context.Background(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "new", e.ID)
	assert.True(t, e.Running())
}

func TestMostRecentEntry_None(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []timeEntry{})
	})
	e, err := c.MostRecentEntry(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestStopRunningTimer(t *testing.T) {
	var got stopTimer
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, entriesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, entryJSON("x", "2026-03-02T09:00:00Z", str("2026-03-02T11:00:00Z")))
	})

	berlin := time.FixedZone("CET", 3600)
	require.NoError(t, c.StopRunningTimer(context.Background(), time.Date(2026, 3, 2, 12, 0, 0, 0, berlin)))
	assert.Equal(t, "2026-03-02T11:00:00Z", got.End)
}

func TestSubmit(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/workspaces/ws1/time-entries", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusCreated)
	}, func(o *Options) { o.ProjectID = "p1" })

	err := c.Submit(context.Background(), model.TimeEntryDraft{
		Description: "Add login",
		Start:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"start":       "2026-03-02T09:00:00Z",
		"end":         "2026-03-02T13:00:00Z",
		"description": "Add login",
		"projectId":   "p1",
	}, got)
}

func TestEntriesInRange_Paginates(t *testing.T) {
	var pages []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		assert.Equal(t, "2026-03-01T00:00:00Z", r.URL.Query().Get("start"))
		assert.Equal(t, "2026-03-07T23:59:59Z", r.URL.Query().Get("end"))

		n := pageSize
		if page == "2" {
			n = 3
		}
		out := make([]timeEntry, n)
		for i := range out {
			out[i] = entryJSON(page+"-"+strconv.Itoa(i), fmt.Sprintf("2026-03-02T%02d:%02d:00Z", i/60, i%60), str("2026-03-02T23:00:00Z"))
		}
		writeJSON(t, w, out)
	})

	entries, err := c.EntriesInRange(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, entries, pageSize+3)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestGatewayError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusUnauthorized)
	})

	_, err := c.EntriesInRange(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))

	var gerr *GatewayError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, http.StatusUnauthorized, gerr.StatusCode)
	assert.Equal(t, http.MethodGet, gerr.Method)
	assert.Equal(t, entriesPath, gerr.Path)
	assert.Contains(t, gerr.Error(), "Unauthorized")
}

func TestCheckIdentity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces":
			writeJSON(t, w, []Workspace{{ID: "ws1", Name: "Acme"}, {ID: "ws2", Name: "Side"}})
		case "/user":
			writeJSON(t, w, User{ID: "u1", Name: "Dev"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, func(o *Options) {
		o.WorkspaceID = ""
		o.UserID = ""
	})

	err := c.CheckIdentity(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedIdentity)

	var idErr *IdentityError
	require.True(t, errors.As(err, &idErr))
	assert.Len(t, idErr.Workspaces, 2)
	assert.Contains(t, err.Error(), "Side\tws2")
	assert.Contains(t, err.Error(), "Dev\tu1")

	_, err = c.MostRecentEntry(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrUnresolvedIdentity)
}

func TestCheckIdentity_Resolved(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	})
	assert.NoError(t, c.CheckIdentity(context.Background()))
}
