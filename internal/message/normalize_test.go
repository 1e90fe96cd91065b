package message_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/autoclock/internal/message"
)

type fakeBranches struct {
	byCommit map[string]string
	current  string
	err      error
	calls    []string
}

func (f *fakeBranches) BranchOfCommit(hash string) (string, error) {
	f.calls = append(f.calls, "commit:"+hash)
	return f.byCommit[hash], f.err
}

func (f *fakeBranches) CurrentBranch() (string, error) {
	f.calls = append(f.calls, "current")
	return f.current, f.err
}

func TestNormalize(t *testing.T) {
	branches := &fakeBranches{
		byCommit: map[string]string{"abc123": "add-login"},
		current:  "fix-session-timeout",
	}
	n := message.NewNormalizer(branches, nil)

	tests := []struct {
		name string
		msg  string
		hash string
		want string
	}{
		{"uppercase marker", "TMP fix bug", "abc123", "Fix bug"},
		{"marker only falls back to branch", "tmp", "abc123", "Add login"},
		{"ticket then marker", "JIRA-123 tmp rename", "abc123", "Rename"},
		{"ticket after marker", "temp PROJ-7 wire up client", "abc123", "Wire up client"},
		{"ticket and marker only", "JIRA-123 tmp", "abc123", "Add login"},
		{"normal commit unchanged", "Normal commit", "abc123", "Normal commit"},
		{"marker not at start", "attempt tmp", "abc123", "attempt tmp"},
		{"lowercase normal commit unchanged", "fix tmp handling", "abc123", "fix tmp handling"},
		{"no hash uses current branch", "temp", "", "Fix session timeout"},
		{"glued marker kept", "template engine", "abc123", "Template engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.msg, tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_BranchLookupOnlyWhenNeeded(t *testing.T) {
	branches := &fakeBranches{byCommit: map[string]string{"h": "x"}}
	n := message.NewNormalizer(branches, nil)

	_, err := n.Normalize("tmp keep going", "h")
	require.NoError(t, err)
	_, err = n.Normalize("Regular work", "h")
	require.NoError(t, err)

	assert.Empty(t, branches.calls)
}

func TestNormalize_UnknownBranchUsesMessage(t *testing.T) {
	n := message.NewNormalizer(&fakeBranches{}, nil)

	got, err := n.Normalize("tmp ", "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "Tmp", got)
}

func TestNormalize_BranchLookupError(t *testing.T) {
	boom := errors.New("git exploded")
	n := message.NewNormalizer(&fakeBranches{err: boom}, nil)

	_, err := n.Normalize("tmp", "deadbeef")
	require.ErrorIs(t, err, boom)
}

func TestNormalize_CustomMarkers(t *testing.T) {
	n := message.NewNormalizer(&fakeBranches{current: "spike-cache"}, []string{"WIP", " "})

	assert.True(t, n.IsTemporary("wip: half done"))
	assert.False(t, n.IsTemporary("tmp not a marker here"))

	got, err := n.Normalize("WIP", "")
	require.NoError(t, err)
	assert.Equal(t, "Spike cache", got)
}

func TestIsTemporary(t *testing.T) {
	n := message.NewNormalizer(nil, nil)

	assert.True(t, n.IsTemporary("tmp"))
	assert.True(t, n.IsTemporary("Temp: notes"))
	assert.True(t, n.IsTemporary("abc-12 TMP stuff"))
	assert.False(t, n.IsTemporary("abc-12x tmp stuff"))
	assert.False(t, n.IsTemporary(" tmp leading space"))
	assert.False(t, n.IsTemporary(""))
}
