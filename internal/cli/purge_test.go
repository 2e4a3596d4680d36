package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurge_WithoutAllFlag_Errors(t *testing.T) {
	cmd := &PurgeCommand{globals: &GlobalFlags{}, Force: true}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestPurge_WithAllAndForce_Succeeds(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)
	_, err := s.store.AddBookmark(context.Background(), 1, "Go", "https://go.dev/")
	require.NoError(t, err)

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{JSON: true}, session: s}

	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, true, out["purged"])

	assert.Empty(t, remainingURLs(t, s))

	stats, err := s.store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBookmarks, "bookmarks survive a purge")
}

func TestPurge_ConfirmationMismatchAborts(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)

	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, session: s, stdin: strings.NewReader("purge\n")}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation text did not match")
	assert.Contains(t, output, "WARNING")
	assert.Len(t, remainingURLs(t, s), 5)
}

func TestPurge_ConfirmationAccepted(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)

	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, session: s, stdin: strings.NewReader("PURGE\n")}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Purged all history.")
	assert.Empty(t, remainingURLs(t, s))
}

func TestPurge_NoInputAborts(t *testing.T) {
	cmd := &PurgeCommand{All: true, globals: &GlobalFlags{}, stdin: strings.NewReader("")}

	var err error
	captureOutput(t, func() { err = cmd.Execute(nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input received")
}
