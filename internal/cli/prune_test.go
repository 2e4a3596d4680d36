package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrune_OlderThan(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)

	cmd := &PruneCommand{session: s, globals: &GlobalFlags{}, OlderThan: "2d"}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	assert.Contains(t, output, "Pruned history older than 2 days.")
	assert.ElementsMatch(t, []string{
		"https://github.com/golang/go",
		"https://gist.github.com/someone/abc",
		"https://news.ycombinator.com/item?id=1",
	}, remainingURLs(t, s))
}

func TestPrune_Preset(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)

	cmd := &PruneCommand{session: s, globals: &GlobalFlags{}, Preset: "last24Hours"}
	captureOutput(t, func() { require.NoError(t, cmd.Execute(nil)) })

	assert.Len(t, remainingURLs(t, s), 3)
}

func TestPrune_DryRun(t *testing.T) {
	s := newTestSession(t)
	seedVisits(t, s, defaultVisits)

	cmd := &PruneCommand{session: s, globals: &GlobalFlags{JSON: true}, OlderThan: "2d", DryRun: true}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, true, out["dry_run"])
	assert.Equal(t, float64(2), out["would_prune"])
	assert.Len(t, remainingURLs(t, s), 5)
}

func TestPrune_RangeValidation(t *testing.T) {
	_, _, err := (&PruneCommand{}).pruneRange(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--older-than or --preset")

	_, _, err = (&PruneCommand{OlderThan: "1d", Preset: "today"}).pruneRange(testNow)
	assert.Error(t, err)

	_, _, err = (&PruneCommand{OlderThan: "forever"}).pruneRange(testNow)
	assert.Error(t, err)

	dr, desc, err := (&PruneCommand{OlderThan: "1w"}).pruneRange(testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), dr.StartTime)
	assert.Equal(t, testNow.Add(-7*24*time.Hour).UnixMilli(), dr.EndTime)
	assert.Equal(t, "older than 7 days", desc)
}
