package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_EmptyDB(t *testing.T) {
	s := newTestSession(t)
	s.cfg.Daemon.Port = 1 // nothing listens here

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev", session: s}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	assert.Contains(t, output, "historyremover Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Visits:        0")
	assert.Contains(t, output, "Batch size:    50")
	assert.Contains(t, output, "not running")
}

func TestStatus_JSON(t *testing.T) {
	s := newTestSession(t)
	s.cfg.Daemon.Port = 1
	seedVisits(t, s, defaultVisits)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0", session: s}

	var err error
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	var out statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &out))
	assert.Equal(t, "1.0.0", out.Version)
	assert.Equal(t, int64(5), out.TotalVisits)
	assert.NotEmpty(t, out.OldestVisit)
	assert.NotEmpty(t, out.NewestVisit)
	assert.Greater(t, out.DatabaseSizeBytes, int64(0))
	assert.False(t, out.DaemonRunning)

	domains := map[string]int64{}
	for _, d := range out.TopDomains {
		domains[d.Domain] = d.Count
	}
	assert.Equal(t, int64(1), domains["github.com"])
	assert.Equal(t, int64(1), domains["www.example.com"])
}
