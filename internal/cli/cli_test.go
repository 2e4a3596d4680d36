package cli

import (
	"strings"
	"testing"
	"time"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	var err error
	output := captureOutput(t, func() {
		err = RunWithArgs("0.1.0-test", []string{"--version"})
	})

	assert.NoError(t, err)
	assert.Equal(t, "historyremover 0.1.0-test", strings.TrimSpace(output))
}

func TestSubcommandsRecognized(t *testing.T) {
	cases := [][]string{
		{"status"},
		{"search", "golang"},
		{"search", "--domain", "github.com", "--regex", "issues/\\d+", "--regex-in", "both"},
		{"delete", "--domain", "example.com", "--dry-run"},
		{"delete", "https://a.test/", "https://b.test/"},
		{"prune", "--older-than", "30d"},
		{"prune", "--preset", "lastHour"},
		{"purge", "--all"},
		{"add", "--url", "https://example.com", "--title", "Test", "--bookmark"},
		{"bookmarks"},
		{"settings", "--max-results", "50", "--case-sensitive", "on"},
		{"serve", "--port", "8080"},
	}

	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			parser, _, _ := buildParser("test")
			parser.CommandHandler = noExecute
			_, err := parser.ParseArgs(args)
			assert.NoError(t, err)
		})
	}
}

// noExecute parses a command line without running the command.
func noExecute(goflags.Commander, []string) error { return nil }

func TestGlobalFlagsParsed(t *testing.T) {
	parser, globals, _ := buildParser("test")
	parser.CommandHandler = noExecute

	_, err := parser.ParseArgs([]string{"--json", "--verbose", "--daemon", "--config", "/tmp/hr.yaml", "bookmarks"})
	require.NoError(t, err)

	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	assert.True(t, globals.Daemon)
	assert.Equal(t, "/tmp/hr.yaml", globals.Config)
}

func TestInvalidChoiceRejected(t *testing.T) {
	err := RunWithArgs("test", []string{"search", "--preset", "lastDecade"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lastDecade")
}

func TestAddRequiresURL(t *testing.T) {
	err := RunWithArgs("test", []string{"add", "--title", "Test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url is required")
}

func TestPurgeRequiresAll(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"30d": 30 * 24 * time.Hour,
		"24h": 24 * time.Hour,
		"2w":  14 * 24 * time.Hour,
		"15m": 15 * time.Minute,
		"0d":  0,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "d", "7", "abc", "7y", "-1d"} {
		_, err := parseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "30 days", formatDurationHuman(30*24*time.Hour))
	assert.Equal(t, "1 hour", formatDurationHuman(time.Hour))
	assert.Equal(t, "1 URL", plural(1, "URL"))
	assert.Equal(t, "3 URLs", plural(3, "URL"))
}
