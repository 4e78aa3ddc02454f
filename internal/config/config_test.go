package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_PASSWORD", "POSTGRES_SSLMODE", "HTTP_ADDR",
		"SESSION_TTL", "COOKIE_SECURE", "VOTE_OPTIONS", "RESULTS_INTERVAL", "RESULTS_RETRY_INTERVAL"} {
		t.Setenv(key, "")
	}
	t.Setenv("POSTGRES_USER", "user")
	t.Setenv("POSTGRES_DB", "voting")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("BALLOT_KEYS", "k1, k2")

	cfg, err := Parse("test", nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultOptions, cfg.Options)
	assert.Equal(t, []string{"k1", "k2"}, cfg.BallotKeys)
	assert.Equal(t, 5*time.Second, cfg.ResultsInterval)
	assert.Equal(t, 10*time.Second, cfg.ResultsRetryInterval)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "postgres://user:@localhost:5432/voting?sslmode=disable", cfg.Database.ConnString())
	assert.NoError(t, cfg.Validate())
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("VOTE_OPTIONS", "A,B")

	cfg, err := Parse("test", []string{"-addr", ":7000", "-options", "X, Y ,Z", "-cookie-secure=false"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, []string{"X", "Y", "Z"}, cfg.Options)
	assert.False(t, cfg.CookieSecure)
}

func TestParseInvalidDuration(t *testing.T) {
	_, err := Parse("test", []string{"-results-interval", "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Database:             Database{User: "u", Name: "db"},
		SessionSecret:        "s",
		BallotKeys:           []string{"k"},
		Options:              []string{"A", "B"},
		ResultsInterval:      time.Second,
		ResultsRetryInterval: time.Second,
	}
	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.SessionSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "SESSION_SECRET")

	noKeys := base
	noKeys.BallotKeys = nil
	assert.ErrorContains(t, noKeys.Validate(), "BALLOT_KEYS")

	dup := base
	dup.Options = []string{"A", "A"}
	assert.ErrorContains(t, dup.Validate(), "duplicate")

	noDB := base
	noDB.Database = Database{}
	assert.Error(t, noDB.Validate())
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("QRVOTE_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("QRVOTE_TEST_VALUE") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("QRVOTE_TEST_VALUE"))
}

func TestParsePositionalArgs(t *testing.T) {
	cfg, err := Parse("migrations", []string{"-db-host", "db", "000001_create_voting_tables.up"})
	require.NoError(t, err)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, []string{"000001_create_voting_tables.up"}, cfg.Args)
}

func TestParseReportsBadEnvValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"SESSION_TTL", "forever", "invalid session ttl"},
		{"COOKIE_SECURE", "maybe", "invalid cookie-secure value"},
		{"RESULTS_RETRY_INTERVAL", "later", "invalid results retry interval"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Parse("test", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
