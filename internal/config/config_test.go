package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDataFile, EnvBackend, EnvTotalRooms, EnvLogLevel} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hotelkeys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "hotel_data.json", cfg.Data.File)
	assert.Equal(t, 20, cfg.Hotel.TotalRooms)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOTEL_HOME", "/srv/hotel")

	path := writeConfig(t, `
data:
  file: ${HOTEL_HOME}/rooms.db
  backend: SQLite
hotel:
  total_rooms: 40
logging:
  level: WARNING
  format: json
watch:
  refresh_interval: 15s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/hotel/rooms.db", cfg.Data.File)
	assert.Equal(t, "sqlite", cfg.Data.Backend)
	assert.Equal(t, 40, cfg.Hotel.TotalRooms)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, 15*time.Second, cfg.Watch.RefreshInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "hotel:\n  total_rooms: 40\n")

	t.Setenv(EnvTotalRooms, "5")
	t.Setenv(EnvDataFile, "other.json")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Hotel.TotalRooms)
	assert.Equal(t, "other.json", cfg.Data.File)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	const key = "HOTELKEYS_TEST_DOTENV_FILE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, os.WriteFile(".env", []byte(key+"=from-dotenv.json\n"), 0o600))
	path := writeConfig(t, "data:\n  file: ${"+key+"}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.json", cfg.Data.File)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		message string
	}{
		{name: "zero rooms", body: "hotel:\n  total_rooms: 0\n", message: "Hotel.TotalRooms must be at least 1"},
		{name: "unknown backend", body: "data:\n  backend: csv\n", message: "Data.Backend must be one of [json sqlite]"},
		{name: "empty data file", body: "data:\n  file: \"  \"\n", message: "Data.File is required"},
		{name: "short refresh", body: "watch:\n  refresh_interval: 10ms\n", message: "Watch.RefreshInterval must be at least 1s"},
		{name: "malformed yaml", body: "hotel: [\n", message: "failed to unmarshal config"},
		{name: "non-numeric env rooms", env: map[string]string{EnvTotalRooms: "many"}, message: EnvTotalRooms + " must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.body)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, herrors.HasCode(err, herrors.CodeConfigInvalid))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestInit(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "hotelkeys.yaml")

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Hotel.TotalRooms)
	assert.Empty(t, cfg.Metrics.Textfile, "metrics export stays off until configured")

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}

func TestLoggingConfig(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel(" Warning "))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))

	l := LoggingConfig{Level: LogLevelError, Format: LogFormatJSON}
	assert.Equal(t, "ERROR", l.SlogLevel(false).String())
	assert.Equal(t, "DEBUG", l.SlogLevel(true).String())
	assert.NotNil(t, l.NewLogger(os.Stderr, false))
}
