package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
database:
  user: orderup
  password: secret
  database: orderup
`

func TestLoadFromFileDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 64, cfg.WebSocket.SendBuffer)
	assert.Equal(t, int64(1<<20), cfg.WebSocket.MaxPayloadBytes)
	assert.False(t, cfg.SMTP.Configured())
}

func TestLoadFromFileFullConfig(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, `
http:
  port: 8080
database:
  host: db.internal
  port: 5433
  user: orderup
  password: secret
  database: orderup
websocket:
  send_buffer: 16
  max_payload_bytes: 4096
smtp:
  host: smtp.example.com
  user: mailer
  password: hunter2
  from: noreply@example.com
notification_sound: assets/ding.mp3
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 16, cfg.WebSocket.SendBuffer)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, 587, cfg.SMTP.Port, "smtp port defaults when host is set")
	assert.Equal(t, "assets/ding.mp3", cfg.NotificationSound)
}

func TestLoadFromFileEnvOverrides(t *testing.T) {
	t.Setenv("ORDERUP_DB_HOST", "db.env")
	t.Setenv("ORDERUP_DB_PASSWORD", "from-env")
	t.Setenv("ORDERUP_DB_USER", "env-user")
	t.Setenv("ORDERUP_SMTP_HOST", "smtp.env")
	t.Setenv("ORDERUP_SMTP_FROM", "noreply@env")
	t.Setenv("ORDERUP_NOTIFICATION_SOUND", "assets/env.mp3")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	// the flat ORDERUP_<SECTION>_<FIELD> names must apply, section by section
	assert.Equal(t, "db.env", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-user", cfg.Database.User)
	assert.Equal(t, "smtp.env", cfg.SMTP.Host)
	assert.Equal(t, "noreply@env", cfg.SMTP.From)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, "assets/env.mp3", cfg.NotificationSound)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"missing database credentials",
			`database: {host: localhost}`,
			"database.user is required",
		},
		{
			"bad http port",
			minimalConfig + "\nhttp:\n  port: 70000\n",
			"http.port",
		},
		{
			"partial smtp section",
			minimalConfig + "\nsmtp:\n  host: smtp.example.com\n  from: \"\"\n",
			"smtp.from is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeConfig(t, "{not yaml"))
	assert.Error(t, err)
}
