package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// noEnvFile points Load at a file that does not exist so a stray .env in
// the working directory cannot leak into the test.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	state, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, scoreboard.DefaultState(), state)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "scoreboard.yaml", `
server:
  port: 9000
clock:
  tick_interval: 500ms
gateway:
  ack_rejections: true
  allowed_origins: ["http://board.local"]
panel:
  cols: 128
initial:
  home_name: LIONS
  away_color: "10,20,30"
  clock_seconds: 600
`)

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Clock.TickInterval)
	assert.True(t, cfg.Gateway.AckRejections)
	assert.Equal(t, []string{"http://board.local"}, cfg.Gateway.AllowedOrigins)
	assert.Equal(t, 128, cfg.Panel.Cols)
	assert.Equal(t, 32, cfg.Panel.Rows, "unset fields keep their defaults")
	assert.Equal(t, "info", cfg.Log.Level)

	state, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, "LIONS", state.HomeName)
	assert.Equal(t, "AWAY", state.AwayName)
	assert.Equal(t, scoreboard.RGB{R: 10, G: 20, B: 30}, state.AwayBgColor)
	assert.Equal(t, 600, state.ClockSeconds)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "scoreboard.yaml", "server:\n  port: 9000\n")
	t.Setenv("SCOREBOARD_PORT", "9191")
	t.Setenv("SCOREBOARD_TICK_INTERVAL", "2")
	t.Setenv("SCOREBOARD_ACK_REJECTIONS", "true")
	t.Setenv("SCOREBOARD_LOG_LEVEL", "debug")

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Clock.TickInterval)
	assert.True(t, cfg.Gateway.AckRejections)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "SCOREBOARD_LOG_FORMAT=json\nSCOREBOARD_REFRESH_RATE=20\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("SCOREBOARD_LOG_FORMAT")
		_ = os.Unsetenv("SCOREBOARD_REFRESH_RATE")
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 20, cfg.Panel.RefreshRate)
}

func TestLoad_ProcessEnvBeatsEnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "SCOREBOARD_PORT=7000\n")
	t.Setenv("SCOREBOARD_PORT", "7100")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 7100, cfg.Server.Port)
}

func TestLoad_BadEnvValueKeepsPreviousValue(t *testing.T) {
	t.Setenv("SCOREBOARD_PORT", "eighty")
	t.Setenv("SCOREBOARD_TICK_INTERVAL", "soon")

	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, scoreboard.DefaultTickInterval, cfg.Clock.TickInterval)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, "bad.yaml", "server: [")
	_, err = Load(bad, noEnvFile(t))
	assert.Error(t, err)

	invalid := writeFile(t, "invalid.yaml", "panel:\n  refresh_rate: 0\n")
	_, err = Load(invalid, noEnvFile(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too big", func(c *Config) { c.Server.Port = 70000 }},
		{"no shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
		{"zero tick", func(c *Config) { c.Clock.TickInterval = 0 }},
		{"empty send buffer", func(c *Config) { c.Gateway.SendBuffer = 0 }},
		{"no write timeout", func(c *Config) { c.Gateway.WriteTimeout = 0 }},
		{"negative ping", func(c *Config) { c.Gateway.PingInterval = -time.Second }},
		{"pong before ping", func(c *Config) { c.Gateway.PongTimeout = c.Gateway.PingInterval }},
		{"zero message size", func(c *Config) { c.Gateway.MaxMessageSize = 0 }},
		{"empty panel", func(c *Config) { c.Panel.Cols = 0 }},
		{"refresh too fast", func(c *Config) { c.Panel.RefreshRate = 5000 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }},
		{"bad color", func(c *Config) { c.Initial.HomeColor = "300,0,0" }},
		{"negative clock", func(c *Config) { c.Initial.ClockSeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_PingDisabledIgnoresPongTimeout(t *testing.T) {
	cfg := Default()
	cfg.Gateway.PingInterval = 0
	cfg.Gateway.PongTimeout = 0
	assert.NoError(t, cfg.Validate())
}

func TestInitialState_TruncatesNames(t *testing.T) {
	cfg := Default()
	cfg.Initial.HomeName = "WILDCATS_UNITED"

	state, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, "WILDCATS", state.HomeName)
}

func TestConnectionConfig(t *testing.T) {
	cfg := Default()
	cfg.Gateway.SendBuffer = 8
	cfg.Gateway.AckRejections = true
	cfg.Gateway.PingInterval = 0

	conn := cfg.ConnectionConfig()
	assert.Equal(t, 8, conn.SendBufferSize)
	assert.True(t, conn.AckRejections)
	assert.Zero(t, conn.PingInterval)
	assert.Equal(t, cfg.Gateway.WriteTimeout, conn.WriteTimeout)
	require.NotNil(t, conn.CheckOrigin)
}

func TestYAML_CanBeLoadedBack(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 8181
	cfg.Initial.HomeName = "LIONS"

	data, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick_interval: 1s")

	loaded, err := Load(writeFile(t, "out.yaml", string(data)), noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
