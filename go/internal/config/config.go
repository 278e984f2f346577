// Package config loads scoreboard settings from defaults, an optional YAML
// file, a .env file and SCOREBOARD_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/scoreboard/go/internal/scoreboard"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard/display"
	"github.com/mcdev12/scoreboard/go/internal/scoreboard/gateway"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Clock   ClockConfig   `yaml:"clock"`
	Gateway GatewayConfig `yaml:"gateway"`
	Panel   PanelConfig   `yaml:"panel"`
	Initial InitialConfig `yaml:"initial"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

type ClockConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

type GatewayConfig struct {
	SendBuffer     int           `yaml:"send_buffer"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PongTimeout    time.Duration `yaml:"pong_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxMessageSize int64         `yaml:"max_message_size"`
	AckRejections  bool          `yaml:"ack_rejections"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type PanelConfig struct {
	Cols        int `yaml:"cols"`
	Rows        int `yaml:"rows"`
	RefreshRate int `yaml:"refresh_rate"`
}

// InitialConfig is the state the board boots with. Colors are "r,g,b".
type InitialConfig struct {
	HomeName     string `yaml:"home_name"`
	AwayName     string `yaml:"away_name"`
	HomeColor    string `yaml:"home_color"`
	AwayColor    string `yaml:"away_color"`
	BgColor      string `yaml:"bg_color"`
	ClockSeconds int    `yaml:"clock_seconds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	initial := scoreboard.DefaultState()
	conn := gateway.DefaultConnectionConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Clock: ClockConfig{
			TickInterval: scoreboard.DefaultTickInterval,
		},
		Gateway: GatewayConfig{
			SendBuffer:     conn.SendBufferSize,
			PingInterval:   conn.PingInterval,
			PongTimeout:    conn.PongTimeout,
			WriteTimeout:   conn.WriteTimeout,
			MaxMessageSize: conn.MaxMessageSize,
			AllowedOrigins: []string{"*"},
		},
		Panel: PanelConfig{
			Cols:        64,
			Rows:        32,
			RefreshRate: display.DefaultRefreshRate,
		},
		Initial: InitialConfig{
			HomeName:     initial.HomeName,
			AwayName:     initial.AwayName,
			HomeColor:    initial.HomeBgColor.String(),
			AwayColor:    initial.AwayBgColor.String(),
			BgColor:      initial.BgColor.String(),
			ClockSeconds: initial.ClockSeconds,
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
// envFiles default to ".env"; a missing env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
		log.Debug().Strs("files", envFiles).Msg("no env file loaded")
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvAsInt("SCOREBOARD_PORT", c.Server.Port)
	c.Log.Level = getEnv("SCOREBOARD_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SCOREBOARD_LOG_FORMAT", c.Log.Format)
	c.Clock.TickInterval = getEnvAsDuration("SCOREBOARD_TICK_INTERVAL", c.Clock.TickInterval)
	c.Gateway.AckRejections = getEnvAsBool("SCOREBOARD_ACK_REJECTIONS", c.Gateway.AckRejections)
	c.Panel.RefreshRate = getEnvAsInt("SCOREBOARD_REFRESH_RATE", c.Panel.RefreshRate)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port < 1 || c.Server.Port > 65535:
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	case c.Server.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	case c.Clock.TickInterval <= 0:
		return fmt.Errorf("%w: clock.tick_interval must be positive", ErrInvalidConfig)
	case c.Gateway.SendBuffer < 1:
		return fmt.Errorf("%w: gateway.send_buffer must be at least 1", ErrInvalidConfig)
	case c.Gateway.WriteTimeout <= 0:
		return fmt.Errorf("%w: gateway.write_timeout must be positive", ErrInvalidConfig)
	case c.Gateway.PingInterval < 0:
		return fmt.Errorf("%w: gateway.ping_interval must not be negative", ErrInvalidConfig)
	case c.Gateway.PingInterval > 0 && c.Gateway.PongTimeout <= c.Gateway.PingInterval:
		return fmt.Errorf("%w: gateway.pong_timeout must exceed gateway.ping_interval", ErrInvalidConfig)
	case c.Gateway.MaxMessageSize < 1:
		return fmt.Errorf("%w: gateway.max_message_size must be positive", ErrInvalidConfig)
	case c.Panel.Cols < 1 || c.Panel.Rows < 1:
		return fmt.Errorf("%w: panel must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Panel.Cols, c.Panel.Rows)
	case c.Panel.RefreshRate < 1 || c.Panel.RefreshRate > 1000:
		return fmt.Errorf("%w: panel.refresh_rate %d out of range", ErrInvalidConfig, c.Panel.RefreshRate)
	case c.Log.Format != "console" && c.Log.Format != "json":
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalidConfig, c.Log.Format)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	if _, err := c.InitialState(); err != nil {
		return err
	}
	return nil
}

// InitialState converts the initial section into a board state.
func (c *Config) InitialState() (scoreboard.State, error) {
	s := scoreboard.DefaultState()

	if c.Initial.HomeName != "" {
		s.HomeName = scoreboard.TruncateName(c.Initial.HomeName, scoreboard.MaxNameLength)
	}
	if c.Initial.AwayName != "" {
		s.AwayName = scoreboard.TruncateName(c.Initial.AwayName, scoreboard.MaxNameLength)
	}
	if c.Initial.ClockSeconds < 0 {
		return s, fmt.Errorf("%w: initial.clock_seconds must not be negative", ErrInvalidConfig)
	}
	s.ClockSeconds = c.Initial.ClockSeconds

	colors := []struct {
		name  string
		value string
		dst   *scoreboard.RGB
	}{
		{"initial.home_color", c.Initial.HomeColor, &s.HomeBgColor},
		{"initial.away_color", c.Initial.AwayColor, &s.AwayBgColor},
		{"initial.bg_color", c.Initial.BgColor, &s.BgColor},
	}
	for _, col := range colors {
		if col.value == "" {
			continue
		}
		parsed, err := scoreboard.ParseRGB(col.value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, col.name, err)
		}
		*col.dst = parsed
	}

	return s, nil
}

// ConnectionConfig maps the gateway section onto control connection settings.
func (c *Config) ConnectionConfig() gateway.ConnectionConfig {
	conn := gateway.DefaultConnectionConfig()
	conn.SendBufferSize = c.Gateway.SendBuffer
	conn.PingInterval = c.Gateway.PingInterval
	conn.PongTimeout = c.Gateway.PongTimeout
	conn.WriteTimeout = c.Gateway.WriteTimeout
	conn.MaxMessageSize = c.Gateway.MaxMessageSize
	conn.AckRejections = c.Gateway.AckRejections
	conn.CheckOrigin = gateway.OriginChecker(c.Gateway.AllowedOrigins)
	return conn
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
