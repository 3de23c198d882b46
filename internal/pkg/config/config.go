package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Google     GoogleConfig     `mapstructure:"google"`
	ElevenLabs ElevenLabsConfig `mapstructure:"elevenlabs"`
	Agent      AgentConfig      `mapstructure:"agent"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Mailbox    MailboxConfig    `mapstructure:"mailbox"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
}

type LogConfig struct {
	// Level is debug, info, warn, or error. Format is json or text.
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type GoogleConfig struct {
	PlacesKey string `mapstructure:"places_key"`
	MapsKey   string `mapstructure:"maps_key"`
}

// Key prefers the dedicated Places key and falls back to the Maps key.
func (g GoogleConfig) Key() string {
	if g.PlacesKey != "" {
		return g.PlacesKey
	}
	return g.MapsKey
}

type ElevenLabsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	VoiceID string `mapstructure:"voice_id"`
}

type AgentConfig struct {
	// ToolSecret gates the external conversational-AI webhook
	// (X-Agent-Secret header). Empty means dev mode: allowed with a warning.
	ToolSecret string `mapstructure:"tool_secret"`
	// RouteToken is the static bearer token for the utterance-routing
	// endpoint. Empty disables the check.
	RouteToken string `mapstructure:"route_token"`
}

type UpstreamConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int `mapstructure:"retries"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type MailboxConfig struct {
	// Backend is "memory" or "valkey".
	Backend    string `mapstructure:"backend"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("google.places_key", "")
	v.SetDefault("google.maps_key", "")
	v.SetDefault("elevenlabs.api_key", "")
	v.SetDefault("elevenlabs.voice_id", "EXAVITQu4vr4xnSDxMaL")
	v.SetDefault("agent.tool_secret", "")
	v.SetDefault("agent.route_token", "")
	v.SetDefault("upstream.timeout_seconds", 20)
	v.SetDefault("upstream.retries", 2)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("mailbox.backend", "memory")
	v.SetDefault("mailbox.ttl_seconds", 30)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: APTRADAR_GOOGLE_PLACES_KEY → google.places_key
	v.SetEnvPrefix("APTRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// Vendor API keys are deliberately not required here: their absence is
// surfaced per-request so the rest of the API stays usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		errs = append(errs, "upstream.timeout_seconds must be positive")
	}
	if c.Upstream.Retries < 0 {
		errs = append(errs, "upstream.retries must not be negative")
	}
	switch c.Mailbox.Backend {
	case "memory", "valkey":
	default:
		errs = append(errs, fmt.Sprintf("mailbox.backend must be memory or valkey, got %q", c.Mailbox.Backend))
	}
	if c.Mailbox.TTLSeconds <= 0 {
		errs = append(errs, "mailbox.ttl_seconds must be positive")
	}
	if c.Mailbox.Backend == "valkey" && !c.Valkey.Enabled {
		errs = append(errs, "mailbox.backend=valkey requires valkey.enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey.enabled")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
