package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const EnvPrefix = "HUDDLE"

type Config struct {
	Mode           string      `mapstructure:"mode" validate:"oneof=debug release test"`
	Port           int         `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel       string      `mapstructure:"log_level"`
	Secret         string      `mapstructure:"secret" validate:"required,min=16"`
	AllowedOrigins []string    `mapstructure:"allowed_origins"`
	Auth           Auth        `mapstructure:"auth"`
	Signal         Signal      `mapstructure:"signal"`
	Chat           Chat        `mapstructure:"chat"`
	ICEServers     []ICEServer `mapstructure:"ice_servers" validate:"dive"`
}

type Auth struct {
	Issuer string        `mapstructure:"issuer"`
	Leeway time.Duration `mapstructure:"leeway" validate:"min=0"`
	// Timeout bounds how long a connection may stay unauthenticated.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type Signal struct {
	ReadLimit    int64         `mapstructure:"read_limit" validate:"gt=0"`
	PingPeriod   time.Duration `mapstructure:"ping_period" validate:"gt=0"`
	WriteWait    time.Duration `mapstructure:"write_wait" validate:"gt=0"`
	SendBuffer   int           `mapstructure:"send_buffer" validate:"gt=0"`
	Backpressure string        `mapstructure:"backpressure" validate:"oneof=kick drop"`
}

type Chat struct {
	EchoSender    bool    `mapstructure:"echo_sender"`
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`
	Burst         int     `mapstructure:"burst" validate:"gte=0"`
	MaxLength     int     `mapstructure:"max_length" validate:"gte=0"`
}

type ICEServer struct {
	URLs       []string `mapstructure:"urls" validate:"required,min=1"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// PongWait is how long a connection may stay silent before it is dropped.
func (s Signal) PongWait() time.Duration {
	return s.PingPeriod * 10 / 9
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.leeway", "5s")
	v.SetDefault("auth.timeout", "10s")
	v.SetDefault("signal.read_limit", 32768)
	v.SetDefault("signal.ping_period", "54s")
	v.SetDefault("signal.write_wait", "5s")
	v.SetDefault("signal.send_buffer", 64)
	v.SetDefault("signal.backpressure", "kick")
	v.SetDefault("chat.echo_sender", false)
	v.SetDefault("chat.rate_per_second", 5)
	v.SetDefault("chat.burst", 10)
	v.SetDefault("chat.max_length", 4096)
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) and applies
// HUDDLE_* environment overrides.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("config ready")
	return &cfg, nil
}
