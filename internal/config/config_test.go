package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, "secret: a-secret-of-sixteen-plus\n")

	cfg, err := LoadFile(path)
	req.NoError(err)
	req.Equal("release", cfg.Mode)
	req.Equal(8080, cfg.Port)
	req.Equal(10*time.Second, cfg.Auth.Timeout)
	req.Equal(5*time.Second, cfg.Auth.Leeway)
	req.Equal(int64(32768), cfg.Signal.ReadLimit)
	req.Equal(54*time.Second, cfg.Signal.PingPeriod)
	req.Equal(60*time.Second, cfg.Signal.PongWait())
	req.Equal(64, cfg.Signal.SendBuffer)
	req.Equal("kick", cfg.Signal.Backpressure)
	req.False(cfg.Chat.EchoSender)
	req.Equal(4096, cfg.Chat.MaxLength)
	req.Len(cfg.ICEServers, 1)
	req.Equal([]string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}

func TestLoadFile_YAMLValues(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, `
mode: debug
port: 9000
secret: a-secret-of-sixteen-plus
allowed_origins: ["https://huddle.example"]
auth:
  issuer: huddle
  timeout: 3s
signal:
  send_buffer: 8
  backpressure: drop
chat:
  echo_sender: true
  rate_per_second: 0
ice_servers:
  - urls: ["turn:turn.example:3478"]
    username: user
    credential: pass
`)

	cfg, err := LoadFile(path)
	req.NoError(err)
	req.Equal("debug", cfg.Mode)
	req.Equal(9000, cfg.Port)
	req.Equal([]string{"https://huddle.example"}, cfg.AllowedOrigins)
	req.Equal("huddle", cfg.Auth.Issuer)
	req.Equal(3*time.Second, cfg.Auth.Timeout)
	req.Equal(8, cfg.Signal.SendBuffer)
	req.Equal("drop", cfg.Signal.Backpressure)
	req.True(cfg.Chat.EchoSender)
	req.Zero(cfg.Chat.RatePerSecond)
	req.Equal([]ICEServer{{URLs: []string{"turn:turn.example:3478"}, Username: "user", Credential: "pass"}}, cfg.ICEServers)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	req := require.New(t)
	path := writeConfig(t, "secret: a-secret-of-sixteen-plus\nport: 9000\n")
	t.Setenv("HUDDLE_PORT", "9100")
	t.Setenv("HUDDLE_CHAT_ECHO_SENDER", "true")
	t.Setenv("HUDDLE_SIGNAL_PING_PERIOD", "9s")

	cfg, err := LoadFile(path)
	req.NoError(err)
	req.Equal(9100, cfg.Port)
	req.True(cfg.Chat.EchoSender)
	req.Equal(10*time.Second, cfg.Signal.PongWait())
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Missing secret", "port: 8080\n"},
		{"Short secret", "secret: short\n"},
		{"Unknown mode", "secret: a-secret-of-sixteen-plus\nmode: chaos\n"},
		{"Unknown backpressure", "secret: a-secret-of-sixteen-plus\nsignal:\n  backpressure: ignore\n"},
		{"Zero send buffer", "secret: a-secret-of-sixteen-plus\nsignal:\n  send_buffer: 0\n"},
		{"ICE server without urls", "secret: a-secret-of-sixteen-plus\nice_servers:\n  - username: u\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HUDDLE_SECRET", "a-secret-from-the-environment")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "a-secret-from-the-environment", cfg.Secret)
}
