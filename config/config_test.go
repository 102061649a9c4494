package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8090",
			AppEnv:         "production",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Upstream: UpstreamConfig{
			BaseURL:        "https://api.learncrew.app",
			TimeoutSeconds: 30,
		},
		Storage: StorageConfig{StateDir: "."},
		Polling: PollingConfig{
			BadgeInterval: 10 * time.Second,
			ChatInterval:  5 * time.Second,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing upstream URL",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "" },
			wantErr: "LEARNCREW_API_URL",
		},
		{
			name:    "non-http upstream URL",
			mutate:  func(c *Config) { c.Upstream.BaseURL = "ftp://api.learncrew.app" },
			wantErr: "LEARNCREW_API_URL",
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "PORT",
		},
		{
			name:    "missing origins",
			mutate:  func(c *Config) { c.Server.AllowedOrigins = nil },
			wantErr: "ALLOWED_CORS_ORIGINS",
		},
		{
			name:    "missing state dir",
			mutate:  func(c *Config) { c.Storage.StateDir = "" },
			wantErr: "STATE_DIR",
		},
		{
			name:    "zero badge interval",
			mutate:  func(c *Config) { c.Polling.BadgeInterval = 0 },
			wantErr: "BADGE_POLL_SECONDS",
		},
		{
			name:    "profiling enabled without endpoint",
			mutate:  func(c *Config) { c.Profiling.Enabled = true },
			wantErr: "O11Y_PROFILING_ENDPOINT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production", GinMode: "release"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LEARNCREW_API_URL", "https://api.learncrew.app/")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "https://api.learncrew.app", cfg.Upstream.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 10*time.Second, cfg.Polling.BadgeInterval)
	assert.Equal(t, 5*time.Second, cfg.Polling.ChatInterval)
	assert.Equal(t, 3, cfg.Search.MinQueryLength)
}
