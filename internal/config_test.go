package internal

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.GatewayURL != DefaultGatewayURL {
		t.Errorf("expected gateway %q, got %q", DefaultGatewayURL, config.GatewayURL)
	}
	if config.TokenTimeout != 10*time.Second {
		t.Errorf("expected 10s token timeout, got %v", config.TokenTimeout)
	}
	if config.SubmitTimeout != 15*time.Second {
		t.Errorf("expected 15s submit timeout, got %v", config.SubmitTimeout)
	}
	if config.ChunkSize != 64*1024 {
		t.Errorf("expected 64 KiB chunk size, got %d", config.ChunkSize)
	}
	if config.OutputName != "downloaded_file.zip" {
		t.Errorf("expected fixed output name, got %q", config.OutputName)
	}
	if config.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", config.MaxRetries)
	}
	if config.Language != "en" {
		t.Errorf("expected default language en, got %q", config.Language)
	}
	if config.UserAgent == "" {
		t.Error("user agent must not be empty")
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("CPXFETCH_GATEWAY", "https://alt.gateway.example.com")
	t.Setenv("CPXFETCH_PROXY", "socks5://127.0.0.1:1080")
	t.Setenv("CPXFETCH_TIMEOUT", "30")
	t.Setenv("CPXFETCH_RETRIES", "5")
	t.Setenv("CPXFETCH_LANG", "zh")
	t.Setenv("CPXFETCH_LOG_LEVEL", "debug")
	t.Setenv("CPXFETCH_DEBUG", "true")
	t.Setenv("CPXFETCH_QUIET", "1")

	config := DefaultConfig()
	config.LoadFromEnv()

	if config.GatewayURL != "https://alt.gateway.example.com" {
		t.Errorf("gateway not loaded: %q", config.GatewayURL)
	}
	if config.ProxyURL != "socks5://127.0.0.1:1080" {
		t.Errorf("proxy not loaded: %q", config.ProxyURL)
	}
	if config.TokenTimeout != 30*time.Second || config.SubmitTimeout != 30*time.Second {
		t.Errorf("timeouts not loaded: %v / %v", config.TokenTimeout, config.SubmitTimeout)
	}
	if config.MaxRetries != 5 {
		t.Errorf("retries not loaded: %d", config.MaxRetries)
	}
	if config.Language != "zh" {
		t.Errorf("language not loaded: %q", config.Language)
	}
	if config.LogLevel != "debug" || !config.EnableDebug || !config.QuietMode {
		t.Error("logging configuration not loaded")
	}
}

func TestConfig_LoadFromEnv_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("CPXFETCH_TIMEOUT", "not-a-number")
	t.Setenv("CPXFETCH_RETRIES", "-2")

	config := DefaultConfig()
	config.LoadFromEnv()

	if config.TokenTimeout != 10*time.Second {
		t.Errorf("invalid timeout should keep default, got %v", config.TokenTimeout)
	}
	if config.MaxRetries != 3 {
		t.Errorf("invalid retries should keep default, got %d", config.MaxRetries)
	}
}

func TestConfig_ValidateConfig(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{
			name:        "defaults_valid",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "empty_gateway",
			mutate:      func(c *Config) { c.GatewayURL = "" },
			expectError: true,
		},
		{
			name:        "gateway_without_scheme",
			mutate:      func(c *Config) { c.GatewayURL = "gateway.example.com" },
			expectError: true,
		},
		{
			name:        "zero_token_timeout",
			mutate:      func(c *Config) { c.TokenTimeout = 0 },
			expectError: true,
		},
		{
			name:        "negative_retries",
			mutate:      func(c *Config) { c.MaxRetries = -1 },
			expectError: true,
		},
		{
			name:        "zero_chunk_size",
			mutate:      func(c *Config) { c.ChunkSize = 0 },
			expectError: true,
		},
		{
			name:        "empty_output_name",
			mutate:      func(c *Config) { c.OutputName = "" },
			expectError: true,
		},
		{
			name:        "empty_user_agent",
			mutate:      func(c *Config) { c.UserAgent = "" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.ValidateConfig()
			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
