package internal

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultGatewayURL is the proxy gateway the resolver drives.
	DefaultGatewayURL = "https://www.a.cpfrx.info"
	// DefaultOutputName is the fixed filename the downloader writes to.
	DefaultOutputName = "downloaded_file.zip"
	// DefaultChunkSize is the streaming copy chunk size (64 KiB).
	DefaultChunkSize = 64 * 1024
)

// Config holds application configuration
type Config struct {
	GatewayURL     string
	TokenTimeout   time.Duration
	SubmitTimeout  time.Duration
	MaxRetries     int
	ChunkSize      int
	OutputName     string
	UserAgent      string
	ProxyURL       string
	Language       string

	// Logging configuration
	LogLevel    string
	EnableDebug bool
	QuietMode   bool
	LogFile     string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		GatewayURL:    DefaultGatewayURL,
		TokenTimeout:  10 * time.Second,
		SubmitTimeout: 15 * time.Second,
		MaxRetries:    3,
		ChunkSize:     DefaultChunkSize,
		OutputName:    DefaultOutputName,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) " +
			"Chrome/124.0.0.0 Safari/537.36",
		Language: "en",

		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "", // Empty means stderr
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if gateway := os.Getenv("CPXFETCH_GATEWAY"); gateway != "" {
		c.GatewayURL = gateway
	}

	if proxy := os.Getenv("CPXFETCH_PROXY"); proxy != "" {
		c.ProxyURL = proxy
	}

	if timeout := os.Getenv("CPXFETCH_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.TokenTimeout = time.Duration(t) * time.Second
			c.SubmitTimeout = time.Duration(t) * time.Second
		}
	}

	if retries := os.Getenv("CPXFETCH_RETRIES"); retries != "" {
		if r, err := strconv.Atoi(retries); err == nil && r >= 0 {
			c.MaxRetries = r
		}
	}

	if lang := os.Getenv("CPXFETCH_LANG"); lang != "" {
		c.Language = lang
	}

	// Load logging configuration from environment
	if logLevel := os.Getenv("CPXFETCH_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}

	if debug := os.Getenv("CPXFETCH_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}

	if quiet := os.Getenv("CPXFETCH_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}

	if logFile := os.Getenv("CPXFETCH_LOG_FILE"); logFile != "" {
		c.LogFile = logFile
	}
}

// ValidateConfig validates the configuration values
func (c *Config) ValidateConfig() error {
	parsed, err := url.Parse(c.GatewayURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid gateway URL: %q", c.GatewayURL)
	}

	if c.TokenTimeout <= 0 {
		return fmt.Errorf("invalid token timeout: %v (must be > 0)", c.TokenTimeout)
	}

	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("invalid submit timeout: %v (must be > 0)", c.SubmitTimeout)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d (must be >= 0)", c.MaxRetries)
	}

	if c.ChunkSize < 1 {
		return fmt.Errorf("invalid chunk size: %d (must be >= 1)", c.ChunkSize)
	}

	if c.OutputName == "" {
		return fmt.Errorf("output name cannot be empty")
	}

	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
