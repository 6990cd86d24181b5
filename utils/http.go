package utils

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"

	"cpxfetch/internal"
)

// RetryConfig defines retry behavior configuration
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	Multiplier    float64
	JitterPercent float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     1 * time.Second,
		MaxDelay:      30 * time.Second,
		Multiplier:    2.0,
		JitterPercent: 0.1,
	}
}

// SessionConfig contains configuration for the session client
type SessionConfig struct {
	UserAgent   string
	ProxyURL    string
	RetryConfig *RetryConfig
}

// SessionClient is the process-wide HTTP session: one cookie jar shared
// by every request of a run, a fixed browser User-Agent, and a bounded
// connection-level retry policy. One logical pipeline per client; it is
// not meant for concurrent use.
type SessionClient struct {
	client      *http.Client
	noRedirect  *http.Client
	userAgent   string
	retryConfig *RetryConfig
}

// NewSessionClient creates a session client with default configuration
func NewSessionClient() *SessionClient {
	return NewSessionClientWithConfig(&SessionConfig{
		UserAgent:   internal.DefaultConfig().UserAgent,
		RetryConfig: DefaultRetryConfig(),
	})
}

// NewSessionClientWithConfig creates a session client with custom configuration
func NewSessionClientWithConfig(config *SessionConfig) *SessionClient {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig()
	}
	if config.UserAgent == "" {
		config.UserAgent = internal.DefaultConfig().UserAgent
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
	}

	if config.ProxyURL != "" {
		if err := configureProxy(transport, config.ProxyURL); err != nil {
			internal.LogWarn("Failed to configure proxy %s: %v", config.ProxyURL, err)
		}
	}

	// Both clients share the jar so the gateway session survives the
	// redirect-disabled submission request.
	jar, _ := cookiejar.New(nil)

	client := &http.Client{
		Transport: transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	noRedirect := &http.Client{
		Transport: transport,
		Jar:       jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &SessionClient{
		client:      client,
		noRedirect:  noRedirect,
		userAgent:   config.UserAgent,
		retryConfig: config.RetryConfig,
	}
}

// configureProxy sets up proxy configuration for the transport
func configureProxy(transport *http.Transport, proxyURL string) error {
	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(parsedURL)
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 proxy: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", parsedURL.Scheme)
	}

	return nil
}

// UserAgent returns the session's User-Agent string
func (c *SessionClient) UserAgent() string {
	return c.userAgent
}

// cancelOnClose releases the request's timeout context once the body
// has been consumed and closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Get performs a GET request with the given timeout and retry logic.
// Redirects are followed.
func (c *SessionClient) Get(ctx context.Context, rawURL string, timeout time.Duration) (*http.Response, error) {
	return c.executeWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return c.doTimed(ctx, c.client, http.MethodGet, rawURL, nil, "", timeout)
	})
}

// PostFormNoRedirect performs a form-encoded POST with redirects
// disabled at the transport level, so a 301/302 comes back as-is.
func (c *SessionClient) PostFormNoRedirect(ctx context.Context, rawURL string, form url.Values, timeout time.Duration) (*http.Response, error) {
	return c.executeWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return c.doTimed(ctx, c.noRedirect, http.MethodPost, rawURL, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", timeout)
	})
}

func (c *SessionClient) doTimed(ctx context.Context, client *http.Client, method, rawURL string, body *strings.Reader, contentType string, timeout time.Duration) (*http.Response, error) {
	if timeout <= 0 {
		return c.do(ctx, client, method, rawURL, body, contentType)
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := c.do(reqCtx, client, method, rawURL, body, contentType)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// Head performs a HEAD request with redirects enabled. The final URL
// reached is available via resp.Request.URL.
func (c *SessionClient) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.executeWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return c.do(ctx, c.client, http.MethodHead, rawURL, nil, "")
	})
}

// GetStream performs a GET request without an overall timeout so that
// large bodies can be streamed; cancellation comes from the context.
func (c *SessionClient) GetStream(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.executeWithRetry(ctx, func(ctx context.Context) (*http.Response, error) {
		return c.do(ctx, c.client, http.MethodGet, rawURL, nil, "")
	})
}

func (c *SessionClient) do(ctx context.Context, client *http.Client, method, rawURL string, body *strings.Reader, contentType string) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return client.Do(req)
}

// executeWithRetry executes a request function with bounded retry.
// Only transport errors and 5xx statuses are retried; every other
// response is returned as-is for the caller to interpret (the
// submission endpoint legitimately answers with 301/302).
func (c *SessionClient) executeWithRetry(ctx context.Context, fn func(context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.calculateDelay(attempt)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := fn(ctx)
		if err != nil {
			lastErr = err

			if !c.isRetryableError(err) {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = internal.NewGatewayError(resp.StatusCode, "server error", internal.ErrInvalidResponse)
			continue
		}

		return resp, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", c.retryConfig.MaxAttempts, lastErr)
	}

	return nil, fmt.Errorf("request failed after %d attempts", c.retryConfig.MaxAttempts)
}

// calculateDelay calculates the delay for the next retry attempt
func (c *SessionClient) calculateDelay(attempt int) time.Duration {
	// Exponential backoff: baseDelay * multiplier^(attempt-1)
	delay := float64(c.retryConfig.BaseDelay) * math.Pow(c.retryConfig.Multiplier, float64(attempt-1))

	// Apply jitter (random variation)
	jitter := delay * c.retryConfig.JitterPercent * (rand.Float64()*2 - 1)
	delay += jitter

	if delay > float64(c.retryConfig.MaxDelay) {
		delay = float64(c.retryConfig.MaxDelay)
	}

	if delay < 0 {
		delay = float64(c.retryConfig.BaseDelay)
	}

	return time.Duration(delay)
}

// isRetryableError determines if an error should trigger a retry
func (c *SessionClient) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if gatewayErr, ok := err.(*internal.GatewayError); ok {
		return gatewayErr.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	retryableErrors := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"temporary failure",
		"i/o timeout",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}
