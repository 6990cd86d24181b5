package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cpxfetch/internal"
	"cpxfetch/utils"
)

// GatewayResolver drives the proxy gateway: it fetches the landing
// page's anti-forgery token, submits the target URL, and recovers the
// direct download link from the response with the extraction rules.
type GatewayResolver struct {
	httpClient    *utils.SessionClient
	gatewayURL    string
	rules         []ExtractionRule
	tokenTimeout  time.Duration
	submitTimeout time.Duration
}

// NewGatewayResolver creates a resolver with default configuration
func NewGatewayResolver() *GatewayResolver {
	return NewGatewayResolverWithClient(utils.NewSessionClient(), internal.DefaultConfig())
}

// NewGatewayResolverWithClient creates a resolver with a custom session
// client and configuration.
func NewGatewayResolverWithClient(httpClient *utils.SessionClient, config *internal.Config) *GatewayResolver {
	return &GatewayResolver{
		httpClient:    httpClient,
		gatewayURL:    strings.TrimRight(config.GatewayURL, "/"),
		rules:         DefaultRules(),
		tokenTimeout:  config.TokenTimeout,
		submitTimeout: config.SubmitTimeout,
	}
}

// SetRules replaces the extraction rule chain. Used by tests and kept
// as an escape hatch for when the gateway changes its markup.
func (r *GatewayResolver) SetRules(rules []ExtractionRule) {
	r.rules = rules
}

// FetchToken retrieves the gateway landing page and extracts the value
// of the hidden csrf form field.
func (r *GatewayResolver) FetchToken(ctx context.Context) (string, error) {
	resp, err := r.httpClient.Get(ctx, r.gatewayURL, r.tokenTimeout)
	if err != nil {
		return "", internal.NewNetworkError(0, "token fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", internal.NewNetworkError(resp.StatusCode, "token fetch", fmt.Errorf("unexpected status %s", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", internal.NewTokenParseError(fmt.Sprintf("cannot parse landing page: %v", err))
	}

	token, exists := doc.Find(`input[name="csrf"]`).First().Attr("value")
	if !exists {
		return "", internal.NewTokenParseError("no input element named csrf on the landing page")
	}
	if token == "" {
		return "", internal.NewTokenParseError("csrf input element has an empty value")
	}

	internal.LogDebug("Fetched gateway token (%d characters)", len(token))
	return token, nil
}

// Resolve submits the target URL to the gateway and returns the direct
// download link after rule extraction and HEAD finalization.
func (r *GatewayResolver) Resolve(ctx context.Context, targetURL string) (*internal.ResolveResult, error) {
	if err := utils.ValidateTargetURL(targetURL); err != nil {
		return nil, err
	}

	token, err := r.FetchToken(ctx)
	if err != nil {
		return nil, err
	}

	body, workingURL, err := r.submitTarget(ctx, targetURL, token)
	if err != nil {
		return nil, err
	}

	extracted, rule, err := r.applyRules(body, workingURL)
	if err != nil {
		return nil, err
	}

	internal.LogInfo("Extraction rule %q matched", rule)

	finalURL, err := r.finalizeLink(ctx, extracted)
	if err != nil {
		return nil, err
	}

	return &internal.ResolveResult{
		DirectURL:  finalURL,
		WorkingURL: workingURL,
		Rule:       rule,
		ResolvedAt: time.Now(),
	}, nil
}

// submitTarget POSTs the target plus token to the submission endpoint
// with redirects disabled, then follows at most one explicit redirect
// to produce the working response body and its final URL.
func (r *GatewayResolver) submitTarget(ctx context.Context, targetURL, token string) (string, string, error) {
	submitURL := r.gatewayURL + "/servers"
	form := url.Values{
		"url":  {targetURL},
		"csrf": {token},
	}

	resp, err := r.httpClient.PostFormNoRedirect(ctx, submitURL, form, r.submitTimeout)
	if err != nil {
		return "", "", internal.NewNetworkError(0, "gateway submission", err)
	}

	if resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound {
		location := resp.Header.Get("Location")
		resp.Body.Close()

		if location == "" {
			return "", "", internal.NewGatewayError(resp.StatusCode, "redirect response without Location header", internal.ErrInvalidResponse)
		}

		redirectURL, err := utils.ResolveReference(submitURL, location)
		if err != nil {
			return "", "", err
		}

		internal.LogDebug("Following gateway redirect to %s", redirectURL)

		resp, err = r.httpClient.Get(ctx, redirectURL, r.submitTimeout)
		if err != nil {
			return "", "", internal.NewNetworkError(0, "gateway redirect", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", internal.NewNetworkError(resp.StatusCode, "gateway submission", fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", internal.NewNetworkError(0, "gateway response read", err)
	}

	return string(body), resp.Request.URL.String(), nil
}

// applyRules runs the extraction rules in priority order.
func (r *GatewayResolver) applyRules(body, workingURL string) (string, string, error) {
	for _, rule := range r.rules {
		if extracted, ok := rule.Extract(body, workingURL); ok {
			return extracted, rule.Name, nil
		}
	}
	return "", "", internal.NewExtractionError(workingURL)
}

// finalizeLink issues a HEAD request with redirects enabled and uses
// the final URL reached as the definitive direct link; the gateway
// sometimes inserts one more redirect before the terminal content URL.
func (r *GatewayResolver) finalizeLink(ctx context.Context, extracted string) (string, error) {
	resp, err := r.httpClient.Head(ctx, extracted)
	if err != nil {
		return "", internal.NewNetworkError(0, "link finalization", err)
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL != extracted {
		internal.LogDebug("HEAD finalization moved %s -> %s", extracted, finalURL)
	}

	return finalURL, nil
}
