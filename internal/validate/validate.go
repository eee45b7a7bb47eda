// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate classifies candidate PDF URLs with a single HEAD
// probe: is this actually a PDF, an HTML page, a paywall, a CAPTCHA
// challenge, or dead? The classification drives which fallback the
// resolver tries next, so HTTP-level failures are split into specific
// outcomes rather than collapsed into one error.
package validate

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-resolver/internal/httputil"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

const defaultTimeout = 15 * time.Second

// Validator probes URLs. It never retries and never touches the result
// cache; every call is one HEAD request.
type Validator struct {
	client    *http.Client
	userAgent string
	log       *zap.Logger
}

// New builds a Validator from config, applying the 15s default timeout.
// A nil logger is replaced with a no-op one.
func New(cfg types.ValidateConfig, log *zap.Logger) *Validator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		log:       log,
	}
}

// Validate classifies rawURL with one HEAD request. Redirects are
// followed by the client; the classification applies to the final
// response. Transport failures come back as network_error results, never
// as Go errors.
func (v *Validator) Validate(ctx context.Context, rawURL string) types.ValidationResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return types.ValidationResult{Kind: types.ValidationNetworkError, URL: rawURL, Err: err.Error()}
	}
	httputil.PDFHeaders(req, v.userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		v.log.Debug("HEAD request failed", zap.String("url", rawURL), zap.Error(err))
		return types.ValidationResult{Kind: types.ValidationNetworkError, URL: rawURL, Err: err.Error()}
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	result := v.classify(resp, finalURL)
	v.log.Debug("validated URL",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.String("kind", string(result.Kind)))
	return result
}

func (v *Validator) classify(resp *http.Response, finalURL string) types.ValidationResult {
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusPartialContent:
		return classifyContent(resp, finalURL)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return types.ValidationResult{
			Kind:     types.ValidationRequiresAuth,
			URL:      finalURL,
			AuthType: guessAuthType(finalURL),
		}

	case resp.StatusCode == http.StatusNotFound:
		return types.ValidationResult{Kind: types.ValidationNotFound, URL: finalURL}

	case resp.StatusCode == http.StatusTooManyRequests:
		return types.ValidationResult{
			Kind:       types.ValidationRateLimited,
			URL:        finalURL,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}

	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		// The client follows ordinary redirects; a surfaced 3xx means a
		// missing Location, an unfollowable status, or a stopped chain.
		location := resp.Header.Get("Location")
		if httputil.ContainsCaptchaMarker(location) {
			domain := ""
			if u, err := url.Parse(location); err == nil {
				domain = u.Host
			}
			return types.ValidationResult{Kind: types.ValidationCaptcha, URL: finalURL, Domain: domain}
		}
		return types.ValidationResult{Kind: types.ValidationHTML, URL: finalURL}

	default:
		return types.ValidationResult{
			Kind: types.ValidationNetworkError,
			URL:  finalURL,
			Err:  "HTTP " + strconv.Itoa(resp.StatusCode),
		}
	}
}

// classifyContent decides what a 200/206 response actually is. Servers
// that omit or misreport Content-Type for PDF downloads are common, so
// anything that is not explicitly HTML counts as a PDF.
func classifyContent(resp *http.Response, finalURL string) types.ValidationResult {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))

	if strings.Contains(contentType, "text/html") {
		return types.ValidationResult{Kind: types.ValidationHTML, URL: finalURL}
	}

	result := types.ValidationResult{Kind: types.ValidationPDF, URL: finalURL}
	if n, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && n > 0 {
		result.ContentLength = n
	}
	return result
}

// guessAuthType infers the authentication scheme from the URL string.
func guessAuthType(rawURL string) types.AuthType {
	s := strings.ToLower(rawURL)
	switch {
	case strings.Contains(s, "shibboleth") || strings.Contains(s, "saml"):
		return types.AuthShibboleth
	case strings.Contains(s, "idm.oclc.org") || strings.Contains(s, "ezproxy"):
		return types.AuthProxy
	default:
		return types.AuthUnknown
	}
}

// parseRetryAfter handles the numeric (delay-seconds) form of the
// Retry-After header; the HTTP-date form is ignored.
func parseRetryAfter(value string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
