// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/url"
	"strings"
)

// BrowserUserAgent is the desktop-browser User-Agent sent with landing-page
// fetches. Publishers serve CAPTCHAs to obvious bots far more aggressively.
const BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const (
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptPDF      = "application/pdf,*/*"
	acceptLanguage = "en-US,en;q=0.9"
)

// BrowserHeaders sets browser-like headers for a landing-page GET.
func BrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", BrowserUserAgent)
	req.Header.Set("Accept", acceptHTML)
	req.Header.Set("Accept-Language", acceptLanguage)
}

// PDFHeaders sets PDF-preferring headers for a validation HEAD request.
// An empty userAgent falls back to the browser string.
func PDFHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptPDF)
}

// ApplyProxy prepends the library-proxy prefix to rawURL by plain string
// concatenation; the embedded URL is deliberately not escaped because
// EZproxy-style gateways expect it verbatim. An empty prefix, or a
// combination that does not parse as a URL, returns rawURL unmodified.
func ApplyProxy(proxyURL, rawURL string) string {
	prefix := strings.TrimSpace(proxyURL)
	if prefix == "" {
		return rawURL
	}
	combined := prefix + rawURL
	if _, err := url.Parse(combined); err != nil {
		return rawURL
	}
	return combined
}

// captchaURLMarkers are substrings that identify a CAPTCHA or bot-challenge
// redirect target.
var captchaURLMarkers = []string{"captcha", "recaptcha", "hcaptcha", "cloudflare", "challenge"}

// ContainsCaptchaMarker reports whether s (typically a Location header)
// points at a CAPTCHA or bot challenge.
func ContainsCaptchaMarker(s string) bool {
	s = strings.ToLower(s)
	for _, marker := range captchaURLMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
