// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrape fetches publisher landing pages and extracts candidate
// PDF URLs from their HTML. A fetch is classified before extraction:
// CAPTCHA challenges, paywalls, and rate limits come back as specific
// statuses so the resolver can pick the right fallback. Results are
// cached with outcome-dependent TTLs through rescache.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-resolver/internal/httputil"
	"github.com/pdiddy/pdf-resolver/internal/rescache"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

const defaultTimeout = 20 * time.Second

// PDFSelectorSource supplies a publisher-specific CSS selector for the
// PDF link on a landing page, keyed by host. The selector strategy runs
// before the generic ones because known markup beats heuristics.
type PDFSelectorSource interface {
	SelectorFor(host string) string
}

// Scraper fetches and parses landing pages. Safe for concurrent use;
// the cache serializes its own access.
type Scraper struct {
	client    *http.Client
	cache     *rescache.Cache
	selectors PDFSelectorSource
	log       *zap.Logger
	now       func() time.Time
}

// New builds a Scraper. cache is required; selectors may be nil when no
// publisher-specific markup is known; a nil logger is replaced with a
// no-op one.
func New(cfg types.ScrapeConfig, cache *rescache.Cache, selectors PDFSelectorSource, log *zap.Logger) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		cache:     cache,
		selectors: selectors,
		log:       log,
		now:       time.Now,
	}
}

// Resolve fetches landingURL (through the proxy prefix when useProxy is
// set) and returns the scrape outcome. Cached results are returned
// without a fetch; fresh results are cached before returning, except
// when the fetch failed because the caller cancelled the context.
func (s *Scraper) Resolve(ctx context.Context, landingURL string, useProxy bool, proxyPrefix string) types.LandingPageResult {
	key := rescache.Key(landingURL, useProxy)
	if cached, ok := s.cache.Get(key); ok {
		s.log.Debug("landing page cache hit", zap.String("key", key))
		return cached
	}

	result, cacheable := s.scrape(ctx, landingURL, useProxy, proxyPrefix)
	if cacheable {
		s.cache.Put(key, result)
	}
	s.log.Debug("scraped landing page",
		zap.String("url", landingURL),
		zap.Bool("proxy", useProxy),
		zap.String("status", string(result.Status.Kind)),
		zap.String("pdf_url", result.PDFURL))
	return result
}

func (s *Scraper) scrape(ctx context.Context, landingURL string, useProxy bool, proxyPrefix string) (types.LandingPageResult, bool) {
	fetchURL := landingURL
	if useProxy {
		fetchURL = httputil.ApplyProxy(proxyPrefix, landingURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return s.failed(fmt.Sprintf("invalid URL: %v", err)), true
	}
	httputil.BrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		// Abandonment by the caller is not an outcome worth remembering.
		if ctx.Err() != nil {
			return s.failed("request cancelled"), false
		}
		return s.failed(err.Error()), true
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL
	if blocked, ok := s.classifyStatus(resp, finalURL); !ok {
		return blocked, true
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return s.failed("request cancelled"), false
		}
		return s.failed(fmt.Sprintf("reading response body: %v", err)), true
	}
	if !utf8.Valid(body) {
		return s.failed("could not decode HTML"), true
	}
	html := string(body)

	if blocked, ok := s.scanForBlocks(html, finalURL.Host); !ok {
		return blocked, true
	}

	pdfURL := s.extractPDFURL(html, finalURL)
	if pdfURL == "" {
		return types.LandingPageResult{
			Status:        types.ResolutionStatus{Kind: types.ResolutionNotFound},
			PublisherHost: finalURL.Host,
			Timestamp:     s.now(),
		}, true
	}
	return types.LandingPageResult{
		PDFURL:        pdfURL,
		Status:        types.ResolutionStatus{Kind: types.ResolutionFound},
		PublisherHost: finalURL.Host,
		Timestamp:     s.now(),
	}, true
}

// classifyStatus maps the HTTP status to a blocking result. The second
// return value is true when scraping should continue.
func (s *Scraper) classifyStatus(resp *http.Response, finalURL *url.URL) (types.LandingPageResult, bool) {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return types.LandingPageResult{}, true

	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		// Some challenge pages respond 403 with a Location pointing at
		// the CAPTCHA host.
		location := resp.Header.Get("Location")
		if httputil.ContainsCaptchaMarker(location) {
			host := finalURL.Host
			if u, err := url.Parse(location); err == nil && u.Host != "" {
				host = u.Host
			}
			return types.LandingPageResult{
				Status:        types.ResolutionStatus{Kind: types.ResolutionCaptchaBlocked},
				PublisherHost: host,
				Timestamp:     s.now(),
			}, false
		}
		return types.LandingPageResult{
			Status:        types.ResolutionStatus{Kind: types.ResolutionRequiresAuth},
			PublisherHost: finalURL.Host,
			Timestamp:     s.now(),
		}, false

	case code == http.StatusTooManyRequests:
		return types.LandingPageResult{
			Status:        types.ResolutionStatus{Kind: types.ResolutionRateLimited},
			PublisherHost: finalURL.Host,
			Timestamp:     s.now(),
		}, false

	default:
		return types.LandingPageResult{
			Status:        types.FetchFailed(fmt.Sprintf("HTTP %d", code)),
			PublisherHost: finalURL.Host,
			Timestamp:     s.now(),
		}, false
	}
}

// Weak CAPTCHA markers appear in ordinary prose ("solve the CAPTCHA
// below"); a page only counts as blocked when a strong marker from an
// actual challenge widget is present too.
var (
	captchaWeakMarkers = []string{
		"captcha", "recaptcha", "hcaptcha", "cf-challenge", "cloudflare",
		"please verify", "are you a robot", "security check", "ddos protection",
	}
	captchaStrongMarkers = []string{
		"challenge-form", "cf-browser-verification", "g-recaptcha", "h-captcha",
	}
	paywallPhrases = []string{
		"sign in to access", "login required", "subscription required",
		"purchase this article", "buy this article", "rent this article",
		"access denied", "institutional access",
	}
)

// scanForBlocks checks the page body for CAPTCHA and paywall signals.
// The second return value is true when extraction should continue.
func (s *Scraper) scanForBlocks(html, host string) (types.LandingPageResult, bool) {
	lower := strings.ToLower(html)

	if containsAny(lower, captchaWeakMarkers) && containsAny(lower, captchaStrongMarkers) {
		return types.LandingPageResult{
			Status:        types.ResolutionStatus{Kind: types.ResolutionCaptchaBlocked},
			PublisherHost: host,
			Timestamp:     s.now(),
		}, false
	}
	if containsAny(lower, paywallPhrases) {
		return types.LandingPageResult{
			Status:        types.ResolutionStatus{Kind: types.ResolutionRequiresAuth},
			PublisherHost: host,
			Timestamp:     s.now(),
		}, false
	}
	return types.LandingPageResult{}, true
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// extractPDFURL tries the extraction strategies in reliability order and
// returns the first hit as an absolute URL, or "" when nothing matched.
func (s *Scraper) extractPDFURL(html string, base *url.URL) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.log.Debug("HTML parse failed", zap.String("host", base.Host), zap.Error(err))
		return ""
	}

	// Publisher-specific selector, when the markup is known.
	if s.selectors != nil {
		if sel := s.selectors.SelectorFor(base.Host); sel != "" {
			if href, ok := doc.Find(sel).First().Attr("href"); ok {
				if abs := resolveHref(base, href); abs != "" {
					return abs
				}
			}
		}
	}

	// Highwire-style meta tag, the de facto standard for scholarly pages.
	if content, ok := doc.Find(`meta[name="citation_pdf_url"]`).First().Attr("content"); ok {
		if abs := resolveHref(base, content); abs != "" {
			return abs
		}
	}

	// Alternate-representation link element.
	if href, ok := doc.Find(`link[rel="alternate"][type="application/pdf"]`).First().Attr("href"); ok {
		if abs := resolveHref(base, href); abs != "" {
			return abs
		}
	}

	return s.scanAnchors(doc, base)
}

// scanAnchors scores every anchor on the page for PDF-ness and returns
// the best positive candidate, ties broken by document order.
func (s *Scraper) scanAnchors(doc *goquery.Document, base *url.URL) string {
	best := ""
	bestScore := 0

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := resolveHref(base, href)
		if abs == "" {
			return
		}
		u, err := url.Parse(abs)
		if err != nil {
			return
		}
		score := scoreCandidate(u, base)
		if score > bestScore {
			best = abs
			bestScore = score
		}
	})
	return best
}

// scoreCandidate rates how likely u is to be the article PDF. The path
// checks are exclusive (a URL is scored by its strongest PDF-shaped path
// feature); the keyword adjustments stack.
func scoreCandidate(u, base *url.URL) int {
	path := strings.ToLower(u.Path)
	full := strings.ToLower(u.String())
	score := 0

	switch {
	case strings.HasSuffix(path, ".pdf"):
		score += 10
	case strings.Contains(path+"/", "/pdf/"):
		score += 8
	case strings.Contains(path, "/pdf") && !strings.Contains(path, "/pdfjs"):
		score += 5
	}

	if strings.Contains(full, "download") && strings.Contains(full, "pdf") {
		score += 7
	}
	if strings.Contains(full, "fulltext") {
		score += 4
	}
	if strings.Contains(full, "epdf") {
		score += 6
	}
	if strings.Contains(full, "supplementary") {
		score -= 5
	}
	if strings.Contains(full, "appendix") {
		score -= 3
	}
	if strings.Contains(full, "figure") {
		score -= 5
	}
	if strings.Contains(full, "image") {
		score -= 5
	}
	if strings.Contains(full, "table") {
		score -= 3
	}
	if u.Host == base.Host {
		score += 2
	}
	return score
}

// resolveHref turns an extracted href into an absolute URL against the
// final response URL. Unparseable hrefs resolve to "".
func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.Scheme != "" {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func (s *Scraper) failed(reason string) types.LandingPageResult {
	return types.LandingPageResult{
		Status:    types.FetchFailed(reason),
		Timestamp: s.now(),
	}
}
