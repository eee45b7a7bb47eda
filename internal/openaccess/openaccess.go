// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openaccess queries the OpenAlex works API for the best known
// free-to-read copy of a paper. The index is trusted as pre-validated:
// a PDF URL it returns is used without a HEAD probe.
package openaccess

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-resolver/internal/httputil"
	"github.com/pdiddy/pdf-resolver/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

const defaultTimeout = 15 * time.Second

// Client looks up open-access copies by DOI.
type Client struct {
	client     *http.Client
	email      string
	userAgent  string
	maxRetries int
	log        *zap.Logger
}

// New builds a Client from config. A nil logger is replaced with a
// no-op one.
func New(cfg types.OpenAccessConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		client:     &http.Client{Timeout: timeout},
		email:      cfg.Email,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		log:        log,
	}
}

// openAlexWork captures the fields we need from an OpenAlex work record.
type openAlexWork struct {
	BestOALocation *openAlexLocation  `json:"best_oa_location"`
	Locations      []openAlexLocation `json:"locations"`
}

type openAlexLocation struct {
	PDFURL     string `json:"pdf_url"`
	LandingURL string `json:"landing_page_url"`
	Version    string `json:"version"`
	Source     *struct {
		DisplayName string `json:"display_name"`
	} `json:"source"`
}

// Lookup queries OpenAlex for a canonical DOI. It returns (nil, nil)
// when the work is unknown or has no open-access location; errors are
// reserved for transport and decoding failures.
func (c *Client) Lookup(ctx context.Context, doi string) (*types.OpenAccessCopy, error) {
	apiURL := openAlexAPIBase + "https://doi.org/" + doi
	if c.email != "" {
		apiURL += "?mailto=" + url.QueryEscape(c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAlex request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	oa := bestCopy(work)
	if oa == nil {
		c.log.Debug("no open-access copy", zap.String("doi", doi))
	}
	return oa, nil
}

// bestCopy picks the copy to report. OpenAlex's best_oa_location wins
// unless its PDF link is a gateway URL, in which case a direct PDF from
// the alternate locations is preferred; gateways 404 too often to trust
// when something better is known.
func bestCopy(work openAlexWork) *types.OpenAccessCopy {
	best := work.BestOALocation
	if best == nil {
		return nil
	}

	pdfURL := best.PDFURL
	if isGatewayURL(pdfURL) {
		for _, loc := range work.Locations {
			if loc.PDFURL != "" && !isGatewayURL(loc.PDFURL) {
				return copyFrom(loc)
			}
		}
	}
	if pdfURL == "" && best.LandingURL == "" {
		return nil
	}
	return copyFrom(*best)
}

func copyFrom(loc openAlexLocation) *types.OpenAccessCopy {
	c := &types.OpenAccessCopy{
		PDFURL:     loc.PDFURL,
		LandingURL: loc.LandingURL,
		Version:    loc.Version,
	}
	if loc.Source != nil {
		c.DisplayName = loc.Source.DisplayName
	}
	return c
}

// gatewayHosts are redirect services whose "PDF" links frequently 404.
var gatewayHosts = map[string]bool{
	"doi.org":        true,
	"dx.doi.org":     true,
	"hdl.handle.net": true,
}

func isGatewayURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if gatewayHosts[strings.ToLower(u.Host)] {
		return true
	}
	return strings.Contains(strings.ToLower(u.Path), "/gateway/")
}
