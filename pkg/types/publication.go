// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Publication is the identifier bundle for one bibliographic record. Any
// subset of the fields may be present.
type Publication struct {
	// DOI is the Digital Object Identifier, with or without a doi.org /
	// "doi:" prefix (canonicalized before use).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArxivID is the arXiv identifier (e.g. "2301.07041").
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Bibcode is the astronomy literature identifier
	// (e.g. "1998ApJ...500..525S").
	Bibcode string `json:"bibcode,omitempty" yaml:"bibcode,omitempty"`

	// ScanURL links a scanned-archive copy when the host application knows
	// one exists for this record. Scans are treated as always accessible.
	ScanURL string `json:"scan_url,omitempty" yaml:"scan_url,omitempty"`
}

// HasIdentifier reports whether any resolvable identifier is present.
func (p Publication) HasIdentifier() bool {
	return p.DOI != "" || p.ArxivID != "" || p.Bibcode != "" || p.ScanURL != ""
}

// SourcePriority selects which class of source the resolver tries first.
type SourcePriority string

const (
	PriorityPreprint  SourcePriority = "preprint"
	PriorityPublisher SourcePriority = "publisher"
)

// Settings holds the user-controlled resolution preferences. Read-only to
// the engine.
type Settings struct {
	// SourcePriority picks preprint-first or publisher-first resolution.
	SourcePriority SourcePriority `json:"source_priority" yaml:"source_priority"`

	// ProxyEnabled turns library-proxy qualification on.
	ProxyEnabled bool `json:"proxy_enabled" yaml:"proxy_enabled"`

	// ProxyURL is the institutional proxy prefix, prepended verbatim to
	// target URLs (e.g. "https://login.proxy.example.edu/login?url=").
	ProxyURL string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty"`
}

// ProxyConfigured reports whether proxy qualification is both enabled and
// usable.
func (s Settings) ProxyConfigured() bool {
	return s.ProxyEnabled && strings.TrimSpace(s.ProxyURL) != ""
}

// PublisherRule describes how to reach PDFs for one DOI prefix.
type PublisherRule struct {
	// Prefix is the DOI prefix the rule covers (e.g. "10.1038").
	Prefix string `json:"prefix" yaml:"prefix"`

	// Name is the publisher display name (e.g. "Nature").
	Name string `json:"name" yaml:"name"`

	// Host is the publisher's landing-page host, used to look up the
	// scraping selector (e.g. "www.nature.com").
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// PDFTemplate constructs a candidate PDF URL from a DOI. Placeholders:
	// {doi} is the full canonical DOI, {suffix} the part after the first
	// slash. Empty when the publisher has no stable URL pattern.
	PDFTemplate string `json:"pdf_template,omitempty" yaml:"pdf_template,omitempty"`

	// PDFSelector is a CSS selector matching the landing page's PDF link,
	// for publishers whose markup is known. Empty falls through to the
	// generic extraction strategies.
	PDFSelector string `json:"pdf_selector,omitempty" yaml:"pdf_selector,omitempty"`

	// RequiresProxy marks publishers that are paywalled for almost all
	// content; validation tries the proxy-qualified URL first.
	RequiresProxy bool `json:"requires_proxy,omitempty" yaml:"requires_proxy,omitempty"`

	// CaptchaRisk marks publishers known to challenge non-browser clients.
	CaptchaRisk bool `json:"captcha_risk,omitempty" yaml:"captcha_risk,omitempty"`

	// SupportsScraping gates the landing-page scraping step.
	SupportsScraping bool `json:"supports_scraping,omitempty" yaml:"supports_scraping,omitempty"`
}

// OpenAccessCopy is the best known free-to-read copy of a paper, as
// reported by the open-access index.
type OpenAccessCopy struct {
	// PDFURL is a direct PDF link, pre-validated by the index. Empty when
	// the index only knows a landing page.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// LandingURL is the copy's landing page, usable as a scrape target.
	LandingURL string `json:"landing_url,omitempty" yaml:"landing_url,omitempty"`

	// DisplayName names the hosting repository (e.g. "PubMed Central").
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	// Version is the copy's version when reported (e.g. "publishedVersion").
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}
